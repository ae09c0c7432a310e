package config

import (
	"fmt"
	"os"
	"strconv"
)

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

// Addr is the listen address built from APP_PORT, ":8080" when unset.
func Addr() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return ":8080"
	}
	return ":" + port
}

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

// MaxEnvs caps the number of hosted environments; 0 means unlimited.
func MaxEnvs() (int, error) {
	s, ok := os.LookupEnv("APP_MAX_ENVS")
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("APP_MAX_ENVS must be a non-negative int, got %q", s)
	}
	return n, nil
}
