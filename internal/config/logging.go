package config

import "os"

// LogFile is the path of the rotating log file, empty when logging to
// stderr only.
func LogFile() string {
	return os.Getenv("LOG_FILE")
}
