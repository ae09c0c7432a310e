package logging

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

type Options struct {
	Development bool
	// File enables a rotating JSON log file next to the console output.
	File string
}

func New(opts Options) (*logrus.Logger, error) {
	log := logrus.New()
	if err := Setup(log, opts); err != nil {
		return nil, err
	}
	return log, nil
}

// Setup configures an existing logger, such as the package-level
// [mines.Log].
func Setup(log *logrus.Logger, opts Options) error {
	logLevel := logrus.InfoLevel
	if opts.Development {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)

	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:   opts.Development,
		FullTimestamp: true,
	})

	if opts.File == "" {
		return nil
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   opts.File,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Level:      logLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return fmt.Errorf("unable to create log file hook: %w", err)
	}
	log.AddHook(hook)

	return nil
}
