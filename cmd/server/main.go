package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-gym/internal/app"
	"github.com/vancomm/minesweeper-gym/internal/config"
	"github.com/vancomm/minesweeper-gym/internal/logging"
	"github.com/vancomm/minesweeper-gym/internal/mines"
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	opts := logging.Options{
		Development: config.Development(),
		File:        config.LogFile(),
	}
	log, err := logging.New(opts)
	if err != nil {
		logrus.Fatal(err)
	}
	if err := logging.Setup(mines.Log, opts); err != nil {
		log.Fatal(err)
	}

	log.WithFields(logrus.Fields{
		"development": opts.Development,
		"log_file":    opts.File,
	}).Info("starting up")

	if err := app.New(log).Start(ctx); err != nil {
		log.Fatal("exit reason: ", err)
	}
}
