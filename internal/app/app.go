package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-gym/internal/config"
	"github.com/vancomm/minesweeper-gym/internal/database"
	"github.com/vancomm/minesweeper-gym/internal/middleware"
	"github.com/vancomm/minesweeper-gym/internal/registry"
)

type App struct {
	log      *logrus.Logger
	router   *http.ServeMux
	db       *pgxpool.Pool
	registry *registry.Registry
	ws       *config.WebSocket
}

func New(log *logrus.Logger) *App {
	return &App{
		log:    log,
		router: http.NewServeMux(),
		ws:     config.NewWebSocket(),
	}
}

// setup connects the optional episode log and builds the registry.
func (a *App) setup(ctx context.Context) error {
	db, err := database.ConnectAndMigrate(ctx)
	switch {
	case errors.Is(err, config.ErrNoDatabase):
		a.log.Warn("no database configured, episode log disabled")
	case err != nil:
		return fmt.Errorf("unable to connect to db: %w", err)
	default:
		a.db = db
	}

	maxEnvs, err := config.MaxEnvs()
	if err != nil {
		return err
	}
	a.registry = registry.New(a.log, maxEnvs)

	a.loadRoutes()
	return nil
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Logging(a.log),
		middleware.Cors(),
	)
}

func (a *App) Start(ctx context.Context) error {
	if err := a.setup(ctx); err != nil {
		return err
	}
	if a.db != nil {
		defer a.db.Close()
	}

	addr := config.Addr()
	server := &http.Server{
		Addr:    addr,
		Handler: a.Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	a.log.Infof("ready to serve @ %s", addr)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
