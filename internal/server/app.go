// Package server wires the backend emulator together: storage selection,
// services and the gRPC endpoint, with graceful shutdown on signals.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"

	gs "github.com/dmitrijs2005/notekeeper/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	server *gs.GRPCServer
}

// NewApp opens storage (Postgres when a DSN is configured, memory otherwise),
// applies migrations and builds the gRPC server.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, true, c.LogLevel)

	var repos repomanager.RepositoryManager
	if c.DatabaseDSN != "" {
		pg, err := repomanager.NewPostgresRepositoryManager(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		repos = pg
		logger.Info(ctx, "Using PostgreSQL storage")
	} else {
		repos = repomanager.NewInMemoryRepositoryManager()
		logger.Info(ctx, "Using in-memory storage")
	}

	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	return newApp(c, logger, repos), nil
}

func newApp(c *config.Config, logger logging.Logger, repos repomanager.RepositoryManager) *App {
	as := services.NewAuthService(repos, c)
	ns := services.NewNoteService(repos)

	return &App{
		config: c,
		logger: logger,
		repos:  repos,
		server: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, as, ns),
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if cerr := app.repos.Close(); cerr != nil {
		app.logger.Error(context.Background(), "closing storage", "error", cerr)
	}
	return err
}
