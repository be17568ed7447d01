package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	drepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/usecase"
	"MarketLens/pkg/cache"
	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	collector  *usecase.QuoteCollector
	scheduler  *usecase.Scheduler
	store      cache.Service
	publisher  drepo.EventPublisher
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	collector *usecase.QuoteCollector,
	scheduler *usecase.Scheduler,
	store cache.Service,
	publisher drepo.EventPublisher,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		handler:   handler,
		collector: collector,
		scheduler: scheduler,
		store:     store,
		publisher: publisher,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler, a.logger,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if a.cfg.Providers.Broker.StreamEnabled {
		if err := a.collector.Start(ctx); err != nil {
			// stale quotes still flow via the scheduler; keep booting
			a.logger.Error("quote collector start failed", applogger.Error(err))
		} else {
			a.logger.Info("quote collector started")
		}
	}

	if err := a.scheduler.Start(ctx); err != nil {
		a.logger.Error("scheduler start failed", applogger.Error(err))
		return err
	}
	a.logger.Info("scheduler started",
		applogger.Int("batch_size", a.cfg.Scheduler.BatchSize),
		applogger.Duration("interval", a.cfg.Scheduler.RefreshInterval))

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start failed", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	a.scheduler.Stop()

	if a.cfg.Providers.Broker.StreamEnabled {
		if err := a.collector.Stop(); err != nil {
			a.logger.Warn("quote collector stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.publisher.Close(); err != nil {
		a.logger.Warn("publisher close error", applogger.Error(err))
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("cache close error", applogger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
