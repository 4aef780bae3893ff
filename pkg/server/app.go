package server

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"SmartBank/internal/handler/ws"
	"SmartBank/internal/service/ratelimit"
	"SmartBank/internal/usecase"
	"SmartBank/pkg/config"
	xhttp "SmartBank/pkg/http"
	pkgkafka "SmartBank/pkg/kafka"
	applogger "SmartBank/pkg/logger"
	"SmartBank/pkg/queue"
)

const limiterSweepInterval = time.Minute

// Components are the optional parts of the application. Nil members are
// skipped. Clients and producers are closed by the cleanup returned from
// di.InitializeApp, after the app has stopped.
type Components struct {
	Hub          *ws.Hub
	Trades       *usecase.TradeUseCase
	UploadEvents *usecase.UploadEventHandler
	Consumer     *pkgkafka.Consumer
	Queue        *queue.RedisQueue
	Limiter      *ratelimit.Limiter
	LogPublisher applogger.Publisher
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	httpServer *xhttp.Server
	c          Components
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, httpServer *xhttp.Server, c Components) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{cfg: cfg, l: l, httpServer: httpServer, c: c}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts every component and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if a.cfg.Logging.CollectorTopic != "" && a.c.LogPublisher != nil {
		a.l.AddCollector(&applogger.CollectionConfig{
			Source:         "smartbank-" + a.cfg.Environment,
			TimeInterval:   a.cfg.Logging.FlushInterval,
			CountThreshold: 100,
			Topic:          a.cfg.Logging.CollectorTopic,
			Publisher:      a.c.LogPublisher,
		})
		a.l.Info("log collector enabled", applogger.String("topic", a.cfg.Logging.CollectorTopic))
	}

	if a.c.Trades != nil {
		seedCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		if n, err := a.c.Trades.Seed(seedCtx); err != nil {
			a.l.Warn("trade seeding failed", applogger.Error(err))
		} else if n > 0 {
			a.l.Info("sample trades generated", applogger.Int("trades", n))
		}
		cancel()
	}

	if err := a.startEvents(); err != nil {
		return err
	}

	if a.c.Limiter != nil {
		go a.sweepLimiter(ctx)
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("smartbank started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("events", a.cfg.Events.Backend),
		applogger.String("on_empty_result", a.cfg.Series.OnEmptyResult))

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) startEvents() error {
	if a.c.UploadEvents == nil {
		return nil
	}
	if a.c.Consumer != nil {
		a.c.Consumer.RegisterHandler(a.c.UploadEvents)
		if err := a.c.Consumer.Start(); err != nil {
			return err
		}
		a.l.Info("kafka consumer started", applogger.String("topic", a.c.UploadEvents.Topic()))
	}
	if a.c.Queue != nil {
		a.c.Queue.RegisterJobs(a.c.UploadEvents.Job())
		if err := a.c.Queue.Start(); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) sweepLimiter(ctx context.Context) {
	t := time.NewTicker(limiterSweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.c.Limiter.Sweep(); n > 0 {
				a.l.Debug("rate limiter swept", applogger.Int("buckets", n))
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if a.c.Hub != nil {
		_ = a.c.Hub.Close()
	}
	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}
	if a.c.Consumer != nil {
		if err := a.c.Consumer.Stop(ctx); err != nil {
			a.l.Warn("kafka consumer stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if a.c.Queue != nil {
		if err := a.c.Queue.Stop(ctx); err != nil {
			a.l.Warn("redis queue stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	a.l.RemoveCollector()

	a.l.Info("shutdown complete")
	return errors.Join(errs...)
}
