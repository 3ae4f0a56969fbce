package feed

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/livefeed/core/broadcast"
	"github.com/dmitrymomot/livefeed/core/config"
	"github.com/dmitrymomot/livefeed/core/generator"
	"github.com/dmitrymomot/livefeed/core/logger"
	"github.com/dmitrymomot/livefeed/core/server"
	"github.com/dmitrymomot/livefeed/integration/prometheus"
)

// App wires the message queue, the periodic generator, the stream
// transports and the HTTP server.
type App struct {
	config    Config
	logger    *slog.Logger
	now       func() time.Time
	queue     *broadcast.Broadcaster[generator.Payload]
	generator *generator.Generator
	genOpts   []generator.Option
	server    *server.Server
	registry  *prom.Registry
	handler   http.Handler
}

// Option configures an App.
type Option func(*App) error

// NewFromEnv loads Config from the environment (and .env) and builds the App.
func NewFromEnv(opts ...Option) (*App, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// New builds the App from cfg. It fails on invalid configuration.
func New(cfg Config, opts ...Option) (*App, error) {
	app := &App{
		config: cfg,
		now:    time.Now,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = newLogger(cfg)
	}

	queue, err := broadcast.NewFromConfig[generator.Payload](cfg.Broadcast,
		broadcast.WithLogger(app.logger),
		broadcast.WithClock(app.now),
	)
	if err != nil {
		return nil, err
	}
	app.queue = queue

	genOpts := append([]generator.Option{
		generator.WithLogger(app.logger),
		generator.WithClock(app.now),
	}, app.genOpts...)
	gen, err := generator.New(queue, genOpts...)
	if err != nil {
		return nil, err
	}
	app.generator = gen

	if app.server == nil {
		s, err := server.NewFromConfig(cfg.Server, server.WithLogger(app.logger))
		if err != nil {
			return nil, err
		}
		app.server = s
	}

	if cfg.MetricsEnabled {
		reg, err := prometheus.NewRegistry(prometheus.NewCollector("", queue, gen))
		if err != nil {
			return nil, err
		}
		app.registry = reg
	}

	app.handler = app.routes()

	return app, nil
}

// WithLogger replaces the logger built from Config.
func WithLogger(l *slog.Logger) Option {
	return func(app *App) error {
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = l
		return nil
	}
}

// WithServer replaces the server built from Config.Server.
func WithServer(s *server.Server) Option {
	return func(app *App) error {
		if s == nil {
			return errors.New("server cannot be nil")
		}
		app.server = s
		return nil
	}
}

// WithClock sets the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(app *App) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		app.now = now
		return nil
	}
}

// WithGeneratorOptions passes extra options to the generator.
func WithGeneratorOptions(opts ...generator.Option) Option {
	return func(app *App) error {
		app.genOpts = append(app.genOpts, opts...)
		return nil
	}
}

// Handler returns the HTTP handler with all routes mounted.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Queue returns the broadcaster that fans messages out to stream clients.
func (a *App) Queue() *broadcast.Broadcaster[generator.Payload] {
	return a.queue
}

// Generator returns the periodic message generator.
func (a *App) Generator() *generator.Generator {
	return a.generator
}

// Addr returns the server's bound address once it is listening.
func (a *App) Addr() string {
	return a.server.Addr()
}

// Ready is closed once the server is listening.
func (a *App) Ready() <-chan struct{} {
	return a.server.Ready()
}

// Run serves HTTP and, when configured, runs the generator until ctx is
// canceled or a component fails. The generator is always stopped on return.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(a.server.Run(ctx, a.handler))

	if a.config.Generator.AutoStart {
		g.Go(a.generator.Run(ctx, a.interval()))
	}

	g.Go(func() error {
		<-ctx.Done()
		a.generator.Stop()
		return nil
	})

	a.logger.InfoContext(ctx, "application started",
		slog.String("app", a.config.AppName),
		logger.Version(a.config.AppVersion),
		logger.Addr(a.config.Server.Addr),
	)

	err := g.Wait()

	a.logger.Info("application stopped", logger.Key("queue", a.queue.Stats()))
	return err
}

func (a *App) interval() time.Duration {
	if a.config.Generator.Interval > 0 {
		return a.config.Generator.Interval
	}
	return generator.DefaultInterval
}

func newLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{logger.WithDevelopment(cfg.AppName)}
	if cfg.isProduction() {
		opts = []logger.Option{logger.WithProduction(cfg.AppName)}
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	}
	return logger.New(opts...)
}
