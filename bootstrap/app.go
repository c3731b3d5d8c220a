package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/initkit/config"
	"github.com/kbukum/initkit/di"
	"github.com/kbukum/initkit/initialize"
	"github.com/kbukum/initkit/logger"
	"github.com/kbukum/initkit/observability"
	"github.com/kbukum/initkit/plugin"
	"github.com/kbukum/initkit/settings"
	"github.com/kbukum/initkit/version"
)

// App represents an initkit process with uniform lifecycle management.
// The type parameter C is the config type, which must satisfy the Config interface.
// Any struct embedding config.ServiceConfig automatically satisfies Config.
//
// Example:
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*MyConfig]) error {
//	    store, err := initialize.LoadOneImplementationBySelectOrder[Storage](ctx, a.Initializer)
//	    ...
//	})
//	app.RunTask(ctx, job)
type App[C Config] struct {
	Name        string
	Version     string
	RunID       string
	Cfg         C
	Container   di.Container
	Logger      *logger.Logger
	Settings    *settings.Registry
	Initializer *initialize.Initializer
	Metrics     *observability.Metrics
	Summary     *Summary

	gracefulTimeout time.Duration
	summaryOut      io.Writer
	onConfigure     []func(ctx context.Context, app *App[C]) error
	shutdowns       []func(ctx context.Context) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, initializes the logger, fills
// the settings registry and builds the Initializer. Everything it builds is
// registered in the DI container under di.Keys.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	runID := uuid.NewString()

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		RunID:           runID,
		Cfg:             cfg,
		Container:       di.NewContainer(),
		gracefulTimeout: 15 * time.Second,
		summaryOut:      os.Stdout,
	}

	// Apply options (may override logger, container, timeout).
	o := resolveOptions(opts)
	if o.container != nil {
		app.Container = o.container
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.summaryOut != nil {
		app.summaryOut = o.summaryOut
	}

	// Logger: use custom if provided, otherwise init from config.
	log := o.logger
	if log == nil {
		logger.Init(&base.Logging)
		log = logger.GetGlobalLogger()
	}
	app.Logger = log.WithFields(logger.Fields(logger.FieldRunID, runID))

	// Instruments are created on the global meter, which forwards to the
	// real provider once startup installs it.
	metrics, err := observability.NewMetrics(observability.Meter(base.Name))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	app.Metrics = metrics

	app.Summary = NewSummary(base.Name, base.Version, runID)

	discoverer := o.discoverer
	if discoverer == nil {
		discoverer = plugin.Default
	}
	if err := app.register(cfg, discoverer); err != nil {
		return nil, err
	}

	app.Settings = di.MustResolve[*settings.Registry](app.Container, di.Keys.Settings)
	app.Summary.TrackSettings(app.Settings.Names())

	in, err := di.Resolve[*initialize.Initializer](app.Container, di.Keys.Initializer)
	if err != nil {
		return nil, err
	}
	app.Initializer = in
	return app, nil
}

// register fills the container. The settings registry is built eagerly from
// the config; the Initializer is built on first resolve from the registered
// logger and metrics.
func (a *App[C]) register(cfg C, discoverer initialize.Discoverer) error {
	singletons := map[string]any{
		di.Keys.Config:  cfg,
		di.Keys.Logger:  a.Logger,
		di.Keys.Metrics: a.Metrics,
	}
	if reg, ok := discoverer.(*plugin.Registry); ok {
		singletons[di.Keys.Plugins] = reg
	}
	for key, v := range singletons {
		if err := a.Container.RegisterSingleton(key, v); err != nil {
			return fmt.Errorf("register %s: %w", key, err)
		}
	}

	err := a.Container.RegisterEager(di.Keys.Settings, func(c di.Container) *settings.Registry {
		log := di.MustResolve[*logger.Logger](c, di.Keys.Logger)
		metrics := di.MustResolve[*observability.Metrics](c, di.Keys.Metrics)
		reg := settings.New(log.WithComponent("settings"), settings.WithMetrics(metrics))
		reg.Set(cfg.GetServiceConfig().Settings)
		return reg
	})
	if err != nil {
		return err
	}

	return a.Container.Register(di.Keys.Initializer, func(c di.Container) (*initialize.Initializer, error) {
		log, err := di.Resolve[*logger.Logger](c, di.Keys.Logger)
		if err != nil {
			return nil, err
		}
		metrics, err := di.Resolve[*observability.Metrics](c, di.Keys.Metrics)
		if err != nil {
			return nil, err
		}
		return initialize.New(discoverer,
			initialize.WithLogger(log.WithComponent("initialize")),
			initialize.WithMetrics(metrics),
			initialize.WithRecorder(a.Summary),
		), nil
	})
}

// OnConfigure registers a callback to run during the configure phase.
// This is where implementations are resolved through a.Initializer.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// Run executes the full lifecycle for long-running processes:
// Observability → OnStart hooks → Configure → OnReady hooks →
// Block on signal → OnStop hooks → Graceful Shutdown.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask executes a finite task with the full bootstrap lifecycle.
// Unlike Run, it does not block on shutdown signals: it runs the task and
// shuts down when the task completes or the context is canceled (for
// example via SIGINT/SIGTERM).
//
// Example:
//
//	app, _ := bootstrap.NewApp(&cfg)
//	app.RunTask(ctx, func(ctx context.Context) error {
//	    return migrate(ctx)
//	})
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanRun)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrRunID, a.RunID)

	if err := a.startup(ctx); err != nil {
		observability.SetSpanError(ctx, err)
		_ = a.stop()
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)
	if taskErr != nil {
		observability.SetSpanError(ctx, taskErr)
	}

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}

	return taskErr
}

// startup performs the common initialization sequence shared by Run and RunTask.
func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
	), version.Get().Fields())

	if err := a.startObservability(ctx); err != nil {
		return fmt.Errorf("observability: %w", err)
	}

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	if err := a.configure(ctx); err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.DisplaySummary()

	return nil
}

// startObservability installs the OTLP tracer and meter providers when
// observability is enabled.
func (a *App[C]) startObservability(ctx context.Context) error {
	base := a.Cfg.GetServiceConfig()
	obs := base.Observability
	if !obs.Enabled {
		return nil
	}

	tp, err := observability.InitTracer(ctx, obs.Tracer(base.Name, base.Version, base.Environment))
	if err != nil {
		return err
	}
	a.shutdowns = append(a.shutdowns, tp.Shutdown)

	mc := obs.Meter(base.Name, base.Version, base.Environment)
	mp, err := observability.InitMeter(ctx, &mc)
	if err != nil {
		return err
	}
	a.shutdowns = append(a.shutdowns, mp.Shutdown)
	return nil
}

// DisplaySummary prints the startup summary.
func (a *App[C]) DisplaySummary() {
	a.Summary.DisplaySummary(a.summaryOut, a.Container)
}

// configure runs registered configuration callbacks.
func (a *App[C]) configure(ctx context.Context) error {
	if len(a.onConfigure) == 0 {
		return nil
	}

	a.Logger.Info("Running configuration callbacks", logger.Fields("count", len(a.onConfigure)))

	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return err
		}
	}

	a.Logger.Info("Configuration complete")
	return nil
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal, graceful shutdown starting", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App[C]) Shutdown(ctx context.Context) error {
	return a.stop()
}

// stop runs the OnStop hooks, closes the container and flushes telemetry
// within the graceful timeout.
func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error

	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.Fields("error", err.Error()))
		shutdownErr = err
	}

	if err := a.Container.Close(); err != nil {
		a.Logger.Error("DI container close error", logger.Fields("error", err.Error()))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		if err := a.shutdowns[i](ctx); err != nil {
			a.Logger.Warn("Telemetry shutdown error", logger.Fields("error", err.Error()))
		}
	}
	a.shutdowns = nil

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}

// LoadAndNew loads the service configuration with config.LoadConfig and
// creates an App from it.
func LoadAndNew(serviceName string, loadOpts []config.LoaderOption, opts ...Option) (*App[*config.ServiceConfig], error) {
	cfg := &config.ServiceConfig{}
	if err := config.LoadConfig(serviceName, cfg, loadOpts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	return NewApp(cfg, opts...)
}
