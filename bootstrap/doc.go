// Package bootstrap orchestrates the startup of an initkit process.
//
// NewApp turns a validated config into a logger, a settings registry filled
// from the settings section and an Initializer over the plugin registry, all
// registered in a DI container. RunTask then runs the configure callbacks,
// where implementations are resolved, executes the task and shuts down.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*config.ServiceConfig]) error {
//	    storage, err = initialize.LoadOneImplementationBySelectOrder[Storage](ctx, a.Initializer)
//	    return err
//	})
//	return app.RunTask(ctx, job)
//
// Each App carries a random run ID that is added to every log line and to the
// run span.
package bootstrap
