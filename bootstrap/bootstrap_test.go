package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/initkit/config"
	"github.com/kbukum/initkit/di"
	"github.com/kbukum/initkit/errors"
	"github.com/kbukum/initkit/initialize"
	"github.com/kbukum/initkit/plugin"
	"github.com/kbukum/initkit/settings"
	"github.com/kbukum/initkit/testutil"
)

// testConfig is a minimal config for testing that satisfies the Config interface.
type testConfig struct {
	config.ServiceConfig
}

type store interface {
	initialize.Orderable
	Kind() string
}

type memStore struct{ order int }

func (m *memStore) SelectOrder() int { return m.order }
func (m *memStore) Kind() string     { return "mem" }

type diskStore struct{ order int }

func (d *diskStore) SelectOrder() int { return d.order }
func (d *diskStore) Kind() string     { return "disk" }

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
			Settings:    map[string]string{"db.url": "mem://", "mode": "fast"},
		},
	}
}

type fixture struct {
	app     *App[*testConfig]
	rec     *testutil.LogRecorder
	plugins *plugin.Registry
	out     *bytes.Buffer
}

func newFixture(t *testing.T, impls ...any) *fixture {
	t.Helper()
	log, rec := testutil.NewLogRecorder()
	plugins := plugin.NewRegistry()
	for _, impl := range impls {
		plugins.Register(impl)
	}
	out := &bytes.Buffer{}
	app, err := NewApp(newTestConfig("test-svc", "1.0.0"),
		WithLogger(log),
		WithDiscoverer(plugins),
		WithSummaryOutput(out),
		WithGracefulTimeout(time.Second),
	)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return &fixture{app: app, rec: rec, plugins: plugins, out: out}
}

func TestNewApp(t *testing.T) {
	f := newFixture(t)
	app := f.app
	if app.Name != "test-svc" {
		t.Errorf("expected name 'test-svc', got %q", app.Name)
	}
	if app.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", app.Version)
	}
	if app.RunID == "" {
		t.Error("expected a run id")
	}
	if app.Settings == nil || app.Initializer == nil || app.Metrics == nil || app.Summary == nil {
		t.Fatal("expected settings, initializer, metrics and summary to be built")
	}
}

func TestNewApp_ValidationError(t *testing.T) {
	cfg := &testConfig{}
	if _, err := NewApp(cfg); err == nil {
		t.Fatal("expected validation error for empty name")
	}
}

func TestNewApp_InvalidSettingName(t *testing.T) {
	cfg := newTestConfig("svc", "1")
	cfg.Settings["Bad Name"] = "x"
	if _, err := NewApp(cfg, WithSummaryOutput(&bytes.Buffer{})); err == nil {
		t.Fatal("expected validation error for setting name")
	}
}

func TestNewApp_SettingsFromConfig(t *testing.T) {
	f := newFixture(t)

	v, err := f.app.Settings.Get("db.url")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != "mem://" {
		t.Errorf("expected mem://, got %q", v)
	}
	testutil.T(t).AssertMessages(f.rec, "info", "Found: mem:// as: db.url")

	_, err = f.app.Settings.Get("missing")
	if !errors.HasCode(err, errors.ErrCodeSettingNotFound) {
		t.Errorf("expected SETTING_NOT_FOUND, got %v", err)
	}
}

func TestNewApp_RegistersComponents(t *testing.T) {
	f := newFixture(t)

	modes := map[string]di.RegistrationMode{}
	for _, r := range f.app.Container.Registrations() {
		if !r.Initialized {
			t.Errorf("expected %q to be initialized after NewApp", r.Key)
		}
		modes[r.Key] = r.Mode
	}
	want := map[string]di.RegistrationMode{
		di.Keys.Config:      di.Singleton,
		di.Keys.Logger:      di.Singleton,
		di.Keys.Metrics:     di.Singleton,
		di.Keys.Plugins:     di.Singleton,
		di.Keys.Settings:    di.Eager,
		di.Keys.Initializer: di.Lazy,
	}
	for key, mode := range want {
		got, ok := modes[key]
		if !ok {
			t.Errorf("expected %q to be registered", key)
			continue
		}
		if got != mode {
			t.Errorf("%s: expected %s registration, got %s", key, mode, got)
		}
	}

	if reg := di.MustResolve[*settings.Registry](f.app.Container, di.Keys.Settings); reg != f.app.Settings {
		t.Error("expected the app's settings registry")
	}
	in, err := di.Resolve[*initialize.Initializer](f.app.Container, di.Keys.Initializer)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if in != f.app.Initializer {
		t.Error("expected the lazy initializer to be built once")
	}
}

func TestNewApp_CustomDiscovererNotRegisteredAsPlugins(t *testing.T) {
	d := initialize.DiscovererFunc(func(reflect.Type) iter.Seq[any] { return func(func(any) bool) {} })
	app, err := NewApp(newTestConfig("svc", "1"), WithDiscoverer(d), WithSummaryOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	for _, r := range app.Container.Registrations() {
		if r.Key == di.Keys.Plugins {
			t.Error("plugins should only be registered for a plugin registry")
		}
	}
}

func TestRunTask_ResolvesThroughInitializer(t *testing.T) {
	f := newFixture(t, &memStore{order: 1}, &diskStore{order: 5})

	var chosen store
	f.app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		s, err := initialize.LoadOneImplementationBySelectOrder[store](ctx, a.Initializer)
		chosen = s
		return err
	})

	var ran bool
	err := f.app.RunTask(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if !ran {
		t.Error("expected task to run")
	}
	if chosen == nil || chosen.Kind() != "disk" {
		t.Fatalf("expected disk store, got %v", chosen)
	}

	rs := f.app.Summary.Resolutions()
	if len(rs) != 1 || rs[0].Subject != "store" || rs[0].Chosen[0] != "*bootstrap.diskStore" {
		t.Errorf("unexpected resolutions %+v", rs)
	}
	testutil.T(t).AssertCount(f.rec, "info", "Using *bootstrap.diskStore as store implementation.", 1)

	out := f.out.String()
	if !strings.Contains(out, "store [select_order] → *bootstrap.diskStore") {
		t.Errorf("summary missing resolution:\n%s", out)
	}
	if !strings.Contains(out, "db.url") {
		t.Errorf("summary missing settings:\n%s", out)
	}
}

func TestRunTask_ConfigureFailure(t *testing.T) {
	f := newFixture(t)

	f.app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		_, err := initialize.LoadTheOnlyExistingImplementation[store](ctx, a.Initializer)
		return err
	})

	ran := false
	err := f.app.RunTask(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err == nil {
		t.Fatal("expected configure error")
	}
	if !errors.HasCode(err, errors.ErrCodeNoImplementation) {
		t.Errorf("expected NO_IMPLEMENTATION, got %v", err)
	}
	if ran {
		t.Error("task must not run when configuration fails")
	}
	testutil.T(t).AssertMessages(f.rec, "fatal", "No implementations found for: store")
}

func TestRunTask_TaskError(t *testing.T) {
	f := newFixture(t)
	want := fmt.Errorf("task failed")

	err := f.app.RunTask(context.Background(), func(ctx context.Context) error {
		return want
	})
	if err != want {
		t.Errorf("expected task error, got %v", err)
	}
}

func TestRunTask_HookOrder(t *testing.T) {
	f := newFixture(t)

	var order []string
	record := func(name string) Hook {
		return func(ctx context.Context) error {
			order = append(order, name)
			return nil
		}
	}
	f.app.OnStart(record("start"))
	f.app.OnReady(record("ready"))
	f.app.OnStop(record("stop"))
	f.app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		order = append(order, "configure")
		return nil
	})

	err := f.app.RunTask(context.Background(), func(ctx context.Context) error {
		order = append(order, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}

	want := []string{"start", "configure", "ready", "task", "stop"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("expected order %v, got %v", want, order)
	}
}

func TestRunTask_StartHookError(t *testing.T) {
	f := newFixture(t)
	stopped := false
	f.app.OnStart(func(ctx context.Context) error { return fmt.Errorf("boom") })
	f.app.OnStop(func(ctx context.Context) error {
		stopped = true
		return nil
	})

	err := f.app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "onStart hook failed") {
		t.Errorf("expected onStart error, got %v", err)
	}
	if !stopped {
		t.Error("expected stop hooks to run after a failed startup")
	}
}

func TestRun_ContextCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	testutil.T(t).AssertCount(f.rec, "info", "Application shutdown complete", 1)
}

func TestShutdown_StopHookError(t *testing.T) {
	f := newFixture(t)
	f.app.OnStop(func(ctx context.Context) error { return fmt.Errorf("stop failed") })

	if err := f.app.Shutdown(context.Background()); err == nil {
		t.Error("expected stop hook error")
	}
}

func TestLoadAndNew(t *testing.T) {
	fs := memFS{"/etc/initkit/config.yml": "settings:\n  Storage.Mode: disk\n"}
	log, rec := testutil.NewLogRecorder()
	app, err := LoadAndNew("loaded-svc",
		[]config.LoaderOption{config.WithFileSystem(fs), config.WithConfigFile("/etc/initkit/config.yml")},
		WithLogger(log),
		WithSummaryOutput(&bytes.Buffer{}),
	)
	if err != nil {
		t.Fatalf("LoadAndNew failed: %v", err)
	}
	if app.Name != "loaded-svc" {
		t.Errorf("expected name from service name, got %q", app.Name)
	}

	v, err := app.Settings.Get("Storage.Mode")
	if err != nil || v != "disk" {
		t.Errorf("expected setting name as written, got %q, %v", v, err)
	}
	testutil.T(t).AssertMessages(rec, "fatal")
}

// memFS serves config files from memory.
type memFS map[string]string

func (m memFS) Exists(path string) bool { _, ok := m[path]; return ok }
func (m memFS) LoadEnv(string) error    { return nil }
func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(data), nil
}
