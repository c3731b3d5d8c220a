package settings

import (
	"fmt"
	"slices"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/kbukum/initkit/errors"
	"github.com/kbukum/initkit/observability"
	"github.com/kbukum/initkit/testutil"
)

func TestGet_LogsFoundOnce(t *testing.T) {
	log, rec := testutil.NewLogRecorder()
	reg := New(log)
	reg.Set(map[string]string{"k": "v"})

	for range 3 {
		v, err := reg.Get("k")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != "v" {
			t.Errorf("expected v, got %q", v)
		}
	}
	testutil.T(t).AssertMessages(rec, "info", "Found: v as: k")
	testutil.T(t).AssertMessages(rec, "fatal")
}

func TestGet_MissingBeforeSet(t *testing.T) {
	log, rec := testutil.NewLogRecorder()
	reg := New(log)

	v, err := reg.Get("missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if v != "" {
		t.Errorf("expected empty value, got %q", v)
	}
	want := "Setting name: missing not found in SettingsProvider."
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
	if !errors.HasCode(err, errors.ErrCodeSettingNotFound) {
		t.Errorf("expected SETTING_NOT_FOUND, got %v", err)
	}
	testutil.T(t).AssertCount(rec, "fatal", want, 1)
	testutil.T(t).AssertMessages(rec, "info")
}

func TestGet_MissingFailsEveryTime(t *testing.T) {
	log, rec := testutil.NewLogRecorder()
	reg := New(log)
	reg.Set(map[string]string{"a": "1"})

	for range 2 {
		if _, err := reg.Get("b"); err == nil {
			t.Fatal("expected error")
		}
	}
	testutil.T(t).AssertCount(rec, "fatal", "Setting name: b not found in SettingsProvider.", 2)
}

func TestSet(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"nil", nil},
		{"empty", map[string]string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log, _ := testutil.NewLogRecorder()
			reg := New(log)
			reg.Set(map[string]string{"k": "v"})
			reg.Set(tc.values)
			if _, err := reg.Get("k"); err == nil {
				t.Error("Set must replace the mapping wholesale")
			}
			if len(reg.Names()) != 0 {
				t.Errorf("expected no names, got %v", reg.Names())
			}
		})
	}
}

func TestSet_CopiesInput(t *testing.T) {
	log, _ := testutil.NewLogRecorder()
	reg := New(log)
	in := map[string]string{"k": "v"}
	reg.Set(in)
	in["k"] = "changed"
	in["extra"] = "x"

	if v, _ := reg.Get("k"); v != "v" {
		t.Errorf("registry must not alias the caller's map, got %q", v)
	}
	if _, err := reg.Get("extra"); err == nil {
		t.Error("expected extra to be absent")
	}
}

func TestSet_KeepsLogOnceAcrossReplacement(t *testing.T) {
	log, rec := testutil.NewLogRecorder()
	reg := New(log)
	reg.Set(map[string]string{"k": "v"})
	_, _ = reg.Get("k")
	reg.Set(map[string]string{"k": "w"})
	_, _ = reg.Get("k")

	testutil.T(t).AssertMessages(rec, "info", "Found: v as: k")
}

func TestReset(t *testing.T) {
	log, rec := testutil.NewLogRecorder()
	reg := New(log)
	reg.Set(map[string]string{"k": "v"})
	_, _ = reg.Get("k")

	reg.Reset()
	if _, err := reg.Get("k"); err == nil {
		t.Fatal("expected Reset to clear the mapping")
	}

	reg.Set(map[string]string{"k": "v"})
	_, _ = reg.Get("k")
	testutil.T(t).AssertCount(rec, "info", "Found: v as: k", 2)
}

func TestResetLogged(t *testing.T) {
	log, rec := testutil.NewLogRecorder()
	reg := New(log)
	reg.Set(map[string]string{"k": "v"})
	_, _ = reg.Get("k")
	reg.ResetLogged()
	v, err := reg.Get("k")
	if err != nil || v != "v" {
		t.Fatalf("ResetLogged must keep the mapping, got %q, %v", v, err)
	}
	testutil.T(t).AssertCount(rec, "info", "Found: v as: k", 2)
}

func TestNames(t *testing.T) {
	reg := New(nil)
	reg.Set(map[string]string{"b": "2", "a": "1", "c": "3"})
	if got := reg.Names(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("expected sorted names, got %v", got)
	}
}

func TestSnapshot(t *testing.T) {
	log, rec := testutil.NewLogRecorder()
	reg := New(log)
	reg.Set(map[string]string{"k": "v"})

	snap := reg.Snapshot()
	snap["k"] = "changed"
	testutil.T(t).AssertNoLogs(rec)

	if v, _ := reg.Get("k"); v != "v" {
		t.Errorf("snapshot must be a copy, got %q", v)
	}
	testutil.T(t).AssertMessages(rec, "info", "Found: v as: k")
}

func TestMustGet(t *testing.T) {
	log, _ := testutil.NewLogRecorder()
	reg := New(log)
	reg.Set(map[string]string{"k": "v"})
	if reg.MustGet("k") != "v" {
		t.Error("expected v")
	}

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.HasCode(err, errors.ErrCodeSettingNotFound) {
			t.Errorf("expected SETTING_NOT_FOUND panic, got %v", r)
		}
	}()
	reg.MustGet("missing")
}

func TestWithMetrics(t *testing.T) {
	metrics, err := observability.NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	log, _ := testutil.NewLogRecorder()
	reg := New(log, WithMetrics(metrics))
	reg.Set(map[string]string{"k": "v"})
	_, _ = reg.Get("k")
	_, _ = reg.Get("missing")
}

func TestConcurrentAccess(t *testing.T) {
	log, rec := testutil.NewLogRecorder()
	reg := New(log)
	reg.Set(map[string]string{"k": "v"})

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%5 == 0 {
				reg.Set(map[string]string{"k": "v", fmt.Sprint("n", i): "x"})
			}
			_, _ = reg.Get("k")
			_ = reg.Names()
		}()
	}
	wg.Wait()
	testutil.T(t).AssertCount(rec, "info", "Found: v as: k", 1)
}
