package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sigs.k8s.io/yaml"
)

const testConfig = `name: initkit-test
environment: development
logging:
  level: info
  format: json
settings:
  db.url: mem://
  Mode: fast
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(testConfig), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestSettingsGet(t *testing.T) {
	path := writeConfig(t)

	out, errOut, err := execute(t, "--config", path, "settings", "get", "db.url", "Mode")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, errOut)
	}
	if out != "mem://\nfast\n" {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(errOut, "Found: mem:// as: db.url") {
		t.Errorf("expected found log on stderr, got %q", errOut)
	}
}

func TestSettingsGet_NameIsCaseSensitive(t *testing.T) {
	path := writeConfig(t)

	_, _, err := execute(t, "--config", path, "settings", "get", "mode")
	if err == nil || err.Error() != "Setting name: mode not found in SettingsProvider." {
		t.Errorf("expected lowercase lookup of Mode to fail, got %v", err)
	}
}

func TestSettingsGet_Missing(t *testing.T) {
	path := writeConfig(t)

	out, errOut, err := execute(t, "--config", path, "settings", "get", "db.url", "missing")
	if err == nil {
		t.Fatal("expected error for missing setting")
	}
	if err.Error() != "Setting name: missing not found in SettingsProvider." {
		t.Errorf("unexpected error %q", err.Error())
	}
	if out != "mem://\n" {
		t.Errorf("expected values before the failure, got %q", out)
	}
	if !strings.Contains(errOut, "Setting name: missing not found in SettingsProvider.") {
		t.Errorf("expected message on stderr, got %q", errOut)
	}
}

func TestSettingsGet_RequiresName(t *testing.T) {
	if _, _, err := execute(t, "settings", "get"); err == nil {
		t.Fatal("expected argument error")
	}
}

func TestSettingsList(t *testing.T) {
	path := writeConfig(t)

	tests := []struct {
		name   string
		format string
		check  func(t *testing.T, out string)
	}{
		{"table", "table", func(t *testing.T, out string) {
			for _, want := range []string{"NAME", "VALUE", "db.url", "mem://", "Mode", "fast"} {
				if !strings.Contains(out, want) {
					t.Errorf("table missing %q:\n%s", want, out)
				}
			}
			if strings.Index(out, "Mode") > strings.Index(out, "db.url") {
				t.Errorf("expected sorted rows:\n%s", out)
			}
		}},
		{"yaml", "yaml", func(t *testing.T, out string) {
			got := map[string]string{}
			if err := yaml.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("invalid yaml: %v", err)
			}
			if got["db.url"] != "mem://" || got["Mode"] != "fast" {
				t.Errorf("unexpected settings %v", got)
			}
		}},
		{"json", "json", func(t *testing.T, out string) {
			got := map[string]string{}
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if len(got) != 2 {
				t.Errorf("expected 2 settings, got %v", got)
			}
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, errOut, err := execute(t, "--config", path, "settings", "list", "-o", tc.format)
			if err != nil {
				t.Fatalf("unexpected error: %v\n%s", err, errOut)
			}
			tc.check(t, out)
		})
	}
}

func TestSettingsList_UnknownFormat(t *testing.T) {
	path := writeConfig(t)
	_, _, err := execute(t, "--config", path, "settings", "list", "-o", "xml")
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("expected format error, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version", "-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := map[string]any{}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := got["version"]; !ok {
		t.Errorf("expected version field, got %v", got)
	}
}

func TestEncodeSettings_Empty(t *testing.T) {
	data, err := encodeSettings(EncodingJSON, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(string(data)) != "{}" {
		t.Errorf("expected empty object, got %q", data)
	}
}
