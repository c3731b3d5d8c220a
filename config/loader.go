package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"sigs.k8s.io/yaml"
)

// FileSystem abstracts the file access of the loader (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	ReadFile(path string) ([]byte, error)
	LoadEnv(path string) error
}

// OSFileSystem implements FileSystem on the real file system.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds the config and .env files of a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths. Empty
// means not found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// searchDirs returns the directories searched for a service, most specific
// first.
func searchDirs(serviceName string) []string {
	return []string{"./cmd/" + serviceName, "./config", "."}
}

// ResolveFiles returns the explicit paths from opts, searching for the
// missing ones.
func (cr *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.find(searchDirs(serviceName), "config.yml")
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.find(searchDirs(serviceName), ".env."+serviceName, ".env")
	}
	return resolved
}

// find returns the first existing file. Every directory is tried for a
// name before the next name.
func (cr *Resolver) find(dirs []string, names ...string) string {
	for _, name := range names {
		for _, dir := range dirs {
			p := dir + "/" + name
			if cr.FileSystem.Exists(p) {
				return p
			}
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// LoadConfig loads configuration for a service into cfg. It reads the
// YAML config file and .env file found by the Resolver, binds environment
// variables and unmarshals the result. A cfg implementing SetSettings
// receives the settings section with its names exactly as written.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: OSFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)

	return loadFromResolvedFiles(serviceName, cfg, files, lc.FileSystem)
}

func loadFromResolvedFiles(serviceName string, cfg interface{}, files ResolvedFiles, fs FileSystem) error {
	v := viper.New()
	v.SetConfigType("yaml")

	var data []byte
	if files.ConfigFile != "" && fs.Exists(files.ConfigFile) {
		raw, err := fs.ReadFile(files.ConfigFile)
		if err == nil {
			err = v.ReadConfig(bytes.NewReader(raw))
		}
		if err != nil {
			fmt.Printf("[config] warning: failed to load config file %s: %v\n", files.ConfigFile, err)
		} else {
			data = raw
		}
	}

	// The .env file only sets process variables; binding happens once after.
	if files.EnvFile != "" && fs.Exists(files.EnvFile) {
		if err := fs.LoadEnv(files.EnvFile); err != nil {
			fmt.Printf("[config] warning: failed to load .env file %s: %v\n", files.EnvFile, err)
		}
	}
	v.AutomaticEnv()
	bindEnv(v, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}

	holder, ok := cfg.(settingsHolder)
	if !ok || data == nil {
		return nil
	}
	settings, err := parseSettings(data)
	if err != nil {
		return fmt.Errorf("settings in %s: %w", files.ConfigFile, err)
	}
	if settings != nil {
		holder.SetSettings(settings)
	}
	return nil
}

const settingsEnvPrefix = "SETTINGS_"

// settingsHolder is implemented by configs that embed ServiceConfig.
type settingsHolder interface {
	SetSettings(values map[string]string)
}

// parseSettings reads the settings section of a config file. viper
// lowercases keys, so the section is decoded on its own to keep names as
// written. Scalars are kept in their literal form; nested values are an
// error. Returns nil when there is no settings section.
func parseSettings(data []byte) (map[string]string, error) {
	var doc struct {
		Settings map[string]any `json:"settings"`
	}
	useNumber := func(d *json.Decoder) *json.Decoder {
		d.UseNumber()
		return d
	}
	if err := yaml.Unmarshal(data, &doc, useNumber); err != nil {
		return nil, err
	}
	if doc.Settings == nil {
		return nil, nil
	}

	out := make(map[string]string, len(doc.Settings))
	for name, raw := range doc.Settings {
		switch val := raw.(type) {
		case nil:
			out[name] = ""
		case string:
			out[name] = val
		case json.Number, bool:
			out[name] = fmt.Sprint(val)
		default:
			return nil, fmt.Errorf("setting %s must be a scalar, got %T", name, raw)
		}
	}
	return out, nil
}

// bindEnv sets every environment variable on v under its nested key
// variants, so LOGGING_LEVEL fills logging.level.
func bindEnv(v *viper.Viper, environ []string) {
	for _, env := range environ {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		// Nested variants would shadow the settings map read from the file.
		if strings.HasPrefix(strings.ToUpper(key), settingsEnvPrefix) {
			continue
		}
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants returns the lowercased key, the fully dotted key and one
// variant per split point, where the parts before the split are nested and
// the rest stays a single underscored key:
//
//	OBSERVABILITY_SAMPLE_RATE -> observability_sample_rate,
//	    observability.sample.rate, observability.sample_rate
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) == 1 {
		return []string{lower}
	}

	variants := []string{lower, strings.Join(parts, ".")}
	seen := map[string]bool{variants[0]: true, variants[1]: true}
	for i := 1; i < len(parts)-1; i++ {
		variant := strings.Join(parts[:i], ".") + "." + strings.Join(parts[i:], "_")
		if !seen[variant] {
			seen[variant] = true
			variants = append(variants, variant)
		}
	}
	return variants
}
