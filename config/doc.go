// Package config loads initkit configuration.
//
// It uses Viper to read config.yml from the standard search paths (or an
// explicit file), loads a .env file with godotenv, and binds environment
// variables to nested keys (LOGGING_LEVEL sets logging.level).
//
// # Usage
//
//	var cfg config.ServiceConfig
//	err := config.LoadConfig("initkit", &cfg, config.WithConfigFile(path))
//	cfg.ApplyDefaults()
//	err = cfg.Validate()
//
// It searches ./cmd/<service>, ./config and the working directory, in that
// order.
//
// The settings section is a flat map of names to scalar values. It is
// decoded apart from the rest of the file, so names keep their dots and
// their case and lookups must match them exactly.
package config
