// Package validation checks configuration before it is used.
//
// Struct tags are checked with go-playground/validator and reported by their
// mapstructure key:
//
//	type Config struct {
//	    Level string `mapstructure:"level" validate:"required,oneof=debug info"`
//	}
//	err := validation.Validate(cfg)
//
// Rules that tags cannot express are collected programmatically:
//
//	err := validation.New().
//	    Required("name", cfg.Name).
//	    OneOf("environment", cfg.Environment, envs).
//	    Err()
package validation
