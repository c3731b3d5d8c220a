// Package logger provides structured logging for initkit applications
// using zerolog.
//
// It supports JSON and console output, level configuration, an injectable
// writer, and component-scoped loggers. Fatal emits at fatal severity but
// never exits the process: resolution failures are logged and returned so
// the caller decides what to do.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("initialize")
//	log.Info("resolved", logger.Fields("subject", "Storage"))
package logger
