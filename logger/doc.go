// Package logger provides structured logging for the harness on top of
// zerolog.
//
// Loggers are plain values constructed by the caller and passed into the
// components that need them. There is no package-level logger: a component
// that logs takes a *Logger in its constructor.
//
//	log := logger.NewDefault("checkout-tests")
//	client, err := httpclient.New(cfg, log)
package logger
