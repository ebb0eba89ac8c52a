// Package logging provides structured logging on top of log/slog.
//
// The level is held in a slog.LevelVar shared by every derived logger, so a
// configuration reload can raise or lower verbosity without rebuilding the
// handler chain.
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	logger.SetDefault()
//	logger.Info("exporter started", "address", addr)
//
// Request-scoped loggers pick up the request ID placed in the context by the
// server middleware:
//
//	logger.WithContext(r.Context()).Info("scrape served")
package logging
