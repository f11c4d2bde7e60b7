// Package logging provides structured logging for sundim.
//
// It wraps Go's standard log/slog package so every component logs with
// consistent default fields and level filtering.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # text, json
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("brightness applied", "device", "laptop", "percent", 62)
//	logger.Warn("readback drift detected", "device", "monitor-1", "drift", 14)
package logging
