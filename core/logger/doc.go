// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production).
//
// # Pass Correlation
//
// Sync passes are long-running and interleave with the status server's logs.
// The WithPass helper attaches a pass_id field to the logger so every entry
// produced by one pass can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Sync started")
//
//	// In a sync pass:
//	l := logger.WithPass(log, passID)
//	l.Warn("Skipping malformed record", zap.Error(err))
package logger
