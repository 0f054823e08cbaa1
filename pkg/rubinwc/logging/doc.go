// Package logging provides a minimal logging facade for the shim's
// tooling: the self-test monitor, the CLI, and key management commands.
//
// The package defines a Logger interface over a subset of log/slog so
// applications can supply custom implementations for testing, redaction,
// or integration with an existing logging stack:
//
//	// Use slog.Default()
//	logger := logging.New(nil)
//
//	// Or a custom handler
//	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})
//	logger := logging.New(slog.New(handler))
//
// # Redaction
//
// Key material must never appear in logs. Redacted marks an attribute
// whose value was deliberately removed:
//
//	logger.Info(ctx, "keystore opened",
//	    "key_id", rec.KeyIDHex,
//	    logging.Redacted("kek"),
//	)
//	// Logs: key_id=4ac5... kek="[redacted]"
//
// Key identifiers (SHA3-256 of a public key) and digests are safe to log;
// KEKs, wrapped payload plaintexts, and seeds are not.
package logging
