// Package logging provides the process-wide structured logger for sqlfront.
//
// The package wraps [log/slog] and keeps a single global logger that is
// configured once and retrieved with GetLogger. Library code (the parser)
// takes an optional *slog.Logger and falls back to GetLogger, so the CLI
// controls level and destination from one place.
//
// # Initialisation
//
//	if err := logging.Init(logging.Config{Level: logging.LevelDebug, Format: "json"}); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
// If GetLogger is called before Init, an INFO-level text logger on stderr
// is created lazily.
//
// # Context helpers
//
//	log := logging.WithComponent("cli")
//	log := logging.WithOp("convert")
//	log := logging.WithFile("queries/report.sql")
package logging
