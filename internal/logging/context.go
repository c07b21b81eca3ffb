package logging

import "log/slog"

// WithComponent returns a logger tagged with a subsystem name.
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithOp returns a logger tagged with the operation being performed.
//
//	log := logging.WithOp("analyze")
//	log.Debug("analysis finished", "findings", n)
func WithOp(op string) *slog.Logger {
	return GetLogger().With("op", op)
}

// WithFile returns a logger tagged with the SQL source file being processed.
func WithFile(path string) *slog.Logger {
	return GetLogger().With("file", path)
}

// WithError returns a logger carrying err as a structured field.
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}
