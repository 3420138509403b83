// Package logging builds the process logger and keeps attribute names
// consistent between the Habitica client, the export pipeline and commands.
package logging

import (
	"io"
	"log/slog"
	"time"
)

// Common log attribute keys.
const (
	KeyComponent = "component"
	KeyEndpoint  = "endpoint"
	KeyTaskID    = "task_id"
	KeyStatus    = "status"
	KeyDuration  = "duration"
	KeyError     = "error"
)

// New returns a text logger writing to w. Debug lowers the level from Warn to Debug.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// WithComponent returns a logger with the component attribute set.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String(KeyComponent, component))
}

// Endpoint returns a slog attribute for a request path.
func Endpoint(path string) slog.Attr {
	return slog.String(KeyEndpoint, path)
}

// TaskID returns a slog attribute for a task ID.
func TaskID(id string) slog.Attr {
	return slog.String(KeyTaskID, id)
}

// StatusCode returns a slog attribute for an HTTP status code.
func StatusCode(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}

// Duration returns a slog attribute for an elapsed time.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration(KeyDuration, d)
}

// Err returns a slog attribute for an error.
// A nil error yields an empty group, which slog omits.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{Key: KeyError, Value: slog.GroupValue()}
	}
	return slog.String(KeyError, err.Error())
}
