// Package observability provides the event model used by the message store.
// Store operations describe each lifecycle step as an Event and hand it to an
// Observer, which decides where it goes (slog, a test recorder, nowhere).
// Level values align with OpenTelemetry SeverityNumbers.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level represents event severity aligned with OTel SeverityNumber ranges.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG (5-8)
	LevelInfo    Level = 9  // OTel INFO (9-12)
	LevelWarning Level = 13 // OTel WARN (13-16)
	LevelError   Level = 17 // OTel ERROR (17-20)
)

// SlogLevel maps this level to the corresponding slog.Level.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType names an event, e.g. "saving_message".
type EventType string

// Event is a single structured record. Type becomes the log message and Data
// the key/value fields.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events. OnEvent is called synchronously by the emitter
// and must return before the emitting operation continues.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}
