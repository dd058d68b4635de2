package filestore

import (
	"context"
	"time"

	"github.com/tailored-agentic-units/msgstore/observability"
)

// Store event types, one per lifecycle step of Save and Read.
const (
	EventSavingMessage    observability.EventType = "saving_message"
	EventSavedMessage     observability.EventType = "saved_message"
	EventReadingMessage   observability.EventType = "reading_message"
	EventMessageNotFound  observability.EventType = "message_not_found"
	EventReturningMessage observability.EventType = "returning_message"
)

const eventSource = "filestore"

// Logger turns store lifecycle steps into info-level events. Each call emits
// exactly one event before returning.
type Logger struct {
	observer observability.Observer
	now      func() time.Time
}

// NewLogger creates a Logger that emits to observer. A nil observer discards
// events.
func NewLogger(observer observability.Observer) *Logger {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	return &Logger{observer: observer, now: time.Now}
}

// SavingMessage reports that message is about to be written for id.
func (l *Logger) SavingMessage(ctx context.Context, id MessageID, message string) {
	l.emit(ctx, EventSavingMessage, map[string]any{
		"message_id": uint64(id),
		"message":    message,
	})
}

// SavedMessage reports that the file and cache for id were updated.
func (l *Logger) SavedMessage(ctx context.Context, id MessageID) {
	l.emit(ctx, EventSavedMessage, map[string]any{"message_id": uint64(id)})
}

// ReadingMessage reports the start of a read of id.
func (l *Logger) ReadingMessage(ctx context.Context, id MessageID) {
	l.emit(ctx, EventReadingMessage, map[string]any{"message_id": uint64(id)})
}

// MessageNotFound reports that no file exists for id.
func (l *Logger) MessageNotFound(ctx context.Context, id MessageID) {
	l.emit(ctx, EventMessageNotFound, map[string]any{"message_id": uint64(id)})
}

// ReturningMessage reports the message a read of id returns.
func (l *Logger) ReturningMessage(ctx context.Context, id MessageID, message string) {
	l.emit(ctx, EventReturningMessage, map[string]any{
		"message_id": uint64(id),
		"message":    message,
	})
}

func (l *Logger) emit(ctx context.Context, eventType observability.EventType, data map[string]any) {
	l.observer.OnEvent(ctx, observability.Event{
		Type:      eventType,
		Level:     observability.LevelInfo,
		Timestamp: l.now(),
		Source:    eventSource,
		Data:      data,
	})
}
