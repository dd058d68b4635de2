package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/tailored-agentic-units/msgstore/observability"
)

func TestLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level observability.Level
		want  slog.Level
	}{
		{name: "verbose maps to Debug", level: observability.LevelVerbose, want: slog.LevelDebug},
		{name: "info maps to Info", level: observability.LevelInfo, want: slog.LevelInfo},
		{name: "warning maps to Warn", level: observability.LevelWarning, want: slog.LevelWarn},
		{name: "error maps to Error", level: observability.LevelError, want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.SlogLevel(); got != tt.want {
				t.Errorf("Level(%d).SlogLevel() = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestNoOpObserver(t *testing.T) {
	obs := observability.NoOpObserver{}
	obs.OnEvent(context.Background(), observability.Event{
		Type:  "saving_message",
		Level: observability.LevelInfo,
		Data:  map[string]any{"message_id": uint64(1)},
	})
}

func TestMultiObserver(t *testing.T) {
	rec1 := observability.NewRecorder()
	rec2 := observability.NewRecorder()

	multi := observability.NewMultiObserver(rec1, nil, observability.NoOpObserver{}, rec2)
	if got := multi.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	multi.OnEvent(context.Background(), observability.Event{
		Type:  "reading_message",
		Level: observability.LevelInfo,
	})

	if got := len(rec1.Events()); got != 1 {
		t.Errorf("observer 1 received %d events, want 1", got)
	}
	if got := len(rec2.Events()); got != 1 {
		t.Errorf("observer 2 received %d events, want 1", got)
	}
}

func TestMultiObserver_Flattens(t *testing.T) {
	rec1 := observability.NewRecorder()
	rec2 := observability.NewRecorder()
	rec3 := observability.NewRecorder()

	inner := observability.NewMultiObserver(rec1, rec2)
	outer := observability.NewMultiObserver(inner, rec3)
	if got := outer.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}

	outer.OnEvent(context.Background(), observability.Event{Type: "saved_message"})
	for i, rec := range []*observability.Recorder{rec1, rec2, rec3} {
		if got := rec.Types(); len(got) != 1 || got[0] != "saved_message" {
			t.Errorf("observer %d got %v, want [saved_message]", i+1, got)
		}
	}
}

func TestRecorder_OrderAndIsolation(t *testing.T) {
	rec := observability.NewRecorder()
	data := map[string]any{"message_id": uint64(7)}

	rec.OnEvent(context.Background(), observability.Event{Type: "reading_message", Data: data})
	rec.OnEvent(context.Background(), observability.Event{Type: "message_not_found", Data: data})

	data["message_id"] = uint64(99)

	types := rec.Types()
	if len(types) != 2 || types[0] != "reading_message" || types[1] != "message_not_found" {
		t.Fatalf("Types() = %v, want [reading_message message_not_found]", types)
	}
	if got := rec.Events()[0].Data["message_id"]; got != uint64(7) {
		t.Errorf("recorded message_id = %v, want 7 (recorder must copy data)", got)
	}

	rec.Reset()
	if len(rec.Events()) != 0 {
		t.Error("Reset() left events behind")
	}
}

func TestSlogObserver_LevelMapping(t *testing.T) {
	tests := []struct {
		name      string
		level     observability.Level
		minLevel  slog.Level
		expectLog bool
	}{
		{name: "verbose at info handler", level: observability.LevelVerbose, minLevel: slog.LevelInfo, expectLog: false},
		{name: "info at info handler", level: observability.LevelInfo, minLevel: slog.LevelInfo, expectLog: true},
		{name: "info at warn handler", level: observability.LevelInfo, minLevel: slog.LevelWarn, expectLog: false},
		{name: "error at error handler", level: observability.LevelError, minLevel: slog.LevelError, expectLog: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: tt.minLevel}))

			observability.NewSlogObserver(logger).OnEvent(context.Background(), observability.Event{
				Type:      "saved_message",
				Level:     tt.level,
				Timestamp: time.Now(),
			})

			if hasOutput := buf.Len() > 0; hasOutput != tt.expectLog {
				t.Errorf("log output = %v, want %v (buf: %q)", hasOutput, tt.expectLog, buf.String())
			}
		})
	}
}

func TestSlogObserver_Attributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	observability.NewSlogObserver(logger).OnEvent(context.Background(), observability.Event{
		Type:   "saving_message",
		Level:  observability.LevelInfo,
		Source: "filestore",
		Data: map[string]any{
			"message_id": uint64(42),
			"message":    "hello",
		},
	})

	output := buf.String()
	for _, want := range []string{"msg=saving_message", "source=filestore", "message=hello", "message_id=42"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
	if strings.Index(output, "message=hello") > strings.Index(output, "message_id=42") {
		t.Errorf("attributes not in sorted order: %s", output)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "empty selects slog", key: ""},
		{name: "slog", key: observability.NameSlog},
		{name: "noop", key: observability.NameNoOp},
		{name: "unknown fails", key: "nonexistent", wantErr: true},
		{name: "list", key: "slog,noop"},
		{name: "list with spaces", key: " slog , slog "},
		{name: "list with unknown fails", key: "slog,nonexistent", wantErr: true},
		{name: "list with empty entry fails", key: "slog,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, err := observability.New(tt.key, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if !tt.wantErr && obs == nil {
				t.Errorf("New(%q) returned nil observer", tt.key)
			}
		})
	}
}

func TestNew_ListFansOutToEachLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	obs, err := observability.New("slog,noop,slog", logger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	multi, ok := obs.(*observability.MultiObserver)
	if !ok {
		t.Fatalf("New() returned %T, want *observability.MultiObserver", obs)
	}
	if got := multi.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}

	obs.OnEvent(context.Background(), observability.Event{
		Type:  "saved_message",
		Level: observability.LevelInfo,
	})
	if got := strings.Count(buf.String(), "msg=saved_message"); got != 2 {
		t.Errorf("logged %d lines, want 2: %q", got, buf.String())
	}
}
