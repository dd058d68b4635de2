package observability

import (
	"fmt"
	"log/slog"
	"strings"
)

// Observer names accepted by New.
const (
	NameSlog = "slog"
	NameNoOp = "noop"
)

// New builds the observer selected by name. An empty name selects the slog
// observer. A comma-separated list such as "slog,noop" builds one observer
// per name and combines them with a MultiObserver. The logger is only used
// by the slog observer.
func New(name string, logger *slog.Logger) (Observer, error) {
	if !strings.Contains(name, ",") {
		return newNamed(strings.TrimSpace(name), logger)
	}

	var observers []Observer
	for part := range strings.SplitSeq(name, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty observer name in %q", name)
		}
		obs, err := newNamed(part, logger)
		if err != nil {
			return nil, err
		}
		observers = append(observers, obs)
	}
	return NewMultiObserver(observers...), nil
}

func newNamed(name string, logger *slog.Logger) (Observer, error) {
	switch name {
	case "", NameSlog:
		return NewSlogObserver(logger), nil
	case NameNoOp:
		return NoOpObserver{}, nil
	default:
		return nil, fmt.Errorf("unknown observer: %s", name)
	}
}
