package observability

import "context"

// MultiObserver forwards each event to a fixed list of observers, in order.
// Nested MultiObservers are flattened and NoOpObservers dropped on
// construction.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver combines observers into one. Nil entries are ignored.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	m := &MultiObserver{}
	for _, obs := range observers {
		m.add(obs)
	}
	return m
}

func (m *MultiObserver) add(obs Observer) {
	switch o := obs.(type) {
	case nil, NoOpObserver, *NoOpObserver:
	case *MultiObserver:
		for _, inner := range o.observers {
			m.add(inner)
		}
	default:
		m.observers = append(m.observers, o)
	}
}

// Len returns the number of observers events are forwarded to.
func (m *MultiObserver) Len() int {
	return len(m.observers)
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}
