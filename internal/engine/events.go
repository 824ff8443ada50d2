package engine

import (
	"sync"

	"go.uber.org/zap"
)

type EventKind int

const (
	PointsChanged EventKind = iota + 1
	ProgressChanged
)

func (k EventKind) String() string {
	switch k {
	case PointsChanged:
		return "points_changed"
	case ProgressChanged:
		return "progress_changed"
	default:
		return "unknown"
	}
}

// Event is published to subscribers after a mutation commits.
// Points is set for PointsChanged, Progress for ProgressChanged.
type Event struct {
	Kind     EventKind
	DayID    string
	Points   int
	Progress float64
}

// DefaultSubscriberBuffer is used when Subscribe is called with buffer <= 0.
const DefaultSubscriberBuffer = 16

// eventBus fans events out to the subscribers of one Service. Slow
// subscribers lose events rather than stall a mutation.
type eventBus struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
	log  *zap.Logger
}

func newEventBus(log *zap.Logger) *eventBus {
	return &eventBus{subs: map[int]chan Event{}, log: log}
}

func (b *eventBus) subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			close(ch)
			b.mu.Unlock()
		})
	}
	return ch, cancel
}

func (b *eventBus) publish(events ...Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ev := range events {
		for id, ch := range b.subs {
			select {
			case ch <- ev:
			default:
				b.log.Warn("dropping event for slow subscriber",
					zap.Int("subscriber", id),
					zap.Stringer("kind", ev.Kind),
					zap.String("day", ev.DayID))
			}
		}
	}
}

func (b *eventBus) publishTotals(t *DayTotals) {
	if t == nil {
		return
	}
	b.publish(
		Event{Kind: PointsChanged, DayID: t.DayID, Points: t.Points},
		Event{Kind: ProgressChanged, DayID: t.DayID, Progress: t.Progress},
	)
}
