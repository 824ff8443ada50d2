package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestEventBusFanOut(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	bus := newEventBus(zap.NewNop())
	a, cancelA := bus.subscribe(4)
	b, cancelB := bus.subscribe(4)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		got = map[string][]Event{}
	)
	drain := func(name string, ch <-chan Event) {
		defer wg.Done()
		for ev := range ch {
			mu.Lock()
			got[name] = append(got[name], ev)
			mu.Unlock()
		}
	}
	wg.Add(2)
	go drain("a", a)
	go drain("b", b)

	bus.publishTotals(&DayTotals{DayID: "d1", Points: 3, Progress: 0.5})
	bus.publishTotals(nil)

	cancelA()
	cancelB()
	wg.Wait()

	want := []Event{
		{Kind: PointsChanged, DayID: "d1", Points: 3},
		{Kind: ProgressChanged, DayID: "d1", Progress: 0.5},
	}
	assert.Equal(t, want, got["a"])
	assert.Equal(t, want, got["b"])
}

func TestEventBusDropsForSlowSubscriber(t *testing.T) {
	bus := newEventBus(zap.NewNop())
	ch, cancel := bus.subscribe(1)

	bus.publish(
		Event{Kind: PointsChanged, DayID: "d1", Points: 1},
		Event{Kind: PointsChanged, DayID: "d1", Points: 2},
		Event{Kind: PointsChanged, DayID: "d1", Points: 3},
	)
	cancel()

	var got []int
	for ev := range ch {
		got = append(got, ev.Points)
	}
	assert.Equal(t, []int{1}, got)
}

func TestEventBusCancel(t *testing.T) {
	bus := newEventBus(zap.NewNop())
	ch, cancel := bus.subscribe(0)
	require.Equal(t, DefaultSubscriberBuffer, cap(ch))

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)

	// Publishing after every subscriber left is a no-op.
	bus.publish(Event{Kind: ProgressChanged, DayID: "d1"})
	assert.Empty(t, bus.subs)
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "points_changed", PointsChanged.String())
	assert.Equal(t, "progress_changed", ProgressChanged.String())
	assert.Equal(t, "unknown", EventKind(0).String())
}
