package events

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestPriorityOrder(t *testing.T) {
	bus := NewBus(quietLogger())
	var order []string
	record := func(name string) Listener {
		return func(ctx context.Context, e Event) error {
			order = append(order, name)
			return nil
		}
	}

	bus.On(BuildStarted, record("low"), Options{Priority: 1})
	bus.On(BuildStarted, record("high"), Options{Priority: 10})
	bus.On(BuildStarted, record("low-2"), Options{Priority: 1})
	bus.On(BuildStarted, record("default"), Options{})

	bus.EmitSync(context.Background(), New(BuildStarted, nil))

	expected := []string{"high", "low", "low-2", "default"}
	if len(order) != len(expected) {
		t.Fatalf("Expected %d calls, got %d", len(expected), len(order))
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Errorf("Position %d: expected %s, got %s", i, expected[i], order[i])
		}
	}
}

func TestOnceFiresOnce(t *testing.T) {
	bus := NewBus(quietLogger())
	var calls int32
	bus.Once(BuildCompleted, func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, Options{})

	ctx := context.Background()
	bus.Emit(ctx, New(BuildCompleted, nil))
	bus.EmitSync(ctx, New(BuildCompleted, nil))
	bus.Emit(ctx, New(BuildCompleted, nil))

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if n := bus.ListenerCount(BuildCompleted); n != 0 {
		t.Errorf("Expected once listener to be pruned, got %d listeners", n)
	}
}

func TestStopPropagation(t *testing.T) {
	bus := NewBus(quietLogger())
	var lowCalled, highCalled bool
	bus.On(BuildError, func(ctx context.Context, e Event) error {
		lowCalled = true
		return nil
	}, Options{Priority: 0})
	bus.On(BuildError, func(ctx context.Context, e Event) error {
		highCalled = true
		return nil
	}, Options{Priority: 5, StopPropagation: true})

	bus.EmitSync(context.Background(), New(BuildError, nil))

	if !highCalled {
		t.Errorf("Expected high priority listener to run")
	}
	if lowCalled {
		t.Errorf("Expected lower priority listener to be skipped")
	}
}

func TestListenerErrorsAreSwallowed(t *testing.T) {
	bus := NewBus(quietLogger())
	var after bool
	bus.On(DownloadError, func(ctx context.Context, e Event) error {
		return errors.New("boom")
	}, Options{Priority: 2})
	bus.On(DownloadError, func(ctx context.Context, e Event) error {
		panic("listener panic")
	}, Options{Priority: 1})
	bus.On(DownloadError, func(ctx context.Context, e Event) error {
		after = true
		return nil
	}, Options{})

	bus.EmitSync(context.Background(), New(DownloadError, nil))

	if !after {
		t.Errorf("Expected listeners after a failing one to run")
	}
}

func TestAsyncListenersAreAwaited(t *testing.T) {
	bus := NewBus(quietLogger())
	var mu sync.Mutex
	done := 0
	for i := 0; i < 3; i++ {
		bus.On(WorksheetAdded, func(ctx context.Context, e Event) error {
			mu.Lock()
			done++
			mu.Unlock()
			return nil
		}, Options{Async: true})
	}

	bus.Emit(context.Background(), New(WorksheetAdded, map[string]any{"name": "Sales"}))

	mu.Lock()
	defer mu.Unlock()
	if done != 3 {
		t.Errorf("Expected 3 async listeners to finish, got %d", done)
	}
}

func TestOffAndClear(t *testing.T) {
	bus := NewBus(quietLogger())
	noop := func(ctx context.Context, e Event) error { return nil }
	id := bus.On(BuildStarted, noop, Options{})
	bus.On(BuildStarted, noop, Options{})
	bus.On(BuildCompleted, noop, Options{})

	if !bus.Off(BuildStarted, id) {
		t.Errorf("Expected Off to find the registration")
	}
	if bus.Off(BuildStarted, id) {
		t.Errorf("Expected second Off to report false")
	}
	if n := bus.ListenerCount(BuildStarted); n != 1 {
		t.Errorf("Expected 1 listener, got %d", n)
	}

	bus.RemoveAll(BuildStarted)
	if n := bus.ListenerCount(BuildStarted); n != 0 {
		t.Errorf("Expected 0 listeners, got %d", n)
	}
	if n := bus.ListenerCount(BuildCompleted); n != 1 {
		t.Errorf("Expected other types untouched, got %d", n)
	}

	bus.Clear()
	if n := bus.ListenerCount(BuildCompleted); n != 0 {
		t.Errorf("Expected Clear to remove everything, got %d", n)
	}
}

func TestEventData(t *testing.T) {
	bus := NewBus(quietLogger())
	var got Event
	bus.On(WorksheetAdded, func(ctx context.Context, e Event) error {
		got = e
		return nil
	}, Options{})

	bus.EmitSync(context.Background(), Event{Type: WorksheetAdded, Data: map[string]any{"name": "Q1"}})

	if got.Data["name"] != "Q1" {
		t.Errorf("Expected name Q1, got %v", got.Data["name"])
	}
	if got.Timestamp.IsZero() {
		t.Errorf("Expected timestamp to be filled in")
	}
}
