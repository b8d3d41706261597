// Package events provides a typed publish/subscribe registry with priority
// ordering, one-shot listeners and synchronous or asynchronous dispatch.
package events

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Type names an event.
type Type string

// Event types emitted by the workbook.
const (
	WorksheetAdded    Type = "worksheet:added"
	WorksheetRemoved  Type = "worksheet:removed"
	BuildStarted      Type = "build:started"
	BuildCompleted    Type = "build:completed"
	BuildError        Type = "build:error"
	DownloadStarted   Type = "download:started"
	DownloadCompleted Type = "download:completed"
	DownloadError     Type = "download:error"
)

// Event is a single emission.
type Event struct {
	Type      Type
	Timestamp time.Time
	Data      map[string]any
}

// New creates an event stamped with the current time.
func New(t Type, data map[string]any) Event {
	return Event{Type: t, Timestamp: time.Now(), Data: data}
}

// Listener handles an event. Returned errors are logged, never propagated.
type Listener func(ctx context.Context, e Event) error

// Options configures a listener registration.
type Options struct {
	// Once removes the listener after its first invocation.
	Once bool
	// Async runs the listener on its own goroutine; Emit waits for it.
	Async bool
	// Priority orders listeners, highest first. Equal priorities keep
	// registration order.
	Priority int
	// StopPropagation skips lower-priority listeners once this one ran.
	StopPropagation bool
}

type registration struct {
	id       string
	listener Listener
	opts     Options
	fired    atomic.Bool
}

// spent reports whether a one-shot listener has already run.
func (r *registration) spent() bool {
	return r.opts.Once && r.fired.Load()
}

// Bus is a registry from event type to ordered listeners. It is safe for
// concurrent use.
type Bus struct {
	mu        sync.Mutex
	listeners map[Type][]*registration
	logger    logrus.FieldLogger
}

// NewBus creates an empty bus. A nil logger uses the logrus standard logger.
func NewBus(logger logrus.FieldLogger) *Bus {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Bus{
		listeners: make(map[Type][]*registration),
		logger:    logger,
	}
}

// On registers a listener and returns its registration id.
func (b *Bus) On(t Type, l Listener, opts Options) string {
	r := &registration{id: uuid.NewString(), listener: l, opts: opts}

	b.mu.Lock()
	defer b.mu.Unlock()
	list := append(b.listeners[t], r)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].opts.Priority > list[j].opts.Priority
	})
	b.listeners[t] = list
	return r.id
}

// Once registers a listener that runs at most once.
func (b *Bus) Once(t Type, l Listener, opts Options) string {
	opts.Once = true
	return b.On(t, l, opts)
}

// Off removes a registration by id and reports whether it existed.
func (b *Bus) Off(t Type, id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.listeners[t]
	for i, r := range list {
		if r.id == id {
			b.listeners[t] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAll removes every listener of the given types, or of all types when
// none are given.
func (b *Bus) RemoveAll(types ...Type) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(types) == 0 {
		b.listeners = make(map[Type][]*registration)
		return
	}
	for _, t := range types {
		delete(b.listeners, t)
	}
}

// Clear removes all registrations for all types.
func (b *Bus) Clear() {
	b.RemoveAll()
}

// ListenerCount returns the number of live registrations for t.
func (b *Bus) ListenerCount(t Type) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.listeners[t] {
		if !r.spent() {
			n++
		}
	}
	return n
}

// Emit invokes the listeners of e.Type in priority order. Async listeners
// run concurrently and are awaited before Emit returns.
func (b *Bus) Emit(ctx context.Context, e Event) {
	b.dispatch(ctx, e, true)
}

// EmitSync invokes every listener of e.Type on the calling goroutine,
// including those registered as async.
func (b *Bus) EmitSync(ctx context.Context, e Event) {
	b.dispatch(ctx, e, false)
}

func (b *Bus) dispatch(ctx context.Context, e Event, allowAsync bool) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	var wg sync.WaitGroup
	for _, r := range b.snapshot(e.Type) {
		if r.opts.Once && !r.fired.CompareAndSwap(false, true) {
			continue
		}
		if allowAsync && r.opts.Async {
			wg.Add(1)
			go func(r *registration) {
				defer wg.Done()
				b.invoke(ctx, r, e)
			}(r)
		} else {
			b.invoke(ctx, r, e)
		}
		if r.opts.StopPropagation {
			break
		}
	}
	wg.Wait()
	b.prune(e.Type)
}

func (b *Bus) snapshot(t Type) []*registration {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.listeners[t]
	out := make([]*registration, 0, len(list))
	for _, r := range list {
		if !r.spent() {
			out = append(out, r)
		}
	}
	return out
}

// invoke runs one listener, logging and swallowing its error or panic so an
// observer can never fail the emitting operation.
func (b *Bus) invoke(ctx context.Context, r *registration, e Event) {
	log := b.logger.WithFields(logrus.Fields{"event": string(e.Type), "listener": r.id})
	defer func() {
		if p := recover(); p != nil {
			log.WithError(fmt.Errorf("panic: %v", p)).Warn("event listener panicked")
		}
	}()
	if err := r.listener(ctx, e); err != nil {
		log.WithError(err).Warn("event listener failed")
	}
}

func (b *Bus) prune(t Type) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.listeners[t]
	kept := list[:0]
	for _, r := range list {
		if !r.spent() {
			kept = append(kept, r)
		}
	}
	for i := len(kept); i < len(list); i++ {
		list[i] = nil
	}
	if len(kept) == 0 {
		delete(b.listeners, t)
		return
	}
	b.listeners[t] = kept
}
