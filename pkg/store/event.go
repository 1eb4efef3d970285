package store

import (
	"sync"
	"time"
)

// EventType describes the nature of a change notification.
type EventType int

const (
	// EventRefreshed signals callers should reload their full view. The local
	// backend emits only this type, and only from Refresh.
	EventRefreshed EventType = iota
	// EventCreated reports a new entry.
	EventCreated
	// EventUpdated reports a replaced entry.
	EventUpdated
	// EventDeleted reports a removed entry.
	EventDeleted
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventUpdated:
		return "updated"
	case EventDeleted:
		return "deleted"
	default:
		return "refreshed"
	}
}

// Event is delivered to Subscribe callbacks when the visible entry set changes.
type Event struct {
	Type EventType
	ID   string
}

// hub fans events out to subscribers. Callbacks run outside the lock so a
// callback may call back into the store or unsubscribe itself.
type hub struct {
	mu     sync.Mutex
	next   int
	subs   map[int]func(Event)
	closed bool
}

func (h *hub) subscribe(fn func(Event)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || fn == nil {
		return func() {}
	}
	if h.subs == nil {
		h.subs = make(map[int]func(Event))
	}
	id := h.next
	h.next++
	h.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

func (h *hub) publish(ev Event) {
	h.mu.Lock()
	fns := make([]func(Event), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (h *hub) close() {
	h.mu.Lock()
	h.closed = true
	h.subs = nil
	h.mu.Unlock()
}

// eventThrottle coalesces rapid notifications so subscribers reload once per
// burst of remote writes instead of once per row. A zero delay disables
// coalescing and sends every event immediately.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[Event]struct{}
	order   []Event
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[Event]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	if t.delay <= 0 {
		send(ev)
		return
	}
	t.mu.Lock()
	if _, dup := t.pending[ev]; !dup {
		t.pending[ev] = struct{}{}
		t.order = append(t.order, ev)
	}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	order := t.order
	t.pending = make(map[Event]struct{})
	t.order = nil
	t.timer = nil
	t.mu.Unlock()

	for _, ev := range order {
		send(ev)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
