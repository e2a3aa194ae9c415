// Package notify implements the console's transient toast queue: an
// append-only list of messages that expire after a fixed time-to-live.
//
// Push never blocks. Entries leave the queue in FIFO order as their timers
// fire; Visible additionally hides entries whose TTL has elapsed so readers
// never observe a stale toast while a timer is pending.
package notify

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a toast stays visible.
const DefaultTTL = 3 * time.Second

// Kind classifies a toast for presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Toast is a single queued message.
type Toast struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// EventType describes a queue transition delivered to subscribers.
type EventType string

const (
	EventAdded   EventType = "added"
	EventExpired EventType = "expired"
)

// Event is broadcast to subscribers whenever a toast is added or expires.
type Event struct {
	Type  EventType `json:"event"`
	Toast Toast     `json:"toast"`
}

// Notifier owns the queue. The zero value is not usable; call New.
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   Clock
	newID   func() string
	queue   []Toast
	subs    map[int]chan Event
	nextSub int
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(n *Notifier) {
		if ttl > 0 {
			n.ttl = ttl
		}
	}
}

// WithClock swaps the time source, mainly for tests.
func WithClock(clock Clock) Option {
	return func(n *Notifier) {
		if clock != nil {
			n.clock = clock
		}
	}
}

// WithIDGenerator overrides the uuid-based id generator.
func WithIDGenerator(fn func() string) Option {
	return func(n *Notifier) {
		if fn != nil {
			n.newID = fn
		}
	}
}

// New constructs a Notifier.
func New(options ...Option) *Notifier {
	n := &Notifier{
		ttl:   DefaultTTL,
		clock: systemClock{},
		newID: func() string { return uuid.NewString() },
		subs:  make(map[int]chan Event),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(n)
	}
	return n
}

var (
	defaultOnce     sync.Once
	defaultNotifier *Notifier
)

// Default returns the process-wide notifier.
func Default() *Notifier {
	defaultOnce.Do(func() {
		defaultNotifier = New()
	})
	return defaultNotifier
}

// TTL reports the configured time-to-live.
func (n *Notifier) TTL() time.Duration {
	if n == nil {
		return DefaultTTL
	}
	return n.ttl
}

// Push enqueues message and schedules its removal. Blank messages are
// ignored and return the zero Toast.
func (n *Notifier) Push(message string, kind Kind) Toast {
	if n == nil {
		return Toast{}
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return Toast{}
	}
	if kind == "" {
		kind = KindInfo
	}

	now := n.clock.Now()
	toast := Toast{
		ID:        n.newID(),
		Message:   message,
		Kind:      kind,
		CreatedAt: now,
		ExpiresAt: now.Add(n.ttl),
	}

	n.mu.Lock()
	n.queue = append(n.queue, toast)
	n.broadcastLocked(Event{Type: EventAdded, Toast: toast})
	n.mu.Unlock()

	id := toast.ID
	n.clock.AfterFunc(n.ttl, func() { n.expire(id) })
	return toast
}

// Success enqueues a success toast.
func (n *Notifier) Success(message string) Toast { return n.Push(message, KindSuccess) }

// Error enqueues an error toast.
func (n *Notifier) Error(message string) Toast { return n.Push(message, KindError) }

// Info enqueues an informational toast.
func (n *Notifier) Info(message string) Toast { return n.Push(message, KindInfo) }

// Visible returns the live toasts in insertion order.
func (n *Notifier) Visible() []Toast {
	if n == nil {
		return nil
	}
	now := n.clock.Now()

	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Toast, 0, len(n.queue))
	for _, toast := range n.queue {
		if !now.Before(toast.ExpiresAt) {
			continue
		}
		out = append(out, toast)
	}
	return out
}

// Len reports how many entries are still queued, including ones whose TTL
// elapsed but whose timer has not fired yet.
func (n *Notifier) Len() int {
	if n == nil {
		return 0
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.queue)
}

// Subscribe registers a listener. Events are delivered on a buffered channel;
// when the buffer is full the event is dropped for that subscriber. The
// returned func unsubscribes and closes the channel.
func (n *Notifier) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	n.mu.Lock()
	id := n.nextSub
	n.nextSub++
	n.subs[id] = ch
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (n *Notifier) expire(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, toast := range n.queue {
		if toast.ID != id {
			continue
		}
		n.queue = append(n.queue[:i:i], n.queue[i+1:]...)
		n.broadcastLocked(Event{Type: EventExpired, Toast: toast})
		return
	}
}

func (n *Notifier) broadcastLocked(event Event) {
	for _, ch := range n.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
