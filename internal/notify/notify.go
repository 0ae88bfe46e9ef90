// Package notify implements the transient user-facing notification queue.
// Producers enqueue; the queue owns expiry.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// DefaultDuration is how long a notification stays visible.
const DefaultDuration = 3000 * time.Millisecond

// Notification is a single user-visible message.
type Notification struct {
	ID        string
	Message   string
	Kind      Kind
	CreatedAt time.Time
}

// Notifier owns the notification queue. Safe for concurrent use.
type Notifier struct {
	mu     sync.Mutex
	queue  []Notification
	timers map[string]*time.Timer
}

// New creates an empty Notifier.
func New() *Notifier {
	return &Notifier{timers: make(map[string]*time.Timer)}
}

// Show enqueues a notification and schedules its removal after duration.
// A non-positive duration means DefaultDuration. Returns the assigned id.
func (n *Notifier) Show(message string, kind Kind, duration time.Duration) string {
	if duration <= 0 {
		duration = DefaultDuration
	}

	note := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
	}

	n.mu.Lock()
	n.queue = append(n.queue, note)
	n.timers[note.ID] = time.AfterFunc(duration, func() {
		n.Dismiss(note.ID)
	})
	n.mu.Unlock()

	return note.ID
}

// Success enqueues a success notification with the default duration.
func (n *Notifier) Success(message string) string {
	return n.Show(message, KindSuccess, DefaultDuration)
}

// Error enqueues an error notification with the default duration.
func (n *Notifier) Error(message string) string {
	return n.Show(message, KindError, DefaultDuration)
}

// Dismiss removes a notification by id. Removing an already-expired
// notification is a no-op.
func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if t, ok := n.timers[id]; ok {
		t.Stop()
		delete(n.timers, id)
	}
	for i, note := range n.queue {
		if note.ID == id {
			n.queue = append(n.queue[:i], n.queue[i+1:]...)
			return
		}
	}
}

// Active returns a snapshot of the queue in FIFO order.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Notification, len(n.queue))
	copy(out, n.queue)
	return out
}
