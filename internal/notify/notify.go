// Package notify carries transient user-facing messages, the counterpart of
// the toast popups a storefront UI would show on cart actions.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Kind distinguishes success from error notifications.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a single transient message.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notifier receives user-facing messages.
type Notifier interface {
	// Success reports a successful action.
	Success(message string)

	// Error reports a failed or destructive action.
	Error(message string)
}

// Feed is a Notifier keeping the most recent notifications in memory so they
// can be served to a client for display.
type Feed struct {
	mu     sync.Mutex
	max    int
	items  []Notification
	logger zerolog.Logger
}

// NewFeed creates a feed retaining at most max notifications.
func NewFeed(max int, logger zerolog.Logger) *Feed {
	if max < 1 {
		max = 1
	}

	return &Feed{
		max:    max,
		logger: logger.With().Str("component", "notification-feed").Logger(),
	}
}

// Success reports a successful action.
func (f *Feed) Success(message string) {
	f.push(KindSuccess, message)
}

// Error reports a failed or destructive action.
func (f *Feed) Error(message string) {
	f.push(KindError, message)
}

// Recent returns the retained notifications, newest first.
func (f *Feed) Recent() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Notification, len(f.items))
	for i, n := range f.items {
		out[len(f.items)-1-i] = n
	}
	return out
}

func (f *Feed) push(kind Kind, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, Notification{
		ID:        uuid.New(),
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})

	if len(f.items) > f.max {
		f.items = f.items[len(f.items)-f.max:]
	}

	f.logger.Debug().Str("kind", string(kind)).Str("message", message).Msg("notification emitted")
}

// Nop is a Notifier that discards everything. Used in tests.
type Nop struct{}

// Success implements Notifier.
func (Nop) Success(string) {}

// Error implements Notifier.
func (Nop) Error(string) {}
