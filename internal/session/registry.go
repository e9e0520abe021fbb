// Package session runs player sessions for the network hosts and keeps track
// of which sessions are alive so the server can shut down politely.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/splitshot/internal/logging"
)

// ErrFull is returned by Register when the session limit is reached.
var ErrFull = errors.New("session limit reached")

// EventType identifies a registry event.
type EventType int

const (
	EventShutdown EventType = iota + 1 // Server is going down
)

// Event is sent from the registry to a session.
type Event struct {
	Type EventType
}

// Handle is a session's entry in the registry.
type Handle struct {
	ID      string
	User    string
	Started time.Time
	Events  chan Event
}

// Registry tracks live sessions. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	handles map[string]*Handle
	limit   int
	logger  *log.Logger
}

// NewRegistry creates a registry admitting at most limit sessions (0 means no limit).
func NewRegistry(limit int, logger *log.Logger) *Registry {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Registry{
		handles: make(map[string]*Handle),
		limit:   limit,
		logger:  logger,
	}
}

// Register adds a session for user and returns its handle.
func (r *Registry) Register(user string) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.limit > 0 && len(r.handles) >= r.limit {
		return nil, ErrFull
	}
	h := &Handle{
		ID:      uuid.NewString(),
		User:    user,
		Started: time.Now(),
		Events:  make(chan Event, 4),
	}
	r.handles[h.ID] = h
	r.logger.Info("session registered", "id", h.ID, "user", user, "active", len(r.handles))
	return h, nil
}

// Unregister removes a session. Unknown ids are ignored.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.handles[id]
	if !ok {
		return
	}
	delete(r.handles, id)
	r.logger.Info("session ended", "id", id, "user", h.User,
		"duration", time.Since(h.Started).Round(time.Second), "active", len(r.handles))
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}

// Shutdown tells every session the server is stopping and waits until all of
// them have unregistered or ctx is done.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.RLock()
	for _, h := range r.handles {
		select {
		case h.Events <- Event{Type: EventShutdown}:
		default:
		}
	}
	r.mu.RUnlock()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		if r.Count() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
