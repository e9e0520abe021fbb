package input

import (
	"slices"
	"time"
)

// DefaultHoldDuration is how long a key counts as held after its last report.
// Terminals only report presses (plus auto-repeat), so releases are inferred
// from silence.
const DefaultHoldDuration = 150 * time.Millisecond

// Holder turns press-only key reports into KeyDown/KeyUp pairs.
// A key stays down while it keeps being reported within the hold window.
type Holder struct {
	hold time.Duration
	last map[Key]time.Time
}

// NewHolder creates a Holder with the given hold window.
func NewHolder(hold time.Duration) *Holder {
	return &Holder{
		hold: hold,
		last: make(map[Key]time.Time),
	}
}

// Press records a report of k at now. It returns a KeyDown event if the key
// was not already held.
func (h *Holder) Press(k Key, now time.Time) (Event, bool) {
	_, held := h.last[k]
	h.last[k] = now
	if held {
		return Event{}, false
	}
	return Press(k), true
}

// Expire releases keys whose last report is older than the hold window and
// returns the KeyUp events in key order.
func (h *Holder) Expire(now time.Time) []Event {
	var released []Key
	for k, t := range h.last {
		if now.Sub(t) >= h.hold {
			released = append(released, k)
		}
	}
	slices.Sort(released)

	events := make([]Event, 0, len(released))
	for _, k := range released {
		delete(h.last, k)
		events = append(events, Release(k))
	}
	return events
}

// Held reports whether k is currently held.
func (h *Holder) Held(k Key) bool {
	_, ok := h.last[k]
	return ok
}

// Reset forgets all held keys without emitting releases.
func (h *Holder) Reset() {
	clear(h.last)
}
