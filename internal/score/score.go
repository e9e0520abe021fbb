// Package score keeps the score display: basic and final hit buckets and a
// rolling counter that eases toward the current total.
package score

import (
	"sync"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Kind tags a scoring event.
type Kind int

const (
	KindBasic Kind = iota + 1 // Enemy split into smaller ones
	KindFinal                 // Smallest enemy destroyed
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindFinal:
		return "final"
	default:
		return "unknown"
	}
}

// rollDuration is how long the displayed counter takes to catch up.
const rollDuration = 0.4

// Board counts hits per bucket. Safe for concurrent use so a renderer on
// another goroutine can read it.
type Board struct {
	mu        sync.Mutex
	basic     int
	final     int
	displayed float32
	roll      *gween.Tween
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Record adds one hit of the given kind. Unknown kinds are ignored.
func (b *Board) Record(k Kind) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch k {
	case KindBasic:
		b.basic++
	case KindFinal:
		b.final++
	default:
		return
	}
	b.roll = gween.New(b.displayed, float32(b.basic+b.final), rollDuration, ease.OutQuad)
}

// Update advances the displayed counter by dt.
func (b *Board) Update(dt time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.roll == nil {
		return
	}
	current, done := b.roll.Update(float32(dt.Seconds()))
	b.displayed = current
	if done {
		b.displayed = float32(b.basic + b.final)
		b.roll = nil
	}
}

// Displayed returns the counter value to draw this frame.
func (b *Board) Displayed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return int(b.displayed + 0.5)
}

// Basic returns the number of splitting hits.
func (b *Board) Basic() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.basic
}

// Final returns the number of terminal hits.
func (b *Board) Final() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.final
}

// Total returns the sum of both buckets.
func (b *Board) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.basic + b.final
}

// Reset clears the board for a new round.
func (b *Board) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.basic, b.final, b.displayed, b.roll = 0, 0, 0, nil
}
