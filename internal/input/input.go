// Package input turns raw host input into key and click events and tracks
// the movement intent they express.
package input

// Key is a recognised game key. Hosts map their native key codes onto these.
type Key int

const (
	KeyNone    Key = iota
	KeyUp          // W or up arrow
	KeyDown        // S or down arrow
	KeyLeft        // A or left arrow
	KeyRight       // D or right arrow
	KeyConfirm     // Space or enter
	KeyQuit        // Q
)

// EventKind identifies the type of an input event.
type EventKind int

const (
	EventKeyDown EventKind = iota + 1
	EventKeyUp
	EventClick
)

// Event is a single input event delivered to the active game state.
// Click coordinates are playfield coordinates once they reach the arena;
// terminal streams report 1-based cells and the host maps them.
type Event struct {
	Kind EventKind
	Key  Key
	X, Y float64
}

// Press returns a key-press event.
func Press(k Key) Event { return Event{Kind: EventKeyDown, Key: k} }

// Release returns a key-release event.
func Release(k Key) Event { return Event{Kind: EventKeyUp, Key: k} }

// Click returns a fire/click event at (x, y).
func Click(x, y float64) Event { return Event{Kind: EventClick, X: x, Y: y} }

// Intent tracks which movement keys are held.
type Intent struct {
	up, down, left, right bool
}

// Apply updates the held flags from a key event. It reports whether the
// event touched a movement key; anything else is ignored.
func (i *Intent) Apply(ev Event) bool {
	var pressed bool
	switch ev.Kind {
	case EventKeyDown:
		pressed = true
	case EventKeyUp:
		pressed = false
	default:
		return false
	}

	switch ev.Key {
	case KeyUp:
		i.up = pressed
	case KeyDown:
		i.down = pressed
	case KeyLeft:
		i.left = pressed
	case KeyRight:
		i.right = pressed
	default:
		return false
	}
	return true
}

// Reset releases every movement key.
func (i *Intent) Reset() {
	*i = Intent{}
}

// Velocity resolves the held keys into a velocity. Opposite keys cancel.
// Up is positive Y.
func (i Intent) Velocity(speed float64) (vx, vy float64) {
	if i.up && !i.down {
		vy = speed
	} else if i.down && !i.up {
		vy = -speed
	}
	if i.left && !i.right {
		vx = -speed
	} else if i.right && !i.left {
		vx = speed
	}
	return vx, vy
}
