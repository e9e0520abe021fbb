package input

import (
	"bufio"
	"bytes"
	"strconv"
	"sync/atomic"
	"time"
)

// maxPending caps the unparsed tail carried between polls.
const maxPending = 32

// Stream delivers terminal input bytes via a channel and converts them into
// key and click events. Key releases are inferred through a Holder.
type Stream struct {
	ch      chan byte
	closed  atomic.Bool
	pending []byte
	holder  *Holder
}

// StartStream spawns a goroutine that reads from r and feeds the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream(DefaultHoldDuration)
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				s.closed.Store(true)
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream(hold time.Duration) *Stream {
	return &Stream{
		ch:     make(chan byte, 128),
		holder: NewHolder(hold),
	}
}

// Closed reports whether the underlying reader has hit an error or EOF.
func (s *Stream) Closed() bool {
	return s.closed.Load()
}

// Reset releases all held keys without emitting events.
// Used when switching screens so a held key does not leak into the next one.
func (s *Stream) Reset() {
	s.holder.Reset()
}

// Poll drains all available bytes (non-blocking) and returns the resulting
// events: key downs and clicks in arrival order, then releases for keys that
// have gone quiet.
func (s *Stream) Poll(now time.Time) []Event {
	buf := s.pending
	s.pending = nil

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	events, rest := s.parse(buf, now)
	if len(rest) > 0 && len(rest) <= maxPending {
		s.pending = append(s.pending[:0], rest...)
	}
	return append(events, s.holder.Expire(now)...)
}

// parse converts bytes into events. An incomplete escape sequence at the end
// of buf is returned as rest to be retried on the next poll.
func (s *Stream) parse(buf []byte, now time.Time) (events []Event, rest []byte) {
	press := func(k Key) {
		if ev, ok := s.holder.Press(k, now); ok {
			events = append(events, ev)
		}
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			if k := keyForByte(b); k != KeyNone {
				press(k)
			}
			continue
		}

		// CSI sequence: ESC [ ...
		if i+1 >= len(buf) {
			return events, buf[i:]
		}
		if buf[i+1] != '[' {
			continue
		}
		if i+2 >= len(buf) {
			return events, buf[i:]
		}
		switch buf[i+2] {
		case 'A':
			press(KeyUp)
			i += 2
		case 'B':
			press(KeyDown)
			i += 2
		case 'C':
			press(KeyRight)
			i += 2
		case 'D':
			press(KeyLeft)
			i += 2
		case '<':
			ev, n, complete := parseSGRMouse(buf[i+3:])
			if !complete {
				return events, buf[i:]
			}
			if ev != nil {
				events = append(events, *ev)
			}
			i += 2 + n
		}
	}
	return events, nil
}

// parseSGRMouse parses the body of an SGR mouse report "Cb;Cx;Cy(M|m)"
// following "ESC [ <". It returns a click for a left-button press, the number
// of bytes consumed and whether the report was complete.
func parseSGRMouse(buf []byte) (*Event, int, bool) {
	end := bytes.IndexAny(buf, "Mm")
	if end < 0 {
		return nil, 0, false
	}
	parts := bytes.Split(buf[:end], []byte{';'})
	if len(parts) != 3 {
		return nil, end + 1, true
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(string(p))
		if err != nil {
			return nil, end + 1, true
		}
		nums[i] = n
	}

	button, col, row := nums[0], nums[1], nums[2]
	pressed := buf[end] == 'M'
	isMotion := button&32 != 0
	isWheel := button&64 != 0
	if !pressed || isMotion || isWheel || button&3 != 0 {
		return nil, end + 1, true
	}
	ev := Click(float64(col), float64(row))
	return &ev, end + 1, true
}

// keyForByte maps a single input byte to a game key.
func keyForByte(b byte) Key {
	switch b {
	case 'w', 'W', 'i', 'I':
		return KeyUp
	case 's', 'S', 'k', 'K':
		return KeyDown
	case 'a', 'A', 'j', 'J':
		return KeyLeft
	case 'd', 'D', 'l', 'L':
		return KeyRight
	case ' ', '\n', '\r':
		return KeyConfirm
	case 'q', 'Q', 0x03: // Ctrl+C arrives as a byte in raw mode
		return KeyQuit
	default:
		return KeyNone
	}
}
