package input

import (
	"slices"
	"testing"
	"time"
)

func TestIntentOppositeKeysCancel(t *testing.T) {
	const speed = 5.0
	var in Intent

	in.Apply(Press(KeyUp))
	in.Apply(Press(KeyDown))
	if _, vy := in.Velocity(speed); vy != 0 {
		t.Fatalf("W+S held: vy = %v, want 0", vy)
	}

	in.Apply(Release(KeyDown))
	if _, vy := in.Velocity(speed); vy != speed {
		t.Fatalf("after releasing S: vy = %v, want %v", vy, speed)
	}
}

func TestIntentVelocityTable(t *testing.T) {
	tests := []struct {
		name   string
		keys   []Key
		wantVX float64
		wantVY float64
	}{
		{"idle", nil, 0, 0},
		{"up", []Key{KeyUp}, 0, 2},
		{"down", []Key{KeyDown}, 0, -2},
		{"left", []Key{KeyLeft}, -2, 0},
		{"right", []Key{KeyRight}, 2, 0},
		{"left and right", []Key{KeyLeft, KeyRight}, 0, 0},
		{"diagonal", []Key{KeyUp, KeyRight}, 2, 2},
		{"all four", []Key{KeyUp, KeyDown, KeyLeft, KeyRight}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in Intent
			for _, k := range tt.keys {
				in.Apply(Press(k))
			}
			vx, vy := in.Velocity(2)
			if vx != tt.wantVX || vy != tt.wantVY {
				t.Errorf("Velocity = (%v, %v), want (%v, %v)", vx, vy, tt.wantVX, tt.wantVY)
			}
		})
	}
}

func TestIntentIgnoresOtherInput(t *testing.T) {
	var in Intent
	if in.Apply(Press(KeyConfirm)) {
		t.Error("confirm should not be a movement key")
	}
	if in.Apply(Press(KeyNone)) {
		t.Error("unknown key should be ignored")
	}
	if in.Apply(Click(10, 10)) {
		t.Error("click should not change intent")
	}
	if vx, vy := in.Velocity(5); vx != 0 || vy != 0 {
		t.Errorf("velocity = (%v, %v), want zero", vx, vy)
	}

	in.Apply(Press(KeyLeft))
	in.Reset()
	if vx, _ := in.Velocity(5); vx != 0 {
		t.Errorf("after reset vx = %v, want 0", vx)
	}
}

func TestHolderPressAndExpire(t *testing.T) {
	h := NewHolder(100 * time.Millisecond)
	t0 := time.Unix(0, 0)

	ev, ok := h.Press(KeyUp, t0)
	if !ok || ev != Press(KeyUp) {
		t.Fatalf("first press = %v, %v; want Press(up)", ev, ok)
	}
	if _, ok := h.Press(KeyUp, t0.Add(50*time.Millisecond)); ok {
		t.Fatal("repeat press while held should not emit")
	}
	if got := h.Expire(t0.Add(120 * time.Millisecond)); len(got) != 0 {
		t.Fatalf("expired too early: %v", got)
	}
	got := h.Expire(t0.Add(150 * time.Millisecond))
	if !slices.Equal(got, []Event{Release(KeyUp)}) {
		t.Fatalf("Expire = %v, want [Release(up)]", got)
	}
	if h.Held(KeyUp) {
		t.Error("key still held after expiry")
	}
}

func feed(s *Stream, data string) {
	for i := 0; i < len(data); i++ {
		s.ch <- data[i]
	}
}

func TestStreamParsesKeysAndArrows(t *testing.T) {
	s := newStream(time.Second)
	now := time.Unix(0, 0)

	feed(s, "w\x1b[Dx ")
	got := s.Poll(now)
	want := []Event{Press(KeyUp), Press(KeyLeft), Press(KeyConfirm)}
	if !slices.Equal(got, want) {
		t.Fatalf("Poll = %v, want %v", got, want)
	}

	got = s.Poll(now.Add(2 * time.Second))
	want = []Event{Release(KeyUp), Release(KeyLeft), Release(KeyConfirm)}
	if !slices.Equal(got, want) {
		t.Fatalf("release Poll = %v, want %v", got, want)
	}
}

func TestStreamParsesSGRMouseClick(t *testing.T) {
	s := newStream(time.Second)
	now := time.Unix(0, 0)

	// Left press, left release, right press, motion.
	feed(s, "\x1b[<0;12;7M\x1b[<0;12;7m\x1b[<2;3;3M\x1b[<32;4;4M")
	got := s.Poll(now)
	want := []Event{Click(12, 7)}
	if !slices.Equal(got, want) {
		t.Fatalf("Poll = %v, want %v", got, want)
	}
}

func TestStreamCarriesSplitSequence(t *testing.T) {
	s := newStream(time.Second)
	now := time.Unix(0, 0)

	feed(s, "\x1b[<0;5")
	if got := s.Poll(now); len(got) != 0 {
		t.Fatalf("partial report produced %v", got)
	}
	feed(s, ";9M")
	got := s.Poll(now)
	if !slices.Equal(got, []Event{Click(5, 9)}) {
		t.Fatalf("Poll = %v, want click at (5, 9)", got)
	}
}

func TestStreamLoneEscapeDoesNotSwallowKeys(t *testing.T) {
	s := newStream(time.Second)
	now := time.Unix(0, 0)

	feed(s, "\x1b")
	s.Poll(now)
	feed(s, "d")
	got := s.Poll(now)
	if !slices.Equal(got, []Event{Press(KeyRight)}) {
		t.Fatalf("Poll = %v, want Press(right)", got)
	}
}

func TestKeyForByteQuit(t *testing.T) {
	for _, b := range []byte{'q', 'Q', 0x03} {
		if k := keyForByte(b); k != KeyQuit {
			t.Errorf("keyForByte(%q) = %v, want quit", b, k)
		}
	}
}

func TestPressAndReleaseCarryKey(t *testing.T) {
	for _, k := range []Key{KeyUp, KeyDown, KeyLeft, KeyRight, KeyConfirm, KeyQuit} {
		if ev := Press(k); ev.Kind != EventKeyDown || ev.Key != k {
			t.Errorf("Press(%v) = %+v", k, ev)
		}
		if ev := Release(k); ev.Kind != EventKeyUp || ev.Key != k {
			t.Errorf("Release(%v) = %+v", k, ev)
		}
	}
}
