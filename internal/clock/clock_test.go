package clock

import (
	"testing"
	"time"
)

// TestWallClockElapsedGrows verifies ElapsedMillis grows after Mark without
// mutating the origin.
func TestWallClockElapsedGrows(t *testing.T) {
	c := New()
	c.Mark()

	time.Sleep(20 * time.Millisecond)

	first := c.ElapsedMillis()
	if first < 10 {
		t.Errorf("expected at least ~20ms elapsed, got %.2fms", first)
	}

	// Reading must not reset the origin
	second := c.ElapsedMillis()
	if second < first {
		t.Errorf("elapsed went backwards: %.2fms then %.2fms", first, second)
	}
}

// TestWallClockMarkResetsOrigin verifies Mark moves the origin forward.
func TestWallClockMarkResetsOrigin(t *testing.T) {
	c := New()
	c.Mark()
	time.Sleep(20 * time.Millisecond)

	c.Mark()
	if ms := c.ElapsedMillis(); ms > 15 {
		t.Errorf("expected near-zero elapsed after Mark, got %.2fms", ms)
	}
}

func TestFakeClockScripting(t *testing.T) {
	fc := &FakeClock{ResetOnMark: true}

	fc.Elapsed = 750
	if got := fc.ElapsedMillis(); got != 750 {
		t.Fatalf("expected scripted 750, got %v", got)
	}

	fc.Mark()
	if fc.Marks != 1 {
		t.Errorf("expected 1 mark, got %d", fc.Marks)
	}
	if got := fc.ElapsedMillis(); got != 0 {
		t.Errorf("expected elapsed reset on mark, got %v", got)
	}
}
