package clock

// FakeClock is a test clock that returns a scripted elapsed value.
//
// Tests assign Elapsed directly between calls; Mark records that it was
// called and zeroes the value so a test can also assert re-mark behavior.
type FakeClock struct {
	// Elapsed is returned by ElapsedMillis.
	Elapsed float64

	// Marks counts how many times Mark was called.
	Marks int

	// ResetOnMark, when true, zeroes Elapsed on every Mark.
	ResetOnMark bool
}

func (c *FakeClock) Mark() {
	c.Marks++
	if c.ResetOnMark {
		c.Elapsed = 0
	}
}

func (c *FakeClock) ElapsedMillis() float64 {
	return c.Elapsed
}
