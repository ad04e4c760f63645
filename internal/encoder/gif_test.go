package encoder

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"
)

func testFrame(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestGIFFixedDelay(t *testing.T) {
	var buf bytes.Buffer
	g := NewGIF(&buf, GIFConfig{DelayMillis: 500})

	colors := []color.RGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
	}
	for i, c := range colors {
		if err := g.WriteFrame(testFrame(c), Timing{}, i == len(colors)-1); err != nil {
			t.Fatalf("WriteFrame %d: %v", i, err)
		}
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	decoded, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("output is not a valid GIF: %v", err)
	}
	if len(decoded.Image) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(decoded.Image))
	}
	for i, d := range decoded.Delay {
		if d != 50 {
			t.Errorf("frame %d: expected 50cs delay, got %d", i, d)
		}
	}
}

func TestGIFVariableDelay(t *testing.T) {
	var buf bytes.Buffer
	g := NewGIF(&buf, GIFConfig{DelayMillis: 100})

	writes := []struct {
		timing Timing
		want   int // centiseconds
	}{
		{Timing{ElapsedMillis: 0, Variable: true}, 1},    // clamped to 1cs
		{Timing{ElapsedMillis: 120, Variable: true}, 12},
		{Timing{ElapsedMillis: 734, Variable: true}, 73},
	}
	for i, w := range writes {
		if err := g.WriteFrame(testFrame(color.RGBA{R: uint8(50 * i), A: 255}), w.timing, false); err != nil {
			t.Fatalf("WriteFrame %d: %v", i, err)
		}
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	decoded, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("output is not a valid GIF: %v", err)
	}
	for i, w := range writes {
		if decoded.Delay[i] != w.want {
			t.Errorf("frame %d: expected %dcs, got %dcs", i, w.want, decoded.Delay[i])
		}
	}
}

func TestGIFScalesToConfiguredSize(t *testing.T) {
	var buf bytes.Buffer
	g := NewGIF(&buf, GIFConfig{Width: 4, Height: 4, DelayMillis: 100})

	if err := g.WriteFrame(testFrame(color.RGBA{R: 255, A: 255}), Timing{}, true); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	decoded, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("output is not a valid GIF: %v", err)
	}
	b := decoded.Image[0].Bounds()
	if b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("expected 4x4 output, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestGIFCloseWithoutFramesFails(t *testing.T) {
	var buf bytes.Buffer
	g := NewGIF(&buf, GIFConfig{})

	if err := g.Close(); err == nil {
		t.Fatal("expected an error closing an empty animation")
	}
}

func TestGIFWriteAfterCloseFails(t *testing.T) {
	var buf bytes.Buffer
	g := NewGIF(&buf, GIFConfig{})

	g.WriteFrame(testFrame(color.RGBA{A: 255}), Timing{}, false)
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := g.WriteFrame(testFrame(color.RGBA{A: 255}), Timing{}, false); err == nil {
		t.Fatal("expected an error writing after close")
	}
}
