package encoder

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"

	xdraw "golang.org/x/image/draw"

	"github.com/gifcast/gifcast/internal/logger"
)

// GIFConfig holds settings for the animated-GIF encoder.
type GIFConfig struct {
	// Width and Height scale every frame to a fixed output size.
	// Zero means keep each frame's native size.
	Width  int
	Height int

	// DelayMillis is the display duration applied to frames without
	// measured timing (fixed-rate recordings).
	DelayMillis int

	// LoopCount follows image/gif semantics: 0 loops forever,
	// -1 plays once.
	LoopCount int
}

// GIF encodes frames into an animated GIF.
//
// Frames are quantized to a 256-color palette as they arrive and held in
// memory; the GIF stream itself is assembled and written on Close. Not safe
// for concurrent use; the exporter worker is the only caller.
type GIF struct {
	w      io.Writer
	config GIFConfig

	anim   gif.GIF
	scaled *image.RGBA
	closed bool
}

// NewGIF creates a GIF encoder writing to w.
func NewGIF(w io.Writer, config GIFConfig) *GIF {
	if config.DelayMillis <= 0 {
		config.DelayMillis = 100
	}
	return &GIF{
		w:      w,
		config: config,
		anim:   gif.GIF{LoopCount: config.LoopCount},
	}
}

// WriteFrame quantizes one frame and appends it to the animation.
func (g *GIF) WriteFrame(frame image.Image, timing Timing, final bool) error {
	if g.closed {
		return fmt.Errorf("write frame: gif output already closed")
	}
	if frame == nil {
		return fmt.Errorf("write frame: nil frame")
	}

	frame = g.scale(frame)

	bounds := frame.Bounds()
	paletted := image.NewPaletted(bounds, palette.Plan9)
	draw.FloydSteinberg.Draw(paletted, bounds, frame, bounds.Min)

	g.anim.Image = append(g.anim.Image, paletted)
	g.anim.Delay = append(g.anim.Delay, g.delayCentis(timing))

	if final {
		logger.WithComponent("gif-encoder").Debug().
			Int("frames", len(g.anim.Image)).
			Msg("Final frame appended")
	}
	return nil
}

// Close assembles the animation and writes the GIF stream.
func (g *GIF) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true

	if len(g.anim.Image) == 0 {
		return fmt.Errorf("close gif: no frames written")
	}

	if err := gif.EncodeAll(g.w, &g.anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}

	if c, ok := g.w.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close gif output: %w", err)
		}
	}

	logger.WithComponent("gif-encoder").Info().
		Int("frames", len(g.anim.Image)).
		Msg("GIF finalized")
	return nil
}

// FrameCount returns the number of frames appended so far.
func (g *GIF) FrameCount() int {
	return len(g.anim.Image)
}

// delayCentis converts frame timing to GIF centisecond units.
func (g *GIF) delayCentis(timing Timing) int {
	if timing.Variable {
		centis := int(timing.ElapsedMillis+5) / 10
		if centis < 1 {
			// GIF renderers treat 0 as "as fast as possible"
			centis = 1
		}
		return centis
	}
	return g.config.DelayMillis / 10
}

// scale resizes the frame to the configured output size if one is set.
func (g *GIF) scale(frame image.Image) image.Image {
	if g.config.Width <= 0 || g.config.Height <= 0 {
		return frame
	}
	bounds := frame.Bounds()
	if bounds.Dx() == g.config.Width && bounds.Dy() == g.config.Height {
		return frame
	}

	rect := image.Rect(0, 0, g.config.Width, g.config.Height)
	if g.scaled == nil || g.scaled.Bounds() != rect {
		g.scaled = image.NewRGBA(rect)
	}
	xdraw.ApproxBiLinear.Scale(g.scaled, rect, frame, bounds, xdraw.Src, nil)
	return g.scaled
}
