// Package raster draws text views of an output tree into images, for
// snapshots that are easier to eyeball than JSON.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Options controls image layout. Zero fields take defaults.
type Options struct {
	// Padding around the text, in pixels. Defaults to 8.
	Padding int
	// LineSpacing is extra space between lines, in pixels. Defaults to 2.
	LineSpacing int
	Background  color.Color
	Foreground  color.Color
	// Face defaults to basicfont.Face7x13.
	Face font.Face
}

func (o Options) normalized() Options {
	if o.Padding <= 0 {
		o.Padding = 8
	}
	if o.LineSpacing <= 0 {
		o.LineSpacing = 2
	}
	if o.Background == nil {
		o.Background = color.White
	}
	if o.Foreground == nil {
		o.Foreground = color.Black
	}
	if o.Face == nil {
		o.Face = basicfont.Face7x13
	}
	return o
}

// Render draws text, one line per row, into a new image sized to fit it.
// Trailing empty lines are dropped.
func Render(text string, opts Options) *image.RGBA {
	opts = opts.normalized()
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	metrics := opts.Face.Metrics()
	lineHeight := metrics.Height.Ceil() + opts.LineSpacing
	width := 0
	for _, l := range lines {
		width = max(width, font.MeasureString(opts.Face, l).Ceil())
	}

	bounds := image.Rect(0, 0, width+2*opts.Padding, len(lines)*lineHeight+2*opts.Padding)
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, image.NewUniform(opts.Background), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(opts.Foreground),
		Face: opts.Face,
	}
	for i, l := range lines {
		baseline := opts.Padding + i*lineHeight + metrics.Ascent.Ceil()
		d.Dot = fixed.P(opts.Padding, baseline)
		d.DrawString(l)
	}
	return img
}

// WritePNG renders text and encodes it as PNG to w.
func WritePNG(w io.Writer, text string, opts Options) error {
	if err := png.Encode(w, Render(text, opts)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
