package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/font/basicfont"
)

func TestRender_SizeFollowsText(t *testing.T) {
	face := basicfont.Face7x13
	img := Render("ab\nabcd\n", Options{Padding: 4, LineSpacing: 1})

	wantW := 4*face.Advance + 2*4
	wantH := 2*(face.Metrics().Height.Ceil()+1) + 2*4
	if b := img.Bounds(); b.Dx() != wantW || b.Dy() != wantH {
		t.Errorf("expected %dx%d, got %dx%d", wantW, wantH, b.Dx(), b.Dy())
	}
}

func TestRender_DrawsGlyphs(t *testing.T) {
	img := Render("#", Options{Background: color.White, Foreground: color.Black})

	ink := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r < 0x8000 {
				ink++
			}
		}
	}
	if ink == 0 {
		t.Error("expected dark pixels for a drawn glyph")
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r != 0xffff {
		t.Error("padding should keep the background color")
	}
}

func TestWritePNG_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, "root#1\n  div#2", Options{}); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Error("expected a non-empty image")
	}
}
