package bitmap

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

var (
	// Ink is the color of a set pixel, matching a white pixel of a PIL mode "1" image.
	Ink = color.Gray{Y: 0xFF}
	// Blank is the color of an unset pixel.
	Blank = color.Gray{Y: 0x00}
)

func NewMono(width, height int) *Mono {
	return &Mono{
		pixels: make([]byte, width*height),
		width:  width,
		height: height,
	}
}

// Mono is a 1-bit pixel matrix with its origin at the top-left corner.
// It implements the draw.Image interface, so the standard image/draw
// helpers and font drawers can paint into it.
type Mono struct {
	pixels []byte
	width  int
	height int
}

func (m *Mono) Width() int {
	return m.width
}

func (m *Mono) Height() int {
	return m.height
}

// Bounds implements the image.Image (and draw.Image) interface.
func (m *Mono) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// ColorModel implements the image.Image (and draw.Image) interface.
func (m *Mono) ColorModel() color.Model {
	return monoModel{}
}

// At implements the image.Image (and draw.Image) interface.
func (m *Mono) At(x, y int) color.Color {
	if m.Get(x, y) {
		return Ink
	}
	return Blank
}

// Set implements the draw.Image interface. Colors at or above mid gray are ink.
func (m *Mono) Set(x, y int, c color.Color) {
	m.SetBit(x, y, isInk(c))
}

func (m *Mono) Get(x, y int) bool {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return false
	}
	return m.pixels[y*m.width+x] != 0
}

func (m *Mono) SetBit(x, y int, on bool) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	var v byte
	if on {
		v = 1
	}
	m.pixels[y*m.width+x] = v
}

// Fill paints the rectangle r, clipped to the bounds, with a single value.
func (m *Mono) Fill(r image.Rectangle, on bool) {
	r = r.Intersect(m.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.SetBit(x, y, on)
		}
	}
}

// Paste copies src into m with its top-left corner at (x, y).
func (m *Mono) Paste(src *Mono, x, y int) {
	for sy := 0; sy < src.height; sy++ {
		for sx := 0; sx < src.width; sx++ {
			m.SetBit(x+sx, y+sy, src.Get(sx, sy))
		}
	}
}

// Rotate270 returns the bitmap transposed the way PIL's ROTATE_270 does,
// i.e. turned 90 degrees clockwise.
func (m *Mono) Rotate270() *Mono {
	r := NewMono(m.height, m.width)
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			r.SetBit(x, y, m.Get(y, m.height-1-x))
		}
	}
	return r
}

// Inverted returns a grayscale copy with ink drawn black on white.
func (m *Mono) Inverted() *image.Gray {
	g := image.NewGray(m.Bounds())
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.Get(x, y) {
				g.SetGray(x, y, color.Gray{Y: 0x00})
			} else {
				g.SetGray(x, y, color.Gray{Y: 0xFF})
			}
		}
	}
	return g
}

func (m *Mono) String() string {
	return fmt.Sprintf("Mono(%d,%d)", m.width, m.height)
}

// FromImage thresholds any image into a new Mono.
func FromImage(src image.Image) *Mono {
	b := src.Bounds()
	dst := NewMono(b.Dx(), b.Dy())
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

type monoModel struct{}

func (monoModel) Convert(c color.Color) color.Color {
	if isInk(c) {
		return Ink
	}
	return Blank
}

func isInk(c color.Color) bool {
	return color.GrayModel.Convert(c).(color.Gray).Y >= 0x80
}
