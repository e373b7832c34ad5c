package compose

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"dymoprint/pkg/bitmap"
)

// fontSizeRatio is the share of a line's height used by the font size.
const fontSizeRatio = 7.0 / 8.0

// Text renders the lines with equal heights. The font size follows the line
// height and the width follows the widest line.
func (c *Composer) Text(t Text) (*bitmap.Mono, error) {
	if len(t.Lines) == 0 {
		return nil, errors.Wrap(ErrEmptyLabel, "text without lines")
	}

	fonts, err := c.reg.Fonts()
	if err != nil {
		return nil, err
	}

	name := t.Font
	if name == "" {
		name = c.font
	}

	lineHeight := float64(c.height) / float64(len(t.Lines))
	size := math.RoundToEven(lineHeight * fontSizeRatio)

	face, err := fonts.Face(name, size)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	frame := t.Frame
	if frame < 1 || frame > 3 {
		frame = 0
	}

	textWidth := lo.Max(lo.Map(t.Lines, func(line string, _ int) int {
		return font.MeasureString(face, line).Ceil()
	}))
	width := textWidth + 2*frame

	m := bitmap.NewMono(width, c.height)
	if frame > 0 {
		m.Fill(m.Bounds(), true)
		m.Fill(image.Rect(frame, frame, width-frame, c.height-frame), false)
	}

	d := &font.Drawer{
		Dst:  m,
		Src:  image.NewUniform(bitmap.Ink),
		Face: face,
	}
	ascent := face.Metrics().Ascent.Ceil()
	for i, line := range t.Lines {
		y := int(math.RoundToEven(float64(i) * lineHeight))
		d.Dot = fixed.P(frame, y+ascent)
		d.DrawString(line)
	}

	c.logger.With(
		zap.Int("lines", len(t.Lines)),
		zap.Float64("size", size),
		zap.Int("frame", frame),
		zap.Stringer("bitmap", m),
	).Debug("text")
	return m, nil
}
