package compose

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/makeworld-the-better-one/dither/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"dymoprint/pkg/bitmap"
)

// Raster loads an image, shrinks it to the label height when taller and
// turns its dark areas into ink by dithering the inverted picture.
func (c *Composer) Raster(r Raster) (*bitmap.Mono, error) {
	f, err := c.fs.Open(r.Path)
	if err != nil {
		return nil, errors.Wrapf(ErrImageLoad, "%s: %v", r.Path, err)
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(ErrImageLoad, "%s: %v", r.Path, err)
	}

	b := img.Bounds()
	if b.Dy() > c.height {
		width := int(math.Ceil(float64(b.Dx()) * float64(c.height) / float64(b.Dy())))
		img = imaging.Resize(img, width, c.height, imaging.Lanczos)
		b = img.Bounds()
	}

	flat := imaging.Overlay(imaging.New(b.Dx(), b.Dy(), color.White), img, image.Pt(0, 0), 1.0)
	inverted := imaging.Invert(flat)

	d := dither.NewDitherer([]color.Color{color.Black, color.White})
	d.Matrix = dither.FloydSteinberg
	m := bitmap.FromImage(d.DitherPaletted(inverted))

	c.logger.With(
		zap.String("path", r.Path),
		zap.Stringer("bitmap", m),
	).Debug("raster")
	return m, nil
}
