package compose

import (
	"image"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"dymoprint/pkg/bitmap"
)

const (
	// DefaultQRLevel is the error correction level used when none is given.
	DefaultQRLevel = 'M'

	barcodeQuietZone   = 6
	barcodeMargin      = 8
	barcodeModuleWidth = 2
)

// QR renders a square label-high QR code, scaling each module to the largest
// whole number of pixels that fits and centering it vertically.
func (c *Composer) QR(q QR) (*bitmap.Mono, error) {
	enc, err := c.reg.QR()
	if err != nil {
		return nil, err
	}

	level := q.Level
	if level == 0 {
		level = DefaultQRLevel
	}

	modules, err := enc.Encode(q.Text, level)
	if err != nil {
		return nil, err
	}

	return c.paintQR(modules)
}

func (c *Composer) paintQR(modules [][]bool) (*bitmap.Mono, error) {
	n := len(modules)
	if n == 0 || c.height/n == 0 {
		return nil, errors.Wrapf(ErrQRTooDense, "%d modules in %d pixels", n, c.height)
	}

	scale := c.height / n
	offset := (c.height - n*scale) / 2

	m := bitmap.NewMono(c.height, c.height)
	for row, line := range modules {
		for col, on := range line {
			if on {
				x, y := col*scale, row*scale+offset
				m.Fill(image.Rect(x, y, x+scale, y+scale), true)
			}
		}
	}

	c.logger.With(zap.Int("modules", n), zap.Int("scale", scale)).Debug("qr")
	return m, nil
}

// Barcode renders the module lines of the symbology stacked vertically, with
// bars two pixels per module between blank quiet zones.
func (c *Composer) Barcode(b Barcode) (*bitmap.Mono, error) {
	enc, err := c.reg.Barcode(b.Symbology)
	if err != nil {
		return nil, err
	}

	lines, err := enc.Encode(b.Data)
	if err != nil {
		return nil, errors.Wrap(err, b.Symbology)
	}

	return c.paintBarcode(lines), nil
}

func (c *Composer) paintBarcode(lines []string) *bitmap.Mono {
	moduleHeight := c.height - 2*barcodeMargin
	modules := lo.Max(lo.Map(lines, func(line string, _ int) int { return len(line) }))

	m := bitmap.NewMono(
		2*barcodeQuietZone+modules*barcodeModuleWidth,
		2*barcodeMargin+moduleHeight*len(lines),
	)

	y := barcodeMargin
	for _, line := range lines {
		x := barcodeQuietZone
		for _, r := range runs(line) {
			w := r.length * barcodeModuleWidth
			if r.bar {
				m.Fill(image.Rect(x, y, x+w, y+moduleHeight), true)
			}
			x += w
		}
		y += moduleHeight
	}

	c.logger.With(zap.Int("modules", modules), zap.Stringer("bitmap", m)).Debug("barcode")
	return m
}

type run struct {
	bar    bool
	length int
}

// runs compresses a module line into runs of equal modules.
func runs(line string) []run {
	var out []run
	for i := 0; i < len(line); i++ {
		bar := line[i] == '1'
		if n := len(out); n > 0 && out[n-1].bar == bar {
			out[n-1].length++
			continue
		}
		out = append(out, run{bar: bar, length: 1})
	}
	return out
}
