package render

import (
	"github.com/boombuler/barcode/qr"
	"github.com/pkg/errors"
)

// ErrQRLevel is returned for an error correction level other than L, M, Q or H.
var ErrQRLevel = errors.New("invalid qr error correction level")

var qrLevels = map[byte]qr.ErrorCorrectionLevel{
	'L': qr.L,
	'M': qr.M,
	'Q': qr.Q,
	'H': qr.H,
}

type QRBackend struct {
	quietZone int
}

// NewQRBackend returns an encoder surrounding each code with one blank module.
func NewQRBackend() *QRBackend {
	return &QRBackend{quietZone: 1}
}

func (b *QRBackend) Encode(text string, level byte) ([][]bool, error) {
	lvl, ok := qrLevels[level]
	if !ok {
		return nil, errors.Wrapf(ErrQRLevel, "%q", level)
	}

	code, err := qr.Encode(text, lvl, qr.Auto)
	if err != nil {
		return nil, errors.Wrap(err, "qr encode")
	}

	bounds := code.Bounds()
	size := bounds.Dx() + 2*b.quietZone

	modules := make([][]bool, size)
	for y := range modules {
		modules[y] = make([]bool, size)
	}
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			modules[y+b.quietZone][x+b.quietZone] = dark(code.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}

	return modules, nil
}
