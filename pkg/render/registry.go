package render

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"golang.org/x/image/font"
)

var (
	ErrQRUnavailable        = errors.New("qr code support is not available")
	ErrBarcodeUnavailable   = errors.New("barcode support is not available")
	ErrUnsupportedSymbology = errors.New("unsupported barcode symbology")
	ErrFontUnavailable      = errors.New("font support is not available")
)

// QREncoder turns text into a square matrix of modules, true for dark ones.
// The matrix includes the quiet zone.
type QREncoder interface {
	Encode(text string, level byte) ([][]bool, error)
}

// BarcodeEncoder turns data into module lines of '0' and '1' characters.
type BarcodeEncoder interface {
	Encode(data string) ([]string, error)
}

type BarcodeFunc func(data string) ([]string, error)

func (f BarcodeFunc) Encode(data string) ([]string, error) {
	return f(data)
}

// FontLoader opens a face of the named font at size pixels.
type FontLoader interface {
	Face(name string, size float64) (font.Face, error)
}

// Registry holds the renderer backends available to the composer. A
// missing backend is reported when it is looked up.
type Registry struct {
	qr       QREncoder
	barcodes map[string]BarcodeEncoder
	fonts    FontLoader
}

func NewRegistry() *Registry {
	return &Registry{barcodes: map[string]BarcodeEncoder{}}
}

// Default returns a registry with the bundled QR, barcode and OpenType backends.
func Default() *Registry {
	r := NewRegistry()
	r.RegisterQR(NewQRBackend())
	for name, enc := range Barcodes() {
		r.RegisterBarcode(name, enc)
	}
	r.RegisterFonts(NewOpenTypeLoader(afero.NewOsFs()))
	return r
}

func (r *Registry) RegisterQR(e QREncoder) {
	r.qr = e
}

func (r *Registry) RegisterBarcode(symbology string, e BarcodeEncoder) {
	r.barcodes[symbology] = e
}

func (r *Registry) RegisterFonts(l FontLoader) {
	r.fonts = l
}

func (r *Registry) QR() (QREncoder, error) {
	if r.qr == nil {
		return nil, ErrQRUnavailable
	}
	return r.qr, nil
}

func (r *Registry) Barcode(symbology string) (BarcodeEncoder, error) {
	if len(r.barcodes) == 0 {
		return nil, ErrBarcodeUnavailable
	}
	e, ok := r.barcodes[symbology]
	if !ok {
		return nil, errors.Wrap(ErrUnsupportedSymbology, symbology)
	}
	return e, nil
}

func (r *Registry) Fonts() (FontLoader, error) {
	if r.fonts == nil {
		return nil, ErrFontUnavailable
	}
	return r.fonts, nil
}

// Symbologies lists the registered barcode names in order.
func (r *Registry) Symbologies() []string {
	names := lo.Keys(r.barcodes)
	sort.Strings(names)
	return names
}
