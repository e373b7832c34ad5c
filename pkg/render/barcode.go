package render

import (
	"image/color"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/codabar"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/code93"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/twooffive"
	"github.com/pkg/errors"
)

// ErrBarcodeData is returned when the data does not fit the symbology.
var ErrBarcodeData = errors.New("invalid barcode data")

// Barcodes returns the bundled 1D encoders by symbology name.
func Barcodes() map[string]BarcodeEncoder {
	ean13 := digits("", 12, 13)
	upca := digits("0", 11, 12)

	return map[string]BarcodeEncoder{
		"code128": encode1D(func(data string) (barcode.Barcode, error) {
			return code128.Encode(data)
		}),
		"code39": encode1D(func(data string) (barcode.Barcode, error) {
			return code39.Encode(strings.ToUpper(data), true, false)
		}),
		"code93": encode1D(func(data string) (barcode.Barcode, error) {
			return code93.Encode(strings.ToUpper(data), true, false)
		}),
		"ean8":    digits("", 7, 8),
		"ean13":   ean13,
		"ean":     ean13,
		"gtin":    ean13,
		"jan":     ean13,
		"isbn":    ean13,
		"isbn13":  ean13,
		"upc":     upca,
		"upca":    upca,
		"itf": encode1D(func(data string) (barcode.Barcode, error) {
			return twooffive.Encode(data, true)
		}),
		"codabar": encode1D(func(data string) (barcode.Barcode, error) {
			return codabar.Encode(strings.ToUpper(data))
		}),
	}
}

func encode1D(fn func(string) (barcode.Barcode, error)) BarcodeFunc {
	return func(data string) ([]string, error) {
		code, err := fn(data)
		if err != nil {
			return nil, errors.Wrapf(ErrBarcodeData, "%s: %v", data, err)
		}
		return []string{Modules(code)}, nil
	}
}

// digits accepts EAN data of one of the given lengths, ignoring dashes and
// spaces, and prefixes it before encoding.
func digits(prefix string, lengths ...int) BarcodeFunc {
	return encode1D(func(data string) (barcode.Barcode, error) {
		clean := strings.NewReplacer("-", "", " ", "").Replace(data)
		ok := false
		for _, n := range lengths {
			ok = ok || len(clean) == n
		}
		if !ok {
			return nil, errors.Errorf("need %v digits, got %d", lengths, len(clean))
		}
		return ean.Encode(prefix + clean)
	})
}

// Modules reads the first row of a 1D barcode image as '0' and '1' characters.
func Modules(code barcode.Barcode) string {
	b := code.Bounds()

	var sb strings.Builder
	sb.Grow(b.Dx())
	for x := b.Min.X; x < b.Max.X; x++ {
		if dark(code.At(x, b.Min.Y)) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func dark(c color.Color) bool {
	return color.GrayModel.Convert(c).(color.Gray).Y < 0x80
}
