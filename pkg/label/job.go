package label

import (
	"github.com/pkg/errors"

	"dymoprint/pkg/compose"
	"dymoprint/pkg/config"
)

// MaxFrame is the thickest text frame in pixels.
const MaxFrame = 3

// ErrMissingText is returned when a QR code or barcode is requested without
// any text to encode.
var ErrMissingText = errors.New("qr code and barcode need text to encode")

// Job describes one label. A QR code or barcode encodes the first text line;
// the remaining lines are printed as text next to it.
type Job struct {
	Text    []string `json:"text,omitempty"`
	QR      bool     `json:"qr,omitempty"`
	Barcode string   `json:"barcode,omitempty"`
	Picture string   `json:"picture,omitempty"`
	Frame   int      `json:"frame,omitempty"`
	Style   string   `json:"style,omitempty"`
	Font    string   `json:"font,omitempty"`
	Margin  *int     `json:"margin,omitempty"`
}

// Elements turns the job into label elements in print order.
func (j Job) Elements(fonts config.Fonts) ([]compose.Element, error) {
	if j.QR && j.Barcode != "" {
		return nil, compose.ErrConflictingContent
	}

	lines := append([]string(nil), j.Text...)
	var elements []compose.Element

	if j.QR || j.Barcode != "" {
		if len(lines) == 0 {
			return nil, ErrMissingText
		}
		if j.QR {
			elements = append(elements, compose.QR{Text: lines[0], Level: compose.DefaultQRLevel})
		} else {
			elements = append(elements, compose.Barcode{Symbology: j.Barcode, Data: lines[0]})
		}
		lines = lines[1:]
	}

	if len(lines) > 0 {
		font := j.Font
		if font == "" {
			var err error
			if font, err = fonts.Style(j.Style); err != nil {
				return nil, err
			}
		}

		frame := j.Frame
		if frame > MaxFrame {
			frame = MaxFrame
		}
		elements = append(elements, compose.Text{Lines: lines, Font: font, Frame: frame})
	}

	if j.Picture != "" {
		elements = append(elements, compose.Raster{Path: j.Picture})
	}

	return elements, nil
}
