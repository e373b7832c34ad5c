package compose

// Element is one region of a label. The concrete types are Text, QR, Barcode
// and Raster.
type Element interface {
	element()
}

// Text renders lines stacked vertically over the label height. Frame values
// 1 to 3 draw a border of that many pixels around the text.
type Text struct {
	Lines []string
	Font  string
	Frame int
}

// QR renders a QR code filling the label height. A zero Level means 'M'.
type QR struct {
	Text  string
	Level byte
}

type Barcode struct {
	Symbology string
	Data      string
}

// Raster renders an image file, scaled down to the label height if needed.
type Raster struct {
	Path string
}

func (Text) element()    {}
func (QR) element()      {}
func (Barcode) element() {}
func (Raster) element()  {}
