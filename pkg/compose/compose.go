package compose

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"dymoprint/pkg/bitmap"
	"dymoprint/pkg/render"
)

const (
	// DefaultHeight is the print head width of a LabelManager PnP in pixels.
	DefaultHeight = 64
	// DefaultPadding separates elements of a label.
	DefaultPadding = 4
)

var (
	ErrQRTooDense         = errors.New("too much information to store in the qr code, modules are smaller than the device resolution")
	ErrImageLoad          = errors.New("image could not be loaded")
	ErrConflictingContent = errors.New("can not print both qr code and barcode on the same label")
	ErrEmptyLabel         = errors.New("label has no content")

	ErrUnsupportedSymbology = render.ErrUnsupportedSymbology
	ErrQRUnavailable        = render.ErrQRUnavailable
	ErrBarcodeUnavailable   = render.ErrBarcodeUnavailable
)

func New(reg *render.Registry, logger *zap.Logger, opts ...Option) *Composer {
	c := &Composer{
		reg:     reg,
		logger:  logger,
		height:  DefaultHeight,
		padding: DefaultPadding,
		font:    "goregular",
		fs:      afero.NewOsFs(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Composer renders label elements into a single bitmap whose height is the
// print head width.
type Composer struct {
	reg    *render.Registry
	logger *zap.Logger
	// options
	height  int
	padding int
	font    string
	fs      afero.Fs
}

func (c *Composer) Height() int {
	return c.height
}

// Compose renders the elements and joins them left to right. A single
// element is returned as rendered. Nothing is rendered when the elements
// ask for a QR code and a barcode at once.
func (c *Composer) Compose(elements ...Element) (*bitmap.Mono, error) {
	if len(elements) == 0 {
		return nil, ErrEmptyLabel
	}

	if err := checkConflicts(elements); err != nil {
		return nil, err
	}

	regions := make([]*bitmap.Mono, 0, len(elements))
	for _, e := range elements {
		m, err := c.Render(e)
		if err != nil {
			return nil, err
		}
		regions = append(regions, m)
	}

	if len(regions) == 1 {
		return regions[0], nil
	}

	label := c.concat(regions)
	c.logger.With(
		zap.Int("elements", len(regions)),
		zap.Stringer("bitmap", label),
	).Debug("composed")
	return label, nil
}

// Render renders a single element.
func (c *Composer) Render(e Element) (*bitmap.Mono, error) {
	switch v := e.(type) {
	case Text:
		return c.Text(v)
	case QR:
		return c.QR(v)
	case Barcode:
		return c.Barcode(v)
	case Raster:
		return c.Raster(v)
	}
	panic("compose: unknown element")
}

func checkConflicts(elements []Element) error {
	qrs := lo.CountBy(elements, func(e Element) bool {
		_, ok := e.(QR)
		return ok
	})
	barcodes := lo.CountBy(elements, func(e Element) bool {
		_, ok := e.(Barcode)
		return ok
	})

	if qrs > 0 && barcodes > 0 {
		return ErrConflictingContent
	}
	return nil
}

func (c *Composer) concat(regions []*bitmap.Mono) *bitmap.Mono {
	width := lo.SumBy(regions, func(m *bitmap.Mono) int { return m.Width() })
	width += c.padding * (len(regions) - 1)
	height := lo.Max(lo.Map(regions, func(m *bitmap.Mono, _ int) int { return m.Height() }))

	label := bitmap.NewMono(width, height)
	offset := 0
	for _, m := range regions {
		label.Paste(m, offset, 0)
		offset += m.Width() + c.padding
	}
	return label
}
