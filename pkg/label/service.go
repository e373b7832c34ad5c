package label

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"go.uber.org/zap"

	"dymoprint/pkg/bitmap"
	"dymoprint/pkg/compose"
	"dymoprint/pkg/config"
	"dymoprint/pkg/device/labelmanager"
	"dymoprint/pkg/locate"
	"dymoprint/pkg/proto"
)

// PreviewBorder is the blank space added on both ends of a preview, matching
// what the printer feeds around a label.
const PreviewBorder = 56

func NewService(cfg *config.Config, composer *compose.Composer, locator *locate.Locator, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		cfg:      cfg,
		composer: composer,
		locator:  locator,
		logger:   logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Service renders jobs and prints them. Prints are serialized since the
// device handle is exclusive.
type Service struct {
	cfg      *config.Config
	composer *compose.Composer
	locator  *locate.Locator
	logger   *zap.Logger
	// options
	port     proto.Port
	progress func(done, total int)

	mu sync.Mutex
}

type Result struct {
	ID     string `json:"id"`
	Device string `json:"device"`
	Rows   int    `json:"rows"`
	Status []byte `json:"status"`
}

// Render composes the job and packs it for the printer.
func (s *Service) Render(job Job) (*bitmap.Mono, bitmap.Matrix, error) {
	elements, err := job.Elements(s.cfg.Fonts)
	if err != nil {
		return nil, nil, err
	}

	m, err := s.composer.Compose(elements...)
	if err != nil {
		return nil, nil, err
	}

	matrix, err := bitmap.Pack(m)
	if err != nil {
		return nil, nil, err
	}

	return m, matrix, nil
}

// Print renders the job and sends it to the device.
func (s *Service) Print(job Job) (*Result, error) {
	id := xid.New()
	logger := s.logger.With(zap.Stringer("job", id))

	_, matrix, err := s.Render(job)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	port, path, err := s.open()
	if err != nil {
		return nil, err
	}
	defer port.Close()

	margin := s.cfg.Label.Margin
	if job.Margin != nil {
		margin = *job.Margin
	}

	lm := labelmanager.New(port, logger,
		labelmanager.WithMaxLines(s.cfg.Label.MaxLines),
		labelmanager.WithProgress(s.progress),
	)

	status, err := lm.PrintLabel(matrix, margin)
	if err != nil {
		return nil, errors.Wrapf(err, "print to %s", path)
	}

	logger.With(zap.String("device", path), zap.Int("rows", len(matrix))).Info("printed")
	return &Result{ID: id.String(), Device: path, Rows: len(matrix), Status: status}, nil
}

// Status asks the device for its 8 byte status.
func (s *Service) Status() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	port, _, err := s.open()
	if err != nil {
		return nil, err
	}
	defer port.Close()

	return labelmanager.New(port, s.logger).GetStatus()
}

// Preview writes the label as a PNG, ink black on white with the blank feed
// added on both ends.
func (s *Service) Preview(job Job, w io.Writer) error {
	m, _, err := s.Render(job)
	if err != nil {
		return err
	}

	canvas := imaging.New(PreviewBorder+m.Width()+PreviewBorder, m.Height(), color.White)
	canvas = imaging.Paste(canvas, m.Inverted(), image.Pt(PreviewBorder, 0))

	return errors.Wrap(imaging.Encode(w, canvas, imaging.PNG), "encode preview")
}

// DevicePath returns the configured device node or finds the labeler.
func (s *Service) DevicePath() (string, error) {
	if s.cfg.Device.Node != "" {
		return s.cfg.Device.Node, nil
	}

	id := locate.ID{Class: s.cfg.Device.Class, Vendor: s.cfg.Device.Vendor, Product: s.cfg.Device.Product}
	path, ok, err := s.locator.Find(id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.Wrap(locate.ErrDeviceNotFound, id.String())
	}
	return path, nil
}

func (s *Service) open() (proto.Port, string, error) {
	if s.port != nil {
		return nopCloser{s.port}, "virtual", nil
	}

	if s.cfg.Device.Transport == config.TransportSerial {
		if s.cfg.Device.Node == "" {
			return nil, "", errors.New("serial transport needs a device node")
		}
		port := proto.NewSerial(s.cfg.Device.Node)
		if err := port.Open(&proto.Options{BaudRate: s.cfg.Device.BaudRate}); err != nil {
			return nil, s.cfg.Device.Node, err
		}
		return port, s.cfg.Device.Node, nil
	}

	path, err := s.DevicePath()
	if err != nil {
		return nil, "", err
	}

	f, err := proto.OpenFile(path)
	if err != nil {
		return nil, path, err
	}
	return f, path, nil
}

type nopCloser struct {
	proto.Port
}

func (nopCloser) Close() error {
	return nil
}

// String describes where labels go.
func (s *Service) String() string {
	if s.port != nil {
		return "virtual"
	}
	if s.cfg.Device.Node != "" {
		return s.cfg.Device.Node
	}
	return fmt.Sprintf("%04X:%04X", s.cfg.Device.Vendor, s.cfg.Device.Product)
}
