package labelmanager

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"dymoprint/pkg/proto"
)

const (
	// MaxBytesPerLine is the print head width in bytes: 64 pixels on 12mm tape.
	MaxBytesPerLine = 8
	// LabelHeight is the print head width in pixels.
	LabelHeight = MaxBytesPerLine * 8
	// MaxLines is the largest number of rows sent in one flush.
	MaxLines = 200
	// DefaultMargin is the number of blank rows fed after the last row.
	DefaultMargin = 56 * 2
	// StatusLength is the size of the device's answer to a status request.
	StatusLength = 8
)

// ErrRange is returned for protocol parameters outside what the device accepts.
var ErrRange = errors.New("parameter out of range")

type State int

const (
	Idle State = iota
	Building
)

func New(port proto.Port, logger *zap.Logger, opts ...Option) *LabelManager {
	l := &LabelManager{
		port:         port,
		logger:       logger,
		bytesPerLine: -1,
		maxLines:     MaxLines,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LabelManager builds and sends command streams for a Dymo LabelManager PnP.
// The mid-level methods only append to the command buffer; SendCommand,
// GetStatus and PrintLabel talk to the device.
type LabelManager struct {
	port   proto.Port
	logger *zap.Logger
	buf    proto.Buffer
	// dotTab is the bias of the following lines, in bytes
	dotTab int
	// bytesPerLine is the last length sent to the device, -1 when unknown
	bytesPerLine int
	// options
	maxLines int
	progress func(done, total int)
}

func (l *LabelManager) State() State {
	if l.buf.Len() == 0 {
		return Idle
	}
	return Building
}

func (l *LabelManager) DotTab() int {
	return l.dotTab
}

// ResetCommand drops a partially built command without sending it.
func (l *LabelManager) ResetCommand() {
	l.buf.Reset()
}

func (l *LabelManager) buildCommand(cmd proto.Command) {
	l.buf.Append(cmd)
}

// StatusRequest asks for the device status; the next flush reads the answer.
func (l *LabelManager) StatusRequest() {
	l.buildCommand(proto.StatusRequest{})
}

func (l *LabelManager) SetDotTab(value int) error {
	if value < 0 || value > MaxBytesPerLine {
		return errors.Wrapf(ErrRange, "dot tab %d", value)
	}

	l.buildCommand(proto.DotTab{N: byte(value)})
	l.dotTab = value
	l.bytesPerLine = -1
	return nil
}

func (l *LabelManager) SetTapeColor(value int) error {
	if value < 0 || value > 0xFF {
		return errors.Wrapf(ErrRange, "tape color %d", value)
	}

	l.buildCommand(proto.TapeColor{N: byte(value)})
	return nil
}

func (l *LabelManager) SetBytesPerLine(value int) error {
	if value < 0 || value+l.dotTab > MaxBytesPerLine {
		return errors.Wrapf(ErrRange, "%d bytes per line after dot tab %d", value, l.dotTab)
	}
	if value == l.bytesPerLine {
		return nil
	}

	l.buildCommand(proto.BytesPerLine{N: byte(value)})
	l.bytesPerLine = value
	return nil
}

func (l *LabelManager) Cut() {
	l.buildCommand(proto.Cut{})
}

// Line sets the next printed row.
func (l *LabelManager) Line(value []byte) error {
	if err := l.SetBytesPerLine(len(value)); err != nil {
		return err
	}

	l.buildCommand(proto.Line{Data: append([]byte(nil), value...)})
	return nil
}

// ChainMark prints the dashed full-width row used to separate labels.
func (l *LabelManager) ChainMark() error {
	if err := l.SetDotTab(0); err != nil {
		return err
	}
	if err := l.SetBytesPerLine(MaxBytesPerLine); err != nil {
		return err
	}

	mark := make([]byte, MaxBytesPerLine)
	for i := range mark {
		mark[i] = 0x99
	}
	return l.Line(mark)
}

// SkipLines feeds value blank rows.
func (l *LabelManager) SkipLines(value int) error {
	if value <= 0 {
		return errors.Wrapf(ErrRange, "skip %d lines", value)
	}
	if err := l.SetBytesPerLine(0); err != nil {
		return err
	}

	l.buildCommand(proto.SkipLines{N: value})
	return nil
}

// InitLabel appends the label initialization sequence. PrintLabel does not
// call it; the device prints correctly without it.
func (l *LabelManager) InitLabel() {
	l.buildCommand(proto.Init{})
}
