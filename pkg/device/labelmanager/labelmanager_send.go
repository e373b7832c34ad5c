package labelmanager

import (
	"fmt"
	"io"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SendCommand flushes the built command to the device. When a status request
// is part of the command, the 8 byte answer is read and returned. The buffer
// is cleared whether or not the transfer succeeds.
func (l *LabelManager) SendCommand() ([]byte, error) {
	if l.buf.Len() == 0 {
		return nil, nil
	}

	data := l.buf.Bytes()
	response := l.buf.ExpectsResponse()
	defer l.buf.Reset()

	var sent int
	var cost time.Duration

	start := time.Now()
	if n, err := l.port.Write(data); err != nil {
		return nil, errors.Wrap(err, "write command")
	} else {
		sent = n
		cost = time.Since(start)
	}

	ext := ""
	if len(data) <= 16 {
		ext = fmt.Sprintf("%x", data)
	}

	l.logger.With(
		zap.Int("sent", sent),
		zap.String("size", bytesize.New(float64(sent)).String()),
		zap.String("cost", cost.String()),
		zap.String("data", ext),
	).Debug("transfer")

	if !response {
		return nil, nil
	}

	status := make([]byte, StatusLength)
	if _, err := io.ReadFull(l.port, status); err != nil {
		return nil, errors.Wrap(err, "read status")
	}

	l.logger.With(zap.String("status", fmt.Sprintf("%x", status))).Debug("status")
	return status, nil
}

// GetStatus asks for and returns the device's status.
func (l *LabelManager) GetStatus() ([]byte, error) {
	l.StatusRequest()
	return l.SendCommand()
}
