package virtual

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/inhies/go-bytesize"
	"go.uber.org/zap"
)

// StatusLength is the size of the answer to a status request.
const StatusLength = 8

// Mock returns a port that logs and records everything written to it and
// answers every read with status.
func Mock(logger *zap.Logger, status ...byte) *Mocker {
	s := make([]byte, StatusLength)
	copy(s, status)
	return &Mocker{l: logger, status: s}
}

type Mocker struct {
	l *zap.Logger

	mu      sync.Mutex
	written bytes.Buffer
	writes  int
	reads   int
	closed  bool
	status  []byte
}

func (m *Mocker) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.written.Write(p)
	m.writes++

	m.l.With(
		zap.Int("sent", len(p)),
		zap.String("size", bytesize.New(float64(len(p))).String()),
	).Info("write")
	return len(p), nil
}

func (m *Mocker) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads++
	n := copy(p, m.status)

	m.l.With(zap.String("status", fmt.Sprintf("%x", p[:n]))).Info("read")
	return n, nil
}

func (m *Mocker) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.l.Info("close")
	return nil
}

// Written returns a copy of all bytes written so far.
func (m *Mocker) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.written.Bytes()...)
}

func (m *Mocker) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *Mocker) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

func (m *Mocker) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
