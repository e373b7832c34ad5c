package labelmanager

import (
	"bytes"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dymoprint/pkg/bitmap"
)

var status = []byte{1, 2, 3, 4, 5, 6, 7, 8}

type recorder struct {
	writes   [][]byte
	reads    int
	writeErr error
}

func (r *recorder) Write(p []byte) (int, error) {
	if r.writeErr != nil {
		return 0, r.writeErr
	}
	r.writes = append(r.writes, append([]byte(nil), p...))
	return len(p), nil
}

func (r *recorder) Read(p []byte) (int, error) {
	r.reads++
	return copy(p, status), nil
}

func (r *recorder) Close() error {
	return nil
}

func newTest(opts ...Option) (*LabelManager, *recorder) {
	r := &recorder{}
	return New(r, zap.NewNop(), opts...), r
}

func TestBytesPerLineRange(t *testing.T) {
	l, _ := newTest()

	for tab := 0; tab <= MaxBytesPerLine; tab++ {
		require.NoError(t, l.SetDotTab(tab))
		for n := 0; n <= MaxBytesPerLine; n++ {
			err := l.SetBytesPerLine(n)
			if tab+n <= MaxBytesPerLine {
				assert.NoError(t, err, "tab %d n %d", tab, n)
			} else {
				assert.True(t, errors.Is(err, ErrRange), "tab %d n %d", tab, n)
			}
		}
	}

	assert.True(t, errors.Is(l.SetDotTab(9), ErrRange))
	assert.True(t, errors.Is(l.SetDotTab(-1), ErrRange))
	assert.True(t, errors.Is(l.SetTapeColor(-1), ErrRange))
	assert.True(t, errors.Is(l.SkipLines(0), ErrRange))
}

func TestBytesPerLineMemo(t *testing.T) {
	l, _ := newTest()

	require.NoError(t, l.Line([]byte{1, 2}))
	require.NoError(t, l.Line([]byte{3, 4}))
	assert.Equal(t, []byte{0x1B, 'D', 2, 0x16, 1, 2, 0x16, 3, 4}, l.buf.Bytes())

	// a dot tab forgets the length
	require.NoError(t, l.SetDotTab(1))
	require.NoError(t, l.Line([]byte{5, 6}))
	assert.Equal(t, []byte{0x1B, 'B', 1, 0x1B, 'D', 2, 0x16, 5, 6}, l.buf.Bytes()[9:])
}

func TestChainMark(t *testing.T) {
	l, _ := newTest()

	require.NoError(t, l.ChainMark())
	want := []byte{0x1B, 'B', 0, 0x1B, 'D', 8, 0x16, 0x99, 0x99, 0x99, 0x99, 0x99, 0x99, 0x99, 0x99}
	assert.Equal(t, want, l.buf.Bytes())
	assert.Equal(t, Building, l.State())
}

func TestSendCommandEmpty(t *testing.T) {
	l, r := newTest()

	got, err := l.SendCommand()
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, r.writes)
	assert.Zero(t, r.reads)
}

func TestGetStatus(t *testing.T) {
	l, r := newTest()

	got, err := l.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, status, got)
	assert.Equal(t, [][]byte{{0x1B, 'A'}}, r.writes)
	assert.Equal(t, Idle, l.State())
}

func TestSendCommandWithoutStatus(t *testing.T) {
	l, r := newTest()

	l.Cut()
	got, err := l.SendCommand()
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, r.reads)
	assert.Equal(t, [][]byte{{0x1B, 'E'}}, r.writes)
}

func TestSendCommandClearsOnError(t *testing.T) {
	l, r := newTest()
	r.writeErr = io.ErrClosedPipe

	l.StatusRequest()
	_, err := l.SendCommand()
	assert.True(t, errors.Is(err, io.ErrClosedPipe))
	assert.Equal(t, Idle, l.State())
}

func TestSendCommandShortStatus(t *testing.T) {
	port := &shortPort{}
	l := New(port, zap.NewNop())

	_, err := l.GetStatus()
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, Idle, l.State())
}

type shortPort struct {
	bytes.Buffer
}

func (s *shortPort) Read(p []byte) (int, error) {
	if len(p) < 3 {
		return 0, io.EOF
	}
	p[0], p[1], p[2] = 1, 2, 3
	return 3, io.EOF
}

func (s *shortPort) Close() error {
	return nil
}

func TestOptimize(t *testing.T) {
	lines := bitmap.Matrix{
		{0, 0, 0x10, 0, 0, 0, 0, 0},
		{0, 0, 0, 0x01, 0, 0, 0, 0},
		{0, 0, 0x80, 0x80, 0, 0, 0, 0},
	}

	got, tab := Optimize(lines)
	assert.Equal(t, 2, tab)
	assert.Equal(t, bitmap.Matrix{{0x10}, {0, 0x01}, {0x80, 0x80}}, got)

	// input untouched
	assert.Len(t, lines[0], 8)
}

func TestOptimizeKeepsRows(t *testing.T) {
	lines := bitmap.Matrix{
		{0, 0, 0x10, 0},
		{0, 0, 0, 0},
	}

	got, tab := Optimize(lines)
	assert.Equal(t, 2, tab)
	assert.Equal(t, bitmap.Matrix{{0x10}, {}}, got)

	got, tab = Optimize(bitmap.Matrix{})
	assert.Zero(t, tab)
	assert.Empty(t, got)
}

func TestPrintLabel(t *testing.T) {
	l, r := newTest()

	lines := bitmap.Matrix{
		{0, 0xFF},
		{0, 0x0F},
	}
	got, err := l.PrintLabel(lines, 3)
	require.NoError(t, err)
	assert.Equal(t, status, got)

	want := []byte{
		0x1B, 'C', 0,
		0x1B, 'B', 1,
		0x1B, 'D', 1,
		0x16, 0xFF,
		0x16, 0x0F,
		0x1B, 'D', 0,
		0x16, 0x16, 0x16,
		0x1B, 'A',
	}
	require.Len(t, r.writes, 1)
	assert.Equal(t, want, r.writes[0])
	assert.Equal(t, 1, r.reads)
}

func TestPrintLabelChunks(t *testing.T) {
	var progress [][2]int
	l, r := newTest(WithProgress(func(done, total int) {
		progress = append(progress, [2]int{done, total})
	}))

	lines := make(bitmap.Matrix, 250)
	for i := range lines {
		lines[i] = bytes.Repeat([]byte{0xFF}, MaxBytesPerLine)
	}

	_, err := l.PrintLabel(lines, DefaultMargin)
	require.NoError(t, err)
	require.Len(t, r.writes, 2)
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, progress)

	head := []byte{0x1B, 'C', 0, 0x1B, 'B', 0, 0x1B, 'D', 8}
	line := append([]byte{0x16}, bytes.Repeat([]byte{0xFF}, 8)...)

	first := append(append([]byte(nil), head...), bytes.Repeat(line, 200)...)
	first = append(first, 0x1B, 'A')
	assert.Equal(t, first, r.writes[0])

	second := append(append([]byte(nil), head...), bytes.Repeat(line, 50)...)
	second = append(second, 0x1B, 'D', 0)
	second = append(second, bytes.Repeat([]byte{0x16}, DefaultMargin)...)
	second = append(second, 0x1B, 'A')
	assert.Equal(t, second, r.writes[1])
}

func TestPrintLabelMaxLines(t *testing.T) {
	l, r := newTest(WithMaxLines(2))

	lines := bitmap.Matrix{{1}, {2}, {3}}
	_, err := l.PrintLabel(lines, 0)
	require.NoError(t, err)
	assert.Len(t, r.writes, 2)
	assert.Equal(t, 2, r.reads)
}

func TestPrintLabelEmpty(t *testing.T) {
	l, r := newTest()

	_, err := l.PrintLabel(bitmap.Matrix{}, 2)
	require.NoError(t, err)
	require.Len(t, r.writes, 1)
	assert.Equal(t, []byte{0x1B, 'C', 0, 0x1B, 'B', 0, 0x1B, 'D', 0, 0x16, 0x16, 0x1B, 'A'}, r.writes[0])
}

func TestPrintLabelRejectsWideRows(t *testing.T) {
	l, r := newTest()

	lines := bitmap.Matrix{bytes.Repeat([]byte{0xFF}, 9)}
	_, err := l.PrintLabel(lines, 0)
	assert.True(t, errors.Is(err, ErrRange))
	assert.Empty(t, r.writes)
	assert.Equal(t, Idle, l.State())
}
