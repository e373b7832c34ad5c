package proto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want []byte
	}{
		{"status", StatusRequest{}, []byte{0x1B, 'A'}},
		{"dot tab", DotTab{N: 3}, []byte{0x1B, 'B', 3}},
		{"tape color", TapeColor{N: 0}, []byte{0x1B, 'C', 0}},
		{"bytes per line", BytesPerLine{N: 8}, []byte{0x1B, 'D', 8}},
		{"cut", Cut{}, []byte{0x1B, 'E'}},
		{"line", Line{Data: []byte{0xAA, 0x55}}, []byte{0x16, 0xAA, 0x55}},
		{"empty line", Line{}, []byte{0x16}},
		{"skip lines", SkipLines{N: 3}, []byte{0x16, 0x16, 0x16}},
		{"init", Init{}, []byte{0, 0, 0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(nil, tt.cmd))
		})
	}
}

func TestBuffer(t *testing.T) {
	var b Buffer
	assert.Equal(t, 0, b.Len())
	assert.False(t, b.ExpectsResponse())

	b.Append(TapeColor{N: 0})
	b.Append(Line{Data: []byte{1}})
	assert.False(t, b.ExpectsResponse())

	b.Append(StatusRequest{})
	assert.True(t, b.ExpectsResponse())
	assert.Equal(t, []byte{0x1B, 'C', 0, 0x16, 1, 0x1B, 'A'}, b.Bytes())
	assert.Len(t, b.Commands(), 3)

	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.False(t, b.ExpectsResponse())
	assert.Empty(t, b.Bytes())
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hidraw0")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	n, err := f.Write([]byte{0x1B, 'A'})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, path, f.Name())
}

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrPermissionDenied))
}

func TestOpenFilePermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file modes")
	}
	path := filepath.Join(t.TempDir(), "hidraw0")
	require.NoError(t, os.WriteFile(path, nil, 0000))

	_, err := OpenFile(path)
	assert.True(t, errors.Is(err, ErrPermissionDenied))
}
