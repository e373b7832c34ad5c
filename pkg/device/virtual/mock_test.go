package virtual

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMock(t *testing.T) {
	m := Mock(zap.NewNop(), 1, 2)

	_, err := m.Write([]byte{0x1B, 'A'})
	require.NoError(t, err)
	_, err = m.Write([]byte{0x1B, 'E'})
	require.NoError(t, err)

	status := make([]byte, StatusLength)
	_, err = io.ReadFull(m, status)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 0, 0, 0, 0, 0, 0}, status)

	assert.Equal(t, []byte{0x1B, 'A', 0x1B, 'E'}, m.Written())
	assert.Equal(t, 2, m.Writes())
	assert.Equal(t, 1, m.Reads())

	assert.False(t, m.Closed())
	require.NoError(t, m.Close())
	assert.True(t, m.Closed())
}
