package locate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var labelManager = ID{Class: 3, Vendor: 0x0922, Product: 0x1002}

// fixture lays out a sysfs and dev tree for a hidraw device numbered 247:0.
func fixture(t *testing.T, hid string, link bool) (string, afero.Fs) {
	t.Helper()
	root := t.TempDir()

	raw := filepath.Join(root, "sys", "bus", "hid", "devices", hid, "hidraw", "hidraw0")
	require.NoError(t, os.MkdirAll(raw, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(raw, "dev"), []byte("247:0\n"), 0644))

	other := filepath.Join(root, "sys", "bus", "hid", "devices", "0003:046D:C52B.0002")
	require.NoError(t, os.MkdirAll(other, 0755))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "dev", "char"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dev", "usb"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dev", "hidraw0"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dev", "usb", "labeler"), nil, 0644))

	if link {
		require.NoError(t, os.Symlink("../hidraw0", filepath.Join(root, "dev", "char", "247:0")))
	}

	return root, afero.NewBasePathFs(afero.NewOsFs(), root)
}

func devnums(m map[string][2]uint32) DevNumFunc {
	return func(fs afero.Fs, path string) (uint32, uint32, error) {
		n, ok := m[path]
		if !ok {
			return 0, 0, errors.New("not a device")
		}
		return n[0], n[1], nil
	}
}

func TestFindSymlink(t *testing.T) {
	_, fs := fixture(t, "0003:0922:1002.0001", true)

	path, ok, err := New(fs, zap.NewNop(), WithDevNum(devnums(nil))).Find(labelManager)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/dev/hidraw0", path)
}

func TestFindNotFound(t *testing.T) {
	_, fs := fixture(t, "0003:0922:1002.0001", true)

	path, ok, err := New(fs, zap.NewNop()).Find(ID{Class: 3, Vendor: 0x0922, Product: 0x1001})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, path)
}

func TestFindPattern(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		found bool
	}{
		{"hex suffix", "0003:0922:1002.00AF", true},
		{"lowercase suffix", "0003:0922:1002.00af", false},
		{"short suffix", "0003:0922:1002.001", false},
		{"other class", "0005:0922:1002.0001", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, fs := fixture(t, tt.entry, true)

			_, ok, err := New(fs, zap.NewNop()).Find(labelManager)
			require.NoError(t, err)
			assert.Equal(t, tt.found, ok)
		})
	}
}

func TestFindByName(t *testing.T) {
	_, fs := fixture(t, "0003:0922:1002.0001", false)

	l := New(fs, zap.NewNop(), WithDevNum(devnums(map[string][2]uint32{
		"/dev/hidraw0": {247, 0},
	})))
	path, ok, err := l.Find(labelManager)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/dev/hidraw0", path)
}

func TestFindByWalk(t *testing.T) {
	_, fs := fixture(t, "0003:0922:1002.0001", false)

	l := New(fs, zap.NewNop(), WithDevNum(devnums(map[string][2]uint32{
		"/dev/hidraw0":     {247, 1},
		"/dev/usb/labeler": {247, 0},
	})))
	path, ok, err := l.Find(labelManager)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/dev/usb/labeler", path)
}

func TestFindNoDeviceFile(t *testing.T) {
	_, fs := fixture(t, "0003:0922:1002.0001", false)

	path, ok, err := New(fs, zap.NewNop(), WithDevNum(devnums(nil))).Find(labelManager)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, path)
}

func TestFindMissingSysfs(t *testing.T) {
	_, ok, err := New(afero.NewMemMapFs(), zap.NewNop()).Find(labelManager)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindRoots(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/host/sys/bus/hid/devices/0003:0922:1002.0001/hidraw/hidraw3/dev", []byte("247:3"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/host/dev/hidraw3", nil, 0644))

	l := New(fs, zap.NewNop(),
		WithSysfsRoot("/host/sys"),
		WithDevRoot("/host/dev"),
		WithDevNum(devnums(map[string][2]uint32{"/host/dev/hidraw3": {247, 3}})),
	)
	path, ok, err := l.Find(labelManager)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/host/dev/hidraw3", path)
}

func TestFindBadDevFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/sys/bus/hid/devices/0003:0922:1002.0001/hidraw/hidraw0/dev", []byte("garbage"), 0644))

	_, _, err := New(fs, zap.NewNop()).Find(labelManager)
	assert.Error(t, err)
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "0003:0922:1002", labelManager.String())
}
