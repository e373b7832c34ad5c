package proto

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// ErrPermissionDenied is returned when the device file exists but cannot be
// opened for reading and writing by the current user.
var ErrPermissionDenied = errors.New("insufficient access to the device file")

// Port is an opened device handle. Writes block until the driver accepts the
// bytes and reads block until the device answers.
type Port interface {
	io.Reader
	io.Writer
	io.Closer
}

// OpenFile opens a character device such as /dev/hidraw0 for reading and writing.
func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsPermission(err) {
			return nil, errors.Wrap(ErrPermissionDenied, path)
		}
		return nil, errors.Wrapf(err, "open device %s", path)
	}
	return &File{f: f}, nil
}

type File struct {
	f *os.File
}

func (f *File) Name() string {
	return f.f.Name()
}

func (f *File) Read(p []byte) (n int, err error) {
	return f.f.Read(p)
}

func (f *File) Write(p []byte) (n int, err error) {
	return f.f.Write(p)
}

func (f *File) Close() error {
	return f.f.Close()
}
