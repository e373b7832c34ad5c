//go:build unix

package locate

import (
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

func statDevNum(fs afero.Fs, path string) (uint32, uint32, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return 0, 0, err
	}

	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, errors.Errorf("no device number for %s", path)
	}

	rdev := uint64(st.Rdev)
	return unix.Major(rdev), unix.Minor(rdev), nil
}
