//go:build !unix

package locate

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

func statDevNum(fs afero.Fs, path string) (uint32, uint32, error) {
	return 0, 0, errors.Errorf("no device number for %s", path)
}
