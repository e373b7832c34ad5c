package render

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Builtin fonts usable by name instead of a file path.
var Builtin = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"goitalic":  goitalic.TTF,
	"gomono":    gomono.TTF,
}

// OpenTypeLoader parses TrueType and OpenType fonts from builtin names or
// files and rasterizes them at 72 DPI, so sizes are in pixels.
type OpenTypeLoader struct {
	fs afero.Fs

	mu    sync.Mutex
	fonts map[string]*opentype.Font
}

func NewOpenTypeLoader(fs afero.Fs) *OpenTypeLoader {
	return &OpenTypeLoader{fs: fs, fonts: map[string]*opentype.Font{}}
}

func (l *OpenTypeLoader) Face(name string, size float64) (font.Face, error) {
	f, err := l.load(name)
	if err != nil {
		return nil, err
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "font face %s", name)
	}
	return face, nil
}

func (l *OpenTypeLoader) load(name string) (*opentype.Font, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.fonts[name]; ok {
		return f, nil
	}

	data, ok := Builtin[name]
	if !ok {
		var err error
		if data, err = afero.ReadFile(l.fs, name); err != nil {
			return nil, errors.Wrapf(err, "read font %s", name)
		}
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse font %s", name)
	}

	l.fonts[name] = f
	return f, nil
}
