package compose

import (
	"github.com/spf13/afero"
)

type Option func(c *Composer)

// WithPadding sets the blank columns between elements.
func WithPadding(px int) Option {
	return func(c *Composer) {
		c.padding = px
	}
}

func WithLabelHeight(px int) Option {
	return func(c *Composer) {
		c.height = px
	}
}

// WithFont sets the font used by Text elements that do not name one.
func WithFont(name string) Option {
	return func(c *Composer) {
		c.font = name
	}
}

// WithFs sets where Raster elements are read from.
func WithFs(fs afero.Fs) Option {
	return func(c *Composer) {
		c.fs = fs
	}
}
