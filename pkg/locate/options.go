package locate

type Option func(l *Locator)

// WithSysfsRoot sets where sysfs is mounted, "/sys" by default.
func WithSysfsRoot(path string) Option {
	return func(l *Locator) {
		l.sysfs = path
	}
}

// WithDevRoot sets the device directory, "/dev" by default.
func WithDevRoot(path string) Option {
	return func(l *Locator) {
		l.dev = path
	}
}

func WithDevNum(fn DevNumFunc) Option {
	return func(l *Locator) {
		l.devnum = fn
	}
}
