package locate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrDeviceNotFound is returned by callers when Find reports no device.
var ErrDeviceNotFound = errors.New("device could not be found on this system")

var errFound = errors.New("found")

// ID identifies a HID device by bus class, vendor and product.
type ID struct {
	Class   int
	Vendor  int
	Product int
}

func (id ID) String() string {
	return fmt.Sprintf("%04d:%04X:%04X", id.Class, id.Vendor, id.Product)
}

func (id ID) pattern() *regexp.Regexp {
	return regexp.MustCompile(`^` + id.String() + `\.[0-9A-F]{4}$`)
}

// DevNumFunc returns the major and minor numbers of the device file at path.
type DevNumFunc func(fs afero.Fs, path string) (major, minor uint32, err error)

func New(fs afero.Fs, logger *zap.Logger, opts ...Option) *Locator {
	l := &Locator{
		fs:     fs,
		logger: logger,
		sysfs:  "/sys",
		dev:    "/dev",
		devnum: statDevNum,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Locator finds the raw HID device file of a USB device through sysfs.
type Locator struct {
	fs     afero.Fs
	logger *zap.Logger
	sysfs  string
	dev    string
	devnum DevNumFunc
}

// Find returns the device file of the first HID device matching id. The
// boolean is false when there is no such device.
func (l *Locator) Find(id ID) (string, bool, error) {
	logger := l.logger.With(zap.Stringer("id", id))

	entry, err := l.firstMatch(filepath.Join(l.sysfs, "bus", "hid", "devices"), id.pattern())
	if err != nil || entry == "" {
		return "", false, err
	}

	rawDir := filepath.Join(entry, "hidraw")
	raw, err := afero.ReadDir(l.fs, rawDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "read hidraw")
	}
	if len(raw) == 0 {
		return "", false, nil
	}
	name := raw[0].Name()

	major, minor, err := l.readDev(filepath.Join(rawDir, name, "dev"))
	if err != nil {
		return "", false, err
	}
	logger = logger.With(zap.String("hidraw", name), zap.Uint32("major", major), zap.Uint32("minor", minor))

	link := filepath.Join(l.dev, "char", fmt.Sprintf("%d:%d", major, minor))
	if _, err := l.fs.Stat(link); err == nil {
		path, err := l.realPath(link)
		if err != nil {
			return "", false, err
		}
		logger.With(zap.String("path", path)).Debug("found by symlink")
		return path, true, nil
	}

	candidate := filepath.Join(l.dev, name)
	if l.matches(candidate, major, minor) {
		logger.With(zap.String("path", candidate)).Debug("found by name")
		return candidate, true, nil
	}

	var found string
	err = afero.Walk(l.fs, l.dev, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if l.matches(path, major, minor) {
			found = path
			return errFound
		}
		return nil
	})
	if err != nil && err != errFound {
		return "", false, errors.Wrap(err, "walk devices")
	}
	if found == "" {
		logger.Debug("no device file")
		return "", false, nil
	}

	logger.With(zap.String("path", found)).Debug("found by walk")
	return found, true, nil
}

func (l *Locator) firstMatch(dir string, pattern *regexp.Regexp) (string, error) {
	entries, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "read hid devices")
	}

	for _, e := range entries {
		if pattern.MatchString(e.Name()) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", nil
}

func (l *Locator) readDev(path string) (uint32, uint32, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return 0, 0, errors.Wrap(err, "read device numbers")
	}

	var major, minor uint32
	if _, err := fmt.Sscanf(strings.TrimSpace(string(data)), "%d:%d", &major, &minor); err != nil {
		return 0, 0, errors.Wrapf(err, "parse device numbers %q", data)
	}
	return major, minor, nil
}

func (l *Locator) matches(path string, major, minor uint32) bool {
	ma, mi, err := l.devnum(l.fs, path)
	return err == nil && ma == major && mi == minor
}

// realPath follows the symlink chain at path. Relative targets are resolved
// against the directory holding the link.
func (l *Locator) realPath(path string) (string, error) {
	reader, ok := l.fs.(afero.LinkReader)
	if !ok {
		return path, nil
	}

	for i := 0; i < 16; i++ {
		info, _, err := l.lstat(path)
		if err != nil {
			return "", errors.Wrap(err, "resolve link")
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return filepath.Clean(path), nil
		}

		target, err := reader.ReadlinkIfPossible(path)
		if err != nil {
			return "", errors.Wrap(err, "resolve link")
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = target
	}

	return "", errors.Errorf("too many links at %s", path)
}

func (l *Locator) lstat(path string) (os.FileInfo, bool, error) {
	if lstater, ok := l.fs.(afero.Lstater); ok {
		return lstater.LstatIfPossible(path)
	}
	info, err := l.fs.Stat(path)
	return info, false, err
}
