package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var ErrInvalid = errors.New("config file not valid, please change or remove it")

const (
	TransportHidraw = "hidraw"
	TransportSerial = "serial"
)

// Config is read once at startup and passed around by pointer. Nothing
// modifies it afterwards.
type Config struct {
	Fonts  Fonts  `mapstructure:"fonts"`
	Device Device `mapstructure:"device"`
	Label  Label  `mapstructure:"label"`
	Log    Log    `mapstructure:"log"`
	Web    Web    `mapstructure:"web"`
}

// Fonts maps the font styles to builtin font names or font file paths.
type Fonts struct {
	Regular string `mapstructure:"regular"`
	Bold    string `mapstructure:"bold"`
	Italic  string `mapstructure:"italic"`
	Narrow  string `mapstructure:"narrow"`
}

type Device struct {
	Class     int    `mapstructure:"class"`
	Vendor    int    `mapstructure:"vendor"`
	Product   int    `mapstructure:"product"`
	Node      string `mapstructure:"node"`
	Transport string `mapstructure:"transport"`
	BaudRate  int    `mapstructure:"baud_rate"`
	SysfsRoot string `mapstructure:"sysfs_root"`
	DevRoot   string `mapstructure:"dev_root"`
}

type Label struct {
	Margin   int `mapstructure:"margin"`
	MaxLines int `mapstructure:"max_lines"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

type Web struct {
	Listen string `mapstructure:"listen"`
}

// Style returns the font configured for a style, given by name or by its
// first letter.
func (f Fonts) Style(style string) (string, error) {
	switch style {
	case "r", "regular", "":
		return f.Regular, nil
	case "b", "bold":
		return f.Bold, nil
	case "i", "italic":
		return f.Italic, nil
	case "n", "narrow":
		return f.Narrow, nil
	}
	return "", errors.Errorf("unknown font style %q", style)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fonts.regular", "goregular")
	v.SetDefault("fonts.bold", "gobold")
	v.SetDefault("fonts.italic", "goitalic")
	v.SetDefault("fonts.narrow", "gomono")

	v.SetDefault("device.class", 3)
	v.SetDefault("device.vendor", 0x0922)
	v.SetDefault("device.product", 0x1002)
	v.SetDefault("device.node", "")
	v.SetDefault("device.transport", TransportHidraw)
	v.SetDefault("device.baud_rate", 115200)
	v.SetDefault("device.sysfs_root", "/sys")
	v.SetDefault("device.dev_root", "/dev")

	v.SetDefault("label.margin", 56*2)
	v.SetDefault("label.max_lines", 200)

	v.SetDefault("log.level", "info")

	v.SetDefault("web.listen", ":8000")
}

// DefaultPath is the config file in the user's home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dymoprint.yaml"
	}
	return filepath.Join(home, ".dymoprint.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Load reads the YAML config file at path. A missing file is created with
// the defaults. Environment variables prefixed with DYMOPRINT_ override the
// file, e.g. DYMOPRINT_DEVICE_NODE.
func Load(afs afero.Fs, path string) (*Config, bool, error) {
	v := viper.New()
	v.SetFs(afs)
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DYMOPRINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	created := false
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, false, errors.Wrapf(err, "read config %s", path)
		}
		if err := v.SafeWriteConfigAs(path); err != nil {
			return nil, false, errors.Wrapf(err, "write config %s", path)
		}
		created = true
	} else if !v.InConfig("fonts") {
		return nil, false, errors.Wrap(ErrInvalid, path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, false, errors.Wrapf(err, "decode config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, false, errors.Wrap(err, path)
	}

	return &cfg, created, nil
}

func (c *Config) Validate() error {
	for style, name := range map[string]string{
		"regular": c.Fonts.Regular,
		"bold":    c.Fonts.Bold,
		"italic":  c.Fonts.Italic,
		"narrow":  c.Fonts.Narrow,
	} {
		if name == "" {
			return errors.Wrapf(ErrInvalid, "no %s font", style)
		}
	}

	switch c.Device.Transport {
	case TransportHidraw, TransportSerial:
	default:
		return errors.Wrapf(ErrInvalid, "unknown transport %q", c.Device.Transport)
	}

	if c.Label.Margin < 0 {
		return errors.Wrapf(ErrInvalid, "negative margin %d", c.Label.Margin)
	}
	if c.Label.MaxLines < 1 {
		return errors.Wrapf(ErrInvalid, "max lines %d", c.Label.MaxLines)
	}

	return nil
}
