package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"dymoprint/pkg/compose"
	"dymoprint/pkg/config"
	"dymoprint/pkg/device/remote"
	"dymoprint/pkg/device/virtual"
	"dymoprint/pkg/label"
	"dymoprint/pkg/locate"
	"dymoprint/pkg/proto"
	"dymoprint/pkg/render"
	"dymoprint/pkg/usbprobe"
)

var frame = flag.CountP("frame", "f", "draw frame around the text, more arguments for thicker frame")
var style = flag.StringP("style", "s", "r", "set fonts style (r)egular, (b)old, (i)talic, (n)arrow")
var userFont = flag.StringP("font", "u", "", "set user font, overrides --style")
var preview = flag.BoolP("preview", "v", false, "preview the label instead of printing it")
var previewFile = flag.String("preview-file", "dymoprint-preview.png", "where the preview is written, - for stdout")
var qr = flag.Bool("qr", false, "print the first text parameter as QR code")
var barcode = flag.StringP("barcode", "c", "", "print the first text parameter as barcode of this symbology")
var picture = flag.StringP("picture", "p", "", "print the picture next to the text")
var margin = flag.IntP("margin", "m", -1, "blank rows after the label, the configured margin if negative")
var confPath = flag.String("config", config.DefaultPath(), "config file")
var device = flag.String("device", "", "device file, overrides discovery")
var dryRun = flag.Bool("dry-run", false, "log the command stream instead of printing")
var remoteAddr = flag.String("remote", "", "print through a dymoprint-web server, e.g. http://host:8000")
var status = flag.Bool("status", false, "print the device status and exit")
var listBarcodes = flag.Bool("list-barcodes", false, "list the barcode symbologies and exit")
var debug = flag.Bool("debug", false, "set debug")

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, created, err := config.Load(afero.NewOsFs(), *confPath)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("# Config file %q not found: writing new config file.\n", *confPath)
	}
	if *device != "" {
		cfg.Device.Node = *device
	}

	logger, err := config.NewLogger(cfg.Log, *debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	reg := render.Default()
	if *listBarcodes {
		fmt.Println(strings.Join(reg.Symbologies(), "\n"))
		return nil
	}

	job := label.Job{
		Text:    flag.Args(),
		QR:      *qr,
		Barcode: *barcode,
		Picture: *picture,
		Frame:   *frame,
		Style:   *style,
		Font:    *userFont,
	}
	if *margin >= 0 {
		job.Margin = margin
	}

	if *remoteAddr != "" {
		res, err := remote.New(*remoteAddr).Print(job)
		if err != nil {
			return err
		}
		fmt.Printf("Printed label %s on %s\n", res.ID, res.Device)
		return nil
	}

	var bar *progressbar.ProgressBar
	opts := []label.Option{
		label.WithProgress(func(done, total int) {
			if total < 2 {
				return
			}
			if bar == nil {
				bar = progressbar.Default(int64(total), "Printing")
			}
			_ = bar.Set(done)
		}),
	}
	if *dryRun {
		opts = append(opts, label.WithPort(virtual.Mock(logger)))
	}

	svc := label.NewService(
		cfg,
		compose.New(reg, logger, compose.WithFont(cfg.Fonts.Regular)),
		locate.New(afero.NewOsFs(), logger,
			locate.WithSysfsRoot(cfg.Device.SysfsRoot),
			locate.WithDevRoot(cfg.Device.DevRoot),
		),
		logger,
		opts...,
	)

	switch {
	case *status:
		st, err := svc.Status()
		if err != nil {
			return explain(svc, cfg, logger, err)
		}
		fmt.Printf("Status: % x\n", st)
	case *preview:
		fmt.Println("Demo mode: showing label..")
		return writePreview(svc, job)
	default:
		fmt.Println("Printing label..")
		if _, err := svc.Print(job); err != nil {
			return explain(svc, cfg, logger, err)
		}
	}

	return nil
}

func writePreview(svc *label.Service, job label.Job) error {
	var w io.Writer = os.Stdout
	if *previewFile != "-" {
		f, err := os.Create(*previewFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if err := svc.Preview(job, w); err != nil {
		return err
	}
	if *previewFile != "-" {
		fmt.Printf("Preview written to %s\n", *previewFile)
	}
	return nil
}

// explain adds hints for the device errors a user can fix.
func explain(svc *label.Service, cfg *config.Config, logger *zap.Logger, err error) error {
	switch {
	case errors.Is(err, proto.ErrPermissionDenied):
		path, _ := svc.DevicePath()
		fmt.Fprint(os.Stderr, accessError(path, cfg.Device))
	case errors.Is(err, locate.ErrDeviceNotFound):
		mode, d, perr := usbprobe.Probe(usbprobe.LibUSB{}, uint16(cfg.Device.Vendor), uint16(cfg.Device.Product))
		if perr != nil {
			logger.With(zap.Error(perr)).Debug("usb probe")
			break
		}
		if d != nil {
			logger.With(zap.Stringer("device", d), zap.Stringer("mode", mode)).Debug("usb probe")
		}
		fmt.Fprintln(os.Stderr, usbprobe.Hint(mode))
	}
	return err
}

func accessError(path string, dev config.Device) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You do not have sufficient access to the device file %s.\n\n", path)
	sb.WriteString("You probably want to add a rule like one of the following in /etc/udev/rules.d/91-dymo-labelmanager-pnp.rules:\n\n")
	fmt.Fprintf(&sb, "ACTION==\"add\", SUBSYSTEMS==\"usb\", ATTRS{idVendor}==\"%04x\", ATTRS{idProduct}==\"%04x\", MODE=\"0660\", GROUP=\"plugdev\"\n", dev.Vendor, dev.Product)
	fmt.Fprintf(&sb, "KERNEL==\"hidraw*\", ATTRS{idVendor}==\"%04x\", ATTRS{idProduct}==\"%04x\", MODE=\"0666\"\n\n", dev.Vendor, dev.Product)
	sb.WriteString("Following that, restart udev and re-plug your device.\n")
	return sb.String()
}
