package usbprobe

import (
	"fmt"

	"github.com/google/gousb"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// MassStorageProduct is the product id of a LabelManager PnP still in its
// mass storage mode, before it has been switched to the printer mode.
const MassStorageProduct = 0x1001

type Mode int

const (
	Absent Mode = iota
	Printer
	MassStorage
)

func (m Mode) String() string {
	switch m {
	case Printer:
		return "printer"
	case MassStorage:
		return "mass storage"
	}
	return "absent"
}

type Device struct {
	Vendor  uint16
	Product uint16
	Bus     int
	Address int
}

func (d Device) String() string {
	return fmt.Sprintf("%04x:%04x at %03d/%03d", d.Vendor, d.Product, d.Bus, d.Address)
}

// Enumerator lists the attached USB devices.
type Enumerator interface {
	Devices() ([]Device, error)
}

// LibUSB lists devices through libusb without opening any of them.
type LibUSB struct{}

func (LibUSB) Devices() (devices []Device, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("libusb: %v", r)
		}
	}()

	ctx := gousb.NewContext()
	defer ctx.Close()

	_, err = ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		devices = append(devices, Device{
			Vendor:  uint16(desc.Vendor),
			Product: uint16(desc.Product),
			Bus:     desc.Bus,
			Address: desc.Address,
		})
		return false
	})
	if err != nil {
		return nil, errors.Wrap(err, "list usb devices")
	}
	return devices, nil
}

// Probe reports in which mode a labeler of the vendor is attached.
func Probe(e Enumerator, vendor, product uint16) (Mode, *Device, error) {
	devices, err := e.Devices()
	if err != nil {
		return Absent, nil, err
	}

	if d, ok := lo.Find(devices, func(d Device) bool {
		return d.Vendor == vendor && d.Product == product
	}); ok {
		return Printer, &d, nil
	}

	if d, ok := lo.Find(devices, func(d Device) bool {
		return d.Vendor == vendor && d.Product == MassStorageProduct
	}); ok {
		return MassStorage, &d, nil
	}

	return Absent, nil, nil
}

// Hint explains what to do about a labeler in mode m.
func Hint(m Mode) string {
	switch m {
	case Printer:
		return "The labeler is attached but has no hidraw device file; check that the usbhid driver is bound to it."
	case MassStorage:
		return "The labeler is attached in mass storage mode. Switch it to printer mode, e.g. with usb_modeswitch -v 0x0922 -p 0x1001 -V 0x0922 -P 0x1002 --reset-usb, or set device.product to 0x1001."
	}
	return "No labeler is attached to the USB bus."
}
