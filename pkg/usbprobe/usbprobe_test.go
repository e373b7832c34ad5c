package usbprobe

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	devices []Device
	err     error
}

func (f fakeBus) Devices() ([]Device, error) {
	return f.devices, f.err
}

func TestProbe(t *testing.T) {
	keyboard := Device{Vendor: 0x046d, Product: 0xc52b, Bus: 1, Address: 2}
	printer := Device{Vendor: 0x0922, Product: 0x1002, Bus: 1, Address: 5}
	storage := Device{Vendor: 0x0922, Product: 0x1001, Bus: 1, Address: 6}

	tests := []struct {
		name    string
		devices []Device
		mode    Mode
		device  *Device
	}{
		{"empty", nil, Absent, nil},
		{"other devices", []Device{keyboard}, Absent, nil},
		{"printer", []Device{keyboard, printer}, Printer, &printer},
		{"mass storage", []Device{storage, keyboard}, MassStorage, &storage},
		{"printer wins", []Device{storage, printer}, Printer, &printer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, d, err := Probe(fakeBus{devices: tt.devices}, 0x0922, 0x1002)
			require.NoError(t, err)
			assert.Equal(t, tt.mode, mode)
			assert.Equal(t, tt.device, d)
			assert.NotEmpty(t, Hint(mode))
		})
	}
}

func TestProbeError(t *testing.T) {
	_, _, err := Probe(fakeBus{err: errors.New("no libusb")}, 0x0922, 0x1002)
	assert.Error(t, err)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "mass storage", MassStorage.String())
	assert.Equal(t, "0922:1002 at 001/005", Device{Vendor: 0x0922, Product: 0x1002, Bus: 1, Address: 5}.String())
}
