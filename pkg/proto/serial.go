package proto

import (
	"strings"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

type Options struct {
	DTR      bool
	RTS      bool
	BaudRate int
}

// NewSerial returns a port for a labeler bridged over a USB-serial adapter.
// name is matched as a substring against the system's port list.
func NewSerial(name string) *Serial {
	return &Serial{name: name}
}

type Serial struct {
	name string
	port serial.Port
}

func (s *Serial) Ports() ([]string, error) {
	return serial.GetPortsList()
}

func (s *Serial) Open(opts *Options) error {
	ports, err := s.Ports()
	if err != nil {
		return err
	}

	var matched string
	for _, name := range ports {
		if strings.Contains(name, s.name) {
			matched = name
			break
		}
	}
	if matched == "" {
		return errors.New("serial port not found")
	}

	port, err := serial.Open(matched, &serial.Mode{BaudRate: opts.BaudRate})
	if err != nil {
		var perr *serial.PortError
		if errors.As(err, &perr) && perr.Code() == serial.PermissionDenied {
			return errors.Wrap(ErrPermissionDenied, matched)
		}
		return err
	}

	if err := port.SetDTR(opts.DTR); err != nil {
		_ = port.Close()
		return err
	}

	if err := port.SetRTS(opts.RTS); err != nil {
		_ = port.Close()
		return err
	}

	s.port = port
	return nil
}

func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}
	return s.port.Close()
}

func (s *Serial) Read(p []byte) (n int, err error) {
	return s.port.Read(p)
}

func (s *Serial) Write(p []byte) (n int, err error) {
	return s.port.Write(p)
}
