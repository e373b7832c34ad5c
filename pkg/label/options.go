package label

import (
	"dymoprint/pkg/proto"
)

type Option func(s *Service)

// WithPort prints to port instead of the configured device. The port is
// never closed by the service.
func WithPort(port proto.Port) Option {
	return func(s *Service) {
		s.port = port
	}
}

// WithProgress reports the flushed chunks of every printed label.
func WithProgress(fn func(done, total int)) Option {
	return func(s *Service) {
		s.progress = fn
	}
}
