package led

import "errors"

// ErrClosed is returned when writing to a closed driver.
var ErrClosed = errors.New("led driver closed")

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes an RGB frame to hardware. len(rgb) must be 3*N.
	Write(rgb []byte) error
	// Close releases resources.
	Close() error
}
