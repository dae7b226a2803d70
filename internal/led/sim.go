package led

import (
	"fmt"
	"sync"
)

// Sim keeps the last frame in memory; used when no hardware is attached.
type Sim struct {
	mu     sync.Mutex
	last   []byte
	frames uint64
	closed bool
}

func NewSim() *Sim { return &Sim{} }

func (s *Sim) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if len(rgb)%3 != 0 {
		return fmt.Errorf("rgb length %d is not a multiple of 3", len(rgb))
	}
	s.last = append(s.last[:0], rgb...)
	s.frames++
	return nil
}

// Last returns a copy of the last frame and the number of frames written.
func (s *Sim) Last() ([]byte, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.last...), s.frames
}

func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
