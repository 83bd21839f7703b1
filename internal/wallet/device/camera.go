// Package device provides stand-ins for hardware the wallet screens use.
package device

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrAlreadyClosed    = errors.New("capture already closed")
)

// Simulated is a camera that hands out in-memory capture handles.
type Simulated struct {
	mu     sync.Mutex
	deny   bool
	nextID uint64
	open   map[uint64]struct{}
	opened atomic.Int64
}

func NewSimulated() *Simulated {
	return &Simulated{open: make(map[uint64]struct{})}
}

// Deny makes later Open calls fail with ErrPermissionDenied.
func (s *Simulated) Deny(deny bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deny = deny
}

func (s *Simulated) Open(ctx context.Context) (*Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deny {
		return nil, ErrPermissionDenied
	}

	s.nextID++
	s.open[s.nextID] = struct{}{}
	s.opened.Add(1)

	return &Capture{id: s.nextID, cam: s}, nil
}

// Active is the number of captures opened and not yet closed.
func (s *Simulated) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}

// Opened is the number of captures ever opened.
func (s *Simulated) Opened() int64 {
	return s.opened.Load()
}

func (s *Simulated) release(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.open[id]; !ok {
		return ErrAlreadyClosed
	}
	delete(s.open, id)
	return nil
}

type Capture struct {
	id  uint64
	cam *Simulated
}

func (c *Capture) Close() error {
	return c.cam.release(c.id)
}
