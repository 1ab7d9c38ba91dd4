package shutdown

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/psantana5/tsperf-matrix/pkg/logging"
)

type step struct {
	name string
	fn   func(context.Context) error
}

// Manager runs registered shutdown steps in reverse registration order
type Manager struct {
	steps   []step
	mu      sync.Mutex
	timeout time.Duration
	logger  *logging.Logger
	once    sync.Once
	err     error
}

// New creates a manager whose steps share one timeout
func New(timeout time.Duration, logger *logging.Logger) *Manager {
	return &Manager{timeout: timeout, logger: logger}
}

// Register adds a named shutdown step. Steps registered later run first.
func (m *Manager) Register(name string, fn func(context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, step{name: name, fn: fn})
}

// Shutdown runs every step once, even when earlier steps fail, and returns
// all step errors joined. Later calls return the first call's result.
func (m *Manager) Shutdown() error {
	m.once.Do(func() {
		m.mu.Lock()
		steps := append([]step(nil), m.steps...)
		m.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		var errs []error
		for i := len(steps) - 1; i >= 0; i-- {
			s := steps[i]
			m.logger.Debug("stopping", map[string]interface{}{"step": s.name})
			if err := s.fn(ctx); err != nil {
				m.logger.Error("shutdown step failed", map[string]interface{}{"step": s.name, "error": err.Error()})
				errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
			}
		}
		m.err = errors.Join(errs...)
	})
	return m.err
}
