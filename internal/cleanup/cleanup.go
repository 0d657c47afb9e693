// Package cleanup tracks release actions for created temporary entries.
//
// A Registry is constructed explicitly and handed to the builders. The host
// decides when teardown happens, usually with a deferred Close at the top of
// a command. All methods are safe for concurrent use.
package cleanup

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vvka-141/temporarily/pkg/temporarily"
)

// Action releases one resource.
type Action func() error

type registration struct {
	id     uuid.UUID
	name   string
	action Action
}

// Registry is an ordered list of pending release actions.
type Registry struct {
	mu      sync.Mutex
	pending []registration
	logger  temporarily.Logger

	closeOnce sync.Once
	closeErr  error
}

// New creates an empty Registry. logger may be nil.
func New(logger temporarily.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register appends action and returns a handle that runs it once and drops
// it from the registry. Calling the handle again, or after the action was
// flushed, does nothing.
func (r *Registry) Register(name string, action Action) temporarily.CleanupFunc {
	id := uuid.New()

	r.mu.Lock()
	r.pending = append(r.pending, registration{id: id, name: name, action: action})
	r.mu.Unlock()

	r.verbose("registered cleanup %s for %s", id, name)

	return func() error {
		reg, ok := r.take(id)
		if !ok {
			return nil
		}
		return run(reg)
	}
}

// Len returns the number of pending actions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// FlushAll runs every pending action in registration order and empties the
// registry. A failing or panicking action does not stop the others; all
// failures are returned joined.
func (r *Registry) FlushAll() error {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	if len(pending) > 0 {
		r.verbose("flushing %d cleanup action(s)", len(pending))
	}

	var errs []error
	for _, reg := range pending {
		if err := run(reg); err != nil {
			if r.logger != nil {
				r.logger.Error("cleanup of %s failed: %v", reg.name, err)
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close flushes the registry the first time it is called and returns that
// result on every call. It is the exit hook for the owning process.
func (r *Registry) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.FlushAll()
	})
	return r.closeErr
}

func (r *Registry) take(id uuid.UUID) (registration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, reg := range r.pending {
		if reg.id == id {
			r.pending = append(r.pending[:i:i], r.pending[i+1:]...)
			return reg, true
		}
	}
	return registration{}, false
}

func (r *Registry) verbose(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Verbose(format, args...)
	}
}

func run(reg registration) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("cleanup of %s panicked: %v", reg.name, p)
		}
	}()
	if err := reg.action(); err != nil {
		return fmt.Errorf("cleanup of %s: %w", reg.name, err)
	}
	return nil
}
