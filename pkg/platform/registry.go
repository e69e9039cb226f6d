// Channel registry
package platform

import (
	"fmt"
	"sync"

	"github.com/kart-io/pling/pkg/environ"
	"github.com/kart-io/pling/pkg/logger"
)

// Entry describes one channel implementation.
type Entry struct {
	Kind Kind
	// Discover reads the environment and reports whether the channel is
	// fully configured. It never fails.
	Discover func(env environ.Env) (Channel, bool)
	// New returns a pointer to an empty configuration for decoding.
	New func() Channel
}

// Registry holds channel entries in registration order. Discovery runs in
// that order.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	byKind  map[Kind]int
	logger  logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(l logger.Logger) *Registry {
	if l == nil {
		l = logger.Discard
	}
	return &Registry{
		byKind: make(map[Kind]int),
		logger: l,
	}
}

// Register appends e. Registering the same kind twice is an error.
func (r *Registry) Register(e Entry) error {
	if e.Kind == "" || e.Discover == nil || e.New == nil {
		return fmt.Errorf("incomplete registry entry %q", e.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKind[e.Kind]; exists {
		return fmt.Errorf("channel %s already registered", e.Kind)
	}
	r.byKind[e.Kind] = len(r.entries)
	r.entries = append(r.entries, e)
	r.logger.Debug("Channel registered", "channel", e.Kind)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(entries ...Entry) *Registry {
	for _, e := range entries {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
	return r
}

// Lookup returns the entry for kind.
func (r *Registry) Lookup(kind Kind) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byKind[kind]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Kinds lists registered kinds in order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, len(r.entries))
	for i, e := range r.entries {
		kinds[i] = e.Kind
	}
	return kinds
}

// Discover runs every entry's discovery and returns the configured channels
// in registration order.
func (r *Registry) Discover(env environ.Env) []Channel {
	r.mu.RLock()
	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	r.mu.RUnlock()

	var found []Channel
	for _, e := range entries {
		ch, ok := e.Discover(env)
		if !ok {
			r.logger.Debug("Channel not configured", "channel", e.Kind)
			continue
		}
		r.logger.Debug("Channel discovered", "channel", e.Kind)
		found = append(found, ch)
	}
	return found
}
