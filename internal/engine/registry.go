package engine

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// ErrUnknownEngine signals a lookup for a name nothing registered.
var ErrUnknownEngine = errors.New("unknown engine")

// Registry holds the live engine set. Lookups are concurrent; Reload swaps
// in fresh engines (and empty caches) atomically.
type Registry struct {
	sources func() []Source
	client  *Client
	ttl     time.Duration
	logger  *slog.Logger

	mu      sync.RWMutex
	engines map[string]*Engine
	order   []string
}

// DefaultSources is the full provider set.
func DefaultSources() []Source {
	return []Source{
		NewIyingdi(),
		NewBagoumEN(),
		NewBagoumJP(),
		NewBagoumTW(),
		NewSVGDBEN(),
		NewSVGDBJP(),
	}
}

func NewRegistry(client *Client, ttl time.Duration, logger *slog.Logger) *Registry {
	return NewRegistryWith(DefaultSources, client, ttl, logger)
}

// NewRegistryWith builds a registry over a custom source set. Reload calls
// sources again for fresh instances.
func NewRegistryWith(sources func() []Source, client *Client, ttl time.Duration, logger *slog.Logger) *Registry {
	r := &Registry{sources: sources, client: client, ttl: ttl, logger: logger}
	r.engines, r.order = r.build()
	return r
}

// build instantiates the source set. Registering the same name twice
// keeps the later entry.
func (r *Registry) build() (map[string]*Engine, []string) {
	sources := r.sources()

	engines := make(map[string]*Engine, len(sources))
	order := make([]string, 0, len(sources))
	for _, src := range sources {
		if _, ok := engines[src.Name()]; !ok {
			order = append(order, src.Name())
		}
		engines[src.Name()] = New(src, r.client, r.ttl, r.logger)
	}
	return engines, order
}

// Get finds one engine by name.
func (r *Registry) Get(name string) (*Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[name]
	if !ok {
		return nil, ErrUnknownEngine
	}
	return e, nil
}

// Info is one engine's directory entry.
type Info struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// List returns the directory in registration order.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, Info{Name: name, Label: r.engines[name].Label()})
	}
	return out
}

// Names returns the registered engine names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)
	return names
}

// Reload replaces every engine with a fresh instance, dropping all cached
// catalogs. In-flight requests keep the engines they already hold.
func (r *Registry) Reload() {
	engines, order := r.build()
	r.mu.Lock()
	r.engines = engines
	r.order = order
	r.mu.Unlock()
	r.logger.Info("engine registry reloaded", "engines", len(engines))
}
