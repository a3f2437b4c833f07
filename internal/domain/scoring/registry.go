package scoring

import (
	"fmt"
	"sort"
	"sync"
)

// Built-in scorer names.
const (
	NameBoltzman    = "boltzman"
	NameBoltzmanGap = "boltzmangap"
	NameGap         = "gap"
	NameMaxScore    = "maxscore"
)

// Factory builds a configured scorer.
type Factory func(opts ...Option) Scorer

// Registry maps scorer names to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// NewBuiltinRegistry returns a registry holding every built-in scorer.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	builtins := map[string]Factory{
		NameBoltzman:    func(opts ...Option) Scorer { return NewBoltzman(opts...) },
		NameBoltzmanGap: func(opts ...Option) Scorer { return NewBoltzmanGap(opts...) },
		NameGap:         func(opts ...Option) Scorer { return NewGap(opts...) },
		NameMaxScore:    func(opts ...Option) Scorer { return NewMaxScore(opts...) },
	}
	for name, f := range builtins {
		_ = r.Register(name, f)
	}
	return r
}

var defaultRegistry = NewBuiltinRegistry() //nolint:gochecknoglobals // process-wide scorer registry

// Default returns the process-wide registry with the built-in scorers.
func Default() *Registry { return defaultRegistry }

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("%w: name %q", ErrInvalidScorer, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateScorer, name)
	}
	r.factories[name] = f
	return nil
}

// New builds the scorer registered under name.
func (r *Registry) New(name string, opts ...Option) (Scorer, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScorer, name)
	}
	return f(opts...), nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
