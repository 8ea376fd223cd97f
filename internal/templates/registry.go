package templates

import (
	"sync"

	"github.com/jonathan/cv-builder/internal/types"
)

// Registry maps template identifiers to definitions. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]Definition
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// DefaultRegistry returns a registry holding every built-in template.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, def := range Builtin() {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
	return r
}

// Register validates def and adds it. Identifiers are unique.
func (r *Registry) Register(def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.ID]; exists {
		return &DefinitionError{ID: def.ID, Message: "already registered"}
	}
	r.defs[def.ID] = def
	r.order = append(r.order, def.ID)
	return nil
}

// Lookup returns the definition registered under id.
func (r *Registry) Lookup(id string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[id]
	if !ok {
		return Definition{}, &UnknownTemplateError{ID: id}
	}
	return def, nil
}

// LookupKind is Lookup restricted to templates for one document kind.
func (r *Registry) LookupKind(id string, kind types.DocumentKind) (Definition, error) {
	def, err := r.Lookup(id)
	if err != nil {
		return Definition{}, &UnknownTemplateError{ID: id, Kind: kind}
	}
	if def.Kind != kind {
		return Definition{}, &UnknownTemplateError{ID: id, Kind: kind}
	}
	return def, nil
}

// List returns every definition in registration order.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}
