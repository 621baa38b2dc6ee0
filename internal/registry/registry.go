package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/ardublockgo/internal/instance"
	"github.com/specialistvlad/ardublockgo/internal/types"
	"github.com/specialistvlad/ardublockgo/internal/workspace"
)

// Module is the interface that all block modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry maps block kinds to their descriptors for a single application
// instance.
type Registry struct {
	descriptors map[string]Descriptor
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{descriptors: make(map[string]Descriptor)}
}

// NewWith creates a Registry populated by modules.
func NewWith(modules ...Module) *Registry {
	r := New()
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register adds a descriptor. Registering a kind twice is a programming error.
func (r *Registry) Register(d Descriptor) {
	kind := d.Kind()
	if _, exists := r.descriptors[kind]; exists {
		panic(fmt.Sprintf("block kind '%s' already registered", kind))
	}
	slog.Debug("Registering block kind.", "kind", kind)
	r.descriptors[kind] = d
}

// Lookup returns the descriptor of kind.
func (r *Registry) Lookup(kind string) (Descriptor, bool) {
	d, ok := r.descriptors[kind]
	return d, ok
}

// Shape returns the shape new blocks of kind are created with.
func (r *Registry) Shape(kind string) (workspace.Shape, error) {
	d, ok := r.descriptors[kind]
	if !ok {
		return workspace.Shape{}, fmt.Errorf("unknown block kind %q", kind)
	}
	return d.Shape(), nil
}

// Kinds returns every registered kind, sorted.
func (r *Registry) Kinds() []string {
	out := make([]string, 0, len(r.descriptors))
	for k := range r.descriptors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// TypeOf returns the output type of b: the descriptor's answer when it is
// Typed, the declared output type otherwise. Statement blocks are Null.
func (r *Registry) TypeOf(b *workspace.Block) types.Type {
	if b == nil || !b.HasOutput() {
		return types.Null
	}
	if t, ok := r.descriptors[b.Kind()].(Typed); ok {
		return t.BlockType(b)
	}
	return b.OutputType()
}

// DeclarationOf reports the instance declared by b, if b is a configuration
// block.
func (r *Registry) DeclarationOf(b *workspace.Block) (instance.Declaration, bool) {
	d, ok := r.descriptors[b.Kind()].(Declarer)
	if !ok {
		return instance.Declaration{}, false
	}
	return d.Declares(), true
}

// ReferenceOf reports the instance b refers to, if b is a usage block.
func (r *Registry) ReferenceOf(b *workspace.Block) (instance.Reference, bool) {
	d, ok := r.descriptors[b.Kind()].(Referrer)
	if !ok {
		return instance.Reference{}, false
	}
	decl := d.References()
	return instance.Reference{
		Key:         instance.Key{Kind: decl.Kind, Name: b.FieldString(decl.Field)},
		ConfigLabel: d.ConfigLabel(),
	}, true
}

// ReferenceField returns the name of the field holding b's instance
// reference.
func (r *Registry) ReferenceField(b *workspace.Block) (string, bool) {
	d, ok := r.descriptors[b.Kind()].(Referrer)
	if !ok {
		return "", false
	}
	return d.References().Field, true
}

// UpdateFields refreshes b's dropdowns when its kind supports it.
func (r *Registry) UpdateFields(b *workspace.Block, env *FieldEnv) {
	if u, ok := r.descriptors[b.Kind()].(FieldUpdater); ok {
		u.UpdateFields(b, env)
	}
}
