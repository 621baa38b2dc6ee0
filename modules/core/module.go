// Package core provides the program structure, literal, math, logic and loop
// blocks every sketch is built from.
package core

import (
	"github.com/specialistvlad/ardublockgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the core block kinds.
func (m *Module) Register(r *registry.Registry) {
	r.Register(newFunctions())
	r.Register(newNumber())
	r.Register(newText())
	r.Register(newBoolean())
	r.Register(newArithmetic())
	r.Register(newCompare())
	r.Register(newIf())
	r.Register(newRepeat())
	r.Register(newTextJoin())
}
