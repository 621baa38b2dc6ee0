// Package io provides digital and analog pin blocks.
package io

import (
	"fmt"

	"github.com/specialistvlad/ardublockgo/internal/fragment"
	"github.com/specialistvlad/ardublockgo/internal/registry"
	"github.com/specialistvlad/ardublockgo/internal/types"
	"github.com/specialistvlad/ardublockgo/internal/workspace"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the pin block kinds.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&digitalWrite{registry.Base{
		Name: "io_digitalwrite",
		Spec: workspace.Statement(
			[]workspace.FieldSpec{pinField("13")},
			workspace.InputSpec{Name: "STATE", Kind: workspace.InputValue, Check: types.Boolean},
		),
	}})
	r.Register(&digitalRead{registry.Base{
		Name: "io_digitalread",
		Spec: workspace.Expression(types.Boolean, []workspace.FieldSpec{pinField("2")}),
	}})
	r.Register(&analogRead{registry.Base{
		Name: "io_analogread",
		Spec: workspace.Expression(types.Number, []workspace.FieldSpec{pinField("A0")}),
	}})
	r.Register(&highLow{registry.Base{
		Name: "io_highlow",
		Spec: workspace.Expression(types.Boolean, []workspace.FieldSpec{{
			Name:    "STATE",
			Kind:    workspace.FieldDropdown,
			Default: cty.StringVal("HIGH"),
			Options: []string{"HIGH", "LOW"},
		}}),
	}})
}

func pinField(def string) workspace.FieldSpec {
	return workspace.FieldSpec{Name: "PIN", Kind: workspace.FieldDropdown, Default: cty.StringVal(def)}
}

func pinMode(w registry.CodeWriter, pin, mode string) {
	w.Add(fragment.Setup, fmt.Sprintf("pinMode(%s, %s);", pin, mode))
}

type digitalWrite struct{ registry.Base }

func (*digitalWrite) UpdateFields(b *workspace.Block, env *registry.FieldEnv) {
	b.SetOptions("PIN", env.Board.DigitalPins)
}

func (*digitalWrite) EmitStatement(w registry.CodeWriter, b *workspace.Block) (string, error) {
	pin := b.FieldString("PIN")
	pinMode(w, pin, "OUTPUT")
	state := w.ValueOr(b, "STATE", registry.OrderNone, "LOW")
	return fmt.Sprintf("digitalWrite(%s, %s);\n", pin, state), nil
}

type digitalRead struct{ registry.Base }

func (*digitalRead) UpdateFields(b *workspace.Block, env *registry.FieldEnv) {
	b.SetOptions("PIN", env.Board.DigitalPins)
}

func (*digitalRead) EmitValue(w registry.CodeWriter, b *workspace.Block) (string, registry.Order, error) {
	pin := b.FieldString("PIN")
	pinMode(w, pin, "INPUT")
	return fmt.Sprintf("digitalRead(%s)", pin), registry.OrderAtomic, nil
}

type analogRead struct{ registry.Base }

func (*analogRead) UpdateFields(b *workspace.Block, env *registry.FieldEnv) {
	b.SetOptions("PIN", env.Board.AnalogPins)
}

func (*analogRead) EmitValue(w registry.CodeWriter, b *workspace.Block) (string, registry.Order, error) {
	pin := b.FieldString("PIN")
	pinMode(w, pin, "INPUT")
	return fmt.Sprintf("analogRead(%s)", pin), registry.OrderAtomic, nil
}

type highLow struct{ registry.Base }

func (*highLow) EmitValue(_ registry.CodeWriter, b *workspace.Block) (string, registry.Order, error) {
	switch s := b.FieldString("STATE"); s {
	case "HIGH", "LOW":
		return s, registry.OrderAtomic, nil
	default:
		return "", registry.OrderAtomic, fmt.Errorf("unknown pin state %q", s)
	}
}
