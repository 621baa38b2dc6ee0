// Package ultrasonic provides the Makeblock ultrasonic sensor blocks: a
// configuration block declaring a named sensor on a pin and a block reading
// the distance from it.
package ultrasonic

import (
	"fmt"

	"github.com/specialistvlad/ardublockgo/internal/fragment"
	"github.com/specialistvlad/ardublockgo/internal/instance"
	"github.com/specialistvlad/ardublockgo/internal/registry"
	"github.com/specialistvlad/ardublockgo/internal/types"
	"github.com/specialistvlad/ardublockgo/internal/workspace"
	"github.com/zclconf/go-cty/cty"
)

const (
	// Component is the instance kind shared by the config and read blocks.
	Component = "ultrasonic"
	// DefaultName seeds the name of new sensors.
	DefaultName = "sensor"
	label       = "Ultrasonic"
	nameField   = "NAME"
	pinField    = "PIN"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the ultrasonic block kinds.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&config{registry.Base{
		Name: "ultrasonic_config",
		Spec: workspace.TopLevel([]workspace.FieldSpec{
			{Name: nameField, Kind: workspace.FieldInstance, Default: cty.StringVal(DefaultName)},
			{Name: pinField, Kind: workspace.FieldDropdown, Default: cty.StringVal("7")},
		}),
	}})
	r.Register(&read{registry.Base{
		Name: "ultrasonic_read",
		Spec: workspace.Expression(types.Number, []workspace.FieldSpec{
			{Name: nameField, Kind: workspace.FieldInstance, Default: cty.StringVal(DefaultName)},
		}),
	}})
}

type config struct{ registry.Base }

func (*config) Declares() instance.Declaration {
	return instance.Declaration{Kind: Component, Field: nameField}
}

func (*config) UpdateFields(b *workspace.Block, env *registry.FieldEnv) {
	b.SetOptions(pinField, env.Board.DigitalPins)
}

func (*config) EmitStatement(w registry.CodeWriter, b *workspace.Block) (string, error) {
	name := w.Identifier(b.FieldString(nameField))
	w.Add(fragment.Includes, "#include <MeMegaPi.h>")
	w.Add(fragment.Objects, fmt.Sprintf("MeUltrasonicSensor %s(%s);", name, b.FieldString(pinField)))
	return "", nil
}

type read struct{ registry.Base }

func (*read) References() instance.Declaration {
	return instance.Declaration{Kind: Component, Field: nameField}
}

func (*read) ConfigLabel() string { return label }

func (*read) UpdateFields(b *workspace.Block, env *registry.FieldEnv) {
	b.SetOptions(nameField, env.Directory.Names(Component))
}

func (*read) EmitValue(w registry.CodeWriter, b *workspace.Block) (string, registry.Order, error) {
	return w.Identifier(b.FieldString(nameField)) + ".distanceCm()", registry.OrderUnaryPostfix, nil
}
