// Package servo provides named servo motors: a configuration block attaching
// a servo to a PWM pin plus blocks writing and reading its angle.
package servo

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
	Component   = "servo"
	DefaultName = "servo"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

var nameSpec = workspace.FieldSpec{Name: "NAME", Kind: workspace.FieldInstance, Default: cty.StringVal(DefaultName)}

// Register registers the servo block kinds.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&config{registry.Base{
		Name: "servo_config",
		Spec: workspace.TopLevel([]workspace.FieldSpec{
			nameSpec,
			{Name: "PIN", Kind: workspace.FieldDropdown, Default: cty.StringVal("9")},
		}),
	}})
	r.Register(&write{usage{registry.Base{
		Name: "servo_write",
		Spec: workspace.Statement([]workspace.FieldSpec{nameSpec},
			workspace.InputSpec{Name: "SERVO_ANGLE", Kind: workspace.InputValue, Check: types.Number},
		),
	}}})
	r.Register(&read{usage{registry.Base{
		Name: "servo_read",
		Spec: workspace.Expression(types.Number, []workspace.FieldSpec{nameSpec}),
	}}})
}

type config struct{ registry.Base }

func (*config) Declares() instance.Declaration {
	return instance.Declaration{Kind: Component, Field: "NAME"}
}

func (*config) UpdateFields(b *workspace.Block, env *registry.FieldEnv) {
	b.SetOptions("PIN", env.Board.PWMPins)
}

func (*config) EmitStatement(w registry.CodeWriter, b *workspace.Block) (string, error) {
	name := w.Identifier(b.FieldString("NAME"))
	w.Add(fragment.Includes, "#include <Servo.h>")
	w.Add(fragment.Globals, fmt.Sprintf("Servo %s;", name))
	w.Add(fragment.Setup, fmt.Sprintf("%s.attach(%s);", name, b.FieldString("PIN")))
	return "", nil
}

// usage is shared by the blocks that drive a configured servo.
type usage struct{ registry.Base }

func (*usage) References() instance.Declaration {
	return instance.Declaration{Kind: Component, Field: "NAME"}
}

func (*usage) ConfigLabel() string { return "Servo" }

func (*usage) UpdateFields(b *workspace.Block, env *registry.FieldEnv) {
	b.SetOptions("NAME", env.Directory.Names(Component))
}

type write struct{ usage }

func (*write) EmitStatement(w registry.CodeWriter, b *workspace.Block) (string, error) {
	angle := w.ValueOr(b, "SERVO_ANGLE", registry.OrderNone, "90")
	return fmt.Sprintf("%s.write(%s);\n", w.Identifier(b.FieldString("NAME")), angle), nil
}

type read struct{ usage }

func (*read) EmitValue(w registry.CodeWriter, b *workspace.Block) (string, registry.Order, error) {
	return w.Identifier(b.FieldString("NAME")) + ".read()", registry.OrderUnaryPostfix, nil
}
