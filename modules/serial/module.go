// Package serial provides the serial port setup and print blocks.
package serial

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

var portField = workspace.FieldSpec{
	Name:    "SERIAL_ID",
	Kind:    workspace.FieldDropdown,
	Default: cty.StringVal("Serial"),
	Options: []string{"Serial"},
}

// Register registers the serial block kinds.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&setup{registry.Base{
		Name: "serial_setup",
		Spec: workspace.TopLevel([]workspace.FieldSpec{
			portField,
			{Name: "SPEED", Kind: workspace.FieldDropdown, Default: cty.StringVal("9600")},
		}),
	}})
	r.Register(&printer{registry.Base{
		Name: "serial_print",
		Spec: workspace.Statement(
			[]workspace.FieldSpec{
				portField,
				{Name: "NEW_LINE", Kind: workspace.FieldCheckbox, Default: cty.True},
			},
			workspace.InputSpec{Name: "CONTENT", Kind: workspace.InputValue, Check: types.Text},
		),
	}})
}

type setup struct{ registry.Base }

func (*setup) UpdateFields(b *workspace.Block, env *registry.FieldEnv) {
	b.SetOptions("SPEED", env.Board.SerialSpeeds)
}

func (*setup) EmitStatement(w registry.CodeWriter, b *workspace.Block) (string, error) {
	w.Add(fragment.Setup, fmt.Sprintf("%s.begin(%s);", b.FieldString("SERIAL_ID"), b.FieldString("SPEED")))
	return "", nil
}

type printer struct{ registry.Base }

func (*printer) EmitStatement(w registry.CodeWriter, b *workspace.Block) (string, error) {
	fn := "print"
	if v, _ := b.Field("NEW_LINE"); v.True() {
		fn = "println"
	}
	content := w.ValueOr(b, "CONTENT", registry.OrderNone, `""`)
	return fmt.Sprintf("%s.%s(%s);\n", b.FieldString("SERIAL_ID"), fn, content), nil
}
