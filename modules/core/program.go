package core

import (
	"github.com/specialistvlad/ardublockgo/internal/fragment"
	"github.com/specialistvlad/ardublockgo/internal/registry"
	"github.com/specialistvlad/ardublockgo/internal/workspace"
)

// functions is the arduino_functions block: a top-level block whose two
// statement inputs become the bodies of setup() and loop().
type functions struct{ registry.Base }

func newFunctions() *functions {
	return &functions{registry.Base{
		Name: "arduino_functions",
		Spec: workspace.TopLevel(nil,
			workspace.InputSpec{Name: "SETUP_FUNC", Kind: workspace.InputStatement},
			workspace.InputSpec{Name: "LOOP_FUNC", Kind: workspace.InputStatement},
		),
	}}
}

func (*functions) EmitStatement(w registry.CodeWriter, b *workspace.Block) (string, error) {
	if setup := b.Target("SETUP_FUNC"); setup != nil {
		w.Add(fragment.Setup, w.ChainCode(setup))
	}
	if loop := b.Target("LOOP_FUNC"); loop != nil {
		return w.ChainCode(loop), nil
	}
	return "", nil
}
