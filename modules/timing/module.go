// Package timing provides delay and clock blocks.
package timing

import (
	"fmt"

	"github.com/specialistvlad/ardublockgo/internal/registry"
	"github.com/specialistvlad/ardublockgo/internal/types"
	"github.com/specialistvlad/ardublockgo/internal/workspace"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the timing block kinds.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&delay{registry.Base{
		Name: "time_delay",
		Spec: workspace.Statement(nil,
			workspace.InputSpec{Name: "DELAY_TIME_MILI", Kind: workspace.InputValue, Check: types.Number},
		),
	}})
	r.Register(&millis{registry.Base{
		Name: "time_millis",
		Spec: workspace.Expression(types.Number, nil),
	}})
}

type delay struct{ registry.Base }

func (*delay) EmitStatement(w registry.CodeWriter, b *workspace.Block) (string, error) {
	ms := w.ValueOr(b, "DELAY_TIME_MILI", registry.OrderNone, "0")
	return fmt.Sprintf("delay(%s);\n", ms), nil
}

type millis struct{ registry.Base }

func (*millis) EmitValue(registry.CodeWriter, *workspace.Block) (string, registry.Order, error) {
	return "millis()", registry.OrderAtomic, nil
}
