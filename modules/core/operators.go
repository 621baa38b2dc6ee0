package core

import (
	"fmt"

	"github.com/specialistvlad/ardublockgo/internal/registry"
	"github.com/specialistvlad/ardublockgo/internal/types"
	"github.com/specialistvlad/ardublockgo/internal/workspace"
	"github.com/zclconf/go-cty/cty"
)

type operator struct {
	symbol string
	order  registry.Order
}

var arithmeticOps = map[string]operator{
	"ADD":      {" + ", registry.OrderAdditive},
	"MINUS":    {" - ", registry.OrderAdditive},
	"MULTIPLY": {" * ", registry.OrderMultiplicative},
	"DIVIDE":   {" / ", registry.OrderMultiplicative},
	"POWER":    {"", registry.OrderUnaryPostfix},
}

type arithmetic struct{ registry.Base }

func newArithmetic() *arithmetic {
	return &arithmetic{registry.Base{
		Name: "math_arithmetic",
		Spec: workspace.Expression(types.Number,
			[]workspace.FieldSpec{{
				Name:    "OP",
				Kind:    workspace.FieldDropdown,
				Default: cty.StringVal("ADD"),
				Options: []string{"ADD", "MINUS", "MULTIPLY", "DIVIDE", "POWER"},
			}},
			workspace.InputSpec{Name: "A", Kind: workspace.InputValue, Check: types.Number},
			workspace.InputSpec{Name: "B", Kind: workspace.InputValue, Check: types.Number},
		),
	}}
}

func (*arithmetic) EmitValue(w registry.CodeWriter, b *workspace.Block) (string, registry.Order, error) {
	op, ok := arithmeticOps[b.FieldString("OP")]
	if !ok {
		return "", registry.OrderAtomic, fmt.Errorf("unknown arithmetic operator %q", b.FieldString("OP"))
	}
	if op.symbol == "" {
		a := w.ValueOr(b, "A", registry.OrderNone, "0")
		c := w.ValueOr(b, "B", registry.OrderNone, "0")
		return fmt.Sprintf("pow(%s, %s)", a, c), op.order, nil
	}
	a := w.ValueOr(b, "A", op.order, "0")
	c := w.ValueOr(b, "B", op.order, "0")
	return a + op.symbol + c, op.order, nil
}

var compareOps = map[string]operator{
	"EQ":  {" == ", registry.OrderEquality},
	"NEQ": {" != ", registry.OrderEquality},
	"LT":  {" < ", registry.OrderRelational},
	"LTE": {" <= ", registry.OrderRelational},
	"GT":  {" > ", registry.OrderRelational},
	"GTE": {" >= ", registry.OrderRelational},
}

type compare struct{ registry.Base }

func newCompare() *compare {
	return &compare{registry.Base{
		Name: "logic_compare",
		Spec: workspace.Expression(types.Boolean,
			[]workspace.FieldSpec{{
				Name:    "OP",
				Kind:    workspace.FieldDropdown,
				Default: cty.StringVal("EQ"),
				Options: []string{"EQ", "NEQ", "LT", "LTE", "GT", "GTE"},
			}},
			workspace.InputSpec{Name: "A", Kind: workspace.InputValue},
			workspace.InputSpec{Name: "B", Kind: workspace.InputValue},
		),
	}}
}

func (*compare) EmitValue(w registry.CodeWriter, b *workspace.Block) (string, registry.Order, error) {
	op, ok := compareOps[b.FieldString("OP")]
	if !ok {
		return "", registry.OrderAtomic, fmt.Errorf("unknown comparison %q", b.FieldString("OP"))
	}
	a := w.ValueOr(b, "A", op.order, "0")
	c := w.ValueOr(b, "B", op.order, "0")
	return a + op.symbol + c, op.order, nil
}
