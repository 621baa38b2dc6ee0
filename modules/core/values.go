package core

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/ardublockgo/internal/registry"
	"github.com/specialistvlad/ardublockgo/internal/types"
	"github.com/specialistvlad/ardublockgo/internal/workspace"
	"github.com/zclconf/go-cty/cty"
)

type number struct{ registry.Base }

func newNumber() *number {
	return &number{registry.Base{
		Name: "math_number",
		Spec: workspace.Expression(types.Number, []workspace.FieldSpec{
			{Name: "NUM", Kind: workspace.FieldNumber, Default: cty.Zero},
		}),
	}}
}

func (*number) EmitValue(_ registry.CodeWriter, b *workspace.Block) (string, registry.Order, error) {
	v, _ := b.Field("NUM")
	code, err := types.Literal(v, types.Number)
	if err != nil {
		return "", registry.OrderAtomic, err
	}
	if strings.HasPrefix(code, "-") {
		return code, registry.OrderUnaryPrefix, nil
	}
	return code, registry.OrderAtomic, nil
}

type text struct{ registry.Base }

func newText() *text {
	return &text{registry.Base{
		Name: "text",
		Spec: workspace.Expression(types.Text, []workspace.FieldSpec{
			{Name: "TEXT", Kind: workspace.FieldText},
		}),
	}}
}

func (*text) EmitValue(_ registry.CodeWriter, b *workspace.Block) (string, registry.Order, error) {
	return types.Quote(b.FieldString("TEXT")), registry.OrderAtomic, nil
}

type boolean struct{ registry.Base }

func newBoolean() *boolean {
	return &boolean{registry.Base{
		Name: "logic_boolean",
		Spec: workspace.Expression(types.Boolean, []workspace.FieldSpec{
			{Name: "BOOL", Kind: workspace.FieldDropdown, Default: cty.StringVal("TRUE"), Options: []string{"TRUE", "FALSE"}},
		}),
	}}
}

func (*boolean) EmitValue(_ registry.CodeWriter, b *workspace.Block) (string, registry.Order, error) {
	switch b.FieldString("BOOL") {
	case "TRUE":
		return "true", registry.OrderAtomic, nil
	case "FALSE":
		return "false", registry.OrderAtomic, nil
	default:
		return "", registry.OrderAtomic, fmt.Errorf("unknown boolean %q", b.FieldString("BOOL"))
	}
}

type textJoin struct{ registry.Base }

func newTextJoin() *textJoin {
	return &textJoin{registry.Base{
		Name: "text_join",
		Spec: workspace.Expression(types.Text, nil,
			workspace.InputSpec{Name: "ADD0", Kind: workspace.InputValue},
			workspace.InputSpec{Name: "ADD1", Kind: workspace.InputValue},
		),
	}}
}

func (*textJoin) EmitValue(w registry.CodeWriter, b *workspace.Block) (string, registry.Order, error) {
	var parts []string
	for _, in := range []string{"ADD0", "ADD1"} {
		if code := w.ValueCode(b, in, registry.OrderNone); code != "" {
			parts = append(parts, "String("+code+")")
		}
	}
	switch len(parts) {
	case 0:
		return `""`, registry.OrderAtomic, nil
	case 1:
		return parts[0], registry.OrderUnaryPostfix, nil
	default:
		return strings.Join(parts, " + "), registry.OrderAdditive, nil
	}
}
