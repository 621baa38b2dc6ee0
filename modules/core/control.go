package core

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/ardublockgo/internal/registry"
	"github.com/specialistvlad/ardublockgo/internal/types"
	"github.com/specialistvlad/ardublockgo/internal/workspace"
)

type ifElse struct{ registry.Base }

func newIf() *ifElse {
	return &ifElse{registry.Base{
		Name: "controls_if",
		Spec: workspace.Statement(nil,
			workspace.InputSpec{Name: "IF0", Kind: workspace.InputValue, Check: types.Boolean},
			workspace.InputSpec{Name: "DO0", Kind: workspace.InputStatement},
			workspace.InputSpec{Name: "ELSE", Kind: workspace.InputStatement},
		),
	}}
}

func (*ifElse) EmitStatement(w registry.CodeWriter, b *workspace.Block) (string, error) {
	var sb strings.Builder
	cond := w.ValueOr(b, "IF0", registry.OrderNone, "false")
	fmt.Fprintf(&sb, "if (%s) {\n%s}", cond, w.StatementCode(b, "DO0"))
	if b.Target("ELSE") != nil {
		fmt.Fprintf(&sb, " else {\n%s}", w.StatementCode(b, "ELSE"))
	}
	sb.WriteByte('\n')
	return sb.String(), nil
}

type repeat struct{ registry.Base }

func newRepeat() *repeat {
	return &repeat{registry.Base{
		Name: "controls_repeat",
		Spec: workspace.Statement(nil,
			workspace.InputSpec{Name: "TIMES", Kind: workspace.InputValue, Check: types.Number},
			workspace.InputSpec{Name: "DO", Kind: workspace.InputStatement},
		),
	}}
}

func (*repeat) EmitStatement(w registry.CodeWriter, b *workspace.Block) (string, error) {
	times := w.ValueOr(b, "TIMES", registry.OrderRelational, "0")
	counter := loopCounter(b)
	return fmt.Sprintf("for (int %[1]s = 0; %[1]s < %[2]s; %[1]s++) {\n%[3]s}\n",
		counter, times, w.StatementCode(b, "DO")), nil
}

// loopCounter names the counter after the number of enclosing repeat blocks
// so nested loops never shadow each other.
func loopCounter(b *workspace.Block) string {
	depth := 0
	for n := b; n.Parent() != nil; n = n.Parent() {
		if n.Parent().Kind() == b.Kind() && n.ParentInput() == "DO" {
			depth++
		}
	}
	if depth == 0 {
		return "count"
	}
	return fmt.Sprintf("count%d", depth+1)
}
