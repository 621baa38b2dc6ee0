// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package codegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/specialistvlad/ardublockgo/internal/ctxlog"
	"github.com/specialistvlad/ardublockgo/internal/fragment"
	"github.com/specialistvlad/ardublockgo/internal/instance"
	"github.com/specialistvlad/ardublockgo/internal/registry"
	"github.com/specialistvlad/ardublockgo/internal/types"
	"github.com/specialistvlad/ardublockgo/internal/workspace"
)

const indent = "  "

var (
	ErrUnknownKind = errors.New("unknown block kind")
	ErrNoEmitter   = errors.New("block kind produces no code")
)

// Generator turns workspaces into sketch text. It holds no per-pass state and
// may be reused.
type Generator struct {
	reg *registry.Registry
}

// New creates a Generator that resolves block kinds through reg.
func New(reg *registry.Registry) *Generator {
	return &Generator{reg: reg}
}

// Generate compiles ws. Instance references are resolved through dir. The
// workspace must not be mutated while Generate runs.
func (g *Generator) Generate(ctx context.Context, ws *workspace.Workspace, dir *instance.Directory) *Result {
	logger := ctxlog.FromContext(ctx).With("component", "codegen")
	logger.Debug("Generating sketch.", "blocks", ws.Len())

	p := &pass{
		reg:    g.reg,
		dir:    dir,
		set:    fragment.NewSet(),
		result: &Result{},
		logger: logger,
	}
	for _, top := range ws.TopBlocks() {
		if top.HasOutput() {
			if code, _ := p.value(top); code != "" {
				p.Add(fragment.Loop, code+";")
			}
			continue
		}
		p.Add(fragment.Loop, p.ChainCode(top))
	}
	p.result.Source = render(p.set)

	logger.Debug("Sketch generated.",
		"bytes", len(p.result.Source),
		"faults", len(p.result.Faults),
		"mismatches", len(p.result.Mismatches))
	return p.result
}

// pass is the CodeWriter handed to descriptors during one Generate call.
type pass struct {
	reg    *registry.Registry
	dir    *instance.Directory
	set    *fragment.Set
	result *Result
	logger *slog.Logger
}

var _ registry.CodeWriter = (*pass)(nil)

func (p *pass) Add(bucket fragment.Bucket, text string) {
	p.set.Add(bucket, text)
}

func (p *pass) ValueCode(b *workspace.Block, input string, outer registry.Order) string {
	in := b.Input(input)
	if in == nil || in.Target() == nil {
		return ""
	}
	child := in.Target()
	code, order := p.value(child)

	if check := in.Check(); check != types.Null {
		actual := p.reg.TypeOf(child)
		if m := types.Check(check, actual); m != nil {
			m.BlockID = b.ID()
			m.Input = input
			p.result.Mismatches = append(p.result.Mismatches, m)
			p.logger.Warn("Type mismatch.", "block", b.ID(), "input", input, "expected", check, "actual", actual)
		} else if coerced := types.Coerce(code, actual, check); coerced != code {
			code, order = coerced, registry.OrderUnaryPostfix
		}
	}

	if registry.NeedsParens(outer, order) {
		return "(" + code + ")"
	}
	return code
}

func (p *pass) ValueOr(b *workspace.Block, input string, outer registry.Order, fallback string) string {
	if code := p.ValueCode(b, input, outer); code != "" {
		return code
	}
	return fallback
}

func (p *pass) StatementCode(b *workspace.Block, input string) string {
	target := b.Target(input)
	if target == nil {
		return ""
	}
	return indentLines(p.ChainCode(target), indent)
}

func (p *pass) ChainCode(first *workspace.Block) string {
	var sb strings.Builder
	for n := first; n != nil; n = n.Next() {
		code := p.statement(n)
		if code == "" {
			continue
		}
		sb.WriteString(code)
		if !strings.HasSuffix(code, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (p *pass) Instance(kind, name string) (*workspace.Block, bool) {
	return p.dir.Lookup(kind, name)
}

func (p *pass) Identifier(name string) string {
	return types.Identifier(name)
}

func (p *pass) statement(b *workspace.Block) string {
	code, err := p.emitStatement(b)
	if err != nil {
		return p.fault(b, err, "// "+placeholder(b, err))
	}
	return code
}

func (p *pass) value(b *workspace.Block) (string, registry.Order) {
	code, order, err := p.emitValue(b)
	if err != nil {
		return p.fault(b, err, "/* "+placeholder(b, err)+" */"), registry.OrderAtomic
	}
	return code, order
}

func (p *pass) emitStatement(b *workspace.Block) (code string, err error) {
	defer recoverFault(&err)
	d, ok := p.reg.Lookup(b.Kind())
	if !ok {
		return "", ErrUnknownKind
	}
	e, ok := d.(registry.StatementEmitter)
	if !ok {
		return "", ErrNoEmitter
	}
	return e.EmitStatement(p, b)
}

func (p *pass) emitValue(b *workspace.Block) (code string, order registry.Order, err error) {
	defer recoverFault(&err)
	d, ok := p.reg.Lookup(b.Kind())
	if !ok {
		return "", registry.OrderAtomic, ErrUnknownKind
	}
	e, ok := d.(registry.ValueEmitter)
	if !ok {
		return "", registry.OrderAtomic, ErrNoEmitter
	}
	return e.EmitValue(p, b)
}

func (p *pass) fault(b *workspace.Block, err error, code string) string {
	p.result.Faults = append(p.result.Faults, Fault{BlockID: b.ID(), Kind: b.Kind(), Err: err})
	p.logger.Warn("Block could not be generated.", "block", b.ID(), "kind", b.Kind(), "error", err)
	return code
}

func recoverFault(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic: %v", r)
	}
}

func placeholder(b *workspace.Block, err error) string {
	msg := strings.NewReplacer("\n", " ", "\r", " ", "*/", "* /").Replace(err.Error())
	return fmt.Sprintf("%s block %s could not be generated: %s", b.Kind(), b.ID(), msg)
}
