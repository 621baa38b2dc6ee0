// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package workspace

import (
	"strings"

	"github.com/specialistvlad/ardublockgo/internal/types"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Field is the current state of one declared field.
type Field struct {
	Spec    FieldSpec
	Value   cty.Value
	options []string
	rev     uint64
}

// Input is one socket of a block.
type Input struct {
	name   string
	kind   InputKind
	check  types.Type
	target *Block
}

func (in *Input) Name() string { return in.name }

func (in *Input) Kind() InputKind { return in.kind }

func (in *Input) Check() types.Type { return in.check }

func (in *Input) Target() *Block { return in.target }

// Block is a node of the workspace graph.
type Block struct {
	id   string
	kind string

	fields []*Field
	inputs []*Input

	hasOutput   bool
	output      types.Type
	hasPrevious bool
	hasNext     bool

	next        *Block
	parent      *Block
	parentInput string // empty when attached through the parent's next connection

	workspace *Workspace
}

// ID returns the block's unique identifier.
func (b *Block) ID() string { return b.id }

// Kind returns the tag that selects the block's descriptor.
func (b *Block) Kind() string { return b.kind }

// Workspace returns the owning workspace, or nil once the block was deleted.
func (b *Block) Workspace() *Workspace { return b.workspace }

// Parent returns the block this one is plugged into, through an input or a
// next connection.
func (b *Block) Parent() *Block { return b.parent }

// ParentInput returns the name of the parent's input holding this block. It
// is empty for top-level blocks and for blocks attached to a next connection.
func (b *Block) ParentInput() string { return b.parentInput }

// Next returns the following block of a statement chain.
func (b *Block) Next() *Block { return b.next }

// Previous returns the preceding block of a statement chain, if any.
func (b *Block) Previous() *Block {
	if b.parent != nil && b.parentInput == "" {
		return b.parent
	}
	return nil
}

// IsTopLevel reports whether the block has no parent.
func (b *Block) IsTopLevel() bool { return b.parent == nil }

// HasOutput reports whether the block is usable as an expression.
func (b *Block) HasOutput() bool { return b.hasOutput }

// OutputType returns the declared output type; Null for statement blocks.
func (b *Block) OutputType() types.Type {
	if !b.hasOutput {
		return types.Null
	}
	return b.output
}

// HasPrevious reports whether the block can follow another statement.
func (b *Block) HasPrevious() bool { return b.hasPrevious }

// HasNext reports whether another statement can follow the block.
func (b *Block) HasNext() bool { return b.hasNext }

// Root returns the top-level block of the tree containing b.
func (b *Block) Root() *Block {
	for b.parent != nil {
		b = b.parent
	}
	return b
}

func (b *Block) field(name string) *Field {
	for _, f := range b.fields {
		if f.Spec.Name == name {
			return f
		}
	}
	return nil
}

// Field returns the value of a field.
func (b *Block) Field(name string) (cty.Value, bool) {
	f := b.field(name)
	if f == nil {
		return cty.NilVal, false
	}
	return f.Value, true
}

// FieldString returns a field value converted to a string, or "" when the
// field is missing or not convertible.
func (b *Block) FieldString(name string) string {
	v, ok := b.Field(name)
	if !ok || v.IsNull() || !v.IsKnown() {
		return ""
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return ""
	}
	return s.AsString()
}

// Fields returns the block's fields in declaration order.
func (b *Block) Fields() []*Field {
	out := make([]*Field, len(b.fields))
	copy(out, b.fields)
	return out
}

// FieldSpec returns the declaration of a field.
func (b *Block) FieldSpec(name string) (FieldSpec, bool) {
	f := b.field(name)
	if f == nil {
		return FieldSpec{}, false
	}
	return f.Spec, true
}

// FieldRevision returns the workspace revision at which the field was last
// written.
func (b *Block) FieldRevision(name string) uint64 {
	if f := b.field(name); f != nil {
		return f.rev
	}
	return 0
}

// Options returns the current dropdown options of a field.
func (b *Block) Options(name string) []string {
	f := b.field(name)
	if f == nil {
		return nil
	}
	out := make([]string, len(f.options))
	copy(out, f.options)
	return out
}

// SetOptions replaces the dropdown options of a field. Options are
// presentation data: they never change the value and emit no event.
func (b *Block) SetOptions(name string, options []string) {
	f := b.field(name)
	if f == nil {
		return
	}
	f.options = append([]string(nil), options...)
}

// Inputs returns the block's inputs in declaration order.
func (b *Block) Inputs() []*Input {
	out := make([]*Input, len(b.inputs))
	copy(out, b.inputs)
	return out
}

// Input returns the named input, or nil.
func (b *Block) Input(name string) *Input {
	for _, in := range b.inputs {
		if in.name == name {
			return in
		}
	}
	return nil
}

// Target returns the block connected to the named input, or nil.
func (b *Block) Target(input string) *Block {
	if in := b.Input(input); in != nil {
		return in.target
	}
	return nil
}

func (b *Block) lastInChain() *Block {
	last := b
	for last.next != nil {
		last = last.next
	}
	return last
}

func containsLineBreak(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}
