package config

import "github.com/zclconf/go-cty/cty"

// Model is the unified, format-agnostic representation of a workspace.
type Model struct {
	Board  string
	Stacks []*Stack
}

// Stack is a top-level chain of blocks. Only the first block is top-level;
// the others follow it through next connections.
type Stack struct {
	Blocks []*Block
}

// Block is one saved block.
type Block struct {
	Kind   string
	ID     string
	Fields []Field
	Inputs []*Input
}

// Field is a saved field value. Fields keep their declaration order.
type Field struct {
	Name  string
	Value cty.Value
}

// Input lists the blocks connected to a named input. Value inputs hold one
// block; statement inputs hold a chain.
type Input struct {
	Name   string
	Blocks []*Block
}

// Len returns the number of blocks in the model, nested ones included.
func (m *Model) Len() int {
	n := 0
	for _, s := range m.Stacks {
		n += countBlocks(s.Blocks)
	}
	return n
}

func countBlocks(blocks []*Block) int {
	n := len(blocks)
	for _, b := range blocks {
		for _, in := range b.Inputs {
			n += countBlocks(in.Blocks)
		}
	}
	return n
}
