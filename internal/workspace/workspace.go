// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package workspace

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/ardublockgo/internal/types"
	"github.com/zclconf/go-cty/cty"
)

// Workspace owns a set of blocks and their connections.
type Workspace struct {
	blocks    map[string]*Block
	order     []*Block
	revision  uint64
	listeners []*subscription
}

type subscription struct {
	fn Listener
}

// New creates an empty workspace.
func New() *Workspace {
	return &Workspace{
		blocks: make(map[string]*Block),
	}
}

// Subscribe registers l for every future event and returns a function that
// removes it again.
func (w *Workspace) Subscribe(l Listener) func() {
	sub := &subscription{fn: l}
	w.listeners = append(w.listeners, sub)
	return func() {
		for i, s := range w.listeners {
			if s == sub {
				w.listeners = append(w.listeners[:i:i], w.listeners[i+1:]...)
				return
			}
		}
	}
}

func (w *Workspace) emit(e Event) {
	listeners := append([]*subscription(nil), w.listeners...)
	for _, s := range listeners {
		s.fn(e)
	}
}

// Revision returns a counter that increases with every block creation and
// field write.
func (w *Workspace) Revision() uint64 { return w.revision }

// Len returns the number of live blocks.
func (w *Workspace) Len() int { return len(w.order) }

// Block looks a block up by id.
func (w *Workspace) Block(id string) (*Block, bool) {
	b, ok := w.blocks[id]
	return b, ok
}

// AllBlocks returns every live block in creation order.
func (w *Workspace) AllBlocks() []*Block {
	out := make([]*Block, len(w.order))
	copy(out, w.order)
	return out
}

// TopBlocks returns the top-level blocks in creation order.
func (w *Workspace) TopBlocks() []*Block {
	var out []*Block
	for _, b := range w.order {
		if b.parent == nil {
			out = append(out, b)
		}
	}
	return out
}

// Descendants returns b followed by every block reachable from its inputs and
// its next connection, depth first.
func (w *Workspace) Descendants(b *Block) []*Block {
	var out []*Block
	var walk func(*Block)
	walk = func(n *Block) {
		for ; n != nil; n = n.next {
			out = append(out, n)
			for _, in := range n.inputs {
				if in.target != nil {
					walk(in.target)
				}
			}
		}
	}
	walk(b)
	return out
}

// Create instantiates a block of the given kind. An empty id is replaced by a
// generated one.
func (w *Workspace) Create(kind, id string, shape Shape) (*Block, error) {
	if kind == "" {
		return nil, errors.New("block kind cannot be empty")
	}
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := w.blocks[id]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}

	w.revision++
	b := &Block{
		id:          id,
		kind:        kind,
		hasOutput:   shape.HasOutput,
		output:      shape.Output,
		hasPrevious: shape.Previous,
		hasNext:     shape.Next,
		workspace:   w,
	}
	for _, spec := range shape.Fields {
		val, err := normalizeField(spec, spec.Default)
		if err != nil {
			return nil, fmt.Errorf("block kind %q: default: %w", kind, err)
		}
		b.fields = append(b.fields, &Field{
			Spec:    spec,
			Value:   val,
			options: append([]string(nil), spec.Options...),
			rev:     w.revision,
		})
	}
	for _, spec := range shape.Inputs {
		b.inputs = append(b.inputs, &Input{name: spec.Name, kind: spec.Kind, check: spec.Check})
	}

	w.blocks[id] = b
	w.order = append(w.order, b)
	w.emit(Event{Type: BlockCreated, Block: b})
	return b, nil
}

func (w *Workspace) owns(b *Block) error {
	if b == nil || b.workspace != w {
		return ErrUnknownBlock
	}
	return nil
}

// SetField writes a field value. The value is normalized for the field kind;
// writing an equal value is a no-op.
func (w *Workspace) SetField(b *Block, name string, v cty.Value) error {
	if err := w.owns(b); err != nil {
		return err
	}
	f := b.field(name)
	if f == nil {
		return fmt.Errorf("%w: %q on block %q", ErrUnknownField, name, b.id)
	}
	val, err := normalizeField(f.Spec, v)
	if err != nil {
		return err
	}
	if f.Value.RawEquals(val) {
		return nil
	}

	old := f.Value
	w.revision++
	f.Value = val
	f.rev = w.revision
	w.emit(Event{Type: FieldChanged, Block: b, Field: name, OldValue: old, NewValue: val})
	return nil
}

// Connect plugs child into the named input of parent. A block already in the
// input is unplugged; for statement inputs it is re-attached after the end of
// child's chain when possible. Structural problems are returned as errors. A
// type mismatch is returned as a *types.Mismatch and the connection is kept.
func (w *Workspace) Connect(parent *Block, input string, child *Block) (*types.Mismatch, error) {
	if err := w.owns(parent); err != nil {
		return nil, err
	}
	if err := w.owns(child); err != nil {
		return nil, err
	}
	in := parent.Input(input)
	if in == nil {
		return nil, fmt.Errorf("%w: %q on block %q", ErrUnknownInput, input, parent.id)
	}
	switch in.kind {
	case InputValue:
		if !child.hasOutput {
			return nil, fmt.Errorf("%w: %q is a %s input and %q has no output", ErrWrongInputKind, input, in.kind, child.id)
		}
	case InputStatement:
		if !child.hasPrevious {
			return nil, fmt.Errorf("%w: %q is a %s input and %q has no previous connection", ErrWrongInputKind, input, in.kind, child.id)
		}
	default:
		return nil, fmt.Errorf("%w: %q is a %s input", ErrWrongInputKind, input, in.kind)
	}
	if w.reaches(child, parent) {
		return nil, fmt.Errorf("%w: %q into %q", ErrCycle, child.id, parent.id)
	}
	if in.target == child {
		return w.checkType(parent, in, child), nil
	}

	w.unplug(child)
	displaced := in.target
	if displaced != nil {
		w.unplug(displaced)
	}

	in.target = child
	child.parent = parent
	child.parentInput = input
	w.emit(Event{Type: SocketConnected, Block: child, Parent: parent, Input: input})

	if displaced != nil && in.kind == InputStatement {
		w.appendToChain(child, displaced)
	}
	return w.checkType(parent, in, child), nil
}

// ConnectNext attaches child after prev in a statement chain.
func (w *Workspace) ConnectNext(prev, child *Block) error {
	if err := w.owns(prev); err != nil {
		return err
	}
	if err := w.owns(child); err != nil {
		return err
	}
	if !prev.hasNext || !child.hasPrevious {
		return fmt.Errorf("%w: %q cannot follow %q", ErrWrongInputKind, child.id, prev.id)
	}
	if w.reaches(child, prev) {
		return fmt.Errorf("%w: %q after %q", ErrCycle, child.id, prev.id)
	}
	if prev.next == child {
		return nil
	}

	w.unplug(child)
	displaced := prev.next
	if displaced != nil {
		w.unplug(displaced)
	}

	prev.next = child
	child.parent = prev
	child.parentInput = ""
	w.emit(Event{Type: SocketConnected, Block: child, Parent: prev})

	if displaced != nil {
		w.appendToChain(child, displaced)
	}
	return nil
}

// Disconnect unplugs child from its parent. The blocks after child in its
// chain stay attached to it. Disconnecting a top-level block is a no-op.
func (w *Workspace) Disconnect(child *Block) error {
	if err := w.owns(child); err != nil {
		return err
	}
	w.unplug(child)
	return nil
}

// Delete removes b and every block plugged into its inputs. When b sits in a
// statement chain, the blocks after it take its place.
func (w *Workspace) Delete(b *Block) error {
	if err := w.owns(b); err != nil {
		return err
	}

	parent, input := b.parent, b.parentInput
	w.unplug(b)
	if next := b.next; next != nil {
		w.unplug(next)
		if parent != nil {
			w.reattach(parent, input, next)
		}
	}

	doomed := w.Descendants(b)
	for i := len(doomed) - 1; i >= 0; i-- {
		d := doomed[i]
		w.removeFromOrder(d)
		delete(w.blocks, d.id)
		d.workspace = nil
		w.emit(Event{Type: BlockDeleted, Block: d})
	}
	return nil
}

func (w *Workspace) reattach(parent *Block, input string, chain *Block) {
	if input == "" {
		parent.next = chain
	} else {
		parent.Input(input).target = chain
	}
	chain.parent = parent
	chain.parentInput = input
	w.emit(Event{Type: SocketConnected, Block: chain, Parent: parent, Input: input})
}

func (w *Workspace) appendToChain(head, tail *Block) {
	last := head.lastInChain()
	if !last.hasNext || !tail.hasPrevious {
		return
	}
	last.next = tail
	tail.parent = last
	tail.parentInput = ""
	w.emit(Event{Type: SocketConnected, Block: tail, Parent: last})
}

func (w *Workspace) unplug(b *Block) {
	parent := b.parent
	if parent == nil {
		return
	}
	input := b.parentInput
	if input == "" {
		parent.next = nil
	} else if in := parent.Input(input); in != nil && in.target == b {
		in.target = nil
	}
	b.parent = nil
	b.parentInput = ""
	w.emit(Event{Type: SocketDisconnected, Block: b, Parent: parent, Input: input})
}

// reaches reports whether target is from or one of its descendants.
func (w *Workspace) reaches(from, target *Block) bool {
	for _, d := range w.Descendants(from) {
		if d == target {
			return true
		}
	}
	return false
}

func (w *Workspace) checkType(parent *Block, in *Input, child *Block) *types.Mismatch {
	if in.kind != InputValue || in.check == types.Null {
		return nil
	}
	m := types.Check(in.check, child.OutputType())
	if m == nil {
		return nil
	}
	m.BlockID = parent.id
	m.Input = in.name
	return m
}

func (w *Workspace) removeFromOrder(b *Block) {
	for i, o := range w.order {
		if o == b {
			w.order = append(w.order[:i], w.order[i+1:]...)
			return
		}
	}
}
