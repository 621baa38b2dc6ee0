package session

import (
	"context"
	"fmt"

	"github.com/specialistvlad/ardublockgo/internal/board"
	"github.com/specialistvlad/ardublockgo/internal/config"
	"github.com/specialistvlad/ardublockgo/internal/ctxlog"
	"github.com/specialistvlad/ardublockgo/internal/workspace"
)

// Load replaces the workspace with the one described by m. The graph is built
// without routing events; the directory and every warning are then derived
// by a full rescan. On error the session is left with an empty workspace on
// its previous board.
func (s *Session) Load(ctx context.Context, m *config.Model) error {
	logger := ctxlog.FromContext(ctx)

	profile := s.board
	if m.Board != "" {
		var err error
		if profile, err = board.Get(m.Board); err != nil {
			return err
		}
	}

	s.attach(workspace.New())
	s.loading = true
	err := s.build(m)
	s.loading = false
	if err != nil {
		s.Reset()
		return err
	}
	s.board = profile
	s.rescan()

	logger.Debug("Workspace loaded.", "blocks", s.ws.Len(), "instances", s.dir.Len(), "warnings", len(s.eng.Warnings()))
	return nil
}

func (s *Session) build(m *config.Model) error {
	for _, stack := range m.Stacks {
		if _, err := s.buildChain(stack.Blocks); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) buildChain(chain []*config.Block) (*workspace.Block, error) {
	var first, prev *workspace.Block
	for _, cb := range chain {
		b, err := s.buildBlock(cb)
		if err != nil {
			return nil, err
		}
		if prev == nil {
			first = b
		} else if err := s.ws.ConnectNext(prev, b); err != nil {
			return nil, fmt.Errorf("block %q cannot follow %q: %w", b.ID(), prev.ID(), err)
		}
		prev = b
	}
	return first, nil
}

func (s *Session) buildBlock(cb *config.Block) (*workspace.Block, error) {
	shape, err := s.reg.Shape(cb.Kind)
	if err != nil {
		return nil, fmt.Errorf("block %q: %w", cb.ID, err)
	}
	b, err := s.ws.Create(cb.Kind, cb.ID, shape)
	if err != nil {
		return nil, err
	}
	for _, f := range cb.Fields {
		if err := s.ws.SetField(b, f.Name, f.Value); err != nil {
			return nil, fmt.Errorf("block %q: %w", cb.ID, err)
		}
	}
	for _, in := range cb.Inputs {
		child, err := s.buildChain(in.Blocks)
		if err != nil {
			return nil, err
		}
		if child == nil {
			continue
		}
		m, err := s.ws.Connect(b, in.Name, child)
		if err != nil {
			return nil, fmt.Errorf("block %q input %q: %w", cb.ID, in.Name, err)
		}
		if m != nil {
			s.logger.Warn("Incompatible connection in loaded workspace.", "block", cb.ID, "input", in.Name, "expected", m.Expected, "actual", m.Actual)
		}
	}
	return b, nil
}

// Model captures the workspace for saving.
func (s *Session) Model() *config.Model {
	m := &config.Model{Board: s.board.Name}
	for _, top := range s.ws.TopBlocks() {
		m.Stacks = append(m.Stacks, &config.Stack{Blocks: chainModel(top)})
	}
	return m
}

func chainModel(first *workspace.Block) []*config.Block {
	var out []*config.Block
	for b := first; b != nil; b = b.Next() {
		out = append(out, blockModel(b))
	}
	return out
}

func blockModel(b *workspace.Block) *config.Block {
	cb := &config.Block{Kind: b.Kind(), ID: b.ID()}
	for _, f := range b.Fields() {
		cb.Fields = append(cb.Fields, config.Field{Name: f.Spec.Name, Value: f.Value})
	}
	for _, in := range b.Inputs() {
		if in.Target() == nil {
			continue
		}
		cb.Inputs = append(cb.Inputs, &config.Input{Name: in.Name(), Blocks: chainModel(in.Target())})
	}
	return cb
}
