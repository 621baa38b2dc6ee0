// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/ardublockgo/internal/board"
	"github.com/specialistvlad/ardublockgo/internal/codegen"
	"github.com/specialistvlad/ardublockgo/internal/ctxlog"
	"github.com/specialistvlad/ardublockgo/internal/instance"
	"github.com/specialistvlad/ardublockgo/internal/registry"
	"github.com/specialistvlad/ardublockgo/internal/types"
	"github.com/specialistvlad/ardublockgo/internal/validate"
	"github.com/specialistvlad/ardublockgo/internal/workspace"
	"github.com/zclconf/go-cty/cty"
)

// Session owns one open workspace.
type Session struct {
	reg    *registry.Registry
	gen    *codegen.Generator
	ws     *workspace.Workspace
	dir    *instance.Directory
	eng    *validate.Engine
	board  board.Profile
	logger *slog.Logger

	unsubscribe func()
	// loading suppresses event routing while Load rebuilds the graph.
	loading bool
}

// New creates a session with an empty workspace for the named board.
func New(ctx context.Context, reg *registry.Registry, boardName string) (*Session, error) {
	if boardName == "" {
		boardName = board.Default
	}
	profile, err := board.Get(boardName)
	if err != nil {
		return nil, err
	}

	dir := instance.New()
	s := &Session{
		reg:    reg,
		gen:    codegen.New(reg),
		dir:    dir,
		eng:    validate.New(ctx, dir, reg),
		board:  profile,
		logger: ctxlog.FromContext(ctx).With("component", "session"),
	}
	s.attach(workspace.New())
	return s, nil
}

func (s *Session) attach(ws *workspace.Workspace) {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.ws = ws
	s.unsubscribe = ws.Subscribe(s.route)
}

// Workspace returns the live workspace.
func (s *Session) Workspace() *workspace.Workspace { return s.ws }

// Directory returns the live instance directory.
func (s *Session) Directory() *instance.Directory { return s.dir }

// Registry returns the registry the session resolves block kinds through.
func (s *Session) Registry() *registry.Registry { return s.reg }

// Board returns the selected board profile.
func (s *Session) Board() board.Profile { return s.board }

// NewBlock creates a block of a registered kind. Configuration blocks get an
// instance name that is not yet taken within their component kind.
func (s *Session) NewBlock(kind, id string) (*workspace.Block, error) {
	shape, err := s.reg.Shape(kind)
	if err != nil {
		return nil, err
	}

	var unique string
	if d, ok := s.reg.Lookup(kind); ok {
		if decl, ok := d.(registry.Declarer); ok {
			unique = s.UniqueInstanceName(decl.Declares().Kind, defaultName(shape, decl.Declares().Field))
		}
	}

	b, err := s.ws.Create(kind, id, shape)
	if err != nil {
		return nil, err
	}
	if decl, ok := s.reg.DeclarationOf(b); ok && unique != "" && b.FieldString(decl.Field) != unique {
		if err := s.ws.SetField(b, decl.Field, cty.StringVal(unique)); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func defaultName(shape workspace.Shape, field string) string {
	for _, f := range shape.Fields {
		if f.Name == field && !f.Default.IsNull() && f.Default.Type() == cty.String {
			return f.Default.AsString()
		}
	}
	return ""
}

// UniqueInstanceName returns base, or base followed by the smallest number
// from 2 up that no block of kind declares yet.
func (s *Session) UniqueInstanceName(kind, base string) string {
	if base == "" {
		base = kind
	}
	if !s.dir.IsPresent(kind, base) {
		return base
	}
	for i := 2; ; i++ {
		name := fmt.Sprintf("%s%d", base, i)
		if !s.dir.IsPresent(kind, name) {
			return name
		}
	}
}

// Delete removes b and everything plugged into it.
func (s *Session) Delete(b *workspace.Block) error {
	return s.ws.Delete(b)
}

// SetField writes a field value.
func (s *Session) SetField(b *workspace.Block, field string, v cty.Value) error {
	return s.ws.SetField(b, field, v)
}

// SetFieldString writes a field from its text form; number and checkbox
// fields convert it.
func (s *Session) SetFieldString(b *workspace.Block, field, value string) error {
	return s.ws.SetField(b, field, cty.StringVal(value))
}

// Connect plugs child into parent's input. A type mismatch is logged and
// returned; the connection is kept.
func (s *Session) Connect(parent *workspace.Block, input string, child *workspace.Block) (*types.Mismatch, error) {
	m, err := s.ws.Connect(parent, input, child)
	if err != nil {
		return nil, err
	}
	if m != nil {
		s.logger.Warn("Incompatible connection.", "block", parent.ID(), "input", input, "expected", m.Expected, "actual", m.Actual)
	}
	return m, nil
}

// ConnectNext attaches child after prev.
func (s *Session) ConnectNext(prev, child *workspace.Block) error {
	return s.ws.ConnectNext(prev, child)
}

// Disconnect unplugs b from its parent.
func (s *Session) Disconnect(b *workspace.Block) error {
	return s.ws.Disconnect(b)
}

// SetBoard switches the board profile and refreshes every dropdown.
func (s *Session) SetBoard(name string) error {
	profile, err := board.Get(name)
	if err != nil {
		return err
	}
	s.board = profile
	for _, b := range s.ws.AllBlocks() {
		s.updateFields(b)
	}
	s.logger.Debug("Board selected.", "board", name)
	return nil
}

// RenameInstance renames an instance on its configuration blocks and on every
// usage block referring to it. It returns the number of blocks changed.
func (s *Session) RenameInstance(kind, oldName, newName string) (int, error) {
	if newName == "" {
		return 0, errors.New("instance name cannot be empty")
	}
	if oldName == newName {
		return 0, nil
	}

	type target struct {
		block *workspace.Block
		field string
	}
	var targets []target
	for _, b := range s.ws.AllBlocks() {
		if decl, ok := s.reg.DeclarationOf(b); ok && decl.Kind == kind && b.FieldString(decl.Field) == oldName {
			targets = append(targets, target{b, decl.Field})
			continue
		}
		if ref, ok := s.reg.ReferenceOf(b); ok && ref.Kind == kind && ref.Name == oldName {
			field, _ := s.reg.ReferenceField(b)
			targets = append(targets, target{b, field})
		}
	}

	for i, t := range targets {
		if err := s.ws.SetField(t.block, t.field, cty.StringVal(newName)); err != nil {
			return i, fmt.Errorf("failed to rename %s %q on block %q: %w", kind, oldName, t.block.ID(), err)
		}
	}
	s.logger.Debug("Instance renamed.", "kind", kind, "from", oldName, "to", newName, "blocks", len(targets))
	return len(targets), nil
}

// WarningText returns b's current warning, or "".
func (s *Session) WarningText(b *workspace.Block) string {
	return s.eng.WarningText(b)
}

// Warnings returns every current warning ordered by block id.
func (s *Session) Warnings() []validate.Warning {
	return s.eng.Warnings()
}

// Generate compiles the workspace into sketch text.
func (s *Session) Generate(ctx context.Context) *codegen.Result {
	return s.gen.Generate(ctx, s.ws, s.dir)
}

// Reset clears the workspace. The directory and the warnings are rebuilt from
// the now empty graph.
func (s *Session) Reset() {
	s.attach(workspace.New())
	s.rescan()
}

// Reconcile rescans the graph and compares the result with the incrementally
// maintained directory. On divergence the rescan replaces the directory and
// every tracked block is revalidated. It reports whether the two agreed.
func (s *Session) Reconcile() bool {
	rebuilt := instance.Rebuild(s.ws.AllBlocks(), s.reg.DeclarationOf)
	if s.dir.Equal(rebuilt) {
		return true
	}
	s.logger.Warn("Instance directory diverged from the workspace; replacing it.",
		"diff", cmp.Diff(s.dir.Snapshot(), rebuilt.Snapshot()))
	s.useDirectory(rebuilt)
	return false
}

func (s *Session) rescan() {
	s.useDirectory(instance.Rebuild(s.ws.AllBlocks(), s.reg.DeclarationOf))
	for _, b := range s.ws.AllBlocks() {
		s.updateFields(b)
	}
}

func (s *Session) useDirectory(dir *instance.Directory) {
	s.dir = dir
	s.eng.SetDirectory(dir)
	s.eng.RevalidateAll(s.ws)
}

func (s *Session) updateFields(b *workspace.Block) {
	s.reg.UpdateFields(b, &registry.FieldEnv{Board: s.board, Directory: s.dir})
}
