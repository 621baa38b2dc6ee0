// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package validate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/ardublockgo/internal/ctxlog"
	"github.com/specialistvlad/ardublockgo/internal/instance"
	"github.com/specialistvlad/ardublockgo/internal/types"
	"github.com/specialistvlad/ardublockgo/internal/workspace"
)

const (
	missingInstance   = "A %s configuration block with the same %s name must be added to use this block!"
	duplicateInstance = "The name %q is declared by %d configuration blocks. Rename all but one of them!"
	identifierClash   = "The names %q and %q both become %s in the sketch. Rename one of them!"
)

// Resolver reports the instance a block declares or refers to.
type Resolver interface {
	DeclarationOf(b *workspace.Block) (instance.Declaration, bool)
	ReferenceOf(b *workspace.Block) (instance.Reference, bool)
}

// subject is the instance a tracked block is about.
type subject struct {
	instance.Key
	label string
	usage bool
}

// Warning is one block's current warning.
type Warning struct {
	BlockID string
	Text    string
}

// Engine derives instance warnings for usage and configuration blocks.
type Engine struct {
	dir      *instance.Directory
	refs     Resolver
	logger   *slog.Logger
	warnings map[*workspace.Block]string
	// tracked lists the usage and configuration blocks per component kind
	// in the order they were first tracked.
	tracked map[string][]*workspace.Block
}

// New creates an Engine that checks references against dir.
func New(ctx context.Context, dir *instance.Directory, refs Resolver) *Engine {
	return &Engine{
		dir:      dir,
		refs:     refs,
		logger:   ctxlog.FromContext(ctx).With("component", "validate"),
		warnings: make(map[*workspace.Block]string),
		tracked:  make(map[string][]*workspace.Block),
	}
}

// SetDirectory points the engine at a different directory. Callers follow it
// with RevalidateAll.
func (e *Engine) SetDirectory(dir *instance.Directory) {
	e.dir = dir
}

// Track subscribes a block to changes of its component kind. Blocks that
// neither declare nor refer to an instance are ignored.
func (e *Engine) Track(b *workspace.Block) {
	sub, ok := e.subjectOf(b)
	if !ok {
		return
	}
	for _, t := range e.tracked[sub.Kind] {
		if t == b {
			return
		}
	}
	e.tracked[sub.Kind] = append(e.tracked[sub.Kind], b)
}

// Forget drops b's subscription and its warning.
func (e *Engine) Forget(b *workspace.Block) {
	delete(e.warnings, b)
	sub, ok := e.subjectOf(b)
	if !ok {
		return
	}
	list := e.tracked[sub.Kind]
	for i, t := range list {
		if t == b {
			e.tracked[sub.Kind] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(e.tracked[sub.Kind]) == 0 {
		delete(e.tracked, sub.Kind)
	}
}

// Revalidate recomputes b's warning and reports whether it changed. Blocks
// that are no longer in a workspace and blocks that neither declare nor refer
// to an instance are left alone.
func (e *Engine) Revalidate(b *workspace.Block) bool {
	if b == nil || b.Workspace() == nil {
		return false
	}
	sub, ok := e.subjectOf(b)
	if !ok {
		return false
	}

	old, had := e.warnings[b]
	text := e.check(sub)
	if text == "" {
		if !had {
			return false
		}
		delete(e.warnings, b)
		e.logger.Debug("Instance warning cleared.", "block", b.ID(), "instance", sub.Key.String())
		return true
	}
	if had && old == text {
		return false
	}
	e.warnings[b] = text
	e.logger.Debug("Instance warning set.", "block", b.ID(), "instance", sub.Key.String(), "warning", text)
	return true
}

// check returns the warning for sub, or "". A usage block needs exactly one
// declaration; any block named like another declaration of its kind, or
// whose sketch identifier collides with one, is flagged.
func (e *Engine) check(sub subject) string {
	n := e.dir.Count(sub.Kind, sub.Name)
	switch {
	case n == 0 && sub.usage:
		return fmt.Sprintf(missingInstance, sub.label, sub.Name)
	case n == 0:
		return ""
	case n > 1:
		return fmt.Sprintf(duplicateInstance, sub.Name, n)
	}

	ident := types.Identifier(sub.Name)
	for _, other := range e.dir.Names(sub.Kind) {
		if other != sub.Name && types.Identifier(other) == ident {
			return fmt.Sprintf(identifierClash, sub.Name, other, ident)
		}
	}
	return ""
}

func (e *Engine) subjectOf(b *workspace.Block) (subject, bool) {
	if ref, ok := e.refs.ReferenceOf(b); ok {
		return subject{Key: ref.Key, label: ref.ConfigLabel, usage: true}, true
	}
	if decl, ok := e.refs.DeclarationOf(b); ok {
		return subject{Key: instance.Key{Kind: decl.Kind, Name: b.FieldString(decl.Field)}}, true
	}
	return subject{}, false
}

// RevalidateKind revalidates every tracked block of a component kind
// and returns how many warnings changed.
func (e *Engine) RevalidateKind(kind string) int {
	changed := 0
	for _, b := range append([]*workspace.Block(nil), e.tracked[kind]...) {
		if e.Revalidate(b) {
			changed++
		}
	}
	return changed
}

// RevalidateAll rebuilds the subscriptions from ws and revalidates every
// tracked block in it. It is the full-scan fallback for the per-kind fan out.
func (e *Engine) RevalidateAll(ws *workspace.Workspace) {
	e.warnings = make(map[*workspace.Block]string)
	e.tracked = make(map[string][]*workspace.Block)
	for _, b := range ws.AllBlocks() {
		e.Track(b)
		e.Revalidate(b)
	}
}

// WarningText returns b's current warning, or "" when there is none.
func (e *Engine) WarningText(b *workspace.Block) string {
	return e.warnings[b]
}

// Warnings returns every current warning ordered by block id.
func (e *Engine) Warnings() []Warning {
	out := make([]Warning, 0, len(e.warnings))
	for b, text := range e.warnings {
		out = append(out, Warning{BlockID: b.ID(), Text: text})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BlockID < out[j].BlockID })
	return out
}

// Tracked returns the blocks subscribed to kind.
func (e *Engine) Tracked(kind string) []*workspace.Block {
	return append([]*workspace.Block(nil), e.tracked[kind]...)
}
