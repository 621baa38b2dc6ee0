// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package instance

import (
	"sort"

	"github.com/specialistvlad/ardublockgo/internal/workspace"
)

// Declaration describes how a configuration block declares its instance: the
// component kind and the field holding the instance name.
type Declaration struct {
	Kind  string
	Field string
}

// DeclaresFunc reports the declaration carried by a block, if any.
type DeclaresFunc func(b *workspace.Block) (Declaration, bool)

// Rebuild returns a directory built from scratch out of blocks. Declaring
// blocks are registered in the order their name fields were last written, the
// same order incremental registration saw them in.
func Rebuild(blocks []*workspace.Block, declares DeclaresFunc) *Directory {
	type pending struct {
		block *workspace.Block
		decl  Declaration
		rev   uint64
	}

	var found []pending
	for _, b := range blocks {
		decl, ok := declares(b)
		if !ok {
			continue
		}
		found = append(found, pending{block: b, decl: decl, rev: b.FieldRevision(decl.Field)})
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].rev < found[j].rev })

	d := New()
	for _, p := range found {
		d.Register(p.decl.Kind, p.block.FieldString(p.decl.Field), p.block)
	}
	return d
}
