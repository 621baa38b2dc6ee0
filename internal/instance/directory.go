// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package instance

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/ardublockgo/internal/workspace"
)

// Key identifies an instance within a component kind.
type Key struct {
	Kind string
	Name string
}

func (k Key) String() string { return fmt.Sprintf("%s/%s", k.Kind, k.Name) }

// Reference is what a usage block points at: the instance key plus the label
// of the configuration block that must declare it.
type Reference struct {
	Key
	ConfigLabel string
}

// Directory maps keys to configuration blocks. Several blocks may register
// the same key; the most recent registration wins and earlier ones are kept
// as fallbacks.
type Directory struct {
	entries map[Key][]*workspace.Block
}

// New creates an empty directory.
func New() *Directory {
	return &Directory{entries: make(map[Key][]*workspace.Block)}
}

// Register makes node the current declaration of (kind, name). Registering a
// node that is already a candidate makes it the newest candidate.
func (d *Directory) Register(kind, name string, node *workspace.Block) {
	k := Key{Kind: kind, Name: name}
	candidates := remove(d.entries[k], node)
	d.entries[k] = append(candidates, node)
}

// Unregister removes node from (kind, name). It reports whether node was a
// candidate at all; removing a stale registration leaves the live one alone.
func (d *Directory) Unregister(kind, name string, node *workspace.Block) bool {
	k := Key{Kind: kind, Name: name}
	candidates, ok := d.entries[k]
	if !ok {
		return false
	}
	rest := remove(candidates, node)
	if len(rest) == len(candidates) {
		return false
	}
	if len(rest) == 0 {
		delete(d.entries, k)
	} else {
		d.entries[k] = rest
	}
	return true
}

// Lookup returns the current declaration of (kind, name).
func (d *Directory) Lookup(kind, name string) (*workspace.Block, bool) {
	candidates := d.entries[Key{Kind: kind, Name: name}]
	if len(candidates) == 0 {
		return nil, false
	}
	return candidates[len(candidates)-1], true
}

// IsPresent reports whether any block declares (kind, name).
func (d *Directory) IsPresent(kind, name string) bool {
	_, ok := d.Lookup(kind, name)
	return ok
}

// Count returns how many blocks currently declare (kind, name).
func (d *Directory) Count(kind, name string) int {
	return len(d.entries[Key{Kind: kind, Name: name}])
}

// Names returns the sorted instance names declared for kind.
func (d *Directory) Names(kind string) []string {
	var names []string
	for k := range d.entries {
		if k.Kind == kind {
			names = append(names, k.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the number of distinct keys.
func (d *Directory) Len() int { return len(d.entries) }

// Reset forgets every registration.
func (d *Directory) Reset() {
	d.entries = make(map[Key][]*workspace.Block)
}

// Snapshot returns the current key to block id mapping.
func (d *Directory) Snapshot() map[Key]string {
	out := make(map[Key]string, len(d.entries))
	for k := range d.entries {
		b, _ := d.Lookup(k.Kind, k.Name)
		out[k] = b.ID()
	}
	return out
}

// Equal reports whether both directories resolve every key to the same block,
// including the fallback order of duplicate declarations.
func (d *Directory) Equal(other *Directory) bool {
	if len(d.entries) != len(other.entries) {
		return false
	}
	for k, mine := range d.entries {
		theirs, ok := other.entries[k]
		if !ok || len(mine) != len(theirs) {
			return false
		}
		for i := range mine {
			if mine[i] != theirs[i] {
				return false
			}
		}
	}
	return true
}

func remove(candidates []*workspace.Block, node *workspace.Block) []*workspace.Block {
	out := candidates[:0:0]
	for _, c := range candidates {
		if c != node {
			out = append(out, c)
		}
	}
	return out
}
