// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package fragment holds the ordered, deduplicated code buckets a generation
// pass fills before the sketch is rendered.
package fragment

import (
	"fmt"
	"strings"
)

// Bucket is the placement category of a code fragment in the final sketch.
type Bucket int

const (
	// Includes holds preprocessor lines such as `#include <Servo.h>`.
	Includes Bucket = iota
	// Globals holds global variable declarations.
	Globals
	// Objects holds library object instantiations bound to pins.
	Objects
	// Setup holds statements placed in the synthesized setup() body.
	Setup
	// Loop holds statements placed in the synthesized loop() body.
	Loop
	// Functions holds free-standing function definitions.
	Functions

	numBuckets
)

// Order is the fixed render order of the buckets.
var Order = [numBuckets]Bucket{Includes, Globals, Objects, Setup, Loop, Functions}

var bucketNames = [numBuckets]string{"includes", "globals", "objects", "setup", "loop", "functions"}

func (b Bucket) String() string {
	if b < 0 || b >= numBuckets {
		return fmt.Sprintf("bucket(%d)", int(b))
	}
	return bucketNames[b]
}

// Valid reports whether b is one of the declared buckets.
func (b Bucket) Valid() bool {
	return b >= 0 && b < numBuckets
}

// Set accumulates fragments per bucket. Within a bucket fragments keep the
// order in which they were first added; a byte-identical fragment added again
// is dropped. A Set lives for exactly one generation pass.
type Set struct {
	seen  [numBuckets]map[string]struct{}
	items [numBuckets][]string
}

// NewSet returns an empty Set.
func NewSet() *Set {
	s := &Set{}
	for i := range s.seen {
		s.seen[i] = make(map[string]struct{})
	}
	return s
}

// Add appends text to bucket b unless an identical fragment is already there.
// Trailing newlines are trimmed and empty fragments are ignored. It reports
// whether the fragment was stored.
func (s *Set) Add(b Bucket, text string) bool {
	if !b.Valid() {
		return false
	}
	text = strings.TrimRight(text, "\n")
	if strings.TrimSpace(text) == "" {
		return false
	}
	if _, dup := s.seen[b][text]; dup {
		return false
	}
	s.seen[b][text] = struct{}{}
	s.items[b] = append(s.items[b], text)
	return true
}

// Items returns the fragments of bucket b in first-seen order.
func (s *Set) Items(b Bucket) []string {
	if !b.Valid() {
		return nil
	}
	out := make([]string, len(s.items[b]))
	copy(out, s.items[b])
	return out
}

// Len returns the number of fragments stored in bucket b.
func (s *Set) Len(b Bucket) int {
	if !b.Valid() {
		return 0
	}
	return len(s.items[b])
}
