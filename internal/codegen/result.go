// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package codegen

import (
	"fmt"

	"github.com/specialistvlad/ardublockgo/internal/types"
)

// Fault records a block whose code could not be produced.
type Fault struct {
	BlockID string
	Kind    string
	Err     error
}

func (f Fault) Error() string {
	return fmt.Sprintf("block %q (%s): %v", f.BlockID, f.Kind, f.Err)
}

func (f Fault) Unwrap() error { return f.Err }

// Result is the outcome of one generation pass.
type Result struct {
	Source     string
	Faults     []Fault
	Mismatches []*types.Mismatch
}

// OK reports whether every block produced code and every connection was
// type compatible.
func (r *Result) OK() bool {
	return len(r.Faults) == 0 && len(r.Mismatches) == 0
}
