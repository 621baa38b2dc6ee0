// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package types

import "fmt"

// Mismatch reports an expression of type Actual connected where Expected is
// required. It is an advisory value, never a fault.
type Mismatch struct {
	BlockID  string
	Input    string
	Expected Type
	Actual   Type
}

func (m *Mismatch) Error() string {
	if m.BlockID == "" {
		return fmt.Sprintf("expected %s, got %s", m.Expected, m.Actual)
	}
	return fmt.Sprintf("block %q input %q: expected %s, got %s", m.BlockID, m.Input, m.Expected, m.Actual)
}

// IsCompatible reports whether a value of type actual may be used where
// expected is required.
func IsCompatible(expected, actual Type) bool {
	if expected == actual {
		return true
	}
	return expected == Text && actual == Number
}

// Check returns a Mismatch for incompatible pairs and nil otherwise.
func Check(expected, actual Type) *Mismatch {
	if IsCompatible(expected, actual) {
		return nil
	}
	return &Mismatch{Expected: expected, Actual: actual}
}

// Coerce adapts expression code of type from for use in a to context. Only
// Number to Text changes the code; every other pair is returned as is.
func Coerce(code string, from, to Type) string {
	if from == Number && to == Text {
		return "String(" + code + ")"
	}
	return code
}
