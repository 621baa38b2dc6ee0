// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package types

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Type identifies the kind of value an expression block produces or a value
// input accepts.
type Type int

const (
	// Null is the type of statement blocks and empty sockets.
	Null Type = iota
	Number
	Text
	Boolean
	Array
	Colour
)

var names = map[Type]string{
	Null:    "null",
	Number:  "number",
	Text:    "text",
	Boolean: "boolean",
	Array:   "array",
	Colour:  "colour",
}

// All lists every Type in declaration order.
func All() []Type {
	return []Type{Null, Number, Text, Boolean, Array, Colour}
}

func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseType converts a keyword such as "number" or "text" into a Type. The
// match is case-insensitive; "void" is accepted as an alias of "null" and
// "string" as an alias of "text".
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "null", "void", "":
		return Null, nil
	case "number":
		return Number, nil
	case "text", "string":
		return Text, nil
	case "boolean", "bool":
		return Boolean, nil
	case "array", "list":
		return Array, nil
	case "colour", "color":
		return Colour, nil
	default:
		return Null, fmt.Errorf("unknown type %q", s)
	}
}

// CtyType returns the cty type used to hold values of t.
func (t Type) CtyType() cty.Type {
	switch t {
	case Number:
		return cty.Number
	case Text, Colour:
		return cty.String
	case Boolean:
		return cty.Bool
	case Array:
		return cty.List(cty.DynamicPseudoType)
	default:
		return cty.DynamicPseudoType
	}
}

// FromCty maps a concrete cty type back onto the closest Type.
func FromCty(ty cty.Type) Type {
	switch {
	case ty == cty.Number:
		return Number
	case ty == cty.String:
		return Text
	case ty == cty.Bool:
		return Boolean
	case ty.IsListType(), ty.IsTupleType(), ty.IsSetType():
		return Array
	default:
		return Null
	}
}
