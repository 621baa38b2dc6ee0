// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package workspace

import (
	"fmt"

	"github.com/specialistvlad/ardublockgo/internal/types"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// FieldKind selects how a field value is normalized.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldNumber
	FieldDropdown
	FieldCheckbox
	FieldColour
	// FieldInstance holds the name of a hardware instance. Names are single
	// line.
	FieldInstance
)

// InputKind distinguishes the sockets a block exposes.
type InputKind int

const (
	InputValue InputKind = iota
	InputStatement
	InputDummy
)

func (k InputKind) String() string {
	switch k {
	case InputValue:
		return "value"
	case InputStatement:
		return "statement"
	case InputDummy:
		return "dummy"
	default:
		return fmt.Sprintf("input(%d)", int(k))
	}
}

// FieldSpec declares one field of a block kind.
type FieldSpec struct {
	Name    string
	Kind    FieldKind
	Default cty.Value
	// Options seeds the dropdown options of FieldDropdown and FieldInstance
	// fields. Descriptors may refresh them later.
	Options []string
}

// InputSpec declares one input socket of a block kind. A Check of types.Null
// accepts any expression.
type InputSpec struct {
	Name  string
	Kind  InputKind
	Check types.Type
}

// Shape is everything the workspace needs to know about a block kind to
// instantiate it.
type Shape struct {
	Fields    []FieldSpec
	Inputs    []InputSpec
	HasOutput bool
	Output    types.Type
	Previous  bool
	Next      bool
}

// Statement returns a shape for a block chained through previous/next.
func Statement(fields []FieldSpec, inputs ...InputSpec) Shape {
	return Shape{Fields: fields, Inputs: inputs, Previous: true, Next: true}
}

// Expression returns a shape for a block that plugs into value inputs.
func Expression(out types.Type, fields []FieldSpec, inputs ...InputSpec) Shape {
	return Shape{Fields: fields, Inputs: inputs, HasOutput: true, Output: out}
}

// TopLevel returns a shape for a block that can only live at the top level.
func TopLevel(fields []FieldSpec, inputs ...InputSpec) Shape {
	return Shape{Fields: fields, Inputs: inputs}
}

func normalizeField(spec FieldSpec, v cty.Value) (cty.Value, error) {
	if v.IsNull() {
		return zeroValue(spec.Kind), nil
	}
	target := cty.String
	switch spec.Kind {
	case FieldNumber:
		target = cty.Number
	case FieldCheckbox:
		target = cty.Bool
	}
	out, err := convert.Convert(v, target)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%w: field %q: %v", ErrInvalidValue, spec.Name, err)
	}
	if spec.Kind == FieldInstance && containsLineBreak(out.AsString()) {
		return cty.NilVal, fmt.Errorf("%w: field %q: instance names must be a single line", ErrInvalidValue, spec.Name)
	}
	return out, nil
}

func zeroValue(kind FieldKind) cty.Value {
	switch kind {
	case FieldNumber:
		return cty.Zero
	case FieldCheckbox:
		return cty.False
	default:
		return cty.StringVal("")
	}
}
