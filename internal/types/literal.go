// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package types

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// Quote renders s as a C string literal.
func Quote(s string) string {
	return `"` + escaper.Replace(s) + `"`
}

// Literal renders v as source text of type t.
func Literal(v cty.Value, t Type) (string, error) {
	if v.IsNull() {
		return "", errors.New("null value has no literal form")
	}
	if !v.IsKnown() {
		return "", errors.New("unknown value has no literal form")
	}

	switch t {
	case Number:
		num, err := convert.Convert(v, cty.Number)
		if err != nil {
			return "", fmt.Errorf("not a number: %w", err)
		}
		return DecimalText(num)
	case Text, Colour:
		str, err := convert.Convert(v, cty.String)
		if err != nil {
			return "", fmt.Errorf("not text: %w", err)
		}
		return Quote(str.AsString()), nil
	case Boolean:
		b, err := convert.Convert(v, cty.Bool)
		if err != nil {
			return "", fmt.Errorf("not a boolean: %w", err)
		}
		if b.True() {
			return "true", nil
		}
		return "false", nil
	case Array:
		ty := v.Type()
		if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
			return "", fmt.Errorf("not an array: %s", ty.FriendlyName())
		}
		parts := make([]string, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			s, err := Literal(elem, FromCty(elem.Type()))
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	default:
		return "", fmt.Errorf("type %s has no literal form", t)
	}
}

// DecimalText renders a number value in decimal without rounding, using the
// same rules as cty's number to string conversion.
func DecimalText(num cty.Value) (string, error) {
	str, err := convert.Convert(num, cty.String)
	if err != nil {
		return "", err
	}
	return str.AsString(), nil
}

var reserved = map[string]struct{}{
	"setup": {}, "loop": {}, "if": {}, "else": {}, "for": {}, "switch": {}, "case": {},
	"while": {}, "do": {}, "break": {}, "continue": {}, "return": {}, "goto": {},
	"void": {}, "boolean": {}, "bool": {}, "char": {}, "byte": {}, "int": {}, "long": {},
	"short": {}, "float": {}, "double": {}, "word": {}, "unsigned": {}, "signed": {},
	"static": {}, "volatile": {}, "const": {}, "sizeof": {}, "String": {}, "string": {},
	"true": {}, "false": {}, "HIGH": {}, "LOW": {}, "INPUT": {}, "OUTPUT": {},
	"INPUT_PULLUP": {}, "class": {}, "struct": {}, "new": {}, "delete": {}, "this": {},
	"Serial": {}, "delay": {}, "millis": {}, "micros": {},
}

// Identifier turns a user supplied instance or variable name into a valid C
// identifier.
func Identifier(name string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	id := sb.String()
	if id == "" {
		return "unnamed"
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "my_" + id
	}
	if _, ok := reserved[id]; ok {
		id += "_"
	}
	return id
}
