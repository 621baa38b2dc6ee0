// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package types is the closed value-type system used to check block sockets
// and to render literal values into Arduino source text.
//
// # Core Concepts
//
//   - Type: one of Number, Text, Boolean, Array, Colour or Null. Expression
//     blocks declare the Type they produce; value inputs declare the Type they
//     accept.
//
//   - Compatibility: a Type is always compatible with itself. A Number may be
//     used where Text is expected and is rendered as decimal text. Nothing else
//     widens.
//
//   - Literals: field values are held as cty.Value and rendered through the
//     cty conversion rules, so a number keeps every digit it was given.
//
// Incompatible pairs are reported as *Mismatch values. They are warnings for
// the caller to surface; an invalid graph must stay editable and generatable.
package types
