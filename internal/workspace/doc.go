// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package workspace is the live, mutable forest of blocks that represents the
// user's program.
//
// A Block has ordered fields (literal values held as cty.Value) and ordered
// inputs. Value inputs hold a single expression block; statement inputs hold
// the first block of a chain whose members are linked through their next
// connection. Blocks with neither a parent nor a previous block are the
// top-level blocks.
//
// Every mutation is announced to subscribers as an Event, synchronously and in
// subscription order. The package is single-threaded: callers serialize edits.
package workspace
