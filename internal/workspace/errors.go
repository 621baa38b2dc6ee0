// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package workspace

import "errors"

var (
	ErrDuplicateID    = errors.New("duplicate block id")
	ErrUnknownBlock   = errors.New("block does not belong to this workspace")
	ErrUnknownField   = errors.New("unknown field")
	ErrUnknownInput   = errors.New("unknown input")
	ErrInvalidValue   = errors.New("invalid field value")
	ErrWrongInputKind = errors.New("input cannot hold this block")
	ErrCycle          = errors.New("connection would create a cycle")
)
