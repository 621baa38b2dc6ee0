// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package workspace

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// EventType identifies a workspace mutation.
type EventType int

const (
	BlockCreated EventType = iota
	BlockDeleted
	FieldChanged
	SocketConnected
	SocketDisconnected
)

func (t EventType) String() string {
	switch t {
	case BlockCreated:
		return "block_created"
	case BlockDeleted:
		return "block_deleted"
	case FieldChanged:
		return "field_changed"
	case SocketConnected:
		return "socket_connected"
	case SocketDisconnected:
		return "socket_disconnected"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event describes one mutation. Field, OldValue and NewValue are set for
// FieldChanged; Parent and Input for the socket events (Input is empty for a
// next connection).
type Event struct {
	Type     EventType
	Block    *Block
	Field    string
	OldValue cty.Value
	NewValue cty.Value
	Parent   *Block
	Input    string
}

// Listener receives workspace events synchronously.
type Listener func(Event)
