// Package testutil holds helpers shared by package tests: a session wired with
// every built-in block module, block builders and a log capture buffer.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/specialistvlad/ardublockgo/internal/ctxlog"
	"github.com/specialistvlad/ardublockgo/internal/registry"
	"github.com/specialistvlad/ardublockgo/internal/session"
	"github.com/specialistvlad/ardublockgo/internal/workspace"
	"github.com/specialistvlad/ardublockgo/modules/core"
	"github.com/specialistvlad/ardublockgo/modules/io"
	"github.com/specialistvlad/ardublockgo/modules/serial"
	"github.com/specialistvlad/ardublockgo/modules/servo"
	"github.com/specialistvlad/ardublockgo/modules/timing"
	"github.com/specialistvlad/ardublockgo/modules/ultrasonic"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Modules returns every built-in block module.
func Modules() []registry.Module {
	return []registry.Module{
		&core.Module{},
		&io.Module{},
		&timing.Module{},
		&serial.Module{},
		&ultrasonic.Module{},
		&servo.Module{},
	}
}

// Context returns a context carrying a debug logger that writes to buf.
func Context(buf *SafeBuffer) context.Context {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}

// Harness is a session plus the log it writes.
type Harness struct {
	T       *testing.T
	Ctx     context.Context
	Log     *SafeBuffer
	Session *session.Session
}

// NewHarness creates a session for the uno board with every built-in module.
func NewHarness(t *testing.T) *Harness {
	t.Helper()
	buf := &SafeBuffer{}
	ctx := Context(buf)
	s, err := session.New(ctx, registry.NewWith(Modules()...), "uno")
	require.NoError(t, err)
	return &Harness{T: t, Ctx: ctx, Log: buf, Session: s}
}

// Block creates a block and sets the given fields from their text form.
func (h *Harness) Block(kind, id string, fields map[string]string) *workspace.Block {
	h.T.Helper()
	b, err := h.Session.NewBlock(kind, id)
	require.NoError(h.T, err)
	for name, value := range fields {
		require.NoError(h.T, h.Session.SetField(b, name, cty.StringVal(value)))
	}
	return b
}

// Plug connects child into parent's input and fails on structural errors.
func (h *Harness) Plug(parent *workspace.Block, input string, child *workspace.Block) {
	h.T.Helper()
	_, err := h.Session.Connect(parent, input, child)
	require.NoError(h.T, err)
}

// Chain links blocks through next connections in the given order.
func (h *Harness) Chain(blocks ...*workspace.Block) {
	h.T.Helper()
	for i := 1; i < len(blocks); i++ {
		require.NoError(h.T, h.Session.ConnectNext(blocks[i-1], blocks[i]))
	}
}

// Number creates a math_number block.
func (h *Harness) Number(id, value string) *workspace.Block {
	h.T.Helper()
	return h.Block("math_number", id, map[string]string{"NUM": value})
}
