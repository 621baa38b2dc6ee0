package hcl

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/ardublockgo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const sample = `
workspace {
  board = "mega"
}

stack {
  block "ultrasonic_config" "c1" {
    PIN  = "7"
    NAME = "sensor1"
  }
}

stack {
  block "arduino_functions" "main" {
    input "LOOP_FUNC" {
      block "serial_print" "p1" {
        NEW_LINE = true
        input "CONTENT" {
          block "ultrasonic_read" "r1" {
            NAME = "sensor1"
          }
        }
      }
      block "time_delay" "d1" {
        input "DELAY_TIME_MILI" {
          block "math_number" "n1" {
            NUM = 250
          }
        }
      }
    }
  }
}
`

var ctyComparer = cmp.Comparer(func(a, b cty.Value) bool { return a.RawEquals(b) })

func TestParse(t *testing.T) {
	m, err := NewLoader().Parse(context.Background(), []byte(sample), "sample.hcl")
	require.NoError(t, err)

	assert.Equal(t, "mega", m.Board)
	require.Len(t, m.Stacks, 2)
	assert.Equal(t, 6, m.Len())

	cfg := m.Stacks[0].Blocks[0]
	assert.Equal(t, "ultrasonic_config", cfg.Kind)
	assert.Equal(t, "c1", cfg.ID)
	require.Len(t, cfg.Fields, 2)
	assert.Equal(t, "PIN", cfg.Fields[0].Name, "fields keep source order")
	assert.Equal(t, "NAME", cfg.Fields[1].Name)

	main := m.Stacks[1].Blocks[0]
	require.Len(t, main.Inputs, 1)
	loop := main.Inputs[0]
	assert.Equal(t, "LOOP_FUNC", loop.Name)
	require.Len(t, loop.Blocks, 2)
	assert.Equal(t, "p1", loop.Blocks[0].ID)
	assert.Equal(t, "d1", loop.Blocks[1].ID)
	assert.Equal(t, "r1", loop.Blocks[0].Inputs[0].Blocks[0].ID)

	num := loop.Blocks[1].Inputs[0].Blocks[0]
	assert.True(t, num.Fields[0].Value.RawEquals(cty.NumberIntVal(250)))
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "duplicate workspace",
			src:     "workspace {}\nworkspace {}\n",
			wantErr: `Duplicate "workspace" block`,
		},
		{
			name:    "unknown workspace argument",
			src:     "workspace {\n  colour = \"red\"\n}\n",
			wantErr: "Unsupported argument",
		},
		{
			name:    "empty stack",
			src:     "stack {}\n",
			wantErr: "Empty stack",
		},
		{
			name:    "missing id label",
			src:     "stack {\n  block \"text\" {}\n}\n",
			wantErr: "id",
		},
		{
			name:    "unknown top-level block",
			src:     "program {}\n",
			wantErr: "program",
		},
		{
			name:    "syntax error",
			src:     "stack {\n",
			wantErr: "failed to parse",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().Parse(context.Background(), []byte(tc.src), "bad.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m, err := NewLoader().Parse(ctx, []byte(sample), "sample.hcl")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewWriter().Write(ctx, &buf, m))

	again, err := NewLoader().Parse(ctx, buf.Bytes(), "written.hcl")
	require.NoError(t, err)
	if diff := cmp.Diff(m, again, ctyComparer); diff != "" {
		t.Errorf("model changed after a write/parse cycle (-want +got):\n%s", diff)
	}

	second, err := Format(again)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(second), "formatting is canonical")
}

func TestFormat_RejectsBlocksWithoutID(t *testing.T) {
	_, err := Format(&config.Model{Stacks: []*config.Stack{{Blocks: []*config.Block{{Kind: "text"}}}}})
	assert.Error(t, err)
}

func TestLoad_MergesFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(sample), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), []byte(`
stack {
  block "servo_config" "s1" {
    NAME = "arm"
  }
}
`), 0o644))

	m, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "mega", m.Board)
	assert.Len(t, m.Stacks, 3)
}

func TestLoad_ConflictingBoards(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte("workspace {\n  board = \"uno\"\n}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), []byte("workspace {\n  board = \"mega\"\n}\n"), 0o644))

	_, err := NewLoader().Load(context.Background(), dir)
	assert.ErrorContains(t, err, "conflicts")

	_, err = NewLoader().Load(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "no .hcl workspace files")
}
