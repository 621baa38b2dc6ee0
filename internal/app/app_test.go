package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sensorWorkspace = `
workspace {
  board = "uno"
}

stack {
  block "ultrasonic_config" "c1" {
    NAME = "sensor1"
    PIN  = "7"
  }
}

stack {
  block "serial_setup" "ser" {
  }
}

stack {
  block "arduino_functions" "main" {
    input "LOOP_FUNC" {
      block "serial_print" "p1" {
        input "CONTENT" {
          block "ultrasonic_read" "r1" {
            NAME = "%s"
          }
        }
      }
    }
  }
}
`

func writeWorkspace(t *testing.T, readName string) string {
	t.Helper()
	dir := t.TempDir()
	src := strings.Replace(sensorWorkspace, "%s", readName, 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.hcl"), []byte(src), 0600))
	return dir
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "defaults", cfg: DefaultConfig()},
		{name: "board and json", cfg: Config{Board: "mega", LogLevel: "debug", LogFormat: "json"}},
		{name: "bad level", cfg: Config{LogLevel: "loud", LogFormat: "text"}, wantErr: "invalid log-level"},
		{name: "bad format", cfg: Config{LogLevel: "info", LogFormat: "xml"}, wantErr: "invalid log-format"},
		{name: "unknown board", cfg: Config{Board: "zero", LogLevel: "info", LogFormat: "text"}, wantErr: "zero"},
		{
			name:    "negative timeout",
			cfg:     Config{LogLevel: "info", LogFormat: "text", Publish: PublishConfig{Timeout: -time.Second}},
			wantErr: "negative",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg, *cfg)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ardublock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
board: mega
publish:
  url: http://localhost:3000/socket.io/
  timeout: 5s
`), 0600))

	cfg, err := LoadConfigFile(path, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "mega", cfg.Board)
	assert.Equal(t, "info", cfg.LogLevel, "keys missing from the file keep the base value")
	assert.Equal(t, "http://localhost:3000/socket.io/", cfg.Publish.URL)
	assert.Equal(t, 5*time.Second, cfg.Publish.Timeout)

	t.Run("unknown key", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("boards: uno\n"), 0600))
		_, err := LoadConfigFile(bad, DefaultConfig())
		require.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		empty := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(empty, nil, 0600))
		cfg, err := LoadConfigFile(empty, DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFile(filepath.Join(dir, "nope.yaml"), DefaultConfig())
		require.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestApp_Generate(t *testing.T) {
	a, logs := SetupAppTest(t, DefaultConfig())

	res, err := a.Generate(context.Background(), writeWorkspace(t, "sensor1"))
	require.NoError(t, err)

	assert.True(t, res.OK())
	assert.Contains(t, res.Source, "MeUltrasonicSensor sensor1(7);")
	assert.Contains(t, res.Source, "  Serial.begin(9600);\n")
	assert.Contains(t, res.Source, "  Serial.println(String(sensor1.distanceCm()));\n")
	assert.Contains(t, logs.String(), "Workspace loaded.")
}

func TestApp_Validate(t *testing.T) {
	a, _ := SetupAppTest(t, DefaultConfig())

	clean, err := a.Validate(context.Background(), writeWorkspace(t, "sensor1"))
	require.NoError(t, err)
	assert.Zero(t, clean.Problems())

	broken, err := a.Validate(context.Background(), writeWorkspace(t, "sensor2"))
	require.NoError(t, err)
	require.Len(t, broken.Warnings, 1)
	assert.Equal(t, "r1", broken.Warnings[0].BlockID)
	assert.Equal(t, 1, broken.Problems())
}

func TestApp_BoardOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Board = "mega"
	a, _ := SetupAppTest(t, cfg)

	s, err := a.Open(context.Background(), writeWorkspace(t, "sensor1"))
	require.NoError(t, err)

	assert.Equal(t, "mega", s.Board().Name)
}

func TestApp_Format(t *testing.T) {
	a, _ := SetupAppTest(t, DefaultConfig())
	dir := writeWorkspace(t, "sensor1")

	var first bytes.Buffer
	require.NoError(t, a.Format(context.Background(), &first, dir))
	assert.Contains(t, first.String(), `board = "uno"`)

	again := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(again, "main.hcl"), first.Bytes(), 0600))
	var second bytes.Buffer
	require.NoError(t, a.Format(context.Background(), &second, again))

	assert.Equal(t, first.String(), second.String())
}

func TestApp_LoadErrors(t *testing.T) {
	a, _ := SetupAppTest(t, DefaultConfig())

	_, err := a.Generate(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load workspace")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.hcl"), []byte("stack {\n  block \"no_such_kind\" \"x\" {\n  }\n}\n"), 0600))
	_, err = a.Generate(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build workspace")
}

func TestApp_PublishRequiresURL(t *testing.T) {
	a, _ := SetupAppTest(t, DefaultConfig())

	_, err := a.Publish(context.Background(), writeWorkspace(t, "sensor1"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish URL is required")
}

func TestApp_Kinds(t *testing.T) {
	a, _ := SetupAppTest(t, DefaultConfig())

	kinds := a.Kinds()

	assert.Contains(t, kinds, "arduino_functions")
	assert.Contains(t, kinds, "ultrasonic_read")
	assert.Contains(t, kinds, "servo_write")
	assert.IsNonDecreasing(t, kinds)
}
