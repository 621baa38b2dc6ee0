package app

import (
	"os"
	"testing"

	"github.com/specialistvlad/ardublockgo/internal/hcl"
	"github.com/specialistvlad/ardublockgo/internal/registry"
	"github.com/specialistvlad/ardublockgo/internal/testutil"
)

// SetupAppTest creates a new app instance backed by the HCL loader and writer,
// logging at debug level into the returned buffer.
func SetupAppTest(t *testing.T, cfg Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	testApp := NewApp(logBuffer, &cfg, hcl.NewLoader(), hcl.NewWriter(), modules...)

	t.Cleanup(func() {
		if os.Getenv("ARDUBLOCK_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
