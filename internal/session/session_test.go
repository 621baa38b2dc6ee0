package session_test

import (
	"strings"
	"testing"

	"github.com/specialistvlad/ardublockgo/internal/board"
	"github.com/specialistvlad/ardublockgo/internal/config"
	"github.com/specialistvlad/ardublockgo/internal/instance"
	"github.com/specialistvlad/ardublockgo/internal/registry"
	"github.com/specialistvlad/ardublockgo/internal/session"
	"github.com/specialistvlad/ardublockgo/internal/testutil"
	"github.com/specialistvlad/ardublockgo/internal/types"
	"github.com/specialistvlad/ardublockgo/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// sensorProgram builds: an ultrasonic config named name on pin 7 and a loop
// printing a reading of readName.
func sensorProgram(h *testutil.Harness, name, readName string) (cfg, read *workspace.Block) {
	cfg = h.Block("ultrasonic_config", "c1", map[string]string{"NAME": name, "PIN": "7"})
	main := h.Block("arduino_functions", "main", nil)
	print := h.Block("serial_print", "p1", nil)
	read = h.Block("ultrasonic_read", "r1", map[string]string{"NAME": readName})
	h.Plug(main, "LOOP_FUNC", print)
	h.Plug(print, "CONTENT", read)
	return cfg, read
}

func TestScenario_ConfiguredSensor(t *testing.T) {
	h := testutil.NewHarness(t)
	_, read := sensorProgram(h, "sensor1", "sensor1")
	second := h.Block("ultrasonic_read", "r2", map[string]string{"NAME": "sensor1"})
	delay := h.Block("time_delay", "d1", nil)
	h.Plug(delay, "DELAY_TIME_MILI", second)

	assert.Empty(t, h.Session.WarningText(read))
	assert.Empty(t, h.Session.WarningText(second))
	assert.Empty(t, h.Session.Warnings())

	res := h.Session.Generate(h.Ctx)
	assert.Empty(t, res.Faults)
	assert.Equal(t, 1, strings.Count(res.Source, "MeUltrasonicSensor sensor1(7);"))
	assert.Equal(t, 1, strings.Count(res.Source, "#include <MeMegaPi.h>"))
	assert.Contains(t, res.Source, "sensor1.distanceCm()")
}

func TestScenario_MissingSensor(t *testing.T) {
	h := testutil.NewHarness(t)
	main := h.Block("arduino_functions", "main", nil)
	print := h.Block("serial_print", "p1", nil)
	read := h.Block("ultrasonic_read", "r1", map[string]string{"NAME": "sensor2"})
	h.Plug(main, "LOOP_FUNC", print)
	h.Plug(print, "CONTENT", read)

	warning := h.Session.WarningText(read)
	assert.Contains(t, warning, "Ultrasonic")
	assert.Contains(t, warning, "sensor2")

	res := h.Session.Generate(h.Ctx)
	assert.Empty(t, res.Faults, "warnings never stop generation")
	assert.Contains(t, res.Source, "Serial.println(String(sensor2.distanceCm()));")
	assert.NotContains(t, res.Source, "MeUltrasonicSensor")
}

func TestScenario_RenameConfigBreaksReference(t *testing.T) {
	h := testutil.NewHarness(t)
	cfg, read := sensorProgram(h, "sensor1", "sensor1")
	require.Empty(t, h.Session.WarningText(read))

	require.NoError(t, h.Session.SetField(cfg, "NAME", cty.StringVal("sensorA")))

	assert.Contains(t, h.Session.WarningText(read), "sensor1")
	assert.True(t, h.Session.Directory().IsPresent("ultrasonic", "sensorA"))
	assert.False(t, h.Session.Directory().IsPresent("ultrasonic", "sensor1"))

	require.NoError(t, h.Session.SetField(read, "NAME", cty.StringVal("sensorA")))
	assert.Empty(t, h.Session.WarningText(read))
}

func TestScenario_DeleteAndRestoreConfig(t *testing.T) {
	h := testutil.NewHarness(t)
	cfg, read := sensorProgram(h, "sensor1", "sensor1")

	require.NoError(t, h.Session.Delete(cfg))
	first := h.Session.WarningText(read)
	assert.NotEmpty(t, first)

	h.Block("ultrasonic_config", "c2", map[string]string{"NAME": "sensor1"})
	assert.Empty(t, h.Session.WarningText(read))
}

func TestDuplicateConfigs_LastWriteWins(t *testing.T) {
	h := testutil.NewHarness(t)
	a := h.Block("ultrasonic_config", "a", map[string]string{"NAME": "sensor1", "PIN": "7"})
	b := h.Block("ultrasonic_config", "b", map[string]string{"PIN": "8"})
	read := h.Block("ultrasonic_read", "r1", map[string]string{"NAME": "sensor1"})
	require.NoError(t, h.Session.SetField(b, "NAME", cty.StringVal("sensor1")))

	got, ok := h.Session.Directory().Lookup("ultrasonic", "sensor1")
	require.True(t, ok)
	assert.Same(t, b, got)

	require.NoError(t, h.Session.Delete(b))
	got, ok = h.Session.Directory().Lookup("ultrasonic", "sensor1")
	require.True(t, ok)
	assert.Same(t, a, got, "the older declaration takes over")
	assert.Empty(t, h.Session.WarningText(read))
}

func TestDuplicateConfigs_FlaggedUntilResolved(t *testing.T) {
	h := testutil.NewHarness(t)
	a := h.Block("ultrasonic_config", "a", map[string]string{"NAME": "sensor1", "PIN": "7"})
	b := h.Block("ultrasonic_config", "b", map[string]string{"NAME": "sensor1", "PIN": "8"})
	read := h.Block("ultrasonic_read", "r", map[string]string{"NAME": "sensor1"})

	want := `The name "sensor1" is declared by 2 configuration blocks. Rename all but one of them!`
	assert.Equal(t, want, h.Session.WarningText(read))
	assert.Equal(t, want, h.Session.WarningText(a))
	assert.Equal(t, want, h.Session.WarningText(b))
	assert.Len(t, h.Session.Warnings(), 3)

	res := h.Session.Generate(h.Ctx)
	assert.Contains(t, res.Source, "MeUltrasonicSensor sensor1(7);", "conflicts are flagged, not fixed")
	assert.Contains(t, res.Source, "MeUltrasonicSensor sensor1(8);")

	require.NoError(t, h.Session.SetField(b, "NAME", cty.StringVal("sensor2")))
	assert.Empty(t, h.Session.Warnings())
	assert.True(t, h.Session.Reconcile())

	require.NoError(t, h.Session.SetField(b, "NAME", cty.StringVal("sensor1")))
	assert.Equal(t, want, h.Session.WarningText(read))

	require.NoError(t, h.Session.Delete(a))
	assert.Empty(t, h.Session.Warnings())
	assert.True(t, h.Session.Reconcile())
}

func TestIdentifierClash_Flagged(t *testing.T) {
	h := testutil.NewHarness(t)
	a := h.Block("ultrasonic_config", "a", map[string]string{"NAME": "sensor 1", "PIN": "7"})
	b := h.Block("ultrasonic_config", "b", map[string]string{"NAME": "sensor_1", "PIN": "8"})
	read := h.Block("ultrasonic_read", "r", map[string]string{"NAME": "sensor 1"})

	assert.Equal(t,
		`The names "sensor 1" and "sensor_1" both become sensor_1 in the sketch. Rename one of them!`,
		h.Session.WarningText(read))
	assert.Equal(t, h.Session.WarningText(read), h.Session.WarningText(a))
	assert.Equal(t,
		`The names "sensor_1" and "sensor 1" both become sensor_1 in the sketch. Rename one of them!`,
		h.Session.WarningText(b))

	require.NoError(t, h.Session.SetField(b, "NAME", cty.StringVal("rear")))
	assert.Empty(t, h.Session.Warnings())

	res := h.Session.Generate(h.Ctx)
	assert.Contains(t, res.Source, "MeUltrasonicSensor sensor_1(7);")
	assert.Contains(t, res.Source, "MeUltrasonicSensor rear(8);")
}

func TestLoad_FlagsDuplicateConfigs(t *testing.T) {
	h := testutil.NewHarness(t)
	model := &config.Model{Stacks: []*config.Stack{
		{Blocks: []*config.Block{{Kind: "ultrasonic_config", ID: "a", Fields: []config.Field{{Name: "NAME", Value: cty.StringVal("sensor1")}}}}},
		{Blocks: []*config.Block{{Kind: "ultrasonic_config", ID: "b", Fields: []config.Field{{Name: "NAME", Value: cty.StringVal("sensor1")}}}}},
	}}
	require.NoError(t, h.Session.Load(h.Ctx, model))

	var ids []string
	for _, w := range h.Session.Warnings() {
		ids = append(ids, w.BlockID)
	}
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestDirectory_RescanMatchesIncrementalState(t *testing.T) {
	h := testutil.NewHarness(t)
	cfg, _ := sensorProgram(h, "sensor1", "sensor1")
	other := h.Block("ultrasonic_config", "c2", map[string]string{"NAME": "sensor1"})
	h.Block("servo_config", "s1", map[string]string{"NAME": "arm"})
	require.NoError(t, h.Session.SetField(cfg, "NAME", cty.StringVal("front")))
	require.NoError(t, h.Session.SetField(cfg, "NAME", cty.StringVal("sensor1")))
	require.NoError(t, h.Session.Delete(other))

	reg := h.Session.Registry()
	scanned := instance.Rebuild(h.Session.Workspace().AllBlocks(), reg.DeclarationOf)
	assert.True(t, scanned.Equal(h.Session.Directory()))
	assert.True(t, h.Session.Reconcile())
}

func TestReconcile_RepairsDivergence(t *testing.T) {
	h := testutil.NewHarness(t)
	cfg, read := sensorProgram(h, "sensor1", "sensor1")

	h.Session.Directory().Unregister("ultrasonic", "sensor1", cfg)

	assert.False(t, h.Session.Reconcile())
	assert.True(t, h.Session.Directory().IsPresent("ultrasonic", "sensor1"))
	assert.Empty(t, h.Session.WarningText(read))
	assert.Contains(t, h.Log.String(), "diverged")
	assert.True(t, h.Session.Reconcile())
}

func TestRevalidateIsIdempotent(t *testing.T) {
	h := testutil.NewHarness(t)
	_, read := sensorProgram(h, "sensor1", "missing")

	first := h.Session.Warnings()
	require.Len(t, first, 1)
	require.True(t, h.Session.Reconcile())
	assert.Equal(t, first, h.Session.Warnings())
	assert.Equal(t, "r1", first[0].BlockID)
	assert.NotEmpty(t, h.Session.WarningText(read))
}

func TestRenameInstance(t *testing.T) {
	h := testutil.NewHarness(t)
	cfg, read := sensorProgram(h, "sensor1", "sensor1")
	unrelated := h.Block("ultrasonic_read", "r9", map[string]string{"NAME": "other"})

	n, err := h.Session.RenameInstance("ultrasonic", "sensor1", "front")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "front", cfg.FieldString("NAME"))
	assert.Equal(t, "front", read.FieldString("NAME"))
	assert.Equal(t, "other", unrelated.FieldString("NAME"))
	assert.Empty(t, h.Session.WarningText(read))

	_, err = h.Session.RenameInstance("ultrasonic", "front", "")
	assert.Error(t, err)
	_, err = h.Session.RenameInstance("ultrasonic", "front", "two\nlines")
	assert.ErrorIs(t, err, workspace.ErrInvalidValue)
}

func TestNewBlock_UniqueInstanceNames(t *testing.T) {
	h := testutil.NewHarness(t)

	first, err := h.Session.NewBlock("ultrasonic_config", "")
	require.NoError(t, err)
	second, err := h.Session.NewBlock("ultrasonic_config", "")
	require.NoError(t, err)
	third, err := h.Session.NewBlock("ultrasonic_config", "")
	require.NoError(t, err)
	servo, err := h.Session.NewBlock("servo_config", "")
	require.NoError(t, err)

	assert.Equal(t, "sensor", first.FieldString("NAME"))
	assert.Equal(t, "sensor2", second.FieldString("NAME"))
	assert.Equal(t, "sensor3", third.FieldString("NAME"))
	assert.Equal(t, "servo", servo.FieldString("NAME"))
	assert.Equal(t, 1, h.Session.Directory().Count("ultrasonic", "sensor"))

	_, err = h.Session.NewBlock("no_such_block", "")
	assert.Error(t, err)
}

func TestSetBoard_RefreshesDropdowns(t *testing.T) {
	h := testutil.NewHarness(t)
	cfg := h.Block("ultrasonic_config", "c1", map[string]string{"NAME": "front"})
	read := h.Block("ultrasonic_read", "r1", nil)

	assert.Len(t, cfg.Options("PIN"), 14)
	assert.Equal(t, []string{"front"}, read.Options("NAME"))

	h.Block("ultrasonic_config", "c2", map[string]string{"NAME": "back"})
	assert.Equal(t, []string{"back", "front"}, read.Options("NAME"))

	require.NoError(t, h.Session.SetBoard("mega"))
	assert.Len(t, cfg.Options("PIN"), 54)
	assert.Equal(t, "mega", h.Session.Board().Name)
	assert.Equal(t, "7", cfg.FieldString("PIN"), "refreshing options keeps the value")

	assert.Error(t, h.Session.SetBoard("teensy"))
	assert.Equal(t, "mega", h.Session.Board().Name)
}

func TestConnect_MismatchIsAdvisory(t *testing.T) {
	h := testutil.NewHarness(t)
	delay := h.Block("time_delay", "d1", nil)
	text := h.Block("text", "t1", map[string]string{"TEXT": "soon"})

	m, err := h.Session.Connect(delay, "DELAY_TIME_MILI", text)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, types.Number, m.Expected)
	assert.Equal(t, types.Text, m.Actual)
	assert.Contains(t, h.Log.String(), "Incompatible connection")

	res := h.Session.Generate(h.Ctx)
	require.Len(t, res.Mismatches, 1)
	assert.Contains(t, res.Source, `delay("soon");`)
}

func TestConnectAndDisconnect_RevalidatesMovedBlocks(t *testing.T) {
	h := testutil.NewHarness(t)
	_, read := sensorProgram(h, "sensor1", "sensor1")

	require.NoError(t, h.Session.Disconnect(read))
	assert.Empty(t, h.Session.WarningText(read))
	assert.True(t, read.IsTopLevel())

	_, err := h.Session.Connect(read.Workspace().TopBlocks()[0], "NOPE", read)
	assert.ErrorIs(t, err, workspace.ErrUnknownInput)
}

func TestLoadAndModel_RoundTrip(t *testing.T) {
	h := testutil.NewHarness(t)
	sensorProgram(h, "sensor1", "sensor1")
	h.Block("serial_setup", "ser", map[string]string{"SPEED": "115200"})
	model := h.Session.Model()
	before := h.Session.Generate(h.Ctx).Source

	reloaded, err := session.New(h.Ctx, registry.NewWith(testutil.Modules()...), "")
	require.NoError(t, err)
	require.NoError(t, reloaded.Load(h.Ctx, model))

	assert.Equal(t, before, reloaded.Generate(h.Ctx).Source)
	assert.Equal(t, h.Session.Workspace().Len(), reloaded.Workspace().Len())
	assert.True(t, reloaded.Directory().IsPresent("ultrasonic", "sensor1"))
	assert.Empty(t, reloaded.Warnings())
	assert.True(t, reloaded.Reconcile())

	r1, ok := reloaded.Workspace().Block("r1")
	require.True(t, ok)
	assert.Equal(t, []string{"sensor1"}, r1.Options("NAME"), "dropdowns are refreshed after a load")
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		model *config.Model
	}{
		{
			name:  "unknown board",
			model: &config.Model{Board: "teensy"},
		},
		{
			name: "unknown kind",
			model: &config.Model{Stacks: []*config.Stack{{Blocks: []*config.Block{
				{Kind: "nope", ID: "x"},
			}}}},
		},
		{
			name: "duplicate id",
			model: &config.Model{Stacks: []*config.Stack{
				{Blocks: []*config.Block{{Kind: "time_millis", ID: "x"}}},
				{Blocks: []*config.Block{{Kind: "time_millis", ID: "x"}}},
			}},
		},
		{
			name: "unknown field",
			model: &config.Model{Stacks: []*config.Stack{{Blocks: []*config.Block{
				{Kind: "math_number", ID: "n", Fields: []config.Field{{Name: "NOPE", Value: cty.Zero}}},
			}}}},
		},
		{
			name: "value block in a chain",
			model: &config.Model{Stacks: []*config.Stack{{Blocks: []*config.Block{
				{Kind: "time_delay", ID: "d"},
				{Kind: "math_number", ID: "n"},
			}}}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := testutil.NewHarness(t)
			h.Block("time_millis", "existing", nil)

			tc.model.Board = "mega"
			if tc.name == "unknown board" {
				tc.model.Board = "teensy"
			}
			err := h.Session.Load(h.Ctx, tc.model)
			require.Error(t, err)
			assert.Equal(t, board.Default, h.Session.Board().Name, "a failed load keeps the previous board")
			if tc.name != "unknown board" {
				assert.Equal(t, 0, h.Session.Workspace().Len(), "a failed load leaves an empty workspace")
			}
		})
	}
}

func TestReset(t *testing.T) {
	h := testutil.NewHarness(t)
	old := h.Session.Workspace()
	sensorProgram(h, "sensor1", "missing")
	require.NotEmpty(t, h.Session.Warnings())

	h.Session.Reset()

	assert.NotSame(t, old, h.Session.Workspace())
	assert.Equal(t, 0, h.Session.Workspace().Len())
	assert.Equal(t, 0, h.Session.Directory().Len())
	assert.Empty(t, h.Session.Warnings())

	_, err := old.Create("time_millis", "", workspace.Expression(types.Number, nil))
	require.NoError(t, err)
	assert.Equal(t, 0, h.Session.Workspace().Len(), "the old workspace is no longer routed")
}
