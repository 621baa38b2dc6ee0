package registry

import (
	"testing"

	"github.com/specialistvlad/ardublockgo/internal/instance"
	"github.com/specialistvlad/ardublockgo/internal/types"
	"github.com/specialistvlad/ardublockgo/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type plainKind struct {
	kind  string
	shape workspace.Shape
}

func (k plainKind) Kind() string { return k.kind }
func (k plainKind) Shape() workspace.Shape { return k.shape }

type configKind struct{ plainKind }

func (configKind) Declares() instance.Declaration {
	return instance.Declaration{Kind: "thing", Field: "NAME"}
}

type usageKind struct{ plainKind }

func (usageKind) References() instance.Declaration {
	return instance.Declaration{Kind: "thing", Field: "NAME"}
}
func (usageKind) ConfigLabel() string { return "Thing" }

type dynamicKind struct{ plainKind }

func (dynamicKind) BlockType(b *workspace.Block) types.Type {
	if b.FieldString("MODE") == "text" {
		return types.Text
	}
	return types.Number
}

type testModule struct{}

func (testModule) Register(r *Registry) {
	named := []workspace.FieldSpec{{Name: "NAME", Kind: workspace.FieldInstance}}
	r.Register(configKind{plainKind{"thing_config", workspace.TopLevel(named)}})
	r.Register(usageKind{plainKind{"thing_read", workspace.Expression(types.Number, named)}})
	r.Register(dynamicKind{plainKind{"dyn", workspace.Expression(types.Number, []workspace.FieldSpec{
		{Name: "MODE", Kind: workspace.FieldDropdown, Default: cty.StringVal("number")},
	})}})
	r.Register(plainKind{"stmt", workspace.Statement(nil)})
}

func TestRegistry_RegisterAndKinds(t *testing.T) {
	r := NewWith(testModule{})

	assert.Equal(t, []string{"dyn", "stmt", "thing_config", "thing_read"}, r.Kinds())

	_, ok := r.Lookup("thing_read")
	assert.True(t, ok)

	_, err := r.Shape("missing")
	assert.Error(t, err)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewWith(testModule{})
	assert.Panics(t, func() {
		r.Register(plainKind{kind: "stmt"})
	})
}

func newBlock(t *testing.T, r *Registry, ws *workspace.Workspace, kind string) *workspace.Block {
	t.Helper()
	shape, err := r.Shape(kind)
	require.NoError(t, err)
	b, err := ws.Create(kind, "", shape)
	require.NoError(t, err)
	return b
}

func TestRegistry_Capabilities(t *testing.T) {
	r := NewWith(testModule{})
	ws := workspace.New()

	cfg := newBlock(t, r, ws, "thing_config")
	use := newBlock(t, r, ws, "thing_read")
	dyn := newBlock(t, r, ws, "dyn")
	stmt := newBlock(t, r, ws, "stmt")
	require.NoError(t, ws.SetField(use, "NAME", cty.StringVal("left")))

	decl, ok := r.DeclarationOf(cfg)
	require.True(t, ok)
	assert.Equal(t, instance.Declaration{Kind: "thing", Field: "NAME"}, decl)
	_, ok = r.DeclarationOf(use)
	assert.False(t, ok)

	ref, ok := r.ReferenceOf(use)
	require.True(t, ok)
	assert.Equal(t, instance.Key{Kind: "thing", Name: "left"}, ref.Key)
	assert.Equal(t, "Thing", ref.ConfigLabel)
	_, ok = r.ReferenceOf(cfg)
	assert.False(t, ok)

	field, ok := r.ReferenceField(use)
	require.True(t, ok)
	assert.Equal(t, "NAME", field)

	assert.Equal(t, types.Number, r.TypeOf(use))
	assert.Equal(t, types.Null, r.TypeOf(stmt))
	assert.Equal(t, types.Null, r.TypeOf(nil))
	assert.Equal(t, types.Number, r.TypeOf(dyn))
	require.NoError(t, ws.SetField(dyn, "MODE", cty.StringVal("text")))
	assert.Equal(t, types.Text, r.TypeOf(dyn))
}

func TestNeedsParens(t *testing.T) {
	testCases := []struct {
		name  string
		outer Order
		inner Order
		want  bool
	}{
		{name: "atomic child", outer: OrderMultiplicative, inner: OrderAtomic, want: false},
		{name: "tighter child", outer: OrderAdditive, inner: OrderMultiplicative, want: false},
		{name: "looser child", outer: OrderMultiplicative, inner: OrderAdditive, want: true},
		{name: "same precedence", outer: OrderAdditive, inner: OrderAdditive, want: true},
		{name: "none context", outer: OrderNone, inner: OrderLogicalOr, want: false},
		{name: "none in none", outer: OrderNone, inner: OrderNone, want: false},
		{name: "atomic in atomic", outer: OrderAtomic, inner: OrderAtomic, want: false},
		{name: "anything in atomic context", outer: OrderAtomic, inner: OrderUnaryPostfix, want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NeedsParens(tc.outer, tc.inner))
		})
	}
}
