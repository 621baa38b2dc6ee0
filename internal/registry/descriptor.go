package registry

import (
	"github.com/specialistvlad/ardublockgo/internal/board"
	"github.com/specialistvlad/ardublockgo/internal/fragment"
	"github.com/specialistvlad/ardublockgo/internal/instance"
	"github.com/specialistvlad/ardublockgo/internal/types"
	"github.com/specialistvlad/ardublockgo/internal/workspace"
)

// Descriptor is the one required part of a block kind.
type Descriptor interface {
	Kind() string
	Shape() workspace.Shape
}

// Typed is implemented by expression kinds whose output type depends on the
// block's state.
type Typed interface {
	BlockType(b *workspace.Block) types.Type
}

// FieldEnv is what a kind may consult when refreshing its dropdowns.
type FieldEnv struct {
	Board     board.Profile
	Directory *instance.Directory
}

// FieldUpdater refreshes dropdown options after the board or the set of
// declared instances changed. It must not change field values.
type FieldUpdater interface {
	UpdateFields(b *workspace.Block, env *FieldEnv)
}

// StatementEmitter produces the code of a statement block. Fragments for other
// buckets go through w.Add.
type StatementEmitter interface {
	EmitStatement(w CodeWriter, b *workspace.Block) (string, error)
}

// ValueEmitter produces the code of an expression block and the precedence
// of its outermost operator.
type ValueEmitter interface {
	EmitValue(w CodeWriter, b *workspace.Block) (string, Order, error)
}

// Declarer is implemented by configuration kinds.
type Declarer interface {
	Declares() instance.Declaration
}

// Referrer is implemented by usage kinds. ConfigLabel names the configuration
// block users have to add, as shown in warnings.
type Referrer interface {
	References() instance.Declaration
	ConfigLabel() string
}

// CodeWriter is the generator surface handed to emitters.
type CodeWriter interface {
	// Add records a fragment in bucket. Identical text is kept once.
	Add(bucket fragment.Bucket, text string)
	// ValueCode returns the code of the block in the named value input,
	// parenthesized when it binds looser than outer. Empty inputs yield "".
	ValueCode(b *workspace.Block, input string, outer Order) string
	// ValueOr is ValueCode with a fallback for empty inputs.
	ValueOr(b *workspace.Block, input string, outer Order, fallback string) string
	// StatementCode returns the indented code of the chain in the named
	// statement input.
	StatementCode(b *workspace.Block, input string) string
	// ChainCode returns the unindented code of first and its followers.
	ChainCode(first *workspace.Block) string
	// Instance resolves a declared instance.
	Instance(kind, name string) (*workspace.Block, bool)
	// Identifier turns a user supplied name into a C identifier.
	Identifier(name string) string
}

// Base carries the required part of a Descriptor. Descriptor types embed it
// and add the capabilities they need.
type Base struct {
	Name string
	Spec workspace.Shape
}

func (b Base) Kind() string { return b.Name }

func (b Base) Shape() workspace.Shape { return b.Spec }
