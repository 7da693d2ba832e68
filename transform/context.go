// Package transform lowers newer syntax in a parsed source file into
// equivalent older forms.
//
// # Transformers
//
// A Transformer is initialized once per compilation unit with a Context and
// returns the function that rewrites the unit's SourceFile. Transformers run
// in sequence and each one sees the output of the previous one. The built-in
// transformers are:
//
//   - ES7: rewrites "a ** b" into "Math.pow(a, b)", the three shapes of
//     "x **= b" into plain assignments using hoisted temporaries, and object
//     literals with spread elements into calls to the __assign helper.
//   - Macro: replaces tagged templates such as Relay.QL`...` with the
//     expression produced by an external, schema driven macro expander.
//
// # Classification
//
// Every node carries transform flags computed when the tree was built. A
// transformer only descends into nodes whose flags say that the node itself
// or one of its descendants needs its attention. Inert subtrees are returned
// as is, so an untouched tree comes back pointer-identical.
//
// # Errors
//
// A node that reaches a lowering routine which does not handle its kind is a
// contract violation: a bug in classification, never bad input. Lowering
// routines abort with errz.Contractf, and Transform turns the abort into an
// error for the compilation unit. Macro failures abort the same way.
package transform

import (
	"context"

	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/miniast"
	"github.com/rs/zerolog"
)

// DefaultMacroTag is the tag recognized by the Macro transformer when
// Options.MacroTag is empty.
const DefaultMacroTag = "Relay.QL"

// SchemaLoader loads macro schema documents.
type SchemaLoader interface {
	LoadSchema(ctx context.Context, path string) ([]byte, error)
}

// MacroExpander turns one macro call site into its replacement expression.
type MacroExpander interface {
	ExpandMacro(ctx context.Context, schema []byte, req *miniast.Request) (ast.Expr, error)
}

// Options holds the compilation configuration consulted by transformers.
type Options struct {
	// MacroSchema is the path of the schema document passed to the macro
	// expander. Relative paths are resolved against the host's current
	// directory.
	MacroSchema string

	// MacroTag is the dotted two part tag that marks a macro call site.
	// Defaults to DefaultMacroTag.
	MacroTag string

	// Schemas loads the macro schema. Required when a macro call site is
	// present.
	Schemas SchemaLoader

	// Expander expands macro call sites. Required when a macro call site is
	// present.
	Expander MacroExpander
}

// Host supplies the environment of a compilation.
type Host interface {
	CurrentDirectory() string
	Options() Options
}

// StaticHost is a Host with fixed values.
type StaticHost struct {
	Directory string
	Opts      Options
}

// CurrentDirectory returns the directory relative schema paths resolve against.
func (h *StaticHost) CurrentDirectory() string { return h.Directory }

// Options returns the compilation options.
func (h *StaticHost) Options() Options { return h.Opts }

// Context carries the state of one compilation unit through all transformers:
// the current source file, the lexical environments used to hoist temporary
// variables, and the emit helpers requested so far. A Context must not be
// shared between compilation units.
type Context struct {
	ctx     context.Context
	host    Host
	options Options
	file    *ast.SourceFile
	logger  zerolog.Logger

	// names holds every identifier of the unit plus generated temporaries.
	names     map[string]bool
	tempIndex int

	// envs is the stack of hoisted variables, one entry per open function
	// body or source file.
	envs [][]*ast.Ident

	helpers []string

	schema []byte
}

// NewContext returns the Context for transforming file. The logger is taken
// from ctx (see zerolog.Ctx).
func NewContext(ctx context.Context, host Host, file *ast.SourceFile) *Context {
	opts := host.Options()
	if opts.MacroTag == "" {
		opts.MacroTag = DefaultMacroTag
	}
	c := &Context{
		ctx:     ctx,
		host:    host,
		options: opts,
		names:   map[string]bool{},
		logger:  zerolog.Ctx(ctx).With().Str("file", file.FileName).Logger(),
	}
	c.setSourceFile(file)
	return c
}

// CurrentSourceFile returns the file being transformed.
func (c *Context) CurrentSourceFile() *ast.SourceFile { return c.file }

// Options returns the compilation options with defaults applied.
func (c *Context) Options() Options { return c.options }

// Host returns the host the unit is compiled for.
func (c *Context) Host() Host { return c.host }

// Logger returns the logger of this compilation unit.
func (c *Context) Logger() *zerolog.Logger { return &c.logger }

func (c *Context) setSourceFile(file *ast.SourceFile) {
	c.file = file
	ast.Inspect(file, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			c.names[id.Name] = true
		}
		return true
	})
	c.helpers = append(c.helpers[:0:0], file.Helpers...)
}

// RequestEmitHelper records that the output depends on the named helper.
func (c *Context) RequestEmitHelper(name string) {
	for _, h := range c.helpers {
		if h == name {
			return
		}
	}
	c.helpers = append(c.helpers, name)
}

// EmitHelpers returns the helpers requested so far, including those the
// source file already carried.
func (c *Context) EmitHelpers() []string { return c.helpers }
