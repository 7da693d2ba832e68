package transform

import (
	"path/filepath"
	"strings"

	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/errz"
	"github.com/risor-io/lowering/miniast"
)

// Macro replaces macro call sites, tagged templates whose tag is the
// configured two part name, with the expression returned by the macro
// expander. Other tagged templates are left alone.
func Macro(c *Context) func(*ast.SourceFile) *ast.SourceFile {
	t := &macroTransformer{ctx: c}
	return func(file *ast.SourceFile) *ast.SourceFile {
		return VisitEachChild(file, t.visit, c).(*ast.SourceFile)
	}
}

type macroTransformer struct {
	ctx *Context
}

func (t *macroTransformer) visit(node ast.Node) ast.Node {
	switch ast.Classify(node, ast.MacroExpansion) {
	case ast.NeedsSelf:
		return t.visitWorker(node)
	case ast.ContainsDescendant:
		return VisitEachChild(node, t.visit, t.ctx)
	default:
		return node
	}
}

func (t *macroTransformer) visitWorker(node ast.Node) ast.Node {
	n, ok := node.(*ast.TaggedTemplate)
	if !ok {
		errz.Contractf(node.Pos(), node.End(), "unexpected %s flagged for macro expansion", ast.Kind(node))
	}
	if !t.isMacroTag(n.Tag) {
		if n.TransformFlags()&ast.ContainsMacro != 0 {
			return VisitEachChild(n, t.visit, t.ctx)
		}
		return n
	}
	return t.expand(n)
}

// isMacroTag reports whether tag is the configured "Namespace.Marker" name.
func (t *macroTransformer) isMacroTag(tag ast.Expr) bool {
	access, ok := tag.(*ast.PropertyAccess)
	if !ok {
		return false
	}
	if _, ok := access.X.(*ast.Ident); !ok {
		return false
	}
	name, ok := ast.DottedName(access)
	return ok && name == t.ctx.options.MacroTag
}

func (t *macroTransformer) expand(n *ast.TaggedTemplate) ast.Expr {
	c := t.ctx
	schema := t.loadSchema(n)
	if c.options.Expander == nil {
		errz.Abort(macroError(n, "no macro expander is configured", nil))
	}
	req := miniast.NewRequest(c.file.FileName, n)
	out, err := c.options.Expander.ExpandMacro(c.ctx, schema, req)
	if err != nil {
		errz.Abort(macroError(n, "macro expansion failed", err))
	}
	if out == nil {
		errz.Abort(macroError(n, "macro expansion returned no expression", nil))
	}
	c.logger.Debug().
		Str("pos", posString(n)).
		Str("tag", c.options.MacroTag).
		Int("refs", len(req.View.Refs)).
		Msg("expanded macro")
	return out
}

// loadSchema loads the schema once per compilation unit.
func (t *macroTransformer) loadSchema(n *ast.TaggedTemplate) []byte {
	c := t.ctx
	if c.schema != nil {
		return c.schema
	}
	if c.options.MacroSchema == "" {
		errz.Abort(macroError(n, "no macro schema is configured", nil))
	}
	if c.options.Schemas == nil {
		errz.Abort(macroError(n, "no macro schema loader is configured", nil))
	}
	path := ResolveSchemaPath(c.host.CurrentDirectory(), c.options.MacroSchema)
	schema, err := c.options.Schemas.LoadSchema(c.ctx, path)
	if err != nil {
		errz.Abort(macroError(n, "failed to load macro schema "+path, err))
	}
	c.schema = schema
	return schema
}

// ResolveSchemaPath resolves a schema path against dir. Absolute paths and
// URLs such as s3://bucket/key are returned unchanged.
func ResolveSchemaPath(dir, path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(dir, path)
}

func macroError(n ast.Node, msg string, cause error) *errz.StructuredError {
	err := errz.NewStructuredError(errz.ErrMacro, msg, errz.LocationFromRange(n.Pos(), n.End(), ""))
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}
