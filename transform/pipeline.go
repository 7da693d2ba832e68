package transform

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/errz"
	"golang.org/x/sync/errgroup"
)

// Transformer initializes a transformation for one compilation unit and
// returns the function that rewrites its source file.
type Transformer func(*Context) func(*ast.SourceFile) *ast.SourceFile

// DefaultTransformers returns the standard chain: macros are expanded first
// so that their output is lowered along with the rest of the file.
func DefaultTransformers() []Transformer {
	return []Transformer{Macro, ES7}
}

// Transform runs the transformers in order over one compilation unit. It
// returns file itself when nothing needed lowering. A contract violation or
// macro failure aborts the unit and is returned as an *errz.StructuredError.
func Transform(ctx context.Context, host Host, file *ast.SourceFile, transformers ...Transformer) (result *ast.SourceFile, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer errz.Recover(&err)

	c := NewContext(ctx, host, file)
	chain := make([]func(*ast.SourceFile) *ast.SourceFile, 0, len(transformers))
	for _, t := range transformers {
		chain = append(chain, t(c))
	}
	for _, fn := range chain {
		out := fn(c.file)
		if out != c.file {
			c.setSourceFile(out)
		}
	}
	return c.file, nil
}

// TransformAll transforms independent compilation units in parallel, running
// at most limit units at a time (no limit if limit <= 0). Each unit gets its
// own Context. Results are returned in input order; a failed unit leaves a
// nil entry and its error is included in the returned *multierror.Error.
func TransformAll(ctx context.Context, host Host, files []*ast.SourceFile, limit int, transformers ...Transformer) ([]*ast.SourceFile, error) {
	results := make([]*ast.SourceFile, len(files))
	var (
		mu   sync.Mutex
		errs *multierror.Error
	)
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, file := range files {
		g.Go(func() error {
			out, err := Transform(ctx, host, file, transformers...)
			if err != nil {
				mu.Lock()
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", file.FileName, err))
				mu.Unlock()
				return nil
			}
			results[i] = out
			return nil
		})
	}
	_ = g.Wait()
	return results, errs.ErrorOrNil()
}
