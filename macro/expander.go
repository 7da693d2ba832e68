package macro

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/miniast"
)

// Runner executes a macro implementation: it receives one JSON request and
// returns one JSON response.
type Runner interface {
	Run(ctx context.Context, input []byte) ([]byte, error)
}

// RunnerFunc adapts an in-process function to the Runner interface.
type RunnerFunc func(ctx context.Context, input []byte) ([]byte, error)

// Run calls f(ctx, input).
func (f RunnerFunc) Run(ctx context.Context, input []byte) ([]byte, error) {
	return f(ctx, input)
}

// Request is the document sent to a Runner.
type Request struct {
	Schema json.RawMessage `json:"schema"`
	File   FileInfo        `json:"file"`
	Node   *miniast.Node   `json:"node"`
}

// FileInfo names the source file holding the call site.
type FileInfo struct {
	Filename string `json:"filename"`
	Basename string `json:"basename"`
}

// Response is the document a Runner answers with. Exactly one of Node and
// Error is set.
type Response struct {
	Node  *Node  `json:"node,omitempty"`
	Error string `json:"error,omitempty"`
}

// Expander implements transform.MacroExpander on top of a Runner.
type Expander struct {
	runner Runner
}

// NewExpander returns an Expander that sends call sites to r.
func NewExpander(r Runner) *Expander {
	return &Expander{runner: r}
}

// ExpandMacro sends the call site described by req to the runner and decodes
// the replacement. Every node of the replacement reports the position of the
// call site.
func (e *Expander) ExpandMacro(ctx context.Context, schema []byte, req *miniast.Request) (ast.Expr, error) {
	if len(schema) == 0 {
		schema = []byte("null")
	}
	input, err := json.Marshal(&Request{
		Schema: schema,
		File:   FileInfo{Filename: req.FileName, Basename: req.BaseName},
		Node:   req.View.Root,
	})
	if err != nil {
		return nil, err
	}
	output, err := e.runner.Run(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(output) == 0 {
		return nil, errors.New("macro produced no output")
	}
	var resp Response
	if err := json.Unmarshal(output, &resp); err != nil {
		return nil, fmt.Errorf("invalid macro response: %w", err)
	}
	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}
	if resp.Node == nil {
		return nil, errors.New("macro response has no node")
	}
	d := &decoder{refs: req.View.Refs, loc: req.Site.Pos()}
	return d.expr(resp.Node)
}
