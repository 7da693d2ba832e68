package macro

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
)

// WasmRunner runs a macro compiled to a WASI (wasip1) command module. Each
// Run instantiates the module afresh, writes the request to its stdin and
// reads the response from its stdout:
//
//	stdin:  { "schema": ..., "file": {...}, "node": {...} }
//	stdout: { "node": {...} }    on success
//	        { "error": "..." }   on failure (exit code 1)
//
// The module sees no file system, no environment and deterministic clocks.
// A WasmRunner is safe for concurrent use and must be closed.
type WasmRunner struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
}

// NewWasmRunner compiles the WebAssembly binary wasm.
func NewWasmRunner(ctx context.Context, wasm []byte) (*WasmRunner, error) {
	r := wazero.NewRuntime(ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		_ = r.Close(ctx)
		return nil, err
	}
	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("failed to compile macro plugin: %w", err)
	}
	return &WasmRunner{runtime: r, compiled: compiled}, nil
}

// LoadWasmRunner reads and compiles the module at path. A leading "~" is
// expanded to the home directory.
func LoadWasmRunner(ctx context.Context, path string) (*WasmRunner, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	wasm, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}
	return NewWasmRunner(ctx, wasm)
}

// Run executes the module once with input on stdin and returns its stdout.
// A non-zero exit is not an error when the module wrote a response, so that
// the error document reaches the caller.
func (w *WasmRunner) Run(ctx context.Context, input []byte) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithStdin(bytes.NewReader(input)).
		WithStdout(&stdout).
		WithStderr(&stderr)
	mod, err := w.runtime.InstantiateModule(ctx, w.compiled, cfg)
	if mod != nil {
		_ = mod.Close(ctx)
	}
	if err != nil {
		var exitErr *sys.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}
		if exitErr.ExitCode() != 0 && stdout.Len() == 0 {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = "no output"
			}
			return nil, fmt.Errorf("macro plugin exited with code %d: %s", exitErr.ExitCode(), msg)
		}
	}
	return stdout.Bytes(), nil
}

// Close releases the compiled module and its runtime.
func (w *WasmRunner) Close(ctx context.Context) error {
	return w.runtime.Close(ctx)
}
