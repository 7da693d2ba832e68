package macro

import (
	"context"
	"encoding/binary"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// emptyModule is a valid WebAssembly binary with no imports, exports or
// start function.
var emptyModule = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func TestWasmRunnerRejectsInvalidModule(t *testing.T) {
	_, err := NewWasmRunner(context.Background(), []byte("not wasm"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to compile macro plugin")
}

func TestWasmRunnerWithoutOutput(t *testing.T) {
	ctx := context.Background()
	runner, err := NewWasmRunner(ctx, emptyModule)
	require.NoError(t, err)
	defer runner.Close(ctx)

	out, err := runner.Run(ctx, []byte(`{}`))
	require.NoError(t, err)
	require.Empty(t, out)

	_, err = expand(t, runner, "Relay.QL`q`")
	require.Error(t, err)
	require.Contains(t, err.Error(), "macro produced no output")
}

func TestLoadWasmRunner(t *testing.T) {
	ctx := context.Background()
	_, err := LoadWasmRunner(ctx, filepath.Join(t.TempDir(), "missing.wasm"))
	require.Error(t, err)

	path := writeFile(t, t.TempDir(), "plugin.wasm", string(emptyModule))
	runner, err := LoadWasmRunner(ctx, path)
	require.NoError(t, err)
	require.NoError(t, runner.Close(ctx))
}

// The helpers below assemble small WASI command modules. Every module imports
// fd_read (0), fd_write (1), proc_exit (2) and clock_time_get (3), exports one
// page of memory and runs body from _start (4). Memory layout: an iovec at 0,
// a result word at 8, a clock reading at 16, data at 64 and a read buffer at
// 1024.

const (
	valI32 = 0x7f
	valI64 = 0x7e

	dataAddr = 64
	bufAddr  = 1024
	bufSize  = 4096
)

func uleb(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func sleb(v int64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func join(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func wasmVec(items ...[]byte) []byte {
	return join(uleb(uint64(len(items))), join(items...))
}

func wasmName(s string) []byte {
	return join(uleb(uint64(len(s))), []byte(s))
}

func wasmSection(id byte, content []byte) []byte {
	return join([]byte{id}, uleb(uint64(len(content))), content)
}

func funcType(params, results []byte) []byte {
	return join([]byte{0x60}, wasmName(string(params)), wasmName(string(results)))
}

func i32Const(v int32) []byte { return join([]byte{0x41}, sleb(int64(v))) }
func i64Const(v int64) []byte { return join([]byte{0x42}, sleb(v)) }
func callFunc(idx byte) []byte { return []byte{0x10, idx} }

var (
	opDrop     = []byte{0x1a}
	opI32Load  = []byte{0x28, 0x02, 0x00}
	opI32Store = []byte{0x36, 0x02, 0x00}
)

// storeWord writes the i32 v at addr.
func storeWord(addr, v int32) []byte {
	return join(i32Const(addr), i32Const(v), opI32Store)
}

// writeIovec writes the iovec at 0 to fd.
func writeIovec(fd int32) []byte {
	return join(i32Const(fd), i32Const(0), i32Const(1), i32Const(8), callFunc(1), opDrop)
}

func wasiCommand(data string, body ...[]byte) []byte {
	imp := func(field string, typ byte) []byte {
		return join(wasmName("wasi_snapshot_preview1"), wasmName(field), []byte{0x00, typ})
	}
	code := join([]byte{0x00}, join(body...), []byte{0x0b})
	sections := [][]byte{
		[]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00},
		wasmSection(1, wasmVec(
			funcType([]byte{valI32, valI32, valI32, valI32}, []byte{valI32}),
			funcType([]byte{valI32}, nil),
			funcType(nil, nil),
			funcType([]byte{valI32, valI64, valI32}, []byte{valI32}),
		)),
		wasmSection(2, wasmVec(
			imp("fd_read", 0),
			imp("fd_write", 0),
			imp("proc_exit", 1),
			imp("clock_time_get", 3),
		)),
		wasmSection(3, wasmVec([]byte{2})),
		wasmSection(5, wasmVec([]byte{0x00, 0x01})),
		wasmSection(7, wasmVec(
			join(wasmName("memory"), []byte{0x02, 0x00}),
			join(wasmName("_start"), []byte{0x00, 0x04}),
		)),
		wasmSection(10, wasmVec(join(uleb(uint64(len(code))), code))),
	}
	if data != "" {
		segment := join([]byte{0x00}, i32Const(dataAddr), []byte{0x0b}, wasmName(data))
		sections = append(sections, wasmSection(11, wasmVec(segment)))
	}
	return join(sections...)
}

// replyModule writes text to fd and then exits with code unless it is zero.
func replyModule(fd int32, text string, code int32) []byte {
	body := [][]byte{
		storeWord(0, dataAddr),
		storeWord(4, int32(len(text))),
		writeIovec(fd),
	}
	if code != 0 {
		body = append(body, join(i32Const(code), callFunc(2)))
	}
	return wasiCommand(text, body...)
}

// echoModule copies one read of stdin to stdout.
func echoModule() []byte {
	return wasiCommand("",
		storeWord(0, bufAddr),
		storeWord(4, bufSize),
		join(i32Const(0), i32Const(0), i32Const(1), i32Const(8), callFunc(0), opDrop),
		join(i32Const(4), i32Const(8), opI32Load, opI32Store),
		writeIovec(1),
	)
}

// clockModule writes the raw 8 byte realtime clock reading to stdout.
func clockModule() []byte {
	return wasiCommand("",
		join(i32Const(0), i64Const(1), i32Const(16), callFunc(3), opDrop),
		storeWord(0, 16),
		storeWord(4, 8),
		writeIovec(1),
	)
}

func newWasmRunner(t *testing.T, wasm []byte) *WasmRunner {
	t.Helper()
	ctx := context.Background()
	runner, err := NewWasmRunner(ctx, wasm)
	require.NoError(t, err)
	t.Cleanup(func() { runner.Close(ctx) })
	return runner
}

func TestWasmRunnerPipesStdinToStdout(t *testing.T) {
	runner := newWasmRunner(t, echoModule())
	for _, input := range []string{`{"schema":null}`, `{"node":{"type":"Identifier","name":"q"}}`} {
		out, err := runner.Run(context.Background(), []byte(input))
		require.NoError(t, err)
		require.Equal(t, input, string(out))
	}
}

func TestWasmRunnerExpandsMacro(t *testing.T) {
	runner := newWasmRunner(t, replyModule(1, `{"node":{"type":"Literal","value":42}}`, 0))
	out, err := expand(t, runner, "q = Relay.QL`query { viewer }`")
	require.NoError(t, err)
	require.Equal(t, "42", out.String())
}

func TestWasmRunnerErrorDocument(t *testing.T) {
	runner := newWasmRunner(t, replyModule(1, `{"error":"boom"}`, 1))
	out, err := runner.Run(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	require.JSONEq(t, `{"error":"boom"}`, string(out))

	_, err = expand(t, runner, "Relay.QL`q`")
	require.EqualError(t, err, "boom")
}

func TestWasmRunnerExitWithoutOutput(t *testing.T) {
	runner := newWasmRunner(t, replyModule(2, "schema mismatch\n", 3))
	_, err := runner.Run(context.Background(), []byte(`{}`))
	require.EqualError(t, err, "macro plugin exited with code 3: schema mismatch")
}

func TestWasmRunnerClockIsDeterministic(t *testing.T) {
	runner := newWasmRunner(t, clockModule())
	first, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)
	second, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, first, 8)
	require.Equal(t, first, second)

	// wazero starts its fake wall clock at 2022-01-01T00:00:00Z.
	nanos := int64(binary.LittleEndian.Uint64(first))
	require.Equal(t, int64(1640995200), time.Unix(0, nanos).Unix())
}
