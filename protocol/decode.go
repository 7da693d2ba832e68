package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/risor-io/lowering/errz"
)

// ErrUnknownCommand is returned for a command outside the catalog.
var ErrUnknownCommand = errors.New("unrecognized command")

// DecodeRequest parses one request message. The message type must be
// "request".
func DecodeRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, protocolError("malformed request: %v", err)
	}
	if req.Type != RequestType {
		return &req, protocolError("unexpected message type %q", req.Type)
	}
	if req.Command == "" {
		return &req, missing("command")
	}
	return &req, nil
}

// DecodeArguments decodes and validates the arguments of req according to
// its command. It returns nil for commands that take no arguments and
// ErrUnknownCommand for commands outside the catalog.
func DecodeArguments(req *Request) (Arguments, error) {
	newArgs, ok := newArguments[req.Command]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, req.Command)
	}
	if newArgs == nil {
		return nil, nil
	}
	args := newArgs()
	raw := bytes.TrimSpace(req.Arguments)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		if err := args.Validate(); err != nil {
			return nil, protocolError("missing arguments for %s", req.Command)
		}
		return args, nil
	}
	if err := json.Unmarshal(raw, args); err != nil {
		return nil, protocolError("invalid arguments for %s: %v", req.Command, err)
	}
	if err := args.Validate(); err != nil {
		return nil, err
	}
	return args, nil
}

func protocolError(format string, args ...any) *errz.StructuredError {
	return errz.NewStructuredErrorf(errz.ErrProtocol, errz.SourceLocation{}, format, args...)
}

func missing(field string) error {
	return protocolError("missing required argument %q", field)
}
