// Package server runs an editor session speaking the request/response
// protocol defined by package protocol.
//
// A session reads one JSON request per line and writes every response and
// event framed with a Content-Length header. It keeps the open documents in
// memory, reparsing them on every change, and reports their syntax errors
// and lowering failures as diagnostics.
package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/risor-io/lowering/protocol"
	"github.com/risor-io/lowering/transform"
	"github.com/rs/zerolog"
)

// errExit stops Serve after an exit request.
var errExit = errors.New("exit requested")

// Config holds the initial configuration of a session.
type Config struct {
	// Directory is the directory relative macro schema paths resolve against.
	Directory string

	// Transform holds the lowering options. The configure command may
	// replace its MacroSchema and MacroTag.
	Transform transform.Options
}

type handler func(ctx context.Context, args protocol.Arguments) (any, error)

// Server is one editor session. It implements transform.Host so that
// documents are lowered with the session's current configuration.
type Server struct {
	session string
	dir     string
	cache   *cache

	mu       sync.RWMutex
	options  transform.Options
	hostInfo string

	handlers map[protocol.CommandName]handler

	out    *bufio.Writer
	seq    int
	events []*protocol.Event
}

// New returns a session with no open documents.
func New(cfg Config) *Server {
	s := &Server{
		session: uuid.Must(uuid.NewV4()).String(),
		dir:     cfg.Directory,
		cache:   newCache(),
		options: cfg.Transform,
	}
	s.handlers = map[protocol.CommandName]handler{
		protocol.Open:                     s.open,
		protocol.Close:                    s.close,
		protocol.Change:                   s.change,
		protocol.Reload:                   s.reload,
		protocol.Saveto:                   s.saveto,
		protocol.Configure:                s.configure,
		protocol.SyntacticDiagnosticsSync: s.syntacticDiagnostics,
		protocol.SemanticDiagnosticsSync:  s.semanticDiagnostics,
		protocol.Geterr:                   s.geterr,
		protocol.NavBar:                   s.navbar,
		protocol.Completions:              s.completions,
		protocol.ProjectInfoCommand:       s.projectInfo,
		protocol.Cleanup:                  s.cleanup,
		protocol.ReloadProjects:           s.reloadProjects,
	}
	return s
}

// Session returns the unique id of the session.
func (s *Server) Session() string { return s.session }

// CurrentDirectory implements transform.Host.
func (s *Server) CurrentDirectory() string { return s.dir }

// Options implements transform.Host.
func (s *Server) Options() transform.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.options
}

// Serve reads requests from in and writes responses and events to out until
// in is exhausted, an exit request arrives, or ctx is cancelled. The logger
// is taken from ctx (see zerolog.Ctx).
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	logger := zerolog.Ctx(ctx).With().Str("session", s.session).Logger()
	ctx = logger.WithContext(ctx)
	s.out = bufio.NewWriter(out)

	logger.Info().Msg("session started")
	reader := bufio.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, readErr := reader.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			return fmt.Errorf("failed to read request: %w", readErr)
		}
		if line = bytes.TrimSpace(line); len(line) > 0 {
			err := s.handle(ctx, line)
			if errors.Is(err, errExit) {
				logger.Info().Msg("session exited")
				return nil
			}
			if err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			logger.Info().Msg("session input closed")
			return nil
		}
	}
}

// handle answers one request. The returned error is errExit or a failure to
// write to the client.
func (s *Server) handle(ctx context.Context, line []byte) error {
	logger := zerolog.Ctx(ctx)
	req, err := protocol.DecodeRequest(line)
	if err != nil {
		seq, command := 0, protocol.Unknown
		if req != nil {
			seq = req.Seq
			if req.Command != "" {
				command = req.Command
			}
		}
		logger.Warn().Err(err).Int("seq", seq).Msg("rejected request")
		return s.respond(protocol.NewErrorResponse(seq, command, err.Error()))
	}
	if req.Command == protocol.Exit {
		return errExit
	}
	logger.Debug().Int("seq", req.Seq).Str("command", string(req.Command)).Msg("request")

	resp := s.dispatch(ctx, req)
	if !resp.Success {
		logger.Debug().Int("seq", req.Seq).Str("command", string(req.Command)).Str("error", resp.Text).Msg("request failed")
	}
	if err := s.respond(resp); err != nil {
		return err
	}
	events := s.events
	s.events = nil
	for _, ev := range events {
		if err := s.emit(ev); err != nil {
			return err
		}
	}
	return nil
}

// dispatch decodes the arguments of req and runs its handler. A panicking
// handler yields an error response and discards its queued events.
func (s *Server) dispatch(ctx context.Context, req *protocol.Request) (resp *protocol.Response) {
	defer func() {
		if r := recover(); r != nil {
			zerolog.Ctx(ctx).Error().
				Str("command", string(req.Command)).
				Interface("panic", r).
				Msg("request handler panicked")
			s.events = nil
			resp = protocol.NewErrorResponse(req.Seq, req.Command, fmt.Sprintf("internal error: %v", r))
		}
	}()

	args, err := protocol.DecodeArguments(req)
	if errors.Is(err, protocol.ErrUnknownCommand) {
		return protocol.NewErrorResponse(req.Seq, req.Command, "Unrecognized JSON command: "+string(req.Command))
	}
	if err != nil {
		return protocol.NewErrorResponse(req.Seq, req.Command, err.Error())
	}
	h, ok := s.handlers[req.Command]
	if !ok {
		return protocol.NewErrorResponse(req.Seq, req.Command, fmt.Sprintf("%s is not supported", req.Command))
	}
	body, err := h(ctx, args)
	if err != nil {
		return protocol.NewErrorResponse(req.Seq, req.Command, err.Error())
	}
	return protocol.NewResponse(req, body)
}

// queue schedules an event to be written after the current response.
func (s *Server) queue(ev *protocol.Event) {
	s.events = append(s.events, ev)
}

func (s *Server) respond(resp *protocol.Response) error {
	s.seq++
	resp.Seq = s.seq
	return s.write(resp)
}

func (s *Server) emit(ev *protocol.Event) error {
	s.seq++
	ev.Seq = s.seq
	return s.write(ev)
}

// write sends one message framed as "Content-Length: N\r\n\r\n<json>\n",
// where N counts the JSON text and the trailing newline.
func (s *Server) write(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if _, err := fmt.Fprintf(s.out, "Content-Length: %d\r\n\r\n", len(data)+1); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := s.out.Write(data); err != nil {
		return fmt.Errorf("failed to write body: %w", err)
	}
	if err := s.out.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write body: %w", err)
	}
	return s.out.Flush()
}
