package server

import (
	"context"
	"fmt"
	"os"

	"github.com/risor-io/lowering/protocol"
	"github.com/rs/zerolog"
)

func (s *Server) open(ctx context.Context, args protocol.Arguments) (any, error) {
	a := args.(*protocol.OpenRequestArgs)
	var text string
	if a.FileContent != nil {
		text = *a.FileContent
	} else {
		data, err := os.ReadFile(a.File)
		if err != nil {
			return nil, fmt.Errorf("unable to read %s: %w", a.File, err)
		}
		text = string(data)
	}
	version := 1
	if prev, err := s.cache.get(a.File); err == nil {
		version = prev.version + 1
	}
	s.cache.put(newDocument(ctx, a.File, text, version))
	zerolog.Ctx(ctx).Debug().Str("file", a.File).Int("version", version).Msg("opened document")
	return nil, nil
}

func (s *Server) close(ctx context.Context, args protocol.Arguments) (any, error) {
	a := args.(*protocol.FileRequestArgs)
	if s.cache.remove(a.File) {
		zerolog.Ctx(ctx).Debug().Str("file", a.File).Msg("closed document")
	}
	return nil, nil
}

func (s *Server) change(ctx context.Context, args protocol.Arguments) (any, error) {
	a := args.(*protocol.ChangeRequestArgs)
	doc, err := s.cache.get(a.File)
	if err != nil {
		return nil, err
	}
	start, err := doc.resolve(a.Line, a.Offset, a.Position)
	if err != nil {
		return nil, err
	}
	end, err := doc.resolve(a.EndLine, a.EndOffset, a.EndPosition)
	if err != nil {
		return nil, err
	}
	text, err := doc.edit(start, end, a.InsertString)
	if err != nil {
		return nil, err
	}
	s.cache.put(newDocument(ctx, doc.file, text, doc.version+1))
	return nil, nil
}

func (s *Server) reload(ctx context.Context, args protocol.Arguments) (any, error) {
	a := args.(*protocol.ReloadRequestArgs)
	doc, err := s.cache.get(a.File)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(a.TmpFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", a.TmpFile, err)
	}
	s.cache.put(newDocument(ctx, doc.file, string(data), doc.version+1))
	return protocol.ReloadResponseBody{ReloadFinished: true}, nil
}

func (s *Server) saveto(ctx context.Context, args protocol.Arguments) (any, error) {
	a := args.(*protocol.SavetoRequestArgs)
	doc, err := s.cache.get(a.File)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(a.TmpFile, []byte(doc.text), 0o644); err != nil {
		return nil, fmt.Errorf("unable to write %s: %w", a.TmpFile, err)
	}
	return nil, nil
}

func (s *Server) configure(ctx context.Context, args protocol.Arguments) (any, error) {
	a := args.(*protocol.ConfigureRequestArguments)
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.HostInfo != "" {
		s.hostInfo = a.HostInfo
	}
	if a.MacroSchema != "" {
		s.options.MacroSchema = a.MacroSchema
	}
	if a.MacroTag != "" {
		s.options.MacroTag = a.MacroTag
	}
	zerolog.Ctx(ctx).Info().
		Str("host", s.hostInfo).
		Str("macro_schema", s.options.MacroSchema).
		Str("macro_tag", s.options.MacroTag).
		Msg("configured")
	return nil, nil
}

func (s *Server) syntacticDiagnostics(ctx context.Context, args protocol.Arguments) (any, error) {
	a := args.(*protocol.DiagnosticsSyncRequestArgs)
	doc, err := s.cache.get(a.File)
	if err != nil {
		return nil, err
	}
	return diagnosticsBody(doc, doc.syntaxDiagnostics(), a.IncludeLinePosition), nil
}

func (s *Server) semanticDiagnostics(ctx context.Context, args protocol.Arguments) (any, error) {
	a := args.(*protocol.DiagnosticsSyncRequestArgs)
	doc, err := s.cache.get(a.File)
	if err != nil {
		return nil, err
	}
	return diagnosticsBody(doc, doc.loweringDiagnostics(ctx, s), a.IncludeLinePosition), nil
}

func diagnosticsBody(doc *document, diags []diagnostic, linePosition bool) any {
	if linePosition {
		return doc.linePositionDiagnostics(diags)
	}
	return doc.protocolDiagnostics(diags)
}

// geterr queues a syntaxDiag and a semanticDiag event for each requested
// file that is open.
func (s *Server) geterr(ctx context.Context, args protocol.Arguments) (any, error) {
	a := args.(*protocol.GeterrRequestArgs)
	for _, file := range a.Files {
		doc, err := s.cache.get(file)
		if err != nil {
			continue
		}
		s.queue(protocol.NewEvent(protocol.SyntaxDiagEvent, protocol.DiagnosticEventBody{
			File:        file,
			Diagnostics: doc.protocolDiagnostics(doc.syntaxDiagnostics()),
		}))
		s.queue(protocol.NewEvent(protocol.SemanticDiagEvent, protocol.DiagnosticEventBody{
			File:        file,
			Diagnostics: doc.protocolDiagnostics(doc.loweringDiagnostics(ctx, s)),
		}))
	}
	return nil, nil
}

func (s *Server) navbar(ctx context.Context, args protocol.Arguments) (any, error) {
	a := args.(*protocol.FileRequestArgs)
	doc, err := s.cache.get(a.File)
	if err != nil {
		return nil, err
	}
	return doc.navigationBar(), nil
}

func (s *Server) completions(ctx context.Context, args protocol.Arguments) (any, error) {
	a := args.(*protocol.CompletionsRequestArgs)
	doc, err := s.cache.get(a.File)
	if err != nil {
		return nil, err
	}
	pos, err := doc.resolve(a.Line, a.Offset, a.Position)
	if err != nil {
		return nil, err
	}
	prefix := a.Prefix
	if prefix == "" {
		prefix = doc.wordBefore(pos)
	}
	return doc.completions(prefix), nil
}

func (s *Server) projectInfo(ctx context.Context, args protocol.Arguments) (any, error) {
	a := args.(*protocol.ProjectInfoRequestArgs)
	if _, err := s.cache.get(a.File); err != nil {
		return nil, err
	}
	info := protocol.ProjectInfo{}
	if a.NeedFileNameList {
		info.FileNames = s.cache.files()
	}
	return info, nil
}

// cleanup drops cached macro schemas so that the next lowering reads them
// again.
func (s *Server) cleanup(ctx context.Context, args protocol.Arguments) (any, error) {
	if r, ok := s.Options().Schemas.(interface{ Reset() }); ok {
		r.Reset()
		zerolog.Ctx(ctx).Debug().Msg("schema cache reset")
	}
	return nil, nil
}

// reloadProjects reparses every open document.
func (s *Server) reloadProjects(ctx context.Context, args protocol.Arguments) (any, error) {
	for _, file := range s.cache.files() {
		doc, err := s.cache.get(file)
		if err != nil {
			continue
		}
		s.cache.put(newDocument(ctx, doc.file, doc.text, doc.version+1))
	}
	return nil, nil
}
