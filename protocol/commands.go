// Package protocol defines the JSON messages exchanged between an editor and
// the analysis server.
//
// Every message carries a sequence number and a type. Requests name a
// command from the closed set below and carry arguments shaped per command.
// Responses echo the request's sequence number in request_seq and carry
// either a body or, when success is false, a message. Events are pushed by
// the server without a request.
package protocol

import "sort"

// CommandName is the command field of a request.
type CommandName string

// Command names. The "-full" variants return full spans instead of
// line/offset pairs.
const (
	Brace                              CommandName = "brace"
	BraceFull                          CommandName = "brace-full"
	BraceCompletion                    CommandName = "braceCompletion"
	Change                             CommandName = "change"
	Close                              CommandName = "close"
	Completions                        CommandName = "completions"
	CompletionsFull                    CommandName = "completions-full"
	CompletionDetails                  CommandName = "completionEntryDetails"
	CompileOnSaveAffectedFileList      CommandName = "compileOnSaveAffectedFileList"
	CompileOnSaveEmitFile              CommandName = "compileOnSaveEmitFile"
	Configure                          CommandName = "configure"
	Definition                         CommandName = "definition"
	DefinitionFull                     CommandName = "definition-full"
	Exit                               CommandName = "exit"
	Format                             CommandName = "format"
	Formatonkey                        CommandName = "formatonkey"
	FormatFull                         CommandName = "format-full"
	FormatonkeyFull                    CommandName = "formatonkey-full"
	FormatRangeFull                    CommandName = "formatRange-full"
	Geterr                             CommandName = "geterr"
	GeterrForProject                   CommandName = "geterrForProject"
	Implementation                     CommandName = "implementation"
	ImplementationFull                 CommandName = "implementation-full"
	SemanticDiagnosticsSync            CommandName = "semanticDiagnosticsSync"
	SyntacticDiagnosticsSync           CommandName = "syntacticDiagnosticsSync"
	NavBar                             CommandName = "navbar"
	NavBarFull                         CommandName = "navbar-full"
	Navto                              CommandName = "navto"
	NavtoFull                          CommandName = "navto-full"
	Occurrences                        CommandName = "occurrences"
	DocumentHighlights                 CommandName = "documentHighlights"
	DocumentHighlightsFull             CommandName = "documentHighlights-full"
	Open                               CommandName = "open"
	Quickinfo                          CommandName = "quickinfo"
	QuickinfoFull                      CommandName = "quickinfo-full"
	References                         CommandName = "references"
	ReferencesFull                     CommandName = "references-full"
	Reload                             CommandName = "reload"
	Rename                             CommandName = "rename"
	RenameInfoFull                     CommandName = "rename-full"
	RenameLocationsFull                CommandName = "renameLocations-full"
	Saveto                             CommandName = "saveto"
	SignatureHelp                      CommandName = "signatureHelp"
	SignatureHelpFull                  CommandName = "signatureHelp-full"
	TypeDefinition                     CommandName = "typeDefinition"
	ProjectInfoCommand                 CommandName = "projectInfo"
	ReloadProjects                     CommandName = "reloadProjects"
	Unknown                            CommandName = "unknown"
	OpenExternalProject                CommandName = "openExternalProject"
	OpenExternalProjects               CommandName = "openExternalProjects"
	CloseExternalProject               CommandName = "closeExternalProject"
	SynchronizeProjectList             CommandName = "synchronizeProjectList"
	ApplyChangedToOpenFiles            CommandName = "applyChangedToOpenFiles"
	EncodedSemanticClassificationsFull CommandName = "encodedSemanticClassifications-full"
	Cleanup                            CommandName = "cleanup"
	OutliningSpans                     CommandName = "outliningSpans"
	TodoComments                       CommandName = "todoComments"
	Indentation                        CommandName = "indentation"
	DocCommentTemplate                 CommandName = "docCommentTemplate"
	CompilerOptionsDiagnosticsFull     CommandName = "compilerOptionsDiagnostics-full"
	NameOrDottedNameSpan               CommandName = "nameOrDottedNameSpan"
	BreakpointStatement                CommandName = "breakpointStatement"
	CompilerOptionsForInferredProjects CommandName = "compilerOptionsForInferredProjects"
)

// Event names.
const (
	SyntaxDiagEvent     = "syntaxDiag"
	SemanticDiagEvent   = "semanticDiag"
	ConfigFileDiagEvent = "configFileDiag"
	RequestCompleted    = "requestCompleted"
)

// newArguments maps each command to a constructor for its argument shape.
// Commands without arguments map to nil.
var newArguments = map[CommandName]func() Arguments{
	Brace:                              func() Arguments { return &FileLocationRequestArgs{} },
	BraceFull:                          func() Arguments { return &FileLocationRequestArgs{} },
	BraceCompletion:                    func() Arguments { return &BraceCompletionRequestArgs{} },
	Change:                             func() Arguments { return &ChangeRequestArgs{} },
	Close:                              func() Arguments { return &FileRequestArgs{} },
	Completions:                        func() Arguments { return &CompletionsRequestArgs{} },
	CompletionsFull:                    func() Arguments { return &CompletionsRequestArgs{} },
	CompletionDetails:                  func() Arguments { return &CompletionDetailsRequestArgs{} },
	CompileOnSaveAffectedFileList:      func() Arguments { return &FileRequestArgs{} },
	CompileOnSaveEmitFile:              func() Arguments { return &CompileOnSaveEmitFileRequestArgs{} },
	Configure:                          func() Arguments { return &ConfigureRequestArguments{} },
	Definition:                         func() Arguments { return &FileLocationRequestArgs{} },
	DefinitionFull:                     func() Arguments { return &FileLocationRequestArgs{} },
	Exit:                               nil,
	Format:                             func() Arguments { return &FormatRequestArgs{} },
	Formatonkey:                        func() Arguments { return &FormatOnKeyRequestArgs{} },
	FormatFull:                         func() Arguments { return &FormatRequestArgs{} },
	FormatonkeyFull:                    func() Arguments { return &FormatOnKeyRequestArgs{} },
	FormatRangeFull:                    func() Arguments { return &FormatRequestArgs{} },
	Geterr:                             func() Arguments { return &GeterrRequestArgs{} },
	GeterrForProject:                   func() Arguments { return &GeterrForProjectRequestArgs{} },
	Implementation:                     func() Arguments { return &FileLocationRequestArgs{} },
	ImplementationFull:                 func() Arguments { return &FileLocationRequestArgs{} },
	SemanticDiagnosticsSync:            func() Arguments { return &DiagnosticsSyncRequestArgs{} },
	SyntacticDiagnosticsSync:           func() Arguments { return &DiagnosticsSyncRequestArgs{} },
	NavBar:                             func() Arguments { return &FileRequestArgs{} },
	NavBarFull:                         func() Arguments { return &FileRequestArgs{} },
	Navto:                              func() Arguments { return &NavtoRequestArgs{} },
	NavtoFull:                          func() Arguments { return &NavtoRequestArgs{} },
	Occurrences:                        func() Arguments { return &FileLocationRequestArgs{} },
	DocumentHighlights:                 func() Arguments { return &DocumentHighlightsRequestArgs{} },
	DocumentHighlightsFull:             func() Arguments { return &DocumentHighlightsRequestArgs{} },
	Open:                               func() Arguments { return &OpenRequestArgs{} },
	Quickinfo:                          func() Arguments { return &FileLocationRequestArgs{} },
	QuickinfoFull:                      func() Arguments { return &FileLocationRequestArgs{} },
	References:                         func() Arguments { return &FileLocationRequestArgs{} },
	ReferencesFull:                     func() Arguments { return &FileLocationRequestArgs{} },
	Reload:                             func() Arguments { return &ReloadRequestArgs{} },
	Rename:                             func() Arguments { return &RenameRequestArgs{} },
	RenameInfoFull:                     func() Arguments { return &RenameRequestArgs{} },
	RenameLocationsFull:                func() Arguments { return &RenameRequestArgs{} },
	Saveto:                             func() Arguments { return &SavetoRequestArgs{} },
	SignatureHelp:                      func() Arguments { return &FileLocationRequestArgs{} },
	SignatureHelpFull:                  func() Arguments { return &FileLocationRequestArgs{} },
	TypeDefinition:                     func() Arguments { return &FileLocationRequestArgs{} },
	ProjectInfoCommand:                 func() Arguments { return &ProjectInfoRequestArgs{} },
	ReloadProjects:                     nil,
	OpenExternalProject:                func() Arguments { return &ExternalProject{} },
	OpenExternalProjects:               func() Arguments { return &OpenExternalProjectsArgs{} },
	CloseExternalProject:               func() Arguments { return &CloseExternalProjectRequestArgs{} },
	SynchronizeProjectList:             func() Arguments { return &SynchronizeProjectListRequestArgs{} },
	ApplyChangedToOpenFiles:            func() Arguments { return &ApplyChangedToOpenFilesRequestArgs{} },
	EncodedSemanticClassificationsFull: func() Arguments { return &EncodedSemanticClassificationsRequestArgs{} },
	Cleanup:                            nil,
	OutliningSpans:                     func() Arguments { return &FileRequestArgs{} },
	TodoComments:                       func() Arguments { return &TodoCommentRequestArgs{} },
	Indentation:                        func() Arguments { return &IndentationRequestArgs{} },
	DocCommentTemplate:                 func() Arguments { return &FileLocationRequestArgs{} },
	CompilerOptionsDiagnosticsFull:     func() Arguments { return &CompilerOptionsDiagnosticsRequestArgs{} },
	NameOrDottedNameSpan:               func() Arguments { return &FileLocationRequestArgs{} },
	BreakpointStatement:                func() Arguments { return &FileLocationRequestArgs{} },
	CompilerOptionsForInferredProjects: func() Arguments { return &SetCompilerOptionsForInferredProjectsArgs{} },
}

// IsKnown reports whether name is a command of the catalog. "unknown" is
// reserved for responses to unparseable requests and is not a command.
func IsKnown(name CommandName) bool {
	_, ok := newArguments[name]
	return ok
}

// Commands returns the names of all commands, sorted.
func Commands() []CommandName {
	names := make([]CommandName, 0, len(newArguments))
	for name := range newArguments {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
