package protocol

import "encoding/json"

// Arguments is implemented by every argument shape.
type Arguments interface {
	// Validate checks that required fields are present.
	Validate() error
}

// FileRequestArgs are the arguments of requests about one file.
type FileRequestArgs struct {
	// File is the absolute path of the file.
	File string `json:"file"`
	// ProjectFileName optionally names the project the file belongs to.
	ProjectFileName string `json:"projectFileName,omitempty"`
}

// Validate requires File.
func (a *FileRequestArgs) Validate() error {
	if a.File == "" {
		return missing("file")
	}
	return nil
}

// FileLocationRequestArgs add a location in the file, given either as a
// one-based line and offset or as a zero-based character position.
type FileLocationRequestArgs struct {
	FileRequestArgs
	Line     *int `json:"line,omitempty"`
	Offset   *int `json:"offset,omitempty"`
	Position *int `json:"position,omitempty"`
}

// Validate requires a file and a location.
func (a *FileLocationRequestArgs) Validate() error {
	if err := a.FileRequestArgs.Validate(); err != nil {
		return err
	}
	return validateLocation(a.Line, a.Offset, a.Position, "line", "offset", "position")
}

func validateLocation(line, offset, position *int, lineName, offsetName, positionName string) error {
	switch {
	case line != nil && offset != nil:
		if *line < 1 || *offset < 1 {
			return protocolError("%s and %s must be positive", lineName, offsetName)
		}
		return nil
	case line != nil:
		return missing(offsetName)
	case offset != nil:
		return missing(lineName)
	case position != nil:
		if *position < 0 {
			return protocolError("%s must not be negative", positionName)
		}
		return nil
	default:
		return protocolError("expected %s and %s or %s", lineName, offsetName, positionName)
	}
}

// FormatRequestArgs are the arguments of the format commands: a range from
// the location to endLine/endOffset (or endPosition).
type FormatRequestArgs struct {
	FileLocationRequestArgs
	EndLine     *int           `json:"endLine,omitempty"`
	EndOffset   *int           `json:"endOffset,omitempty"`
	EndPosition *int           `json:"endPosition,omitempty"`
	Options     *FormatOptions `json:"options,omitempty"`
}

// Validate requires a start and an end location.
func (a *FormatRequestArgs) Validate() error {
	if err := a.FileLocationRequestArgs.Validate(); err != nil {
		return err
	}
	return validateLocation(a.EndLine, a.EndOffset, a.EndPosition, "endLine", "endOffset", "endPosition")
}

// ChangeRequestArgs replace the range of a FormatRequestArgs with
// InsertString.
type ChangeRequestArgs struct {
	FormatRequestArgs
	InsertString string `json:"insertString,omitempty"`
}

// FormatOnKeyRequestArgs are the arguments of formatonkey.
type FormatOnKeyRequestArgs struct {
	FileLocationRequestArgs
	Key     string         `json:"key"`
	Options *FormatOptions `json:"options,omitempty"`
}

// Validate requires a location and the key that was typed.
func (a *FormatOnKeyRequestArgs) Validate() error {
	if err := a.FileLocationRequestArgs.Validate(); err != nil {
		return err
	}
	if a.Key == "" {
		return missing("key")
	}
	return nil
}

// BraceCompletionRequestArgs are the arguments of braceCompletion.
type BraceCompletionRequestArgs struct {
	FileLocationRequestArgs
	OpeningBrace string `json:"openingBrace"`
}

// Validate requires a location and the opening brace.
func (a *BraceCompletionRequestArgs) Validate() error {
	if err := a.FileLocationRequestArgs.Validate(); err != nil {
		return err
	}
	if a.OpeningBrace == "" {
		return missing("openingBrace")
	}
	return nil
}

// IndentationRequestArgs are the arguments of indentation.
type IndentationRequestArgs struct {
	FileLocationRequestArgs
	Options *EditorOptions `json:"options,omitempty"`
}

// DocumentHighlightsRequestArgs are the arguments of documentHighlights.
type DocumentHighlightsRequestArgs struct {
	FileLocationRequestArgs
	FilesToSearch []string `json:"filesToSearch"`
}

// Validate requires a location and the files to search.
func (a *DocumentHighlightsRequestArgs) Validate() error {
	if err := a.FileLocationRequestArgs.Validate(); err != nil {
		return err
	}
	if len(a.FilesToSearch) == 0 {
		return missing("filesToSearch")
	}
	return nil
}

// RenameRequestArgs are the arguments of the rename commands.
type RenameRequestArgs struct {
	FileLocationRequestArgs
	FindInComments bool `json:"findInComments,omitempty"`
	FindInStrings  bool `json:"findInStrings,omitempty"`
}

// CompletionsRequestArgs are the arguments of completions.
type CompletionsRequestArgs struct {
	FileLocationRequestArgs
	// Prefix optionally restricts the entries to names starting with it.
	Prefix string `json:"prefix,omitempty"`
}

// CompletionDetailsRequestArgs are the arguments of completionEntryDetails.
type CompletionDetailsRequestArgs struct {
	FileLocationRequestArgs
	EntryNames []string `json:"entryNames"`
}

// Validate requires a location and at least one entry name.
func (a *CompletionDetailsRequestArgs) Validate() error {
	if err := a.FileLocationRequestArgs.Validate(); err != nil {
		return err
	}
	if len(a.EntryNames) == 0 {
		return missing("entryNames")
	}
	return nil
}

// CompileOnSaveEmitFileRequestArgs are the arguments of compileOnSaveEmitFile.
type CompileOnSaveEmitFileRequestArgs struct {
	FileRequestArgs
	Forced bool `json:"forced,omitempty"`
}

// ConfigureRequestArguments are the arguments of configure. All fields are
// optional.
type ConfigureRequestArguments struct {
	HostInfo              string         `json:"hostInfo,omitempty"`
	File                  string         `json:"file,omitempty"`
	FormatOptions         *FormatOptions `json:"formatOptions,omitempty"`
	UseOneInferredProject bool           `json:"useOneInferredProject,omitempty"`
	// MacroSchema and MacroTag configure macro expansion for the session.
	MacroSchema string `json:"macroSchema,omitempty"`
	MacroTag    string `json:"macroTag,omitempty"`
}

// Validate accepts any configuration.
func (a *ConfigureRequestArguments) Validate() error { return nil }

// OpenRequestArgs are the arguments of open.
type OpenRequestArgs struct {
	FileRequestArgs
	// FileContent is used instead of the file on disk when set.
	FileContent    *string `json:"fileContent,omitempty"`
	ScriptKindName string  `json:"scriptKindName,omitempty"`
}

// Validate requires the file and a known script kind.
func (a *OpenRequestArgs) Validate() error {
	if err := a.FileRequestArgs.Validate(); err != nil {
		return err
	}
	return validateScriptKind(a.ScriptKindName)
}

func validateScriptKind(kind string) error {
	switch kind {
	case "", "TS", "JS", "TSX", "JSX":
		return nil
	default:
		return protocolError("unknown script kind %q", kind)
	}
}

// ReloadRequestArgs are the arguments of reload: the file is reloaded from
// TmpFile.
type ReloadRequestArgs struct {
	FileRequestArgs
	TmpFile string `json:"tmpfile"`
}

// Validate requires the file and the temporary file.
func (a *ReloadRequestArgs) Validate() error {
	if err := a.FileRequestArgs.Validate(); err != nil {
		return err
	}
	if a.TmpFile == "" {
		return missing("tmpfile")
	}
	return nil
}

// SavetoRequestArgs are the arguments of saveto: the file's content is
// written to TmpFile.
type SavetoRequestArgs struct {
	FileRequestArgs
	TmpFile string `json:"tmpfile"`
}

// Validate requires the file and the temporary file.
func (a *SavetoRequestArgs) Validate() error {
	if err := a.FileRequestArgs.Validate(); err != nil {
		return err
	}
	if a.TmpFile == "" {
		return missing("tmpfile")
	}
	return nil
}

// NavtoRequestArgs are the arguments of navto. File is optional unless
// CurrentFileOnly is set.
type NavtoRequestArgs struct {
	File            string `json:"file,omitempty"`
	SearchValue     string `json:"searchValue"`
	MaxResultCount  int    `json:"maxResultCount,omitempty"`
	CurrentFileOnly bool   `json:"currentFileOnly,omitempty"`
	ProjectFileName string `json:"projectFileName,omitempty"`
}

// Validate requires a search value.
func (a *NavtoRequestArgs) Validate() error {
	if a.SearchValue == "" {
		return missing("searchValue")
	}
	if a.CurrentFileOnly && a.File == "" {
		return missing("file")
	}
	return nil
}

// ProjectInfoRequestArgs are the arguments of projectInfo.
type ProjectInfoRequestArgs struct {
	FileRequestArgs
	NeedFileNameList bool `json:"needFileNameList"`
}

// DiagnosticsSyncRequestArgs are the arguments of syntacticDiagnosticsSync
// and semanticDiagnosticsSync.
type DiagnosticsSyncRequestArgs struct {
	FileRequestArgs
	IncludeLinePosition bool `json:"includeLinePosition,omitempty"`
}

// GeterrRequestArgs are the arguments of geterr.
type GeterrRequestArgs struct {
	Files []string `json:"files"`
	// Delay is the number of milliseconds to wait before checking.
	Delay int `json:"delay"`
}

// Validate requires at least one file.
func (a *GeterrRequestArgs) Validate() error {
	if len(a.Files) == 0 {
		return missing("files")
	}
	for _, f := range a.Files {
		if f == "" {
			return protocolError("files must not contain empty names")
		}
	}
	if a.Delay < 0 {
		return protocolError("delay must not be negative")
	}
	return nil
}

// GeterrForProjectRequestArgs are the arguments of geterrForProject.
type GeterrForProjectRequestArgs struct {
	File  string `json:"file"`
	Delay int    `json:"delay"`
}

// Validate requires the file.
func (a *GeterrForProjectRequestArgs) Validate() error {
	if a.File == "" {
		return missing("file")
	}
	return nil
}

// EncodedSemanticClassificationsRequestArgs are the arguments of
// encodedSemanticClassifications-full.
type EncodedSemanticClassificationsRequestArgs struct {
	FileRequestArgs
	Start  int `json:"start"`
	Length int `json:"length"`
}

// Validate requires the file and a non-negative span.
func (a *EncodedSemanticClassificationsRequestArgs) Validate() error {
	if err := a.FileRequestArgs.Validate(); err != nil {
		return err
	}
	if a.Start < 0 || a.Length < 0 {
		return protocolError("start and length must not be negative")
	}
	return nil
}

// TodoCommentDescriptor describes one kind of TODO comment to search for.
type TodoCommentDescriptor struct {
	Text     string `json:"text"`
	Priority int    `json:"priority"`
}

// TodoCommentRequestArgs are the arguments of todoComments.
type TodoCommentRequestArgs struct {
	FileRequestArgs
	Descriptors []TodoCommentDescriptor `json:"descriptors"`
}

// Validate requires the file and at least one descriptor.
func (a *TodoCommentRequestArgs) Validate() error {
	if err := a.FileRequestArgs.Validate(); err != nil {
		return err
	}
	if len(a.Descriptors) == 0 {
		return missing("descriptors")
	}
	return nil
}

// CompilerOptionsDiagnosticsRequestArgs are the arguments of
// compilerOptionsDiagnostics-full.
type CompilerOptionsDiagnosticsRequestArgs struct {
	ProjectFileName string `json:"projectFileName"`
}

// Validate requires the project name.
func (a *CompilerOptionsDiagnosticsRequestArgs) Validate() error {
	if a.ProjectFileName == "" {
		return missing("projectFileName")
	}
	return nil
}

// ExternalFile is a file of an external project.
type ExternalFile struct {
	FileName        string `json:"fileName"`
	ScriptKind      string `json:"scriptKind,omitempty"`
	HasMixedContent bool   `json:"hasMixedContent,omitempty"`
	Content         string `json:"content,omitempty"`
}

func (f *ExternalFile) validate() error {
	if f.FileName == "" {
		return missing("fileName")
	}
	return validateScriptKind(f.ScriptKind)
}

// ExternalProject is a project whose files and options are maintained by the
// client. It is also the argument of openExternalProject.
type ExternalProject struct {
	ProjectFileName string          `json:"projectFileName"`
	RootFiles       []ExternalFile  `json:"rootFiles"`
	Options         json.RawMessage `json:"options"`
	TypingOptions   json.RawMessage `json:"typingOptions,omitempty"`
}

// Validate requires a project name and valid root files.
func (p *ExternalProject) Validate() error {
	if p.ProjectFileName == "" {
		return missing("projectFileName")
	}
	for i := range p.RootFiles {
		if err := p.RootFiles[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

// OpenExternalProjectsArgs are the arguments of openExternalProjects.
type OpenExternalProjectsArgs struct {
	Projects []ExternalProject `json:"projects"`
}

// Validate checks every project.
func (a *OpenExternalProjectsArgs) Validate() error {
	for i := range a.Projects {
		if err := a.Projects[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CloseExternalProjectRequestArgs are the arguments of closeExternalProject.
type CloseExternalProjectRequestArgs struct {
	ProjectFileName string `json:"projectFileName"`
}

// Validate requires the project name.
func (a *CloseExternalProjectRequestArgs) Validate() error {
	if a.ProjectFileName == "" {
		return missing("projectFileName")
	}
	return nil
}

// ProjectVersionInfo identifies a version of a project known to the client.
type ProjectVersionInfo struct {
	ProjectName string          `json:"projectName"`
	IsInferred  bool            `json:"isInferred"`
	Version     int             `json:"version"`
	Options     json.RawMessage `json:"options,omitempty"`
}

// SynchronizeProjectListRequestArgs are the arguments of
// synchronizeProjectList.
type SynchronizeProjectListRequestArgs struct {
	KnownProjects []ProjectVersionInfo `json:"knownProjects"`
}

// Validate accepts an empty list.
func (a *SynchronizeProjectListRequestArgs) Validate() error { return nil }

// TextChange replaces a character range with new text.
type TextChange struct {
	Span    TextRange `json:"span"`
	NewText string    `json:"newText"`
}

// TextRange is a zero-based character range.
type TextRange struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// ChangedOpenFile lists the changes made to one open file.
type ChangedOpenFile struct {
	FileName string       `json:"fileName"`
	Changes  []TextChange `json:"changes"`
}

// ApplyChangedToOpenFilesRequestArgs are the arguments of
// applyChangedToOpenFiles.
type ApplyChangedToOpenFilesRequestArgs struct {
	OpenFiles    []ExternalFile    `json:"openFiles,omitempty"`
	ChangedFiles []ChangedOpenFile `json:"changedFiles,omitempty"`
	ClosedFiles  []string          `json:"closedFiles,omitempty"`
}

// Validate checks file names.
func (a *ApplyChangedToOpenFilesRequestArgs) Validate() error {
	for i := range a.OpenFiles {
		if err := a.OpenFiles[i].validate(); err != nil {
			return err
		}
	}
	for _, f := range a.ChangedFiles {
		if f.FileName == "" {
			return missing("fileName")
		}
	}
	return nil
}

// SetCompilerOptionsForInferredProjectsArgs are the arguments of
// compilerOptionsForInferredProjects.
type SetCompilerOptionsForInferredProjectsArgs struct {
	Options json.RawMessage `json:"options"`
}

// Validate requires options.
func (a *SetCompilerOptionsForInferredProjectsArgs) Validate() error {
	if len(a.Options) == 0 || string(a.Options) == "null" {
		return missing("options")
	}
	return nil
}

// EditorOptions are the indentation settings of an editor.
type EditorOptions struct {
	TabSize             int    `json:"tabSize,omitempty"`
	IndentSize          int    `json:"indentSize,omitempty"`
	BaseIndentSize      int    `json:"baseIndentSize,omitempty"`
	NewLineCharacter    string `json:"newLineCharacter,omitempty"`
	ConvertTabsToSpaces bool   `json:"convertTabsToSpaces,omitempty"`
}

// FormatOptions extend EditorOptions with spacing and brace placement.
type FormatOptions struct {
	EditorOptions
	InsertSpaceAfterCommaDelimiter                              *bool `json:"insertSpaceAfterCommaDelimiter,omitempty"`
	InsertSpaceAfterSemicolonInForStatements                    *bool `json:"insertSpaceAfterSemicolonInForStatements,omitempty"`
	InsertSpaceBeforeAndAfterBinaryOperators                    *bool `json:"insertSpaceBeforeAndAfterBinaryOperators,omitempty"`
	InsertSpaceAfterKeywordsInControlFlowStatements             *bool `json:"insertSpaceAfterKeywordsInControlFlowStatements,omitempty"`
	InsertSpaceAfterFunctionKeywordForAnonymousFunctions        *bool `json:"insertSpaceAfterFunctionKeywordForAnonymousFunctions,omitempty"`
	InsertSpaceAfterOpeningAndBeforeClosingNonemptyParenthesis  *bool `json:"insertSpaceAfterOpeningAndBeforeClosingNonemptyParenthesis,omitempty"`
	InsertSpaceAfterOpeningAndBeforeClosingNonemptyBrackets     *bool `json:"insertSpaceAfterOpeningAndBeforeClosingNonemptyBrackets,omitempty"`
	InsertSpaceAfterOpeningAndBeforeClosingTemplateStringBraces *bool `json:"insertSpaceAfterOpeningAndBeforeClosingTemplateStringBraces,omitempty"`
	InsertSpaceAfterOpeningAndBeforeClosingJsxExpressionBraces  *bool `json:"insertSpaceAfterOpeningAndBeforeClosingJsxExpressionBraces,omitempty"`
	PlaceOpenBraceOnNewLineForFunctions                         *bool `json:"placeOpenBraceOnNewLineForFunctions,omitempty"`
	PlaceOpenBraceOnNewLineForControlBlocks                     *bool `json:"placeOpenBraceOnNewLineForControlBlocks,omitempty"`
}
