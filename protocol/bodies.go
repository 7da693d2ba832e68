package protocol

// Location is a one-based line and offset in a file.
type Location struct {
	Line   int `json:"line"`
	Offset int `json:"offset"`
}

// TextSpan is a range of a file, end exclusive.
type TextSpan struct {
	Start Location `json:"start"`
	End   Location `json:"end"`
}

// FileSpan is a TextSpan in a named file.
type FileSpan struct {
	File string `json:"file"`
	TextSpan
}

// Diagnostic is an error or warning about a range of a file.
type Diagnostic struct {
	Start Location `json:"start"`
	End   Location `json:"end"`
	Text  string   `json:"text"`
}

// DiagnosticWithLinePosition is a Diagnostic that also carries the character
// span, returned when includeLinePosition is set.
type DiagnosticWithLinePosition struct {
	Message       string   `json:"message"`
	Start         int      `json:"start"`
	Length        int      `json:"length"`
	StartLocation Location `json:"startLocation"`
	EndLocation   Location `json:"endLocation"`
	Category      string   `json:"category"`
	Code          int      `json:"code"`
}

// DiagnosticEventBody is the body of syntaxDiag and semanticDiag events.
type DiagnosticEventBody struct {
	File        string       `json:"file"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// ConfigFileDiagnosticEventBody is the body of configFileDiag events.
type ConfigFileDiagnosticEventBody struct {
	TriggerFile string       `json:"triggerFile"`
	ConfigFile  string       `json:"configFile"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// RequestCompletedEventBody is the body of requestCompleted events.
type RequestCompletedEventBody struct {
	RequestSeq int `json:"request_seq"`
}

// ProjectInfo describes the project a file belongs to.
type ProjectInfo struct {
	ConfigFileName          string   `json:"configFileName"`
	FileNames               []string `json:"fileNames,omitempty"`
	LanguageServiceDisabled bool     `json:"languageServiceDisabled,omitempty"`
}

// ReloadResponseBody is the body of a reload response.
type ReloadResponseBody struct {
	ReloadFinished bool `json:"reloadFinished"`
}

// CompletionEntry is one completion candidate.
type CompletionEntry struct {
	Name            string    `json:"name"`
	Kind            string    `json:"kind"`
	KindModifiers   string    `json:"kindModifiers"`
	SortText        string    `json:"sortText"`
	ReplacementSpan *TextSpan `json:"replacementSpan,omitempty"`
}

// SymbolDisplayPart is one part of a symbol description.
type SymbolDisplayPart struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
}

// CompletionEntryDetails is the detailed description of a completion entry.
type CompletionEntryDetails struct {
	Name          string              `json:"name"`
	Kind          string              `json:"kind"`
	KindModifiers string              `json:"kindModifiers"`
	DisplayParts  []SymbolDisplayPart `json:"displayParts"`
	Documentation []SymbolDisplayPart `json:"documentation"`
}

// NavigationBarItem is one entry of the navigation bar tree.
type NavigationBarItem struct {
	Text          string              `json:"text"`
	Kind          string              `json:"kind"`
	KindModifiers string              `json:"kindModifiers,omitempty"`
	Spans         []TextSpan          `json:"spans"`
	ChildItems    []NavigationBarItem `json:"childItems,omitempty"`
	Indent        int                 `json:"indent"`
}

// CodeEdit replaces the text between Start and End with NewText.
type CodeEdit struct {
	Start   Location `json:"start"`
	End     Location `json:"end"`
	NewText string   `json:"newText"`
}

// QuickInfoResponseBody is the body of a quickinfo response.
type QuickInfoResponseBody struct {
	Kind          string   `json:"kind"`
	KindModifiers string   `json:"kindModifiers"`
	Start         Location `json:"start"`
	End           Location `json:"end"`
	DisplayString string   `json:"displayString"`
	Documentation string   `json:"documentation"`
}

// ReferencesResponseItem is one reference to a symbol.
type ReferencesResponseItem struct {
	FileSpan
	LineText      string `json:"lineText"`
	IsWriteAccess bool   `json:"isWriteAccess"`
	IsDefinition  bool   `json:"isDefinition"`
}

// ReferencesResponseBody is the body of a references response.
type ReferencesResponseBody struct {
	Refs                []ReferencesResponseItem `json:"refs"`
	SymbolName          string                   `json:"symbolName"`
	SymbolStartOffset   int                      `json:"symbolStartOffset"`
	SymbolDisplayString string                   `json:"symbolDisplayString"`
}

// RenameInfo tells whether a symbol can be renamed.
type RenameInfo struct {
	CanRename             bool   `json:"canRename"`
	LocalizedErrorMessage string `json:"localizedErrorMessage,omitempty"`
	DisplayName           string `json:"displayName"`
	FullDisplayName       string `json:"fullDisplayName"`
	Kind                  string `json:"kind"`
	KindModifiers         string `json:"kindModifiers"`
}

// SpanGroup holds the spans of one file.
type SpanGroup struct {
	File string     `json:"file"`
	Locs []TextSpan `json:"locs"`
}

// RenameResponseBody is the body of a rename response.
type RenameResponseBody struct {
	Info RenameInfo  `json:"info"`
	Locs []SpanGroup `json:"locs"`
}

// NavtoItem is one result of a navto search.
type NavtoItem struct {
	Name            string   `json:"name"`
	Kind            string   `json:"kind"`
	MatchKind       string   `json:"matchKind,omitempty"`
	IsCaseSensitive bool     `json:"isCaseSensitive,omitempty"`
	KindModifiers   string   `json:"kindModifiers,omitempty"`
	File            string   `json:"file"`
	Start           Location `json:"start"`
	End             Location `json:"end"`
	ContainerName   string   `json:"containerName,omitempty"`
	ContainerKind   string   `json:"containerKind,omitempty"`
}

// TodoComment is one TODO comment found in a file.
type TodoComment struct {
	Descriptor TodoCommentDescriptor `json:"descriptor"`
	Message    string                `json:"message"`
	Position   int                   `json:"position"`
}
