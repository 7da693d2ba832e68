package protocol

import "encoding/json"

// Message types.
const (
	RequestType  = "request"
	ResponseType = "response"
	EventType    = "event"
)

// Message holds the fields shared by every message.
type Message struct {
	// Seq is the sequence number of the message.
	Seq int `json:"seq"`
	// Type is one of "request", "response" or "event".
	Type string `json:"type"`
}

// Request is a client-initiated message.
type Request struct {
	Message
	Command   CommandName     `json:"command"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Response is the server's answer to a request. When Success is false,
// Message is set and Body is absent.
type Response struct {
	Message
	RequestSeq int         `json:"request_seq"`
	Success    bool        `json:"success"`
	Command    CommandName `json:"command"`
	Text       string      `json:"message,omitempty"`
	Body       any         `json:"body,omitempty"`
}

// Event is a server-initiated message.
type Event struct {
	Message
	Event string `json:"event"`
	Body  any    `json:"body,omitempty"`
}

// NewResponse returns a successful response to req. body may be nil.
func NewResponse(req *Request, body any) *Response {
	return &Response{
		Message:    Message{Type: ResponseType},
		RequestSeq: req.Seq,
		Success:    true,
		Command:    req.Command,
		Body:       body,
	}
}

// NewErrorResponse returns a failed response to the request with the given
// sequence number. An empty message is replaced so that a failure always
// explains itself.
func NewErrorResponse(requestSeq int, command CommandName, message string) *Response {
	if message == "" {
		message = "request failed"
	}
	return &Response{
		Message:    Message{Type: ResponseType},
		RequestSeq: requestSeq,
		Success:    false,
		Command:    command,
		Text:       message,
	}
}

// NewEvent returns an event with the given name and body.
func NewEvent(name string, body any) *Event {
	return &Event{
		Message: Message{Type: EventType},
		Event:   name,
		Body:    body,
	}
}

// Valid reports whether r satisfies the response invariants: a failure has a
// message and no body.
func (r *Response) Valid() bool {
	if r.Success {
		return true
	}
	return r.Text != "" && r.Body == nil
}
