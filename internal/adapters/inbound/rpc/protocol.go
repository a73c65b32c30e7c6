// Package rpc implements the stdio-facing tool-invocation protocol:
// newline-delimited JSON-RPC 2.0 objects, one frame per line in both
// directions. The loop is single-threaded and blocking: read one frame,
// handle it fully, write one frame. There is no pipelining and no
// partial-response streaming.
package rpc

import (
	"encoding/json"
	"regexp"
)

// Message is a JSON-RPC 2.0 frame. Params is kept raw so each handler
// decodes it into a typed shape and rejects malformed input before any
// logic runs.
type Message struct {
	Jsonrpc string          `json:"jsonrpc"`
	Id      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error object. Data carries recovery hints
// (valid method or tool names, actionable hint strings), not just prose.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *RPCError) Error() string { return e.Message }

// Standard JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	// CodeServerError covers component faults surfaced through the
	// protocol (analyzer unavailable, bad project path).
	CodeServerError = -32000
)

// NewErrorMessage builds an error response frame. The id must echo the
// request's id whenever one was recoverable.
func NewErrorMessage(id interface{}, code int, message string, data interface{}) *Message {
	return &Message{
		Jsonrpc: "2.0",
		Id:      id,
		Error:   &RPCError{Code: code, Message: message, Data: data},
	}
}

// NewResultMessage builds a success response frame. A response carries
// result or error, never both.
func NewResultMessage(id interface{}, result interface{}) *Message {
	return &Message{Jsonrpc: "2.0", Id: id, Result: result}
}

// IsNotification reports whether the frame is a notification (a method
// call without an id, which must not produce a response frame).
func (m *Message) IsNotification() bool {
	return m.Method != "" && m.Id == nil
}

// idPattern matches an "id" member inside an otherwise unparseable
// frame: a number or a JSON string.
var idPattern = regexp.MustCompile(`"id"\s*:\s*("(?:[^"\\]|\\.)*"|-?\d+)`)

// RecoverID attempts to extract the request id from a malformed frame so
// the error response can still be correlated. Among multiple "id"
// members (params objects may carry their own) the one at top-level
// nesting depth wins; when the garbling defeats depth tracking the first
// occurrence is used. Returns nil when no id can be recovered.
func RecoverID(line []byte) interface{} {
	matches := idPattern.FindAllSubmatchIndex(line, -1)
	if matches == nil {
		return nil
	}

	best := matches[0]
	for _, m := range matches {
		if nestingDepth(line[:m[0]]) == 1 {
			best = m
			break
		}
	}

	var id interface{}
	if err := json.Unmarshal(line[best[2]:best[3]], &id); err != nil {
		return nil
	}
	return id
}

// nestingDepth counts unclosed objects and arrays at the end of prefix,
// ignoring brackets inside string literals.
func nestingDepth(prefix []byte) int {
	depth := 0
	inString := false
	escaped := false
	for _, c := range prefix {
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			if inString {
				escaped = true
			}
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
		}
	}
	return depth
}
