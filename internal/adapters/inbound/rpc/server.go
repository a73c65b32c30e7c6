package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/fluttervet/fluttervet/internal/application"
	"github.com/fluttervet/fluttervet/internal/domain"
)

// Server is the stateless request/response loop. It is deliberately not
// safe for concurrent multi-request handling: read, fully handle, write,
// read again. A slow analyzer run stalls the loop for that call; a
// higher-throughput redesign would need a bounded worker pool, per-call
// timeouts, and a cancellable child-process wrapper.
type Server struct {
	stdin   io.Reader
	stdout  io.Writer
	scanner *bufio.Scanner
	logger  *slog.Logger

	version         string
	analyzerVersion string
	projectPath     string
	cfg             domain.Config

	validateSvc *application.ValidateService
	contextSvc  *application.ContextService
	adviceSvc   *application.AdviceService
	depsSvc     *application.DepsService

	tools map[string]toolHandler
}

// NewServer wires the server with its services. analyzerVersion is
// resolved once at startup by the caller and threaded through; there is
// no lazy version probe.
func NewServer(
	version, analyzerVersion, projectPath string,
	cfg domain.Config,
	validateSvc *application.ValidateService,
	contextSvc *application.ContextService,
	adviceSvc *application.AdviceService,
	depsSvc *application.DepsService,
	logger *slog.Logger,
) *Server {
	s := &Server{
		stdin:           os.Stdin,
		stdout:          os.Stdout,
		logger:          logger,
		version:         version,
		analyzerVersion: analyzerVersion,
		projectPath:     projectPath,
		cfg:             cfg,
		validateSvc:     validateSvc,
		contextSvc:      contextSvc,
		adviceSvc:       adviceSvc,
		depsSvc:         depsSvc,
	}
	s.registerTools()
	return s
}

// SetStdin sets the input stream (for testing).
func (s *Server) SetStdin(r io.Reader) {
	s.stdin = r
	s.scanner = nil
}

// SetStdout sets the output stream (for testing).
func (s *Server) SetStdout(w io.Writer) {
	s.stdout = w
}

// Start runs the loop until the input stream closes. Every other
// failure mode is answered with an error frame and the loop continues.
func (s *Server) Start() error {
	s.logger.Info("rpc server starting",
		"version", s.version,
		"analyzer", s.analyzerVersion,
		"project", s.projectPath)

	for {
		raw, err := s.readFrame()
		if err != nil {
			if err == io.EOF {
				s.logger.Info("rpc server shutting down (stdin closed)")
				return nil
			}
			return err
		}
		if len(raw) == 0 {
			continue
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			// The id is recovered from the raw line whenever possible so
			// even a parse-failure response correlates with its request.
			id := RecoverID(raw)
			s.logger.Warn("malformed frame", "error", err.Error())
			s.writeResponse(NewErrorMessage(id, CodeParseError,
				"malformed request frame",
				map[string]interface{}{
					"hint": "Send exactly one JSON-RPC 2.0 object per line",
				}))
			continue
		}

		if msg.IsNotification() {
			s.logger.Debug("notification", "method", msg.Method)
			continue
		}
		if msg.Method == "" {
			s.writeResponse(NewErrorMessage(msg.Id, CodeInvalidRequest,
				"frame is not a request",
				map[string]interface{}{
					"hint": "Requests need a method and an id",
				}))
			continue
		}

		s.writeResponse(s.dispatch(&msg))
	}
}

func (s *Server) writeResponse(msg *Message) {
	if err := s.writeFrame(msg); err != nil {
		s.logger.Error("writing response failed", "error", err.Error())
	}
}

var methods = []string{"initialize", "tools/list", "tools/call"}

// dispatch routes one request. Every fault a handler raises — including
// panics — is converted into an error envelope that still carries the
// request id; nothing thrown inside a handler terminates the loop.
func (s *Server) dispatch(msg *Message) (resp *Message) {
	requestID := uuid.NewString()
	log := s.logger.With("request_id", requestID, "method", msg.Method)

	defer func() {
		if r := recover(); r != nil {
			log.Error("handler panic", "panic", fmt.Sprint(r))
			resp = NewErrorMessage(msg.Id, CodeInternalError,
				"internal error",
				map[string]interface{}{
					"hint": "This is a bug in the server, not in your request; retry or report it",
				})
		}
	}()

	log.Debug("dispatching request", "id", msg.Id)

	switch msg.Method {
	case "initialize":
		return NewResultMessage(msg.Id, s.initializeResult())
	case "tools/list":
		return NewResultMessage(msg.Id, map[string]interface{}{
			"tools": s.toolCatalog(),
		})
	case "tools/call":
		return s.callTool(msg, log)
	default:
		return NewErrorMessage(msg.Id, CodeMethodNotFound,
			fmt.Sprintf("method not found: %s", msg.Method),
			map[string]interface{}{
				"available_methods": methods,
				"hint":              "Use one of the listed methods",
			})
	}
}

func (s *Server) initializeResult() map[string]interface{} {
	return map[string]interface{}{
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":            "fluttervet",
			"version":         s.version,
			"analyzerVersion": s.analyzerVersion,
		},
	}
}

type callToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (s *Server) callTool(msg *Message, log *slog.Logger) *Message {
	var params callToolParams
	if len(msg.Params) == 0 {
		return NewErrorMessage(msg.Id, CodeInvalidParams,
			"missing params",
			map[string]interface{}{
				"hint": `tools/call needs params of the form {"name": ..., "arguments": {...}}`,
			})
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil || params.Name == "" {
		return NewErrorMessage(msg.Id, CodeInvalidParams,
			"invalid params for tools/call",
			map[string]interface{}{
				"hint": `params must be {"name": <tool name>, "arguments": {...}}`,
			})
	}

	handler, ok := s.tools[params.Name]
	if !ok {
		return NewErrorMessage(msg.Id, CodeMethodNotFound,
			fmt.Sprintf("unknown tool: %s", params.Name),
			map[string]interface{}{
				"available_tools": s.toolNames(),
				"hint":            "Call tools/list for schemas and examples",
			})
	}

	log.Info("calling tool", "tool", params.Name)

	// Blocking by design: the request may sit on a child process and a
	// full tree walk for its whole duration.
	result, err := handler(context.Background(), params.Arguments)
	if err != nil {
		return s.toolError(msg.Id, params.Name, err, log)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return NewErrorMessage(msg.Id, CodeInternalError,
			"marshaling tool result",
			map[string]interface{}{"hint": "This is a server bug; report it"})
	}

	return NewResultMessage(msg.Id, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": string(payload)},
		},
	})
}

// toolError converts a component fault into a structured RPC error that
// keeps the fault kind and actionable hint machine-readable.
func (s *Server) toolError(id interface{}, tool string, err error, log *slog.Logger) *Message {
	kind := domain.KindOf(err)
	log.Warn("tool call failed", "tool", tool, "kind", string(kind), "error", err.Error())

	code := CodeServerError
	if kind == domain.ProtocolError {
		code = CodeInvalidParams
	}

	hint := domain.HintOf(err)
	if hint == "" {
		hint = "Check the tool arguments and project path"
	}
	return NewErrorMessage(id, code, err.Error(), map[string]interface{}{
		"kind": string(kind),
		"hint": hint,
	})
}
