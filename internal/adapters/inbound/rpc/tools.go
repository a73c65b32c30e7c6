package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"

	"github.com/fluttervet/fluttervet/internal/domain"
	"github.com/fluttervet/fluttervet/internal/domain/heuristics"
)

// ToolDefinition is a static catalog entry: name, parameter schema, and
// usage examples.
type ToolDefinition struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Parameters  map[string]interface{}   `json:"parameters"`
	Examples    []map[string]interface{} `json:"examples,omitempty"`
}

// toolHandler executes one tool call against already-validated
// arguments.
type toolHandler func(ctx context.Context, args json.RawMessage) (interface{}, error)

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc}
}

func intProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": desc}
}

// toolCatalog returns the static tool catalog.
func (s *Server) toolCatalog() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "validate",
			Description: "Run the Dart analyzer against the project and return a structured validation result",
			Parameters: objectSchema(map[string]interface{}{
				"path": stringProp("Project root (defaults to the server's project path)"),
				"exclude": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Path fragments to exclude from analysis",
				},
			}),
			Examples: []map[string]interface{}{
				{"arguments": map[string]interface{}{"path": ".", "exclude": []string{"build"}}},
			},
		},
		{
			Name:        "get_project_context",
			Description: "Build the heuristic project model: dependencies, imports, class inventory, deprecated usage, style profile",
			Parameters: objectSchema(map[string]interface{}{
				"path": stringProp("Project root (defaults to the server's project path)"),
			}),
			Examples: []map[string]interface{}{
				{"arguments": map[string]interface{}{"path": "."}},
			},
		},
		{
			Name:        "get_error_context",
			Description: "Search the codebase and fixed knowledge tables for likely causes of an error message",
			Parameters: objectSchema(map[string]interface{}{
				"message": stringProp("The error message to investigate"),
				"file":    stringProp("File where the error was reported"),
				"line":    intProp("Line of the reported error"),
				"column":  intProp("Column of the reported error"),
				"path":    stringProp("Project root (defaults to the server's project path)"),
			}, "message"),
			Examples: []map[string]interface{}{
				{"arguments": map[string]interface{}{"message": "The getter 'name' was called on null", "file": "lib/main.dart", "line": 42}},
			},
		},
		{
			Name:        "get_suggestions",
			Description: "Generate ranked code suggestions from pattern tables and fuzzy matching against the class inventory",
			Parameters: objectSchema(map[string]interface{}{
				"error_type": stringProp("Known error tag: null, async, undefined, type, import, const"),
				"file":       stringProp("File the suggestion applies to"),
				"line":       intProp("Line the suggestion applies to"),
				"code":       stringProp("Code fragment to match against the class inventory"),
				"message":    stringProp("Error message, used for did-you-mean matching"),
				"path":       stringProp("Project root (defaults to the server's project path)"),
			}),
			Examples: []map[string]interface{}{
				{"arguments": map[string]interface{}{"error_type": "null"}},
			},
		},
		{
			Name:        "check_dependencies",
			Description: "Compare pubspec.yaml dependencies against the latest versions published on pub.dev",
			Parameters: objectSchema(map[string]interface{}{
				"path": stringProp("Project root (defaults to the server's project path)"),
			}),
			Examples: []map[string]interface{}{
				{"arguments": map[string]interface{}{"path": "."}},
			},
		},
	}
}

func (s *Server) registerTools() {
	s.tools = map[string]toolHandler{
		"validate":            s.handleValidate,
		"get_project_context": s.handleProjectContext,
		"get_error_context":   s.handleErrorContext,
		"get_suggestions":     s.handleSuggestions,
		"check_dependencies":  s.handleCheckDependencies,
	}
}

// toolNames returns the registered tool names sorted, for recovery
// hints.
func (s *Server) toolNames() []string {
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// decodeArgs decodes tool arguments into a typed shape, rejecting
// malformed input before it reaches handler logic.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || bytes.Equal(bytes.TrimSpace(args), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return domain.WrapFault(domain.ProtocolError,
			"malformed tool arguments",
			"Pass arguments as a JSON object matching the tool's parameter schema", err)
	}
	return nil
}

type validateArgs struct {
	Path    string   `json:"path"`
	Exclude []string `json:"exclude"`
}

func (s *Server) handleValidate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a validateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	path := s.resolvePath(a.Path)
	exclude := append(append([]string{}, s.cfg.ExcludePaths...), a.Exclude...)
	return s.validateSvc.Validate(ctx, s.cfg, path, exclude), nil
}

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleProjectContext(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.contextSvc.BuildContext(ctx, s.resolvePath(a.Path), s.cfg.ExcludePaths)
}

type errorContextArgs struct {
	Message string `json:"message"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Path    string `json:"path"`
}

func (s *Server) handleErrorContext(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a errorContextArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Message == "" {
		return nil, domain.NewFault(domain.ProtocolError,
			"missing required argument: message",
			"Pass the error message to investigate as arguments.message")
	}
	return s.adviceSvc.ResolveErrorContext(ctx, s.resolvePath(a.Path), s.cfg.ExcludePaths, a.Message, a.File, a.Line, a.Column)
}

type suggestionsArgs struct {
	ErrorType string `json:"error_type"`
	File      string `json:"file"`
	Line      int    `json:"line"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Path      string `json:"path"`
}

func (s *Server) handleSuggestions(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a suggestionsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	// The project context is rebuilt fresh on every call; nothing is
	// cached across requests.
	pc, err := s.contextSvc.BuildContext(ctx, s.resolvePath(a.Path), s.cfg.ExcludePaths)
	if err != nil {
		return nil, err
	}

	suggestions := s.adviceSvc.Suggestions(heuristics.SuggestRequest{
		ErrorType: a.ErrorType,
		FilePath:  a.File,
		Line:      a.Line,
		Code:      a.Code,
		Message:   a.Message,
	}, pc, s.cfg.MaxSuggestions)

	return map[string]interface{}{"suggestions": suggestions}, nil
}

func (s *Server) handleCheckDependencies(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	statuses, err := s.depsSvc.CheckDependencies(ctx, s.resolvePath(a.Path))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"dependencies": statuses}, nil
}

func (s *Server) resolvePath(path string) string {
	if path == "" {
		return s.projectPath
	}
	return path
}
