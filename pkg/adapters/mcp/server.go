package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	webform "github.com/drupalprojects/webform-sub000"
	"github.com/drupalprojects/webform-sub000/internal/compiler"
	"github.com/drupalprojects/webform-sub000/pkg/domain"
	"github.com/drupalprojects/webform-sub000/pkg/ports"
	"github.com/drupalprojects/webform-sub000/pkg/sanitizer"
)

// FormsURI is the resource listing the available forms.
const FormsURI = "webform://forms"

// ResultResponse aligns with the HTTP API and provides a unified structure across adapters.
type ResultResponse struct {
	RequestID string                   `json:"request_id" jsonschema_description:"Identifier of this build or submit"`
	Form      *domain.Form             `json:"form" jsonschema_description:"The form with conditional states applied"`
	Changes   []domain.AttributeChange `json:"changes,omitempty" jsonschema_description:"Attributes changed by conditional states"`
	Errors    domain.ValidationErrors  `json:"errors,omitempty" jsonschema_description:"Required fields left empty"`
	Valid     bool                     `json:"valid" jsonschema_description:"Indicates if the submission passed validation"`
}

// EvaluateResponse carries the tri-state outcome of a condition set.
type EvaluateResponse struct {
	Result string `json:"result" jsonschema_description:"true, false or indeterminate"`
}

// FormsResponse lists form IDs.
type FormsResponse struct {
	Forms []string `json:"forms"`
}

type submissionArgs struct {
	FormID string         `mapstructure:"form_id"`
	Data   map[string]any `mapstructure:"data"`
	Input  map[string]any `mapstructure:"input"`
}

func (a submissionArgs) submission() (domain.Submission, error) {
	data := a.Data
	if data == nil {
		data = map[string]any{}
	}
	return sanitizer.SanitizeSubmission(domain.Submission{Data: data, Input: a.Input})
}

type evaluateArgs struct {
	submissionArgs `mapstructure:",squash"`
	Conditions     string `mapstructure:"conditions"`
}

// Server wraps a FormEngine and exposes it as an MCP Server.
type Server struct {
	engine    ports.FormEngine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.FormEngine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("webform-mcp", strings.TrimSpace(webform.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on addr using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_forms",
		mcp.WithDescription("List the IDs of the available forms."),
		mcp.WithOutputSchema[FormsResponse](),
	), mcp.NewStructuredToolHandler(s.handleListForms))

	s.mcpServer.AddTool(mcp.NewTool("build_form",
		mcp.WithDescription("Apply the conditional states of a form to submitted values, as for a render."),
		mcp.WithString("form_id", mcp.Required(), mcp.Description("The ID of the form")),
		mcp.WithObject("data", mcp.Description("Submitted values keyed by element key")),
		mcp.WithObject("input", mcp.Description("Raw input values, consulted when a key is absent from data")),
		mcp.WithOutputSchema[ResultResponse](),
	), mcp.NewStructuredToolHandler(s.handleBuild))

	s.mcpServer.AddTool(mcp.NewTool("submit_form",
		mcp.WithDescription("Apply the conditional states of a form and validate required fields."),
		mcp.WithString("form_id", mcp.Required(), mcp.Description("The ID of the form")),
		mcp.WithObject("data", mcp.Description("Submitted values keyed by element key")),
		mcp.WithObject("input", mcp.Description("Raw input values, consulted when a key is absent from data")),
		mcp.WithOutputSchema[ResultResponse](),
	), mcp.NewStructuredToolHandler(s.handleSubmit))

	s.mcpServer.AddTool(mcp.NewTool("evaluate_condition",
		mcp.WithDescription("Evaluate a condition set against the elements of a form. Returns true, false or indeterminate."),
		mcp.WithString("form_id", mcp.Required(), mcp.Description("The ID of the form")),
		mcp.WithString("conditions", mcp.Required(), mcp.Description(`Condition set as JSON or YAML, e.g. {":input[name=\"a\"]": {"checked": true}}`)),
		mcp.WithObject("data", mcp.Description("Submitted values keyed by element key")),
		mcp.WithOutputSchema[EvaluateResponse](),
	), mcp.NewStructuredToolHandler(s.handleEvaluate))
}

func (s *Server) handleListForms(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (FormsResponse, error) {
	ids, err := s.engine.Forms(ctx)
	if err != nil {
		return FormsResponse{}, fmt.Errorf("list forms failed: %w", err)
	}
	return FormsResponse{Forms: ids}, nil
}

func (s *Server) handleBuild(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ResultResponse, error) {
	var in submissionArgs
	if err := decodeArgs(args, &in); err != nil {
		return ResultResponse{}, err
	}
	sub, err := in.submission()
	if err != nil {
		return ResultResponse{}, err
	}
	res, err := s.engine.Build(ctx, in.FormID, sub)
	if err != nil {
		return ResultResponse{}, fmt.Errorf("build failed: %w", err)
	}
	return toResponse(res), nil
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ResultResponse, error) {
	var in submissionArgs
	if err := decodeArgs(args, &in); err != nil {
		return ResultResponse{}, err
	}
	sub, err := in.submission()
	if err != nil {
		return ResultResponse{}, err
	}
	res, err := s.engine.Submit(ctx, in.FormID, sub)
	if err != nil {
		return ResultResponse{}, fmt.Errorf("submit failed: %w", err)
	}
	if len(res.Errors) > 0 {
		s.logger.Debug("MCP submit: validation failed", "form", in.FormID, "errors", len(res.Errors))
	}
	return toResponse(res), nil
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (EvaluateResponse, error) {
	var in evaluateArgs
	if err := decodeArgs(args, &in); err != nil {
		return EvaluateResponse{}, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(in.Conditions), &node); err != nil {
		return EvaluateResponse{}, fmt.Errorf("invalid conditions: %w", err)
	}
	if len(node.Content) == 0 {
		return EvaluateResponse{}, errors.New("conditions are required")
	}
	sub, err := in.submission()
	if err != nil {
		return EvaluateResponse{}, err
	}
	result, err := s.engine.Evaluate(ctx, in.FormID, compiler.ParseConditionSet(node.Content[0]), sub)
	if err != nil {
		return EvaluateResponse{}, fmt.Errorf("evaluate failed: %w", err)
	}
	return EvaluateResponse{Result: result.String()}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(FormsURI, "Available Forms",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.engine.Forms(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list forms: %w", err)
		}
		jsonBytes, _ := json.Marshal(FormsResponse{Forms: ids})

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      FormsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func toResponse(res *domain.Result) ResultResponse {
	return ResultResponse{
		RequestID: res.RequestID,
		Form:      res.Form,
		Changes:   res.Changes,
		Errors:    res.Errors,
		Valid:     len(res.Errors) == 0,
	}
}
