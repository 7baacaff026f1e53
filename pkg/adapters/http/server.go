package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/elnormous/contenttype"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"

	webform "github.com/drupalprojects/webform-sub000"
	"github.com/drupalprojects/webform-sub000/internal/compiler"
	"github.com/drupalprojects/webform-sub000/pkg/domain"
	"github.com/drupalprojects/webform-sub000/pkg/ports"
	"github.com/drupalprojects/webform-sub000/pkg/sanitizer"
)

//go:embed openapi.yaml
var rawSpec []byte

var (
	jsonMediaType         = contenttype.NewMediaType("application/json")
	eventStreamMediaTypes = []contenttype.MediaType{contenttype.NewMediaType("text/event-stream")}
)

// Watcher is implemented by engines that can report definition changes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// Server serves a FormEngine over HTTP.
type Server struct {
	Engine ports.FormEngine
	logger *slog.Logger
	spec   *openapi3.T
}

// Option configures the handler.
type Option func(*config)

type config struct {
	logger  *slog.Logger
	mounts  map[string]http.Handler
	noCheck bool
}

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHandler mounts an extra handler, such as /metrics, outside the API document.
func WithHandler(pattern string, h http.Handler) Option {
	return func(c *config) {
		c.mounts[pattern] = h
	}
}

// WithoutRequestValidation disables the OpenAPI request validation middleware.
func WithoutRequestValidation() Option {
	return func(c *config) {
		c.noCheck = true
	}
}

// Spec loads and validates the embedded OpenAPI document.
func Spec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.FormEngine, opts ...Option) (http.Handler, error) {
	cfg := &config{mounts: make(map[string]http.Handler)}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	spec, err := Spec(context.Background())
	if err != nil {
		return nil, err
	}

	server := &Server{Engine: engine, logger: cfg.logger, spec: spec}

	r := chi.NewRouter()
	r.Use(enableCORS)
	if !cfg.noCheck {
		router, err := gorillamux.NewRouter(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to build openapi router: %w", err)
		}
		r.Use(validateRequests(router, cfg.logger))
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/events", server.SubscribeEvents)
	r.Route("/forms", func(r chi.Router) {
		r.Get("/", server.ListForms)
		r.Get("/{id}", server.GetForm)
		r.Post("/{id}/build", server.BuildForm)
		r.Post("/{id}/submit", server.SubmitForm)
		r.Post("/{id}/evaluate", server.EvaluateCondition)
		r.Get("/{id}/live", server.LiveForm)
	})
	for pattern, h := range cfg.mounts {
		r.Handle(pattern, h)
	}

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// validateRequests checks requests against the API document. Paths the document
// does not describe pass through untouched.
func validateRequests(router routers.Router, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, params, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: params,
				Route:      route,
				Options: &openapi3filter.Options{
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				logger.Warn("request rejected", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusBadRequest, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// decodeBody reads a JSON request body. A declared Content-Type other than JSON
// is rejected with 415.
func decodeBody(r *http.Request, v any) (int, error) {
	if r.Header.Get("Content-Type") != "" {
		ctype, err := contenttype.GetMediaType(r)
		if err != nil || !ctype.Matches(jsonMediaType) {
			return http.StatusUnsupportedMediaType, errors.New("content-type must be application/json")
		}
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err)
	}
	return http.StatusOK, nil
}

type submissionRequest struct {
	Data  map[string]any `json:"data"`
	Input map[string]any `json:"input"`
}

func (s submissionRequest) submission() (domain.Submission, error) {
	data := s.Data
	if data == nil {
		data = map[string]any{}
	}
	return sanitizer.SanitizeSubmission(domain.Submission{Data: data, Input: s.Input})
}

type evaluateRequest struct {
	submissionRequest
	Conditions json.RawMessage `json:"conditions"`
}

type submitResponse struct {
	*domain.Result
	Valid bool `json:"valid"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "webform-http",
		"version":     strings.TrimSpace(webform.Version),
		"api_version": apiVersion,
	})
}

// ListForms handles the GET /forms request.
func (s *Server) ListForms(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.Forms(r.Context())
	if err != nil {
		s.fail(w, "ListForms", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"forms": ids})
}

// GetForm handles the GET /forms/{id} request.
func (s *Server) GetForm(w http.ResponseWriter, r *http.Request) {
	form, err := s.Engine.Inspect(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetForm", err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// BuildForm handles the POST /forms/{id}/build request.
func (s *Server) BuildForm(w http.ResponseWriter, r *http.Request) {
	var body submissionRequest
	if status, err := decodeBody(r, &body); err != nil {
		writeError(w, status, err)
		return
	}
	sub, err := body.submission()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := s.Engine.Build(r.Context(), chi.URLParam(r, "id"), sub)
	if err != nil {
		s.fail(w, "BuildForm", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SubmitForm handles the POST /forms/{id}/submit request.
func (s *Server) SubmitForm(w http.ResponseWriter, r *http.Request) {
	var body submissionRequest
	if status, err := decodeBody(r, &body); err != nil {
		writeError(w, status, err)
		return
	}
	sub, err := body.submission()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := s.Engine.Submit(r.Context(), chi.URLParam(r, "id"), sub)
	if err != nil {
		s.fail(w, "SubmitForm", err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Result: res, Valid: len(res.Errors) == 0})
}

// EvaluateCondition handles the POST /forms/{id}/evaluate request.
func (s *Server) EvaluateCondition(w http.ResponseWriter, r *http.Request) {
	var body evaluateRequest
	if status, err := decodeBody(r, &body); err != nil {
		writeError(w, status, err)
		return
	}
	set, err := decodeConditions(body.Conditions)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sub, err := body.submission()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := s.Engine.Evaluate(r.Context(), chi.URLParam(r, "id"), set, sub)
	if err != nil {
		s.fail(w, "EvaluateCondition", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": result.String()})
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	watcher, ok := s.Engine.(Watcher)
	if !ok {
		writeError(w, http.StatusNotImplemented, errors.New("engine does not support watching"))
		return
	}
	if r.Header.Get("Accept") != "" {
		if _, _, err := contenttype.GetAcceptableMediaType(r, eventStreamMediaTypes); err != nil {
			writeError(w, http.StatusNotAcceptable, errors.New("events are only served as text/event-stream"))
			return
		}
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	events, err := watcher.Watch(r.Context())
	if err != nil {
		s.fail(w, "SubscribeEvents", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: reload\n\n")
			flusher.Flush()
		}
	}
}

// decodeConditions reads a condition set written in #states notation. JSON is
// valid YAML, so the compiler's node parser reads it with selector order intact.
func decodeConditions(raw json.RawMessage) (domain.ConditionSet, error) {
	if len(raw) == 0 {
		return nil, errors.New("conditions are required")
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("invalid conditions: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, errors.New("conditions are required")
	}
	return compiler.ParseConditionSet(node.Content[0]), nil
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrFormNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrInvalidDefinition):
		writeError(w, http.StatusUnprocessableEntity, err)
	default:
		s.logger.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
