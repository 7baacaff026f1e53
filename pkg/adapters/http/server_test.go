package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	webform "github.com/drupalprojects/webform-sub000"
	"github.com/drupalprojects/webform-sub000/pkg/adapters/memory"
	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

const contactForm = `
id: contact
title: Contact
elements:
  subscribe:
    '#type': checkbox
    '#title': Subscribe
  email:
    '#type': email
    '#title': Email
    '#states':
      required:
        ':input[name="subscribe"]':
          checked: true
`

func newTestHandler(t *testing.T) (http.Handler, *memory.Loader) {
	t.Helper()
	loader := memory.NewLoader(map[string]string{"contact": contactForm})
	eng, err := webform.New("", webform.WithLoader(loader))
	require.NoError(t, err)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("metrics"))
	})
	h, err := NewHandler(eng, WithHandler("/metrics", metrics))
	require.NoError(t, err)
	return h, loader
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestServer_ListAndInspect(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "GET", "/forms", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"contact"}, decode(t, w)["forms"])

	w = do(t, h, "GET", "/forms/contact", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Contact", decode(t, w)["title"])

	w = do(t, h, "GET", "/forms/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Build(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "POST", "/forms/contact/build", `{"data":{"subscribe":true}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decode(t, w)
	assert.NotEmpty(t, out["request_id"])
	changes, ok := out["changes"].([]any)
	require.True(t, ok)
	require.Len(t, changes, 1)
	assert.Equal(t, map[string]any{
		"element_key": "email",
		"attribute":   "required",
		"from":        false,
		"to":          true,
	}, changes[0])
}

func TestServer_Submit(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "POST", "/forms/contact/submit", `{"data":{"subscribe":true,"email":""}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode(t, w)
	assert.Equal(t, false, out["valid"])
	assert.Equal(t, []any{map[string]any{"element_key": "email", "message": "Email field is required."}}, out["errors"])

	w = do(t, h, "POST", "/forms/contact/submit", `{"data":{"subscribe":false}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["valid"])
}

func TestServer_Evaluate(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"Mapping", `{"conditions":{":input[name=\"subscribe\"]":{"checked":true}},"data":{"subscribe":true}}`, "true"},
		{"List With Or", `{"conditions":[{":input[name=\"subscribe\"]":{"checked":true}},"or",{":input[name=\"email\"]":{"filled":true}}],"data":{"email":"a@b.c"}}`, "true"},
		{"Unchecked", `{"conditions":{":input[name=\"subscribe\"]":{"checked":true}},"data":{"subscribe":false}}`, "false"},
		{"Bad Selector", `{"conditions":{"#subscribe":{"checked":true}},"data":{}}`, "indeterminate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/forms/contact/evaluate", tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.want, decode(t, w)["result"])
		})
	}
}

func TestSpec_IsValid(t *testing.T) {
	doc, err := Spec(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/forms/{id}/evaluate"))

	_, err = NewHandler(nil)
	assert.NoError(t, err)
}

func TestServer_RequestValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "POST", "/forms/contact/build", `{"data":"not an object"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "POST", "/forms/contact/evaluate", `{"data":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_DocumentAndMounts(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "GET", "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")

	w = do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "metrics", w.Body.String())

	w = do(t, h, "GET", "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, webform.Version, decode(t, w)["version"])
}

func TestSubscribeEvents_Reload(t *testing.T) {
	h, loader := newTestHandler(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(w, req)
	}()

	time.Sleep(100 * time.Millisecond)
	loader.Put("contact", []byte(contactForm))
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	body := w.Body.String()
	assert.Contains(t, body, "event: ping")
	assert.Contains(t, body, "data: reload")
}

func TestServer_SanitizesSubmission(t *testing.T) {
	h, _ := newTestHandler(t)
	t.Setenv("WEBFORM_MAX_INPUT_SIZE", "4")

	w := do(t, h, "POST", "/forms/contact/submit", `{"data":{"subscribe":true,"email":"far too long"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "email")
}

func TestServer_ContentNegotiation(t *testing.T) {
	loader := memory.NewLoader(map[string]string{"contact": contactForm})
	eng, err := webform.New("", webform.WithLoader(loader))
	require.NoError(t, err)
	h, err := NewHandler(eng, WithoutRequestValidation())
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/forms/contact/build", strings.NewReader(`data=1`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	req = httptest.NewRequest("GET", "/events", nil)
	req.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotAcceptable, w.Code)
}

func TestServer_LiveForm(t *testing.T) {
	h, _ := newTestHandler(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/forms/contact/live"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	type reply struct {
		ID     string `json:"id"`
		Type   string `json:"type"`
		Valid  *bool  `json:"valid"`
		Error  string `json:"error"`
		Result *struct {
			RequestID string                  `json:"request_id"`
			Errors    domain.ValidationErrors `json:"errors"`
		} `json:"result"`
	}
	exchange := func(msg LiveMessage) reply {
		t.Helper()
		require.NoError(t, wsjson.Write(ctx, conn, msg))
		var out reply
		require.NoError(t, wsjson.Read(ctx, conn, &out))
		return out
	}

	got := exchange(LiveMessage{ID: "1", Type: "ping"})
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, "pong", got.Type)

	got = exchange(LiveMessage{ID: "2", Type: "build", Data: submissionRequest{Data: map[string]any{"subscribe": true}}})
	require.Equal(t, "result", got.Type, got.Error)
	require.NotNil(t, got.Result)
	assert.NotEmpty(t, got.Result.RequestID)

	got = exchange(LiveMessage{ID: "3", Type: "submit", Data: submissionRequest{Data: map[string]any{"subscribe": true}}})
	require.Equal(t, "result", got.Type, got.Error)
	require.NotNil(t, got.Valid)
	assert.False(t, *got.Valid)
	require.Len(t, got.Result.Errors, 1)
	assert.Equal(t, "email", got.Result.Errors[0].ElementKey)

	got = exchange(LiveMessage{ID: "4", Type: "explode"})
	assert.Equal(t, "error", got.Type)
	assert.Contains(t, got.Error, "explode")

	conn.Close(websocket.StatusNormalClosure, "")
}

func TestServer_LiveFormNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	w := do(t, h, "GET", "/forms/missing/live", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
