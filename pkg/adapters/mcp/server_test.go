package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	webform "github.com/drupalprojects/webform-sub000"
	"github.com/drupalprojects/webform-sub000/pkg/adapters/memory"
	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

const contactForm = `
id: contact
elements:
  subscribe:
    '#type': checkbox
  email:
    '#type': email
    '#title': Email
    '#states':
      required:
        ':input[name="subscribe"]':
          checked: true
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	loader := memory.NewLoader(map[string]string{"contact": contactForm})
	eng, err := webform.New("", webform.WithLoader(loader))
	require.NoError(t, err)
	return NewServer(eng, nil)
}

func TestServer_ListForms(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleListForms(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"contact"}, res.Forms)
}

func TestServer_BuildAndSubmit(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	args := map[string]any{
		"form_id": "contact",
		"data":    map[string]any{"subscribe": true},
	}

	built, err := s.handleBuild(ctx, mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	assert.Equal(t, []domain.AttributeChange{{ElementKey: "email", Attribute: "required", From: false, To: true}}, built.Changes)

	submitted, err := s.handleSubmit(ctx, mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	assert.False(t, submitted.Valid)
	assert.Equal(t, domain.ValidationErrors{{ElementKey: "email", Message: "Email field is required."}}, submitted.Errors)

	_, err = s.handleBuild(ctx, mcp.CallToolRequest{}, map[string]any{"form_id": "missing"})
	assert.ErrorIs(t, err, domain.ErrFormNotFound)
}

func TestServer_Evaluate(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleEvaluate(ctx, mcp.CallToolRequest{}, map[string]any{
		"form_id":    "contact",
		"conditions": `{":input[name=\"subscribe\"]": {"checked": true}}`,
		"data":       map[string]any{"subscribe": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "true", res.Result)

	res, err = s.handleEvaluate(ctx, mcp.CallToolRequest{}, map[string]any{
		"form_id":    "contact",
		"conditions": `- ':input[name="nope"]': {checked: true}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "indeterminate", res.Result)

	_, err = s.handleEvaluate(ctx, mcp.CallToolRequest{}, map[string]any{"form_id": "contact"})
	assert.Error(t, err)
}
