package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drupalprojects/webform-sub000/internal/config"
	"github.com/drupalprojects/webform-sub000/internal/logging"
	"github.com/drupalprojects/webform-sub000/pkg/adapters/memory"
	"github.com/drupalprojects/webform-sub000/pkg/adapters/redis"
	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

const contactForm = `
id: contact
elements:
  subscribe:
    '#type': checkbox
  email:
    '#type': email
    '#states':
      required:
        ':input[name="subscribe"]':
          checked: true
`

func TestParseSubmission(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.Submission
	}{
		{"Plain Mapping", `{"a": true, "b": "x"}`, domain.NewSubmission(map[string]any{"a": true, "b": "x"})},
		{"Wrapped", "data:\n  a: 1\ninput:\n  b: typed\n", domain.Submission{Data: map[string]any{"a": 1}, Input: map[string]any{"b": "typed"}}},
		{"Input Only", `{"input": {"b": "typed"}}`, domain.Submission{Data: map[string]any{}, Input: map[string]any{"b": "typed"}}},
		{"Empty", ``, domain.NewSubmission(map[string]any{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSubmission([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseSubmission([]byte("- a\n- b"))
	assert.Error(t, err)
}

func TestReadSubmission(t *testing.T) {
	sub, err := ReadSubmission("-", strings.NewReader(`{"a": "0"}`))
	require.NoError(t, err)
	assert.Equal(t, "0", sub.Data["a"])

	path := filepath.Join(t.TempDir(), "sub.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: yes\n"), 0644))
	sub, err = ReadSubmission(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "yes", sub.Data["a"])

	_, err = ReadSubmission(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}

func TestNewEngine_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contact.yaml"), []byte(contactForm), 0644))

	cfg := config.Default()
	cfg.FormsDir = dir
	eng, err := NewEngine(cfg, logging.NewNop(), true)
	require.NoError(t, err)
	defer eng.Close()

	ids, err := eng.Forms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"contact"}, ids)
}

func TestPublishAndRedisEngine(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	src := memory.NewLoader(map[string]string{"contact": contactForm})
	dst := redis.New(mr.Addr(), "", 0)
	defer dst.Close()

	n, err := Publish(ctx, src, dst, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	cfg := config.Default()
	cfg.RedisAddr = mr.Addr()
	eng, err := NewEngine(cfg, logging.NewNop(), false)
	require.NoError(t, err)
	defer eng.Close()

	res, err := eng.Submit(ctx, "contact", domain.NewSubmission(map[string]any{"subscribe": true}))
	require.NoError(t, err)
	assert.Len(t, res.Errors, 1)
}

func TestPublish_RejectsInvalid(t *testing.T) {
	mr := miniredis.RunT(t)
	src := memory.NewLoader(map[string]string{"broken": "elements: [1, 2]"})
	dst := redis.New(mr.Addr(), "", 0)
	defer dst.Close()

	n, err := Publish(context.Background(), src, dst, logging.NewNop())
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)
	assert.Equal(t, 0, n)
}

func TestPrintMarkdown_NotATerminal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintMarkdown(&buf, "# title\n"))
	assert.Equal(t, "# title\n", buf.String())
	assert.False(t, IsTerminal(&buf))
}
