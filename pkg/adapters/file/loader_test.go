package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drupalprojects/webform-sub000/pkg/adapters/file"
	contract "github.com/drupalprojects/webform-sub000/pkg/ports/tests"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFileLoader_Contract(t *testing.T) {
	dir := t.TempDir()
	data := map[string][]byte{
		"contact":       []byte("elements: {name: {'#type': textfield}}\n"),
		"intake/health": []byte(`{"elements": {"allergies": {"#type": "textarea"}}}`),
	}
	writeFile(t, filepath.Join(dir, "contact.yaml"), string(data["contact"]))
	writeFile(t, filepath.Join(dir, "intake", "health.json"), string(data["intake/health"]))
	writeFile(t, filepath.Join(dir, "README.md"), "not a form")
	writeFile(t, filepath.Join(dir, ".git", "config.yml"), "ignored: true")

	loader, err := file.New(dir)
	require.NoError(t, err)

	contract.FormLoaderContractTest(t, loader, data)
}

func TestFileLoader_RejectsTraversal(t *testing.T) {
	loader, err := file.New(t.TempDir())
	require.NoError(t, err)

	_, err = loader.GetForm(context.Background(), "../etc/passwd")
	assert.Error(t, err)
}

func TestFileLoader_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	writeFile(t, path, "elements: {}")

	_, err := file.New(path)
	assert.Error(t, err)
}

func TestFileLoader_Watch(t *testing.T) {
	dir := t.TempDir()
	loader, err := file.New(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := loader.Watch(ctx)
	require.NoError(t, err)

	writeFile(t, filepath.Join(dir, "new.yaml"), "elements: {}")

	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change signal after writing a definition")
	}
}
