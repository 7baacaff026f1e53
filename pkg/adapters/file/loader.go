// Package file loads form definitions from a directory of YAML or JSON documents.
//
// A form ID is the document path relative to the root, without extension and with
// forward slashes: forms/intake/contact.yaml is "intake/contact".
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

var extensions = []string{".yaml", ".yml", ".json"}

// Loader implements ports.FormLoader and ports.Watchable over a directory.
type Loader struct {
	root   string
	logger *slog.Logger
}

// Option configures the Loader.
type Option func(*Loader)

// WithLogger sets the logger used by Watch.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a Loader rooted at dir.
func New(dir string, opts ...Option) (*Loader, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve forms dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open forms dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("forms path %s is not a directory", abs)
	}

	l := &Loader{root: abs, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Root returns the absolute directory the loader reads from.
func (l *Loader) Root() string {
	return l.root
}

// GetForm reads the document for id, trying each supported extension in turn.
func (l *Loader) GetForm(ctx context.Context, id string) ([]byte, error) {
	if id == "" || strings.Contains(id, "..") {
		return nil, fmt.Errorf("%w: %q", domain.ErrFormNotFound, id)
	}
	base := filepath.Join(l.root, filepath.FromSlash(id))
	for _, ext := range extensions {
		data, err := os.ReadFile(base + ext)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read form %s: %w", id, err)
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrFormNotFound, id)
}

// ListForms walks the root and returns the IDs of all definition documents.
func (l *Loader) ListForms(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != l.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		id, ok := l.idOf(p)
		if ok {
			seen[id] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (l *Loader) idOf(path string) (string, bool) {
	ext := filepath.Ext(path)
	supported := false
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			supported = true
			break
		}
	}
	if !supported {
		return "", false
	}
	rel, err := filepath.Rel(l.root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, ext)), true
}

// Watch signals whenever a definition document under the root is created, written,
// removed or renamed. Newly created directories are watched too.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	err = filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		return w.Add(p)
	})
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch forms dir: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer func() {
			_ = w.Close()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&fsnotify.Create == fsnotify.Create {
					if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
						_ = w.Add(ev.Name)
						continue
					}
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if _, ok := l.idOf(ev.Name); !ok {
					continue
				}
				l.logger.Debug("form definition changed", "path", ev.Name, "op", ev.Op.String())
				select {
				case ch <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.logger.Debug("fsnotify error", "err", err)
			}
		}
	}()

	return ch, nil
}
