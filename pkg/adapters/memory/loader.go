package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

// Loader implements ports.FormLoader and ports.Watchable using an in-memory map.
// Safe for concurrent use.
type Loader struct {
	mu       sync.RWMutex
	forms    map[string][]byte
	watchers []chan struct{}
}

// NewLoader creates a new Loader with the provided raw documents (YAML or JSON strings).
func NewLoader(data map[string]string) *Loader {
	forms := make(map[string][]byte, len(data))
	for k, v := range data {
		forms[k] = []byte(v)
	}
	return &Loader{
		forms: forms,
	}
}

// Put stores or replaces a definition and notifies watchers.
func (l *Loader) Put(id string, data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.forms[id] = append([]byte(nil), data...)
	for _, ch := range l.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// GetForm retrieves the raw definition of a form by ID.
func (l *Loader) GetForm(ctx context.Context, id string) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	content, ok := l.forms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFormNotFound, id)
	}
	return content, nil
}

// ListForms returns all available form IDs.
func (l *Loader) ListForms(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	keys := make([]string, 0, len(l.forms))
	for k := range l.forms {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}

// Watch signals on every Put until ctx is done, then closes the channel.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	l.mu.Lock()
	l.watchers = append(l.watchers, ch)
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, w := range l.watchers {
			if w == ch {
				l.watchers = append(l.watchers[:i], l.watchers[i+1:]...)
				close(ch)
				break
			}
		}
	}()

	return ch, nil
}
