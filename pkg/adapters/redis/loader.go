// Package redis stores form definitions in Redis.
//
// Each definition lives under <prefix>form:<id>; the set <prefix>index lists the IDs
// and every change is published on <prefix>changes so running engines can reload.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	backend "github.com/redis/go-redis/v9"

	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "webform:"

// Loader implements ports.FormLoader and ports.Watchable using Redis.
type Loader struct {
	client *backend.Client
	prefix string
}

type Option func(*Loader)

// WithPrefix sets the key prefix for definitions.
func WithPrefix(prefix string) Option {
	return func(l *Loader) {
		if prefix != "" {
			l.prefix = prefix
		}
	}
}

// New creates a new Redis loader with options.
func New(address, password string, db int, opts ...Option) *Loader {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis loader from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Loader {
	loader := &Loader{
		client: client,
		prefix: DefaultPrefix,
	}

	for _, opt := range opts {
		opt(loader)
	}

	return loader
}

func (l *Loader) key(id string) string {
	return l.prefix + "form:" + id
}

func (l *Loader) indexKey() string {
	return l.prefix + "index"
}

func (l *Loader) channel() string {
	return l.prefix + "changes"
}

// Put stores a definition, indexes it and announces the change.
func (l *Loader) Put(ctx context.Context, id string, data []byte) error {
	if id == "" {
		return fmt.Errorf("form id cannot be empty")
	}

	pipe := l.client.Pipeline()
	pipe.Set(ctx, l.key(id), data, 0)
	pipe.SAdd(ctx, l.indexKey(), id)
	pipe.Publish(ctx, l.channel(), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save form to redis: %w", err)
	}
	return nil
}

// Delete removes a definition and announces the change.
func (l *Loader) Delete(ctx context.Context, id string) error {
	pipe := l.client.Pipeline()
	pipe.Del(ctx, l.key(id))
	pipe.SRem(ctx, l.indexKey(), id)
	pipe.Publish(ctx, l.channel(), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete form from redis: %w", err)
	}
	return nil
}

// GetForm retrieves the raw definition of a form by ID.
func (l *Loader) GetForm(ctx context.Context, id string) ([]byte, error) {
	val, err := l.client.Get(ctx, l.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFormNotFound, id)
		}
		return nil, fmt.Errorf("failed to load form from redis: %w", err)
	}
	return val, nil
}

// ListForms returns the indexed form IDs, sorted.
func (l *Loader) ListForms(ctx context.Context) ([]string, error) {
	ids, err := l.client.SMembers(ctx, l.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list forms from redis: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Watch subscribes to the change channel. The subscription is confirmed before
// Watch returns, so no change published afterwards is missed.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	sub := l.client.Subscribe(ctx, l.channel())
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to form changes: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer func() {
			_ = sub.Close()
		}()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()

	return ch, nil
}

// Close closes the underlying client.
func (l *Loader) Close() error {
	return l.client.Close()
}
