package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/drupalprojects/webform-sub000/internal/compiler"
	"github.com/drupalprojects/webform-sub000/pkg/ports"
)

// Publisher stores definitions, such as the Redis loader.
type Publisher interface {
	Put(ctx context.Context, id string, data []byte) error
}

// Publish copies every definition of src into dst. Each one is compiled first
// and the first definition that fails aborts the copy.
func Publish(ctx context.Context, src ports.FormLoader, dst Publisher, logger *slog.Logger) (int, error) {
	ids, err := src.ListForms(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list forms: %w", err)
	}

	parser := compiler.NewParser(nil)
	published := 0
	for _, id := range ids {
		data, err := src.GetForm(ctx, id)
		if err != nil {
			return published, err
		}
		if _, err := parser.Parse(id, data); err != nil {
			return published, err
		}
		if err := dst.Put(ctx, id, data); err != nil {
			return published, fmt.Errorf("failed to publish %s: %w", id, err)
		}
		logger.Info("form published", "form", id, "bytes", len(data))
		published++
	}
	return published, nil
}
