package cli

import (
	"fmt"
	"io"
	"log/slog"

	webform "github.com/drupalprojects/webform-sub000"
	"github.com/drupalprojects/webform-sub000/internal/config"
	"github.com/drupalprojects/webform-sub000/internal/logging"
	"github.com/drupalprojects/webform-sub000/pkg/adapters/redis"
	"github.com/drupalprojects/webform-sub000/pkg/observability"
)

// Engine bundles a facade with the resources it holds open.
type Engine struct {
	*webform.Engine
	closer io.Closer
}

// Close releases the loader connection, if any.
func (e *Engine) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

// NewEngine initializes a webform engine with standard CLI conventions.
// Definitions come from Redis when cfg.RedisAddr is set, from cfg.FormsDir otherwise.
func NewEngine(cfg config.Config, logger *slog.Logger, debug bool, extra ...webform.Option) (*Engine, error) {
	opts := []webform.Option{webform.WithLogger(logger)}
	if debug {
		opts = append(opts, webform.WithLifecycleHooks(observability.LogHooks(logger)))
	}

	var closer io.Closer
	dir := cfg.FormsDir
	if cfg.RedisAddr != "" {
		loader := redis.New(cfg.RedisAddr, "", 0, redis.WithPrefix(cfg.RedisPrefix))
		opts = append(opts, webform.WithLoader(loader))
		closer = loader
		dir = cfg.RedisPrefix
	}

	eng, err := webform.New(dir, append(opts, extra...)...)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return &Engine{Engine: eng, closer: closer}, nil
}

// NewLogger configures the application logger from a level name.
// Debug forces the debug level.
func NewLogger(level string, debug bool) (*slog.Logger, error) {
	if debug {
		return logging.New(slog.LevelDebug), nil
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}
