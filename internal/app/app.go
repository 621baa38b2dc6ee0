package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/ardublockgo/internal/config"
	"github.com/specialistvlad/ardublockgo/internal/ctxlog"
	"github.com/specialistvlad/ardublockgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	loader   config.Loader
	writer   config.Writer
}

// NewApp is the constructor for the main application. Logs go to logW. With
// no modules given every built-in block module is registered.
func NewApp(logW io.Writer, cfg *Config, loader config.Loader, writer config.Writer, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.NewWith(modules...)
	logger.Debug("All block modules registered.", "modules", len(modules), "kinds", len(reg.Kinds()))

	return &App{
		logger:   logger,
		config:   cfg,
		registry: reg,
		loader:   loader,
		writer:   writer,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Config returns the validated configuration the App was built with.
func (a *App) Config() *Config {
	return a.config
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
