package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/ardublockgo/internal/board"
	"github.com/specialistvlad/ardublockgo/internal/ctxlog"
	"github.com/specialistvlad/ardublockgo/internal/session"
)

// Open loads the workspace files under paths into a fresh session. A board set
// in the configuration replaces the one named by the workspace.
func (a *App) Open(ctx context.Context, paths ...string) (*session.Session, error) {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading workspace...", "paths", paths)

	model, err := a.loader.Load(ctx, paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}

	s, err := session.New(ctx, a.registry, board.Default)
	if err != nil {
		return nil, err
	}
	if err := s.Load(ctx, model); err != nil {
		return nil, fmt.Errorf("failed to build workspace: %w", err)
	}
	if a.config.Board != "" && a.config.Board != s.Board().Name {
		logger.Debug("Overriding workspace board.", "workspace", s.Board().Name, "board", a.config.Board)
		if err := s.SetBoard(a.config.Board); err != nil {
			return nil, err
		}
	}

	logger.Info("Workspace loaded.", "blocks", s.Workspace().Len(), "board", s.Board().Name)
	return s, nil
}
