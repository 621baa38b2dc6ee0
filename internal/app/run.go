package app

import (
	"context"
	"fmt"
	"io"

	"github.com/specialistvlad/ardublockgo/internal/codegen"
	"github.com/specialistvlad/ardublockgo/internal/publish"
	"github.com/specialistvlad/ardublockgo/internal/types"
	"github.com/specialistvlad/ardublockgo/internal/validate"
)

// Report collects every problem found in a workspace.
type Report struct {
	Warnings   []validate.Warning
	Mismatches []*types.Mismatch
	Faults     []codegen.Fault
}

// Problems returns the total number of findings.
func (r *Report) Problems() int {
	return len(r.Warnings) + len(r.Mismatches) + len(r.Faults)
}

// Generate loads the workspace under paths and compiles it to a sketch.
func (a *App) Generate(ctx context.Context, paths ...string) (*codegen.Result, error) {
	s, err := a.Open(ctx, paths...)
	if err != nil {
		return nil, err
	}
	res := s.Generate(a.context(ctx))
	if len(res.Faults) > 0 {
		a.logger.Warn("Sketch generated with faults.", "faults", len(res.Faults))
	}
	return res, nil
}

// Validate loads the workspace under paths and reports missing instances,
// type mismatches and blocks that fail to generate.
func (a *App) Validate(ctx context.Context, paths ...string) (*Report, error) {
	s, err := a.Open(ctx, paths...)
	if err != nil {
		return nil, err
	}
	res := s.Generate(a.context(ctx))
	report := &Report{
		Warnings:   s.Warnings(),
		Mismatches: res.Mismatches,
		Faults:     res.Faults,
	}
	a.logger.Debug("Validation finished.", "problems", report.Problems())
	return report, nil
}

// Format loads the workspace under paths and writes it back in canonical form.
func (a *App) Format(ctx context.Context, w io.Writer, paths ...string) error {
	s, err := a.Open(ctx, paths...)
	if err != nil {
		return err
	}
	return a.writer.Write(a.context(ctx), w, s.Model())
}

// Publish generates the sketch and pushes it to the configured endpoint. A
// sketch with faults is never published.
func (a *App) Publish(ctx context.Context, paths ...string) (*publish.Receipt, error) {
	s, err := a.Open(ctx, paths...)
	if err != nil {
		return nil, err
	}
	ctx = a.context(ctx)
	res := s.Generate(ctx)
	if len(res.Faults) > 0 {
		return nil, fmt.Errorf("refusing to publish: %d blocks could not be generated", len(res.Faults))
	}

	pc := a.config.Publish
	opts := publish.Options{
		URL:                pc.URL,
		Namespace:          pc.Namespace,
		Event:              pc.Event,
		AckEvent:           pc.AckEvent,
		Timeout:            pc.Timeout,
		InsecureSkipVerify: pc.InsecureSkipVerify,
	}
	return publish.Publish(ctx, opts, publish.Sketch{Board: s.Board().Name, Source: res.Source})
}

// Kinds lists every registered block kind.
func (a *App) Kinds() []string {
	return a.registry.Kinds()
}
