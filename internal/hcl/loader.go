package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/ardublockgo/internal/config"
	"github.com/specialistvlad/ardublockgo/internal/ctxlog"
	"github.com/specialistvlad/ardublockgo/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL workspace loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load parses every .hcl file under paths and merges them. Stacks are
// appended in file order; at most one file may name a board.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s workspace files found in %v", Extension, paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := &config.Model{}
	boardFile := ""

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		part, diags := decodeFile(hclFile.Body)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		if part.Board != "" {
			if boardFile != "" && part.Board != model.Board {
				return nil, fmt.Errorf("board %q in %s conflicts with board %q in %s", part.Board, file, model.Board, boardFile)
			}
			model.Board, boardFile = part.Board, file
		}
		model.Stacks = append(model.Stacks, part.Stacks...)
	}

	logger.Debug("HCL loading complete.", "files", len(files), "stacks", len(model.Stacks), "blocks", model.Len())
	return model, nil
}

// Parse decodes a single workspace document held in memory.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (*config.Model, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	model, diags := decodeFile(hclFile.Body)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	ctxlog.FromContext(ctx).Debug("Parsed HCL workspace.", "file", filename, "blocks", model.Len())
	return model, nil
}

func decodeFile(body hcl.Body) (*config.Model, hcl.Diagnostics) {
	content, diags := body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	model := &config.Model{}
	ws, d := findUniqueBlock(content.Blocks, "workspace")
	diags = append(diags, d...)
	if ws != nil {
		var settings workspaceSettings
		diags = append(diags, gohcl.DecodeBody(ws.Body, nil, &settings)...)
		if settings.Remain != nil {
			attrs, d := settings.Remain.JustAttributes()
			diags = append(diags, d...)
			for _, attr := range attrs {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Unsupported argument",
					Detail:   fmt.Sprintf("An argument named %q is not expected in a workspace block.", attr.Name),
					Subject:  &attr.NameRange,
				})
			}
		}
		model.Board = settings.Board
	}

	for _, block := range content.Blocks {
		if block.Type != "stack" {
			continue
		}
		chain, d := decodeChain(block.Body)
		diags = append(diags, d...)
		if len(chain) == 0 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Empty stack",
				Detail:   "A stack must contain at least one block.",
				Subject:  &block.DefRange,
			})
			continue
		}
		model.Stacks = append(model.Stacks, &config.Stack{Blocks: chain})
	}
	return model, diags
}

func decodeChain(body hcl.Body) ([]*config.Block, hcl.Diagnostics) {
	content, diags := body.Content(chainSchema)
	if diags.HasErrors() {
		return nil, diags
	}
	var chain []*config.Block
	for _, block := range content.Blocks {
		b, d := decodeBlock(block)
		diags = append(diags, d...)
		if b != nil {
			chain = append(chain, b)
		}
	}
	return chain, diags
}

func decodeBlock(block *hcl.Block) (*config.Block, hcl.Diagnostics) {
	out := &config.Block{Kind: block.Labels[0], ID: block.Labels[1]}

	content, remain, diags := block.Body.PartialContent(blockSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	attrs, d := remain.JustAttributes()
	diags = append(diags, d...)
	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})
	for _, attr := range ordered {
		val, d := attr.Expr.Value(nil)
		diags = append(diags, d...)
		if d.HasErrors() {
			continue
		}
		out.Fields = append(out.Fields, config.Field{Name: attr.Name, Value: val})
	}

	for _, in := range content.Blocks {
		chain, d := decodeChain(in.Body)
		diags = append(diags, d...)
		out.Inputs = append(out.Inputs, &config.Input{Name: in.Labels[0], Blocks: chain})
	}
	return out, diags
}
