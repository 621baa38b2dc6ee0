package hcl

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/ardublockgo/internal/config"
	"github.com/specialistvlad/ardublockgo/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Writer is the HCL-specific implementation of the config.Writer interface.
// Its output is canonical: loading and writing again yields the same bytes.
type Writer struct{}

// NewWriter creates a new HCL workspace writer.
func NewWriter() *Writer {
	return &Writer{}
}

var _ config.Writer = (*Writer)(nil)

// Write renders m as a workspace document.
func (wr *Writer) Write(ctx context.Context, w io.Writer, m *config.Model) error {
	src, err := Format(m)
	if err != nil {
		return err
	}
	if _, err := w.Write(src); err != nil {
		return fmt.Errorf("failed to write workspace: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Wrote HCL workspace.", "bytes", len(src), "blocks", m.Len())
	return nil
}

// Format renders m as canonical HCL source.
func Format(m *config.Model) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	if m.Board != "" {
		ws := root.AppendNewBlock("workspace", nil)
		ws.Body().SetAttributeValue("board", cty.StringVal(m.Board))
	}
	for _, stack := range m.Stacks {
		if len(root.Blocks()) > 0 {
			root.AppendNewline()
		}
		s := root.AppendNewBlock("stack", nil)
		if err := writeChain(s.Body(), stack.Blocks); err != nil {
			return nil, err
		}
	}
	return hclwrite.Format(f.Bytes()), nil
}

func writeChain(body *hclwrite.Body, chain []*config.Block) error {
	for _, b := range chain {
		if b.Kind == "" || b.ID == "" {
			return fmt.Errorf("block %q of kind %q needs both a kind and an id", b.ID, b.Kind)
		}
		nb := body.AppendNewBlock("block", []string{b.Kind, b.ID})
		for _, field := range b.Fields {
			if field.Value.IsNull() || !field.Value.IsWhollyKnown() {
				continue
			}
			nb.Body().SetAttributeValue(field.Name, field.Value)
		}
		for _, in := range b.Inputs {
			if len(in.Blocks) == 0 {
				continue
			}
			ib := nb.Body().AppendNewBlock("input", []string{in.Name})
			if err := writeChain(ib.Body(), in.Blocks); err != nil {
				return err
			}
		}
	}
	return nil
}
