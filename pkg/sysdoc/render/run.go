package render

import (
	"fmt"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/model"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/xml"
)

// Run converts a model run. Properties are emitted only when a toggle is set.
func Run(r *model.Run) *xml.Run {
	out := &xml.Run{Content: xml.NewTextContent(r.Text)}
	if !r.Properties.IsZero() {
		out.Properties = &xml.RunProperties{
			Bold:   r.Properties.Bold,
			Italic: r.Properties.Italic,
			Strike: r.Properties.Strikethrough,
		}
	}
	return out
}

// TextParagraph builds a paragraph with one run of text and an optional style
func TextParagraph(text, style string, props model.RunProperties) *xml.Paragraph {
	p := &xml.Paragraph{
		Content: []xml.ParagraphContent{Run(&model.Run{Text: text, Properties: props})},
	}
	if style != "" {
		p.Properties = &xml.ParagraphProperties{Style: style}
	}
	return p
}

// Paragraph converts a model paragraph. Runs map one to one; each image
// gets a run of its own. width is the available width in twips.
func (s *Serializer) Paragraph(p *model.Paragraph, node string, width int) (*xml.Paragraph, error) {
	if p == nil {
		return nil, derrors.Structuref(node, "paragraph is nil")
	}
	out := &xml.Paragraph{}
	if p.Style != "" || p.Alignment != model.AlignDefault {
		out.Properties = &xml.ParagraphProperties{
			Style:     p.Style,
			Alignment: string(p.Alignment),
		}
	}
	for i, in := range p.Inlines {
		switch v := in.(type) {
		case *model.Run:
			if v == nil {
				return nil, derrors.Structuref(node, "run %d is nil", i+1)
			}
			if err := model.CheckText(fmt.Sprintf("%s > run %d", node, i+1), v.Text); err != nil {
				return nil, err
			}
			out.Content = append(out.Content, Run(v))
		case *model.Image:
			run, err := s.Image(v, fmt.Sprintf("%s > image %d", node, i+1), width)
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, run)
		default:
			return nil, derrors.Structuref(node, "unsupported inline %T", in)
		}
	}
	return out, nil
}
