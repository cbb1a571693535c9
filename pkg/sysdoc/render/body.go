package render

import (
	"fmt"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/internal/logfields"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/model"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/xml"
)

// RevisionHistoryHeading introduces the revision history table.
const RevisionHistoryHeading = "Revision History"

// Body converts the whole document: the title block, the revision history,
// then every section followed by its requested trace tables.
func (s *Serializer) Body(doc *model.Document) (*xml.Body, error) {
	if doc == nil {
		return nil, derrors.Structuref("document", "document is nil")
	}
	if err := doc.Metadata.Validate(); err != nil {
		return nil, err
	}
	body := &xml.Body{}
	body.Elements = append(body.Elements, titleBlock(doc.Metadata)...)

	history, err := model.RevisionHistoryTable(doc.Metadata.Revisions)
	if err != nil {
		return nil, err
	}
	if history != nil {
		body.Elements = append(body.Elements, TextParagraph(RevisionHistoryHeading, model.HeadingStyle(1), model.RunProperties{}))
		t, err := s.Table(history, "revision history", s.textWidth)
		if err != nil {
			return nil, err
		}
		body.Elements = append(body.Elements, t)
	}

	for i, sec := range doc.Sections {
		node := fmt.Sprintf("section %d", i+1)
		if sec == nil {
			return nil, derrors.Structuref(node, "section is nil")
		}
		elems, err := s.section(doc, sec, node)
		if err != nil {
			return nil, err
		}
		body.Elements = append(body.Elements, elems...)
		s.logger.Debug("Serialized section",
			logfields.Section(sec.HeadingText()),
			logfields.Count(len(elems)))
	}

	body.SectionProperties = &xml.SectionProperties{
		PageWidth:  s.opts.PageWidth,
		PageHeight: s.opts.PageHeight,
		Margin:     s.opts.PageMargin,
	}
	return body, nil
}

func (s *Serializer) section(doc *model.Document, sec *model.Section, node string) ([]xml.BodyElement, error) {
	if err := model.CheckText(node, sec.Title); err != nil {
		return nil, err
	}
	var out []xml.BodyElement
	if sec.Title != "" || !sec.Number.IsZero() {
		out = append(out, TextParagraph(sec.HeadingText(), model.HeadingStyle(sec.HeadingLevel()), model.RunProperties{}))
	}

	blocks, err := s.blocks(sec.Blocks, node, s.textWidth)
	if err != nil {
		return nil, err
	}
	out = append(out, blocks...)

	for _, gen := range []struct {
		enabled bool
		label   string
		build   func(*model.Document) (*model.Table, error)
	}{
		{sec.GenerateSectionToTraced, "section to traced table", model.SectionToTracedTable},
		{sec.GenerateTracedToSection, "traced to section table", model.TracedToSectionTable},
	} {
		if !gen.enabled {
			continue
		}
		t, err := gen.build(doc)
		if err != nil {
			return nil, err
		}
		if t == nil {
			continue
		}
		xt, err := s.Table(t, node+" > "+gen.label, s.textWidth)
		if err != nil {
			return nil, err
		}
		out = append(out, xt)
	}
	return out, nil
}

func titleBlock(meta model.Metadata) []xml.BodyElement {
	var out []xml.BodyElement
	if meta.Title != "" {
		out = append(out, TextParagraph(meta.Title, model.StyleTitle, model.RunProperties{}))
	}
	if meta.Subtitle != "" {
		out = append(out, TextParagraph(meta.Subtitle, model.StyleSubtitle, model.RunProperties{}))
	}
	if meta.ProtectionMark != "" {
		p := TextParagraph(meta.ProtectionMark, "", model.RunProperties{Bold: true})
		p.Properties = &xml.ParagraphProperties{Alignment: string(model.AlignCenter)}
		out = append(out, p)
	}
	return out
}
