package xml

import (
	"encoding/xml"
	"strings"
)

// ParagraphContent is an element allowed in w:p: *Run.
type ParagraphContent interface {
	isParagraphContent()
}

func (*Run) isParagraphContent() {}

// Paragraph is a w:p element.
type Paragraph struct {
	Properties *ParagraphProperties
	Content    []ParagraphContent
}

func (*Paragraph) isBodyElement() {}

// MarshalXML implements custom XML marshaling for Paragraph to ensure proper namespacing
func (p Paragraph) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:p"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Properties != nil && !p.Properties.IsZero() {
		if err := e.Encode(p.Properties); err != nil {
			return err
		}
	}

	for _, c := range p.Content {
		if err := e.Encode(c); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// GetText returns the text of all runs
func (p *Paragraph) GetText() string {
	var b strings.Builder
	for _, c := range p.Content {
		if r, ok := c.(*Run); ok {
			b.WriteString(r.GetText())
		}
	}
	return b.String()
}

// ParagraphProperties is the w:pPr element.
type ParagraphProperties struct {
	Style     string // w:pStyle
	KeepNext  bool   // w:keepNext
	Alignment string // w:jc
}

// IsZero reports whether no property is set
func (p ParagraphProperties) IsZero() bool {
	return p.Style == "" && !p.KeepNext && p.Alignment == ""
}

// MarshalXML writes the properties in schema order
func (p ParagraphProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:pPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.Style != "" {
		if err := e.EncodeElement(Val{Val: p.Style}, startElement("w:pStyle")); err != nil {
			return err
		}
	}
	if p.KeepNext {
		if err := emptyElement(e, "w:keepNext"); err != nil {
			return err
		}
	}
	if p.Alignment != "" {
		if err := e.EncodeElement(Val{Val: p.Alignment}, startElement("w:jc")); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}
