package xml

import (
	"encoding/xml"
	"strings"
)

// Run is a w:r element: optional properties followed by ordered content.
type Run struct {
	Properties *RunProperties
	Content    []RunContent
}

// MarshalXML implements custom XML marshaling for Run to ensure proper namespacing
func (r Run) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:r"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	// w:rPr is only written when a toggle is set
	if r.Properties != nil && !r.Properties.IsZero() {
		if err := e.Encode(r.Properties); err != nil {
			return err
		}
	}

	for _, c := range r.Content {
		if err := e.Encode(c); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// GetText returns the text content of a run, with breaks as newlines and tabs as tabs
func (r *Run) GetText() string {
	var b strings.Builder
	for _, c := range r.Content {
		switch v := c.(type) {
		case *Text:
			b.WriteString(v.Content)
		case *Break:
			b.WriteByte('\n')
		case *Tab:
			b.WriteByte('\t')
		}
	}
	return b.String()
}

// RunProperties is the w:rPr element. Each toggle maps to its own child.
type RunProperties struct {
	Bold   bool
	Italic bool
	Strike bool
}

// IsZero reports whether no toggle is set
func (p RunProperties) IsZero() bool {
	return !p.Bold && !p.Italic && !p.Strike
}

// MarshalXML writes the toggles in schema order: b, i, strike
func (p RunProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:rPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.Bold {
		if err := emptyElement(e, "w:b"); err != nil {
			return err
		}
	}
	if p.Italic {
		if err := emptyElement(e, "w:i"); err != nil {
			return err
		}
	}
	if p.Strike {
		if err := emptyElement(e, "w:strike"); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Text is a w:t element.
type Text struct {
	Content string
}

func (*Text) isRunContent() {}

// NeedsPreserve reports whether s would lose whitespace without xml:space="preserve"
func NeedsPreserve(s string) bool {
	return s != strings.TrimSpace(s) || strings.Contains(s, "  ")
}

// MarshalXML implements custom XML marshaling for Text to ensure proper namespacing
func (t Text) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:t"}
	start.Attr = nil
	if NeedsPreserve(t.Content) {
		// Use the predefined XML namespace
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Space: "http://www.w3.org/XML/1998/namespace", Local: "space"},
			Value: "preserve",
		})
	}
	return e.EncodeElement(t.Content, start)
}

// Break is a w:br line break.
type Break struct{}

func (*Break) isRunContent() {}

// MarshalXML implements xml.Marshaler to ensure Break is empty
func (Break) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return emptyElement(e, "w:br")
}

// Tab is a w:tab character.
type Tab struct{}

func (*Tab) isRunContent() {}

// MarshalXML implements custom XML marshaling for Tab
func (Tab) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return emptyElement(e, "w:tab")
}

// NewTextContent splits s into w:t segments separated by w:br for newlines
// and w:tab for tabs. Each segment carries its own whitespace marking.
func NewTextContent(s string) []RunContent {
	var content []RunContent
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if i > 0 {
			content = append(content, &Break{})
		}
		cells := strings.Split(line, "\t")
		for j, seg := range cells {
			if j > 0 {
				content = append(content, &Tab{})
			}
			if seg != "" {
				content = append(content, &Text{Content: seg})
			}
		}
	}
	if len(content) == 0 {
		content = append(content, &Text{})
	}
	return content
}
