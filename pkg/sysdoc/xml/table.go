package xml

import (
	"encoding/xml"
	"fmt"
)

// Table is a w:tbl element.
type Table struct {
	Properties *TableProperties
	Grid       *TableGrid
	Rows       []TableRow
}

func (*Table) isBodyElement() {}

// MarshalXML implements custom XML marshaling for Table to ensure proper namespacing
func (t Table) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tbl"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if t.Properties != nil {
		if err := e.Encode(t.Properties); err != nil {
			return err
		}
	}

	if t.Grid != nil {
		if err := e.Encode(t.Grid); err != nil {
			return err
		}
	}

	for i := range t.Rows {
		if err := e.Encode(&t.Rows[i]); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableProperties is the w:tblPr element.
type TableProperties struct {
	Style   string
	Width   *Width
	Borders *TableBorders
	Layout  string // fixed or autofit
	Look    *TableLook
}

// MarshalXML writes the properties in schema order
func (p TableProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Style != "" {
		if err := e.EncodeElement(Val{Val: p.Style}, startElement("w:tblStyle")); err != nil {
			return err
		}
	}
	if p.Width != nil {
		if err := e.EncodeElement(p.Width, startElement("w:tblW")); err != nil {
			return err
		}
	}
	if p.Borders != nil {
		if err := e.Encode(p.Borders); err != nil {
			return err
		}
	}
	if p.Layout != "" {
		if err := emptyElement(e, "w:tblLayout", attr("w:type", p.Layout)); err != nil {
			return err
		}
	}
	if p.Look != nil {
		if err := e.Encode(p.Look); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Width is a measurement element such as w:tblW or w:tcW. The element name
// comes from the caller.
type Width struct {
	W    int
	Type string // dxa, pct, auto
}

// MarshalXML implements custom XML marshaling for Width
func (w Width) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	typ := w.Type
	if typ == "" {
		typ = "dxa"
	}
	start.Attr = []xml.Attr{
		intAttr("w:w", w.W),
		attr("w:type", typ),
	}
	return e.EncodeElement(struct{}{}, start)
}

// TableLook is the w:tblLook element.
type TableLook struct {
	FirstRow    bool
	LastRow     bool
	FirstColumn bool
	LastColumn  bool
	NoHBand     bool
	NoVBand     bool
}

// MarshalXML implements custom XML marshaling for TableLook
func (t TableLook) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	flag := func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	}
	return emptyElement(e, "w:tblLook",
		attr("w:firstRow", flag(t.FirstRow)),
		attr("w:lastRow", flag(t.LastRow)),
		attr("w:firstColumn", flag(t.FirstColumn)),
		attr("w:lastColumn", flag(t.LastColumn)),
		attr("w:noHBand", flag(t.NoHBand)),
		attr("w:noVBand", flag(t.NoVBand)),
	)
}

// TableBorders is the w:tblBorders element.
type TableBorders struct {
	Top, Left, Bottom, Right, InsideH, InsideV *BorderProperties
}

// SingleBorders returns thin single-line borders on every edge
func SingleBorders() *TableBorders {
	b := func() *BorderProperties {
		return &BorderProperties{Val: "single", Size: 4, Space: 0, Color: "auto"}
	}
	return &TableBorders{Top: b(), Left: b(), Bottom: b(), Right: b(), InsideH: b(), InsideV: b()}
}

// MarshalXML implements custom XML marshaling for TableBorders
func (b TableBorders) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblBorders"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	edges := []struct {
		name   string
		border *BorderProperties
	}{
		{"w:top", b.Top},
		{"w:left", b.Left},
		{"w:bottom", b.Bottom},
		{"w:right", b.Right},
		{"w:insideH", b.InsideH},
		{"w:insideV", b.InsideV},
	}
	for _, edge := range edges {
		if edge.border == nil {
			continue
		}
		if err := e.EncodeElement(edge.border, startElement(edge.name)); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// BorderProperties describes one border edge.
type BorderProperties struct {
	Val   string
	Size  int // eighths of a point
	Space int
	Color string
}

// MarshalXML implements custom XML marshaling for BorderProperties
func (b BorderProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{
		attr("w:val", b.Val),
		intAttr("w:sz", b.Size),
		intAttr("w:space", b.Space),
		attr("w:color", b.Color),
	}
	return e.EncodeElement(struct{}{}, start)
}

// TableGrid is the w:tblGrid column declaration.
type TableGrid struct {
	Columns []int // widths in twips
}

// MarshalXML implements custom XML marshaling for TableGrid
func (g TableGrid) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblGrid"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, w := range g.Columns {
		if err := emptyElement(e, "w:gridCol", intAttr("w:w", w)); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableRow is a w:tr element.
type TableRow struct {
	Header bool // w:trPr/w:tblHeader
	Cells  []TableCell
}

// MarshalXML implements custom XML marshaling for TableRow to ensure proper namespacing
func (r TableRow) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if r.Header {
		trPr := startElement("w:trPr")
		if err := e.EncodeToken(trPr); err != nil {
			return err
		}
		if err := emptyElement(e, "w:tblHeader"); err != nil {
			return err
		}
		if err := e.EncodeToken(trPr.End()); err != nil {
			return err
		}
	}

	for i := range r.Cells {
		if err := e.Encode(&r.Cells[i]); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableCell is a w:tc element. Content must end with a paragraph.
type TableCell struct {
	Width   *Width
	Content []BodyElement
}

// MarshalXML implements custom XML marshaling for TableCell to ensure proper namespacing
func (c TableCell) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if len(c.Content) == 0 {
		return fmt.Errorf("table cell without content")
	}
	if _, ok := c.Content[len(c.Content)-1].(*Paragraph); !ok {
		return fmt.Errorf("table cell must end with a paragraph")
	}

	start.Name = xml.Name{Local: "w:tc"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if c.Width != nil {
		tcPr := startElement("w:tcPr")
		if err := e.EncodeToken(tcPr); err != nil {
			return err
		}
		if err := e.EncodeElement(c.Width, startElement("w:tcW")); err != nil {
			return err
		}
		if err := e.EncodeToken(tcPr.End()); err != nil {
			return err
		}
	}

	for _, el := range c.Content {
		if err := e.Encode(el); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// GetText returns the text of the cell's paragraphs joined by newlines
func (c *TableCell) GetText() string {
	var text string
	for i, el := range c.Content {
		if p, ok := el.(*Paragraph); ok {
			if i > 0 {
				text += "\n"
			}
			text += p.GetText()
		}
	}
	return text
}
