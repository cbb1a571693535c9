package xml

import (
	"encoding/xml"
	"fmt"
)

// Styles is the w:styles root of word/styles.xml.
type Styles struct {
	Font     string // default ASCII/hAnsi font
	FontSize int    // default size in half-points
	Styles   []Style
}

// Style is one w:style definition.
type Style struct {
	Type           string // paragraph, character or table
	ID             string
	Name           string
	BasedOn        string
	Next           string
	Default        bool
	UIPriority     int
	SemiHidden     bool
	UnhideWhenUsed bool
	QFormat        bool

	Paragraph *StyleParagraph
	Run       *StyleRun
	Table     *StyleTable
}

// StyleParagraph holds the paragraph properties of a style.
type StyleParagraph struct {
	KeepNext      bool
	SpacingBefore int
	SpacingAfter  int
	Alignment     string
	OutlineLevel  int // 1-based; 0 means none
}

// StyleRun holds the run properties of a style.
type StyleRun struct {
	Bold   bool
	Italic bool
	Color  string
	Size   int // half-points
}

// StyleTable holds the table properties of a table style.
type StyleTable struct {
	Borders          *TableBorders
	CellMarginTop    int
	CellMarginLeft   int
	CellMarginBottom int
	CellMarginRight  int
}

var headingSizes = [...]int{32, 28, 26, 24, 22, 22}

// DefaultStyles returns the style set referenced by generated documents:
// Normal, Title, Subtitle, Heading1-6, the default character and table
// styles, and TableGrid.
func DefaultStyles(font string, sizePt int) *Styles {
	s := &Styles{Font: font, FontSize: sizePt * 2}
	s.Styles = append(s.Styles,
		Style{Type: "paragraph", ID: "Normal", Name: "Normal", Default: true, QFormat: true,
			Paragraph: &StyleParagraph{SpacingAfter: 120}},
		Style{Type: "character", ID: "DefaultParagraphFont", Name: "Default Paragraph Font", Default: true,
			UIPriority: 1, SemiHidden: true, UnhideWhenUsed: true},
		Style{Type: "table", ID: "TableNormal", Name: "Normal Table", Default: true,
			UIPriority: 99, SemiHidden: true, UnhideWhenUsed: true,
			Table: &StyleTable{CellMarginLeft: 108, CellMarginRight: 108}},
		Style{Type: "table", ID: "TableGrid", Name: "Table Grid", BasedOn: "TableNormal", UIPriority: 39,
			Table: &StyleTable{Borders: SingleBorders(), CellMarginLeft: 108, CellMarginRight: 108}},
		Style{Type: "paragraph", ID: "Title", Name: "Title", BasedOn: "Normal", Next: "Normal", UIPriority: 10, QFormat: true,
			Paragraph: &StyleParagraph{SpacingAfter: 240, Alignment: "center"},
			Run:       &StyleRun{Bold: true, Size: 56}},
		Style{Type: "paragraph", ID: "Subtitle", Name: "Subtitle", BasedOn: "Normal", Next: "Normal", UIPriority: 11, QFormat: true,
			Paragraph: &StyleParagraph{SpacingAfter: 240, Alignment: "center"},
			Run:       &StyleRun{Italic: true, Color: "595959", Size: 30}},
	)
	for level := 1; level <= len(headingSizes); level++ {
		s.Styles = append(s.Styles, Style{
			Type:       "paragraph",
			ID:         fmt.Sprintf("Heading%d", level),
			Name:       fmt.Sprintf("heading %d", level),
			BasedOn:    "Normal",
			Next:       "Normal",
			UIPriority: 9,
			QFormat:    true,
			Paragraph:  &StyleParagraph{KeepNext: true, SpacingBefore: 240, SpacingAfter: 60, OutlineLevel: level},
			Run:        &StyleRun{Bold: true, Size: headingSizes[level-1]},
		})
	}
	return s
}

// Has reports whether a style with the given id is defined
func (s *Styles) Has(id string) bool {
	for _, st := range s.Styles {
		if st.ID == id {
			return true
		}
	}
	return false
}

// MarshalXML implements custom XML marshaling for Styles
func (s Styles) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:styles"}
	start.Attr = []xml.Attr{attr("xmlns:w", NamespaceW)}
	w := &tokenWriter{e: e}
	w.open(start)

	w.open(startElement("w:docDefaults"))
	w.open(startElement("w:rPrDefault"))
	w.open(startElement("w:rPr"))
	if s.Font != "" {
		w.empty("w:rFonts",
			attr("w:ascii", s.Font), attr("w:hAnsi", s.Font), attr("w:eastAsia", s.Font), attr("w:cs", s.Font))
	}
	if s.FontSize > 0 {
		w.empty("w:sz", intAttr("w:val", s.FontSize))
		w.empty("w:szCs", intAttr("w:val", s.FontSize))
	}
	w.empty("w:lang", attr("w:val", "en-US"))
	w.close()
	w.close()
	w.open(startElement("w:pPrDefault"))
	w.empty("w:pPr")
	w.close()
	w.close()

	for _, st := range s.Styles {
		if w.err != nil {
			break
		}
		w.err = e.Encode(st)
	}

	w.close()
	return w.err
}

// MarshalXML writes the style children in schema order
func (st Style) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	attrs := []xml.Attr{attr("w:type", st.Type)}
	if st.Default {
		attrs = append(attrs, attr("w:default", "1"))
	}
	attrs = append(attrs, attr("w:styleId", st.ID))
	w := &tokenWriter{e: e}
	w.open(startElement("w:style", attrs...))

	w.empty("w:name", attr("w:val", st.Name))
	if st.BasedOn != "" {
		w.empty("w:basedOn", attr("w:val", st.BasedOn))
	}
	if st.Next != "" {
		w.empty("w:next", attr("w:val", st.Next))
	}
	if st.UIPriority > 0 {
		w.empty("w:uiPriority", intAttr("w:val", st.UIPriority))
	}
	if st.SemiHidden {
		w.empty("w:semiHidden")
	}
	if st.UnhideWhenUsed {
		w.empty("w:unhideWhenUsed")
	}
	if st.QFormat {
		w.empty("w:qFormat")
	}

	if p := st.Paragraph; p != nil {
		w.open(startElement("w:pPr"))
		if p.KeepNext {
			w.empty("w:keepNext")
		}
		if p.SpacingBefore > 0 || p.SpacingAfter > 0 {
			w.empty("w:spacing", intAttr("w:before", p.SpacingBefore), intAttr("w:after", p.SpacingAfter))
		}
		if p.Alignment != "" {
			w.empty("w:jc", attr("w:val", p.Alignment))
		}
		if p.OutlineLevel > 0 {
			w.empty("w:outlineLvl", intAttr("w:val", p.OutlineLevel-1))
		}
		w.close()
	}

	if r := st.Run; r != nil {
		w.open(startElement("w:rPr"))
		if r.Bold {
			w.empty("w:b")
		}
		if r.Italic {
			w.empty("w:i")
		}
		if r.Color != "" {
			w.empty("w:color", attr("w:val", r.Color))
		}
		if r.Size > 0 {
			w.empty("w:sz", intAttr("w:val", r.Size))
			w.empty("w:szCs", intAttr("w:val", r.Size))
		}
		w.close()
	}

	if t := st.Table; t != nil {
		w.open(startElement("w:tblPr"))
		w.empty("w:tblInd", attr("w:w", "0"), attr("w:type", "dxa"))
		if t.Borders != nil && w.err == nil {
			w.err = e.Encode(t.Borders)
		}
		w.open(startElement("w:tblCellMar"))
		w.empty("w:top", intAttr("w:w", t.CellMarginTop), attr("w:type", "dxa"))
		w.empty("w:left", intAttr("w:w", t.CellMarginLeft), attr("w:type", "dxa"))
		w.empty("w:bottom", intAttr("w:w", t.CellMarginBottom), attr("w:type", "dxa"))
		w.empty("w:right", intAttr("w:w", t.CellMarginRight), attr("w:type", "dxa"))
		w.close()
		w.close()
	}

	w.close()
	return w.err
}
