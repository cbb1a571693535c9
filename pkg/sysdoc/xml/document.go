package xml

import (
	"encoding/xml"
)

// Document is the w:document root of the main document part.
type Document struct {
	Body Body
}

// documentNamespaces are declared on the root so every fragment below
// can use its prefix.
var documentNamespaces = []xml.Attr{
	attr("xmlns:w", NamespaceW),
	attr("xmlns:r", NamespaceR),
	attr("xmlns:wp", NamespaceWP),
	attr("xmlns:a", NamespaceA),
	attr("xmlns:pic", NamespacePic),
}

// MarshalXML implements custom XML marshaling for Document
func (d Document) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:document"}
	start.Attr = append([]xml.Attr(nil), documentNamespaces...)
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.Encode(d.Body); err != nil {
		return err
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Body is the w:body element. Section properties always come last.
type Body struct {
	Elements          []BodyElement
	SectionProperties *SectionProperties
}

// MarshalXML implements custom XML marshaling to preserve element order
func (b Body) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:body"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	for _, elem := range b.Elements {
		if err := e.Encode(elem); err != nil {
			return err
		}
	}

	if b.SectionProperties != nil {
		if err := e.Encode(b.SectionProperties); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// SectionProperties is the final w:sectPr of the body: page size and margins in twips.
type SectionProperties struct {
	PageWidth  int
	PageHeight int
	Margin     int
}

// MarshalXML implements custom XML marshaling for SectionProperties
func (s SectionProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:sectPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := emptyElement(e, "w:pgSz",
		intAttr("w:w", s.PageWidth),
		intAttr("w:h", s.PageHeight),
	); err != nil {
		return err
	}
	if err := emptyElement(e, "w:pgMar",
		intAttr("w:top", s.Margin),
		intAttr("w:right", s.Margin),
		intAttr("w:bottom", s.Margin),
		intAttr("w:left", s.Margin),
		intAttr("w:header", 708),
		intAttr("w:footer", 708),
		intAttr("w:gutter", 0),
	); err != nil {
		return err
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}
