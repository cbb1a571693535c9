package xml

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

// Namespaces declared by generated parts.
const (
	NamespaceW       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NamespaceR       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NamespaceWP      = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	NamespaceA       = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NamespacePic     = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	NamespaceASVG    = "http://schemas.microsoft.com/office/drawing/2016/SVG/main"
	NamespaceCP      = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	NamespaceDC      = "http://purl.org/dc/elements/1.1/"
	NamespaceDCTerms = "http://purl.org/dc/terms/"
	NamespaceXSI     = "http://www.w3.org/2001/XMLSchema-instance"
	NamespaceEP      = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	NamespaceVT      = "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"
)

// XMLHeader precedes every part.
const XMLHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// BodyElement is an element allowed in w:body and w:tc: *Paragraph or *Table.
type BodyElement interface {
	isBodyElement()
}

// RunContent is an element allowed in w:r after the run properties.
type RunContent interface {
	isRunContent()
}

// Empty is a toggle element such as <w:b/>. It is present or absent.
type Empty struct{}

// MarshalXML keeps the caller's element name and writes no attributes
func (Empty) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = nil
	return e.EncodeElement(struct{}{}, start)
}

// Val is an element carrying a single w:val attribute (w:pStyle, w:jc,
// w:tblStyle, ...). The element name comes from the caller.
type Val struct {
	Val string
}

// MarshalXML implements custom XML marshaling for Val
func (v Val) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:val"}, Value: v.Val},
	}
	return e.EncodeElement(struct{}{}, start)
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func intAttr(name string, value int) xml.Attr {
	return attr(name, strconv.Itoa(value))
}

func int64Attr(name string, value int64) xml.Attr {
	return attr(name, strconv.FormatInt(value, 10))
}

func startElement(name string, attrs ...xml.Attr) xml.StartElement {
	return xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
}

// emptyElement writes an element with attributes and no content
func emptyElement(e *xml.Encoder, name string, attrs ...xml.Attr) error {
	return e.EncodeElement(struct{}{}, startElement(name, attrs...))
}

// Fragment marshals a single element to a string, without XML declaration.
func Fragment(v any) (string, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// MarshalPart marshals a part root element with the XML declaration.
func MarshalPart(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(XMLHeader)
	if err := xml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
