package xml

import (
	"encoding/xml"
	"strconv"
	"time"
)

// CoreProperties is the cp:coreProperties root of docProps/core.xml.
// Empty fields are omitted.
type CoreProperties struct {
	Title          string
	Subject        string
	Creator        string
	Description    string
	Identifier     string
	Keywords       string
	Category       string
	LastModifiedBy string
	Version        string
	Revision       int
	Created        time.Time
	Modified       time.Time
}

// MarshalXML implements custom XML marshaling for CoreProperties
func (c CoreProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "cp:coreProperties"}
	start.Attr = []xml.Attr{
		attr("xmlns:cp", NamespaceCP),
		attr("xmlns:dc", NamespaceDC),
		attr("xmlns:dcterms", NamespaceDCTerms),
		attr("xmlns:xsi", NamespaceXSI),
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	fields := []struct {
		name, value string
	}{
		{"dc:title", c.Title},
		{"dc:subject", c.Subject},
		{"dc:creator", c.Creator},
		{"cp:keywords", c.Keywords},
		{"dc:description", c.Description},
		{"dc:identifier", c.Identifier},
		{"cp:category", c.Category},
		{"cp:lastModifiedBy", c.LastModifiedBy},
		{"cp:version", c.Version},
	}
	if c.Revision > 0 {
		fields = append(fields, struct{ name, value string }{"cp:revision", strconv.Itoa(c.Revision)})
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := e.EncodeElement(f.value, startElement(f.name)); err != nil {
			return err
		}
	}

	for _, ts := range []struct {
		name string
		t    time.Time
	}{
		{"dcterms:created", c.Created},
		{"dcterms:modified", c.Modified},
	} {
		if ts.t.IsZero() {
			continue
		}
		s := startElement(ts.name, attr("xsi:type", "dcterms:W3CDTF"))
		if err := e.EncodeElement(ts.t.UTC().Format(time.RFC3339), s); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// AppProperties is the Properties root of docProps/app.xml.
type AppProperties struct {
	Application string
	Company     string
	Words       int
	Paragraphs  int
	Characters  int
}

// MarshalXML implements custom XML marshaling for AppProperties
func (a AppProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "Properties"}
	start.Attr = []xml.Attr{
		attr("xmlns", NamespaceEP),
		attr("xmlns:vt", NamespaceVT),
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	fields := []struct {
		name, value string
	}{
		{"Application", a.Application},
		{"DocSecurity", "0"},
		{"Words", strconv.Itoa(a.Words)},
		{"Characters", strconv.Itoa(a.Characters)},
		{"Paragraphs", strconv.Itoa(a.Paragraphs)},
		{"Company", a.Company},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := e.EncodeElement(f.value, startElement(f.name)); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}
