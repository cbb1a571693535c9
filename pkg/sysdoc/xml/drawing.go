package xml

import (
	"encoding/xml"
	"strconv"
)

// EMUPerPixel converts 96 DPI pixels to English Metric Units.
const EMUPerPixel = 9525

// EMUPerTwip converts twips (1/20 pt) to English Metric Units.
const EMUPerTwip = 635

// SVGExtensionURI identifies the SVG blip extension inside a:extLst.
const SVGExtensionURI = "{96DAC541-7B7A-43D3-8B79-37D633B846F1}"

const pictureURI = "http://schemas.openxmlformats.org/drawingml/2006/picture"

// Drawing is a w:drawing holding one inline picture.
//
// EmbedID references the raster image. When SVGEmbedID is set the picture
// also carries an asvg:svgBlip extension referencing the vector original,
// and EmbedID is its raster fallback.
type Drawing struct {
	ID          int // wp:docPr id, unique within the document
	Name        string
	Description string
	FileName    string
	CX, CY      int64 // extent in EMU
	EmbedID     string
	SVGEmbedID  string
}

func (*Drawing) isRunContent() {}

// MarshalXML implements custom XML marshaling for Drawing
func (d Drawing) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:drawing"}
	start.Attr = nil
	w := &tokenWriter{e: e}

	w.open(start)
	w.open(startElement("wp:inline",
		attr("distT", "0"), attr("distB", "0"), attr("distL", "0"), attr("distR", "0")))
	w.empty("wp:extent", int64Attr("cx", d.CX), int64Attr("cy", d.CY))
	w.empty("wp:effectExtent", attr("l", "0"), attr("t", "0"), attr("r", "0"), attr("b", "0"))

	docPr := []xml.Attr{intAttr("id", d.ID), attr("name", d.Name)}
	if d.Description != "" {
		docPr = append(docPr, attr("descr", d.Description))
	}
	w.empty("wp:docPr", docPr...)

	w.open(startElement("wp:cNvGraphicFramePr"))
	w.empty("a:graphicFrameLocks", attr("noChangeAspect", "1"))
	w.close()

	w.open(startElement("a:graphic"))
	w.open(startElement("a:graphicData", attr("uri", pictureURI)))
	w.open(startElement("pic:pic"))

	w.open(startElement("pic:nvPicPr"))
	w.empty("pic:cNvPr", attr("id", strconv.Itoa(d.ID)), attr("name", d.FileName))
	w.empty("pic:cNvPicPr")
	w.close()

	w.open(startElement("pic:blipFill"))
	if d.SVGEmbedID == "" {
		w.empty("a:blip", attr("r:embed", d.EmbedID))
	} else {
		w.open(startElement("a:blip", attr("r:embed", d.EmbedID)))
		w.open(startElement("a:extLst"))
		w.open(startElement("a:ext", attr("uri", SVGExtensionURI)))
		w.empty("asvg:svgBlip", attr("xmlns:asvg", NamespaceASVG), attr("r:embed", d.SVGEmbedID))
		w.close()
		w.close()
		w.close()
	}
	w.open(startElement("a:stretch"))
	w.empty("a:fillRect")
	w.close()
	w.close()

	w.open(startElement("pic:spPr"))
	w.open(startElement("a:xfrm"))
	w.empty("a:off", attr("x", "0"), attr("y", "0"))
	w.empty("a:ext", int64Attr("cx", d.CX), int64Attr("cy", d.CY))
	w.close()
	w.open(startElement("a:prstGeom", attr("prst", "rect")))
	w.empty("a:avLst")
	w.close()
	w.close()

	w.close() // pic:pic
	w.close() // a:graphicData
	w.close() // a:graphic
	w.close() // wp:inline
	w.close() // w:drawing
	return w.err
}

// tokenWriter writes nested elements and keeps the first error.
type tokenWriter struct {
	e     *xml.Encoder
	stack []xml.StartElement
	err   error
}

func (w *tokenWriter) open(s xml.StartElement) {
	if w.err != nil {
		return
	}
	w.err = w.e.EncodeToken(s)
	w.stack = append(w.stack, s)
}

func (w *tokenWriter) close() {
	if w.err != nil || len(w.stack) == 0 {
		return
	}
	s := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	w.err = w.e.EncodeToken(s.End())
}

func (w *tokenWriter) empty(name string, attrs ...xml.Attr) {
	if w.err != nil {
		return
	}
	w.err = emptyElement(w.e, name, attrs...)
}

// PixelsToEMU converts a pixel length at 96 DPI to EMU
func PixelsToEMU(px int) int64 {
	return int64(px) * EMUPerPixel
}
