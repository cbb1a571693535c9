package render

import (
	"log/slog"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/internal/logfields"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/model"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/opc"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/raster"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/xml"
)

// Page geometry defaults in twips (A4 portrait, one inch margins).
const (
	DefaultPageWidth  = 11906
	DefaultPageHeight = 16838
	DefaultPageMargin = 1440
)

// Application is written to the extended properties part.
const Application = "go-sysdoc"

// Options controls serialization.
type Options struct {
	PageWidth  int // twips
	PageHeight int // twips
	PageMargin int // twips, all four sides

	Font     string
	FontSize int // points

	// Fallbacks holds the PNG renderings of vector images by walk index.
	Fallbacks *raster.Results

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.PageWidth <= 0 {
		o.PageWidth = DefaultPageWidth
	}
	if o.PageHeight <= 0 {
		o.PageHeight = DefaultPageHeight
	}
	if o.PageMargin <= 0 {
		o.PageMargin = DefaultPageMargin
	}
	if o.Font == "" {
		o.Font = "Calibri"
	}
	if o.FontSize <= 0 {
		o.FontSize = 11
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// TextWidth returns the width of the text column in twips
func (o Options) TextWidth() int {
	o = o.withDefaults()
	w := o.PageWidth - 2*o.PageMargin
	if w < 1 {
		w = 1
	}
	return w
}

// Serializer turns model nodes into xml elements for one document part.
// It is not safe for concurrent use.
type Serializer struct {
	reg       *opc.Registry
	part      opc.PartID
	opts      Options
	textWidth int

	images   int // images serialized so far, in walk order
	drawings int // last wp:docPr id
	logger   *slog.Logger
}

// NewSerializer creates a serializer emitting content for part, which owns
// the media relationships it creates.
func NewSerializer(reg *opc.Registry, part opc.PartID, opts Options) *Serializer {
	opts = opts.withDefaults()
	return &Serializer{
		reg:       reg,
		part:      part,
		opts:      opts,
		textWidth: opts.TextWidth(),
		logger:    opts.Logger,
	}
}

// Package serializes doc into reg: the main document part and its
// package relationship, the styles part, the core and extended properties
// and every media part. It returns the id of the main document part.
func Package(reg *opc.Registry, doc *model.Document, opts Options) (opc.PartID, error) {
	if doc == nil {
		return 0, derrors.NewStructureError("document", "document is nil")
	}
	opts = opts.withDefaults()

	docPart, err := reg.DeclarePart(opc.DocumentPath, opc.ContentTypeDocumentMain)
	if err != nil {
		return 0, err
	}
	if _, err := reg.AddRelationship(opc.PackageRoot, opc.RelTypeOfficeDocument, docPart); err != nil {
		return 0, err
	}
	if err := registerProperties(reg, doc); err != nil {
		return 0, err
	}
	if err := registerStyles(reg, docPart, opts); err != nil {
		return 0, err
	}

	s := NewSerializer(reg, docPart, opts)
	body, err := s.Body(doc)
	if err != nil {
		return 0, err
	}
	data, err := xml.MarshalPart(xml.Document{Body: *body})
	if err != nil {
		return 0, err
	}
	if err := reg.SetContent(docPart, data); err != nil {
		return 0, err
	}
	s.logger.Debug("Serialized main document",
		logfields.Path(opc.DocumentPath),
		logfields.Bytes(len(data)),
		logfields.Count(s.images))
	return docPart, nil
}
