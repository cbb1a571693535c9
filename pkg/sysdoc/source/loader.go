package source

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"gopkg.in/yaml.v3"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/internal/logfields"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/model"
	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/raster"
)

// Description is the YAML form of a document.
type Description struct {
	Metadata model.Metadata `yaml:"metadata"`
	Sections []SectionEntry  `yaml:"sections"`
}

// SectionEntry is the YAML form of a section.
type SectionEntry struct {
	Number                  string      `yaml:"number"`
	Title                   string      `yaml:"title"`
	ID                      string      `yaml:"id"`
	TracedIDs               []string    `yaml:"traced_ids"`
	GenerateSectionToTraced bool        `yaml:"generate_section_to_traced"`
	GenerateTracedToSection bool        `yaml:"generate_traced_to_section"`
	Blocks                  []BlockEntry `yaml:"blocks"`
}

// BlockEntry is the YAML form of a block. Exactly one of Paragraph, Image,
// Rows and CSV must be set.
type BlockEntry struct {
	Paragraph string `yaml:"paragraph"`
	Style     string `yaml:"style"`
	Align     string `yaml:"align"`

	Image  string `yaml:"image"`
	Alt    string `yaml:"alt"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	Rows         [][]string `yaml:"rows"`
	CSV          string     `yaml:"csv"`
	Header       bool       `yaml:"header"`
	ColumnWidths []int      `yaml:"column_widths"`
}

func (b BlockEntry) kinds() []string {
	var kinds []string
	if b.Paragraph != "" {
		kinds = append(kinds, "paragraph")
	}
	if b.Image != "" {
		kinds = append(kinds, "image")
	}
	if len(b.Rows) > 0 {
		kinds = append(kinds, "rows")
	}
	if b.CSV != "" {
		kinds = append(kinds, "csv")
	}
	return kinds
}

// Loader reads descriptions and the files they reference.
type Loader struct {
	fs     billy.Filesystem
	logger *slog.Logger
}

// NewLoader creates a loader over fs
func NewLoader(fs billy.Filesystem, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{fs: fs, logger: logger}
}

// Load reads the description at name and builds the document it describes.
func (l *Loader) Load(name string) (*model.Document, error) {
	data, err := l.readFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read document description: %w", err)
	}
	desc, err := ParseDescription(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	doc, err := l.Document(desc, path.Dir(name))
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Loaded document description",
		logfields.Path(name),
		logfields.Count(len(doc.Sections)))
	return doc, nil
}

// ParseDescription decodes a YAML description. Unknown keys are rejected.
func ParseDescription(data []byte) (*Description, error) {
	var desc Description
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&desc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &desc, nil
}

// Document builds a document from desc; file references resolve against dir.
func (l *Loader) Document(desc *Description, dir string) (*model.Document, error) {
	doc := model.NewDocument(desc.Metadata)
	for i, entry := range desc.Sections {
		sec, err := model.NewSection(entry.Number, entry.Title)
		if err != nil {
			return nil, derrors.Structuref(fmt.Sprintf("section %d", i+1), "%v", err)
		}
		sec.ID = entry.ID
		sec.TracedIDs = entry.TracedIDs
		sec.GenerateSectionToTraced = entry.GenerateSectionToTraced
		sec.GenerateTracedToSection = entry.GenerateTracedToSection

		for j, b := range entry.Blocks {
			node := fmt.Sprintf("section %d > block %d", i+1, j+1)
			blocks, err := l.blocks(b, node, dir)
			if err != nil {
				return nil, err
			}
			if err := sec.Add(blocks...); err != nil {
				return nil, err
			}
		}
		if err := doc.AddSection(sec); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (l *Loader) blocks(b BlockEntry, node, dir string) ([]model.Block, error) {
	switch kinds := b.kinds(); len(kinds) {
	case 0:
		return nil, derrors.Structuref(node, "block is empty")
	case 1:
	default:
		return nil, derrors.Structuref(node, "block sets %s, expected exactly one", strings.Join(kinds, " and "))
	}

	switch {
	case b.Paragraph != "":
		return paragraphs(b, node)
	case b.Image != "":
		img, err := l.image(b, node, dir)
		if err != nil {
			return nil, err
		}
		p := model.NewParagraph(img)
		p.Alignment = alignment(b.Align)
		return []model.Block{p}, nil
	default:
		t, err := l.table(b, node, dir)
		if err != nil {
			return nil, err
		}
		return []model.Block{t}, nil
	}
}

func paragraphs(b BlockEntry, node string) ([]model.Block, error) {
	align := alignment(b.Align)
	if !align.Valid() {
		return nil, derrors.Structuref(node, "unknown alignment %q", b.Align)
	}
	var out []model.Block
	for _, p := range ParseParagraphs(b.Paragraph) {
		p.Style = b.Style
		p.Alignment = align
		out = append(out, p)
	}
	return out, nil
}

func alignment(s string) model.Alignment {
	switch strings.ToLower(s) {
	case "justify", "justified":
		return model.AlignJustify
	default:
		return model.Alignment(strings.ToLower(s))
	}
}

func (l *Loader) image(b BlockEntry, node, dir string) (*model.Image, error) {
	p := path.Join(dir, b.Image)
	data, err := l.readFile(p)
	if err != nil {
		return nil, derrors.NewAssetError(b.Image, node, "failed to read image file", err)
	}

	var img *model.Image
	if strings.EqualFold(path.Ext(p), ".svg") || model.LooksLikeSVG(data) {
		w, h := b.Width, b.Height
		if w <= 0 || h <= 0 {
			sw, sh, err := raster.SVGSize(data)
			if err != nil {
				return nil, derrors.NewAssetError(b.Image, node, "cannot determine SVG size", err)
			}
			w, h = scaleTo(sw, sh, b.Width, b.Height)
		}
		img, err = model.NewVectorImage(b.Image, data, w, h)
	} else {
		img, err = model.NewRasterImage(b.Image, data)
		if err == nil {
			img.Width, img.Height = scaleTo(img.Width, img.Height, b.Width, b.Height)
		}
	}
	if err != nil {
		var assetErr *derrors.AssetError
		if errors.As(err, &assetErr) && assetErr.Node == "" {
			assetErr.Node = node
		}
		return nil, err
	}
	img.AltText = b.Alt
	return img, nil
}

// scaleTo applies a requested size to an intrinsic one. A single requested
// side keeps the aspect ratio.
func scaleTo(w, h, reqW, reqH int) (int, int) {
	switch {
	case reqW > 0 && reqH > 0:
		return reqW, reqH
	case reqW > 0 && w > 0:
		return reqW, max(1, h*reqW/w)
	case reqH > 0 && h > 0:
		return max(1, w*reqH/h), reqH
	}
	return w, h
}

func (l *Loader) table(b BlockEntry, node, dir string) (*model.Table, error) {
	var (
		t   *model.Table
		err error
	)
	if b.CSV != "" {
		f, ferr := l.fs.Open(path.Join(dir, b.CSV))
		if ferr != nil {
			return nil, fmt.Errorf("%s: failed to open CSV table: %w", node, ferr)
		}
		defer f.Close()
		t, err = ReadCSVTable(f, node, b.Header)
	} else {
		t, err = TableFromRecords(b.Rows, node, b.Header)
	}
	if err != nil {
		return nil, err
	}
	if len(b.ColumnWidths) > 0 {
		if err := t.SetColumnWidths(b.ColumnWidths...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (l *Loader) readFile(name string) ([]byte, error) {
	f, err := l.fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
