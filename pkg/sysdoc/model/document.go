package model

import (
	"fmt"
	"strings"
	"time"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
)

// Person identifies a document owner or approver.
type Person struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// String formats the person as "Name <email>"
func (p Person) String() string {
	switch {
	case p.Name != "" && p.Email != "":
		return fmt.Sprintf("%s <%s>", p.Name, p.Email)
	case p.Name != "":
		return p.Name
	default:
		return p.Email
	}
}

// Metadata describes the document as a whole. It is written to the core
// and extended properties parts and drives the title block.
type Metadata struct {
	DocumentID     string     `yaml:"document_id"`
	SystemID       string     `yaml:"system_id"`
	Title          string     `yaml:"title"`
	Subtitle       string     `yaml:"subtitle"`
	Description    string     `yaml:"description"`
	DocType        string     `yaml:"doc_type"`
	Standard       string     `yaml:"standard"`
	Owner          Person     `yaml:"owner"`
	Approver       Person     `yaml:"approver"`
	Version        string     `yaml:"version"`
	Modified       time.Time  `yaml:"modified"`
	ProtectionMark string     `yaml:"protection_mark"`
	Revisions      []Revision `yaml:"revisions"`
}

// Section is an ordered sequence of blocks, optionally introduced by a heading.
type Section struct {
	Number SectionNumber
	Title  string

	// Traceability
	ID                      string
	TracedIDs               []string
	GenerateSectionToTraced bool
	GenerateTracedToSection bool

	Blocks []Block
}

// NewSection creates an empty section
func NewSection(number, title string) (*Section, error) {
	s := &Section{Title: title}
	if number != "" {
		n, err := ParseSectionNumber(number)
		if err != nil {
			return nil, err
		}
		s.Number = n
	}
	return s, nil
}

// Add appends blocks to the section. Nil blocks are rejected.
func (s *Section) Add(blocks ...Block) error {
	for i, b := range blocks {
		if isNilBlock(b) {
			return derrors.Structuref(s.label(), "block %d is nil", len(s.Blocks)+i+1)
		}
	}
	s.Blocks = append(s.Blocks, blocks...)
	return nil
}

// AddParagraph appends a new paragraph holding the inlines and returns it
func (s *Section) AddParagraph(inlines ...Inline) *Paragraph {
	p := NewParagraph(inlines...)
	s.Blocks = append(s.Blocks, p)
	return p
}

// HeadingLevel returns the heading level of the section title (1 for top level).
func (s *Section) HeadingLevel() int {
	return s.Number.Depth() + 1
}

// HeadingText returns the text of the section heading, e.g. "1.2 Overview".
func (s *Section) HeadingText() string {
	if s.Number.IsZero() {
		return s.Title
	}
	if s.Title == "" {
		return s.Number.String()
	}
	return s.Number.String() + " " + s.Title
}

func (s *Section) label() string {
	if !s.Number.IsZero() {
		return "section " + s.Number.String()
	}
	if s.Title != "" {
		return fmt.Sprintf("section '%s'", s.Title)
	}
	return "section"
}

// Document is the root of the model.
type Document struct {
	Metadata Metadata
	Sections []*Section
}

// NewDocument creates an empty document
func NewDocument(meta Metadata) *Document {
	return &Document{Metadata: meta}
}

// AddSection appends a section
func (d *Document) AddSection(s *Section) error {
	if s == nil {
		return derrors.Structuref("document", "section %d is nil", len(d.Sections)+1)
	}
	d.Sections = append(d.Sections, s)
	return nil
}

// Validate checks the whole tree. Construction APIs already reject most
// invalid states; Validate also catches models assembled from struct literals.
func (d *Document) Validate() error {
	if d == nil {
		return derrors.Structuref("document", "document is nil")
	}
	errs := derrors.NewMultiError()
	errs.Add(d.Metadata.Validate())
	for i, s := range d.Sections {
		node := fmt.Sprintf("section %d", i+1)
		if s == nil {
			errs.Add(derrors.Structuref(node, "section is nil"))
			continue
		}
		errs.Add(s.checkText(node))
		errs.Add(validateBlocks(node, s.Blocks))
	}
	return errs.Err()
}

func validateBlocks(node string, blocks []Block) error {
	for i, b := range blocks {
		switch v := b.(type) {
		case *Paragraph:
			if v == nil {
				return derrors.Structuref(node, "block %d is nil", i+1)
			}
			if err := v.validate(fmt.Sprintf("%s > paragraph %d", node, i+1)); err != nil {
				return err
			}
		case *Table:
			if v == nil {
				return derrors.Structuref(node, "block %d is nil", i+1)
			}
			if err := v.validate(fmt.Sprintf("%s > table %d", node, i+1)); err != nil {
				return err
			}
		default:
			return derrors.Structuref(node, "block %d is nil", i+1)
		}
	}
	return nil
}

// Stats summarizes the content of a document.
type Stats struct {
	Sections   int
	Paragraphs int
	Tables     int
	Images     int
	Words      int
}

// Stats counts sections, paragraphs, tables, images and words
func (d *Document) Stats() Stats {
	st := Stats{Sections: len(d.Sections)}
	for _, s := range d.Sections {
		if s != nil {
			st.add(s.Blocks)
		}
	}
	return st
}

func (st *Stats) add(blocks []Block) {
	for _, b := range blocks {
		switch v := b.(type) {
		case *Paragraph:
			if v == nil {
				continue
			}
			st.Paragraphs++
			for _, in := range v.Inlines {
				switch x := in.(type) {
				case *Run:
					if x == nil {
						continue
					}
					st.Words += len(strings.Fields(x.Text))
				case *Image:
					if x != nil {
						st.Images++
					}
				}
			}
		case *Table:
			if v == nil {
				continue
			}
			st.Tables++
			for _, row := range v.rows {
				for _, cell := range row.cells {
					st.add(cell.blocks)
				}
			}
		}
	}
}

// WalkImages calls fn for every image in document order. loc describes the
// position of the image for diagnostics.
func (d *Document) WalkImages(fn func(loc string, img *Image) error) error {
	for i, s := range d.Sections {
		if s == nil {
			continue
		}
		if err := walkImages(fmt.Sprintf("section %d", i+1), s.Blocks, fn); err != nil {
			return err
		}
	}
	return nil
}

func walkImages(node string, blocks []Block, fn func(string, *Image) error) error {
	for i, b := range blocks {
		switch v := b.(type) {
		case *Paragraph:
			if v == nil {
				continue
			}
			p := fmt.Sprintf("%s > paragraph %d", node, i+1)
			for j, in := range v.Inlines {
				if img, ok := in.(*Image); ok && img != nil {
					if err := fn(fmt.Sprintf("%s > image %d", p, j+1), img); err != nil {
						return err
					}
				}
			}
		case *Table:
			if v == nil {
				continue
			}
			t := fmt.Sprintf("%s > table %d", node, i+1)
			for r, row := range v.rows {
				for c, cell := range row.cells {
					if err := walkImages(fmt.Sprintf("%s > row %d > cell %d", t, r+1, c+1), cell.blocks, fn); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
