package model

import (
	"fmt"
	"strings"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
)

// Block is a body-level element: *Paragraph or *Table.
type Block interface {
	isBlock()
}

// Inline is paragraph content: *Run or *Image.
type Inline interface {
	isInline()
}

// Alignment is the horizontal alignment of a paragraph.
type Alignment string

const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "both"
)

// Valid reports whether a is a known alignment.
func (a Alignment) Valid() bool {
	switch a {
	case AlignDefault, AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return true
	}
	return false
}

// Paragraph style identifiers defined by the generated styles part.
const (
	StyleNormal   = "Normal"
	StyleTitle    = "Title"
	StyleSubtitle = "Subtitle"
	MaxHeading    = 6
)

// HeadingStyle returns the style id for a heading level, clamped to 1..MaxHeading.
func HeadingStyle(level int) string {
	if level < 1 {
		level = 1
	}
	if level > MaxHeading {
		level = MaxHeading
	}
	return fmt.Sprintf("Heading%d", level)
}

// IsParagraphStyle reports whether id names a paragraph style the package defines.
func IsParagraphStyle(id string) bool {
	switch id {
	case "", StyleNormal, StyleTitle, StyleSubtitle:
		return true
	}
	for level := 1; level <= MaxHeading; level++ {
		if id == HeadingStyle(level) {
			return true
		}
	}
	return false
}

// RunProperties holds the formatting toggles of a run.
type RunProperties struct {
	Bold          bool
	Italic        bool
	Strikethrough bool
}

// IsZero reports whether no toggle is set.
func (p RunProperties) IsZero() bool {
	return !p.Bold && !p.Italic && !p.Strikethrough
}

// Run is a span of uniformly formatted text. Adjacent runs are never merged.
type Run struct {
	Text       string
	Properties RunProperties
}

func (*Run) isInline() {}

// NewRun creates a run with the given formatting
func NewRun(text string, props RunProperties) *Run {
	return &Run{Text: text, Properties: props}
}

// Text creates an unformatted run
func Text(text string) *Run {
	return &Run{Text: text}
}

// Bold creates a bold run
func Bold(text string) *Run {
	return &Run{Text: text, Properties: RunProperties{Bold: true}}
}

// Italic creates an italic run
func Italic(text string) *Run {
	return &Run{Text: text, Properties: RunProperties{Italic: true}}
}

// Strike creates a struck-through run
func Strike(text string) *Run {
	return &Run{Text: text, Properties: RunProperties{Strikethrough: true}}
}

// Paragraph is an ordered sequence of runs and inline images.
type Paragraph struct {
	Alignment Alignment
	Style     string
	Inlines   []Inline
}

func (*Paragraph) isBlock() {}

// NewParagraph creates a paragraph from the given inlines
func NewParagraph(inlines ...Inline) *Paragraph {
	return &Paragraph{Inlines: inlines}
}

// TextParagraph creates a paragraph holding a single unformatted run
func TextParagraph(text string) *Paragraph {
	return NewParagraph(Text(text))
}

// AddRun appends a run and returns the paragraph for chaining
func (p *Paragraph) AddRun(text string, props RunProperties) *Paragraph {
	p.Inlines = append(p.Inlines, NewRun(text, props))
	return p
}

// AddImage appends an inline image and returns the paragraph for chaining
func (p *Paragraph) AddImage(img *Image) *Paragraph {
	p.Inlines = append(p.Inlines, img)
	return p
}

// Runs returns the text runs of the paragraph in order
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, in := range p.Inlines {
		if r, ok := in.(*Run); ok && r != nil {
			runs = append(runs, r)
		}
	}
	return runs
}

// Text returns the concatenated text of all runs
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs() {
		b.WriteString(r.Text)
	}
	return b.String()
}

func (p *Paragraph) validate(node string) error {
	if !p.Alignment.Valid() {
		return derrors.Structuref(node, "unknown alignment %q", p.Alignment)
	}
	if !IsParagraphStyle(p.Style) {
		return derrors.Structuref(node, "unknown paragraph style %q", p.Style)
	}
	for i, in := range p.Inlines {
		switch v := in.(type) {
		case *Run:
			if v == nil {
				return derrors.Structuref(node, "run %d is nil", i+1)
			}
			if err := CheckText(fmt.Sprintf("%s > run %d", node, i+1), v.Text); err != nil {
				return err
			}
		case *Image:
			if v == nil {
				return derrors.Structuref(node, "image %d is nil", i+1)
			}
			if err := v.validate(fmt.Sprintf("%s > image %d", node, i+1)); err != nil {
				return err
			}
		default:
			return derrors.Structuref(node, "inline %d is nil", i+1)
		}
	}
	return nil
}
