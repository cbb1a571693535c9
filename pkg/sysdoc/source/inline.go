package source

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/model"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Strikethrough))

// ParseInline converts inline markdown into runs: **bold**, *italic* and
// ~~strike~~ set the matching toggles, hard line breaks become "\n" and
// soft breaks a space. Everything else contributes its text only.
func ParseInline(src string) []*model.Run {
	var runs []*model.Run
	for _, p := range ParseParagraphs(src) {
		if len(runs) > 0 {
			runs = append(runs, model.Text("\n"))
		}
		runs = append(runs, p.Runs()...)
	}
	return runs
}

// ParseParagraphs converts markdown into one paragraph per block of text.
// List items and code block lines become paragraphs of their own.
func ParseParagraphs(src string) []*model.Paragraph {
	source := []byte(src)
	root := markdown.Parser().Parse(text.NewReader(source))

	var out []*model.Paragraph
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Paragraph, *gmast.TextBlock, *gmast.Heading:
			c := &collector{source: source}
			c.children(node, model.RunProperties{})
			if runs := c.flush(); len(runs) > 0 {
				out = append(out, model.NewParagraph(runs...))
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.FencedCodeBlock, *gmast.CodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				line := strings.TrimRight(string(seg.Value(source)), "\r\n")
				out = append(out, model.TextParagraph(line))
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return out
}

// collector accumulates text with the current toggles and starts a new run
// whenever the toggles change.
type collector struct {
	source []byte
	runs   []model.Inline
	buf    strings.Builder
	props  model.RunProperties
}

func (c *collector) write(s string, props model.RunProperties) {
	if s == "" {
		return
	}
	if props != c.props && c.buf.Len() > 0 {
		c.runs = append(c.runs, model.NewRun(c.buf.String(), c.props))
		c.buf.Reset()
	}
	c.props = props
	c.buf.WriteString(s)
}

func (c *collector) flush() []model.Inline {
	if c.buf.Len() > 0 {
		c.runs = append(c.runs, model.NewRun(c.buf.String(), c.props))
		c.buf.Reset()
	}
	return c.runs
}

func (c *collector) children(n gmast.Node, props model.RunProperties) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		c.inline(child, props)
	}
}

func (c *collector) inline(n gmast.Node, props model.RunProperties) {
	switch node := n.(type) {
	case *gmast.Text:
		c.write(string(node.Segment.Value(c.source)), props)
		switch {
		case node.HardLineBreak():
			c.write("\n", props)
		case node.SoftLineBreak():
			c.write(" ", props)
		}
	case *gmast.String:
		c.write(string(node.Value), props)
	case *gmast.Emphasis:
		if node.Level >= 2 {
			props.Bold = true
		} else {
			props.Italic = true
		}
		c.children(node, props)
	case *extast.Strikethrough:
		props.Strikethrough = true
		c.children(node, props)
	case *gmast.AutoLink:
		c.write(string(node.Label(c.source)), props)
	case *gmast.RawHTML:
		// dropped
	default:
		c.children(node, props)
	}
}
