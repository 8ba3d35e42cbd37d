package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/faqbot/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. ATX and setext
// headings become "Heading N" paragraphs; every other line of prose and every
// list item becomes a body paragraph.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	doc := &doctree.Document{
		Title: titleFromFilename(filename, ".md", ".markdown"),
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			doc.Paragraphs = append(doc.Paragraphs, doctree.Paragraph{
				Text:  inlineText(h, src),
				Style: doctree.HeadingStyle(h.Level),
			})
			continue
		}
		for _, line := range blockLines(n, src) {
			doc.Paragraphs = append(doc.Paragraphs, doctree.Paragraph{Text: line})
		}
	}

	return doc, nil
}

// blockLines flattens a block node into body paragraphs.
func blockLines(n ast.Node, src []byte) []string {
	var out []string
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		out = append(out, splitLines(inlineText(node, src))...)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			out = append(out, splitLines(string(seg.Value(src)))...)
		}
	case *ast.List:
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			var parts []string
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				parts = append(parts, blockLines(c, src)...)
			}
			if len(parts) > 0 {
				out = append(out, strings.Join(parts, " "))
			}
		}
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			out = append(out, blockLines(c, src)...)
		}
	}
	return out
}

// inlineText collects the text of a node's inline children, keeping line breaks.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.AutoLink:
			buf.Write(t.Label(src))
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
