package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/faqbot/internal/doctree"
)

// TextParser handles plain text files. Every non-blank line is a paragraph;
// plain text carries no styles, so it never yields headings.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	doc := &doctree.Document{
		Title: titleFromFilename(filename, ".txt"),
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		doc.Paragraphs = append(doc.Paragraphs, doctree.Paragraph{Text: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return doc, nil
}
