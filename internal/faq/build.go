package faq

import (
	"strings"

	"github.com/dgallion1/faqbot/internal/doctree"
)

const (
	questionMarker = "❓"
	answerMarker   = "✅"
	questionLabel  = "pregunta:"
	answerLabel    = "respuesta:"
)

// Build parses documents in order and merges them into one Index.
// A category appearing in several documents accumulates entries from all of them.
func Build(docs ...*doctree.Document) *Index {
	ix := newIndex()
	for _, d := range docs {
		if d == nil {
			continue
		}
		parseDocument(ix, d)
	}
	return ix
}

// parseDocument scans paragraphs keeping the current heading and the most
// recent unanswered question. Questions left unanswered at a heading or at
// the end of the document are dropped.
func parseDocument(ix *Index, d *doctree.Document) {
	category := ""
	pending := ""

	commit := func(answer string) {
		if answer == "" {
			return
		}
		cat := category
		if cat == "" {
			cat = DefaultCategory
		}
		ix.add(cat, Entry{Question: pending, Answer: answer})
		pending = ""
	}

	for _, p := range d.Paragraphs {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}

		if p.IsHeading() {
			category = text
			ix.ensure(category)
			pending = ""
			continue
		}

		if strings.HasPrefix(text, questionMarker) {
			pending = strings.TrimSpace(strings.ReplaceAll(text, questionMarker, ""))
			continue
		}
		if strings.HasPrefix(text, answerMarker) && pending != "" {
			commit(strings.TrimSpace(strings.ReplaceAll(text, answerMarker, "")))
			continue
		}

		low := strings.ToLower(text)
		if strings.HasPrefix(low, questionLabel) {
			pending = afterColon(text)
			continue
		}
		if strings.HasPrefix(low, answerLabel) && pending != "" {
			commit(afterColon(text))
		}
	}
}

func afterColon(s string) string {
	_, rest, _ := strings.Cut(s, ":")
	return strings.TrimSpace(rest)
}
