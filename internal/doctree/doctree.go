package doctree

import (
	"strconv"
	"strings"
)

// Document is a source document flattened into its paragraphs.
type Document struct {
	Title      string      // Document title (from metadata or filename)
	Paragraphs []Paragraph // Paragraphs in reading order
}

// Paragraph is one block of text plus the style label it carried in the source.
type Paragraph struct {
	Text  string // Paragraph text, untrimmed
	Style string // Style id or name, e.g. "Heading1", "heading 2" (empty if none)
}

// HeadingStylePrefix marks a paragraph style as a section heading.
const HeadingStylePrefix = "heading"

// IsHeading reports whether the paragraph style denotes a heading.
func (p Paragraph) IsHeading() bool {
	return IsHeadingStyle(p.Style)
}

// IsHeadingStyle matches the heading prefix case-insensitively, so both
// style ids ("Heading1") and display names ("heading 1") qualify.
func IsHeadingStyle(style string) bool {
	if len(style) < len(HeadingStylePrefix) {
		return false
	}
	return strings.EqualFold(style[:len(HeadingStylePrefix)], HeadingStylePrefix)
}

// HeadingStyle returns the canonical style label for a heading of the given level.
func HeadingStyle(level int) string {
	return "Heading " + strconv.Itoa(level)
}
