// Package chunker splits long replies into messages that fit a chat's size
// limit, preferring paragraph, then line, then sentence boundaries.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageRunes is Telegram's limit for one text message.
const MaxMessageRunes = 4096

type level struct {
	split func(string) []string
	sep   string
}

// Coarsest boundary first; text that survives every level is cut by runes.
var levels = []level{
	{splitByParagraphs, "\n\n"},
	{splitByLines, "\n"},
	{splitSentences, " "},
}

// Split breaks text into parts of at most limit runes. Text that already fits
// comes back as a single part; blank text yields nil. A limit <= 0 means
// MaxMessageRunes.
func Split(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageRunes
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return splitLevel(text, limit, 0)
}

func splitLevel(text string, limit, depth int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	if depth == len(levels) {
		return splitRunes(text, limit)
	}

	lv := levels[depth]
	sepLen := utf8.RuneCountInString(lv.sep)

	var result []string
	var current strings.Builder
	currentLen := 0
	flush := func() {
		if currentLen > 0 {
			result = append(result, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, unit := range lv.split(text) {
		unitLen := utf8.RuneCountInString(unit)

		// A unit that cannot fit on its own goes down a level.
		if unitLen > limit {
			flush()
			result = append(result, splitLevel(unit, limit, depth+1)...)
			continue
		}

		if currentLen > 0 && currentLen+sepLen+unitLen > limit {
			flush()
		}
		if currentLen > 0 {
			current.WriteString(lv.sep)
			currentLen += sepLen
		}
		current.WriteString(unit)
		currentLen += unitLen
	}
	flush()

	return result
}

// splitByParagraphs splits on double-newlines.
func splitByParagraphs(text string) []string {
	return nonEmpty(strings.Split(text, "\n\n"))
}

func splitByLines(text string) []string {
	return nonEmpty(strings.Split(text, "\n"))
}

// splitSentences does basic sentence splitting.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	return nonEmpty(sentences)
}

func splitRunes(text string, limit int) []string {
	runes := []rune(text)
	var result []string
	for start := 0; start < len(runes); start += limit {
		end := min(start+limit, len(runes))
		result = append(result, string(runes[start:end]))
	}
	return result
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
