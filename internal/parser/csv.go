package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/faqbot/internal/doctree"
)

// CSVParser handles question banks exported as spreadsheets. The first row is
// a header naming the category, question and answer columns; each data row is
// expanded into the same paragraph shapes a word-processor document would use.
type CSVParser struct{}

var csvColumnNames = map[string][]string{
	"category": {"category", "categoria", "categoría", "tema"},
	"question": {"question", "pregunta"},
	"answer":   {"answer", "respuesta"},
}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &doctree.Document{
		Title: titleFromFilename(filename, ".csv"),
	}
	if len(records) == 0 {
		return doc, nil
	}

	catCol, qCol, aCol := csvColumns(records[0])
	if qCol < 0 || aCol < 0 {
		return nil, fmt.Errorf("parse csv: header must name question and answer columns")
	}

	lastCategory := ""
	for _, row := range records[1:] {
		if cat := csvField(row, catCol); cat != "" && cat != lastCategory {
			doc.Paragraphs = append(doc.Paragraphs, doctree.Paragraph{
				Text:  cat,
				Style: doctree.HeadingStyle(1),
			})
			lastCategory = cat
		}
		doc.Paragraphs = append(doc.Paragraphs,
			doctree.Paragraph{Text: "Pregunta: " + csvField(row, qCol)},
			doctree.Paragraph{Text: "Respuesta: " + csvField(row, aCol)},
		)
	}

	return doc, nil
}

// csvColumns locates the columns by header name, falling back to the
// positional layout category,question,answer. Missing columns are -1.
func csvColumns(header []string) (cat, question, answer int) {
	cat, question, answer = -1, -1, -1
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		switch {
		case containsString(csvColumnNames["category"], h):
			cat = i
		case containsString(csvColumnNames["question"], h):
			question = i
		case containsString(csvColumnNames["answer"], h):
			answer = i
		}
	}
	if cat < 0 && question < 0 && answer < 0 && len(header) >= 3 {
		return 0, 1, 2
	}
	return cat, question, answer
}

func csvField(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
