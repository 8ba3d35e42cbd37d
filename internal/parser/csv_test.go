package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/faqbot/internal/doctree"
)

func TestCSVParser_ExpandsRows(t *testing.T) {
	input := "Categoría,Pregunta,Respuesta\n" +
		"Obligaciones,¿Quién registra?,El empleador\n" +
		"Obligaciones,¿Dónde?,En el SUT\n" +
		"Brigadas,¿Cuántas?,Al menos una\n"

	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "banco.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "banco" {
		t.Errorf("expected title %q, got %q", "banco", doc.Title)
	}

	want := []doctree.Paragraph{
		{Text: "Obligaciones", Style: "Heading 1"},
		{Text: "Pregunta: ¿Quién registra?"},
		{Text: "Respuesta: El empleador"},
		{Text: "Pregunta: ¿Dónde?"},
		{Text: "Respuesta: En el SUT"},
		{Text: "Brigadas", Style: "Heading 1"},
		{Text: "Pregunta: ¿Cuántas?"},
		{Text: "Respuesta: Al menos una"},
	}
	if len(doc.Paragraphs) != len(want) {
		t.Fatalf("expected %d paragraphs, got %d: %#v", len(want), len(doc.Paragraphs), doc.Paragraphs)
	}
	for i, w := range want {
		if doc.Paragraphs[i] != w {
			t.Errorf("paragraph[%d]: expected %+v, got %+v", i, w, doc.Paragraphs[i])
		}
	}
}

func TestCSVParser_ReorderedColumnsWithoutCategory(t *testing.T) {
	input := "answer,question\nSí,¿Aplica?\n"
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "qa.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(doc.Paragraphs))
	}
	if doc.Paragraphs[0].Text != "Pregunta: ¿Aplica?" || doc.Paragraphs[1].Text != "Respuesta: Sí" {
		t.Errorf("unexpected paragraphs: %#v", doc.Paragraphs)
	}
}

func TestCSVParser_MissingColumns(t *testing.T) {
	p := &CSVParser{}
	if _, err := p.Parse(strings.NewReader("foo,bar\n1,2\n"), "x.csv"); err == nil {
		t.Fatal("expected error when question/answer columns are missing")
	}
}

func TestCSVParser_Empty(t *testing.T) {
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Paragraphs) != 0 {
		t.Errorf("expected no paragraphs, got %d", len(doc.Paragraphs))
	}
}
