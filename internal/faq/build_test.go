package faq

import (
	"reflect"
	"testing"

	"github.com/dgallion1/faqbot/internal/doctree"
)

func para(text string) doctree.Paragraph { return doctree.Paragraph{Text: text} }

func heading(text string) doctree.Paragraph {
	return doctree.Paragraph{Text: text, Style: "Heading1"}
}

func document(paras ...doctree.Paragraph) *doctree.Document {
	return &doctree.Document{Title: "test", Paragraphs: paras}
}

func TestBuild_LabelFormatWithoutHeading(t *testing.T) {
	ix := Build(document(
		para("Pregunta: ¿Qué es SST?"),
		para("Respuesta: Seguridad y Salud en el Trabajo"),
	))

	if got := ix.Categories(); !reflect.DeepEqual(got, []string{"General"}) {
		t.Fatalf("expected [General], got %v", got)
	}
	entries := ix.Entries("General")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	want := "¿Qué es SST?\n👉 Seguridad y Salud en el Trabajo"
	if entries[0].String() != want {
		t.Errorf("expected %q, got %q", want, entries[0].String())
	}
}

func TestBuild_MarkerFormatUnderHeadings(t *testing.T) {
	ix := Build(document(
		heading("  Reglamento  "),
		para("❓ ¿Quién lo aprueba?"),
		para("✅ El Ministerio del Trabajo."),
		heading("Brigadas"),
		para("❓¿Cuántas?"),
		para("✅Al menos una."),
	))

	if got := ix.Categories(); !reflect.DeepEqual(got, []string{"Reglamento", "Brigadas"}) {
		t.Fatalf("unexpected categories %v", got)
	}
	want := []Entry{{Question: "¿Quién lo aprueba?", Answer: "El Ministerio del Trabajo."}}
	if got := ix.Entries("Reglamento"); !reflect.DeepEqual(got, want) {
		t.Errorf("Reglamento: expected %v, got %v", want, got)
	}
	want = []Entry{{Question: "¿Cuántas?", Answer: "Al menos una."}}
	if got := ix.Entries("Brigadas"); !reflect.DeepEqual(got, want) {
		t.Errorf("Brigadas: expected %v, got %v", want, got)
	}
}

func TestBuild_LatestQuestionWins(t *testing.T) {
	ix := Build(document(
		para("❓ primera"),
		para("❓ segunda"),
		para("✅ respuesta"),
	))
	entries := ix.Entries("General")
	if len(entries) != 1 || entries[0].Question != "segunda" {
		t.Fatalf("expected only the second question, got %v", entries)
	}
}

func TestBuild_OrphanAnswerIgnored(t *testing.T) {
	ix := Build(document(
		heading("Riesgos"),
		para("✅ sin pregunta"),
		para("Respuesta: tampoco"),
	))
	if got := ix.Categories(); !reflect.DeepEqual(got, []string{"Riesgos"}) {
		t.Fatalf("expected heading to register the category, got %v", got)
	}
	if n := len(ix.Entries("Riesgos")); n != 0 {
		t.Errorf("expected no entries, got %d", n)
	}
}

func TestBuild_HeadingDiscardsPendingQuestion(t *testing.T) {
	ix := Build(document(
		para("❓ huérfana"),
		heading("Tema"),
		para("✅ respuesta"),
	))
	if ix.Len() != 0 {
		t.Errorf("expected pending question to be dropped at heading, got %d entries", ix.Len())
	}
	if got := ix.Categories(); !reflect.DeepEqual(got, []string{"Tema"}) {
		t.Errorf("unexpected categories %v", got)
	}
}

func TestBuild_UnterminatedQuestionDropped(t *testing.T) {
	ix := Build(document(para("Pregunta: ¿sin respuesta?")))
	if !ix.Empty() {
		t.Errorf("expected empty index, got categories %v", ix.Categories())
	}
}

func TestBuild_LabelsAreCaseInsensitiveAndSplitOnFirstColon(t *testing.T) {
	ix := Build(document(
		para("PREGUNTA: ¿Plazo: cuál es?"),
		para("respuesta:   30 días: calendario  "),
	))
	entries := ix.Entries("General")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Question != "¿Plazo: cuál es?" {
		t.Errorf("unexpected question %q", entries[0].Question)
	}
	if entries[0].Answer != "30 días: calendario" {
		t.Errorf("unexpected answer %q", entries[0].Answer)
	}
}

func TestBuild_MixedFormatsShareState(t *testing.T) {
	ix := Build(document(
		para("❓ emoji"),
		para("Respuesta: etiqueta"),
		para("Pregunta: etiqueta"),
		para("✅ emoji"),
	))
	want := []Entry{
		{Question: "emoji", Answer: "etiqueta"},
		{Question: "etiqueta", Answer: "emoji"},
	}
	if got := ix.Entries("General"); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBuild_EmptyMarkersDoNotProduceEntries(t *testing.T) {
	ix := Build(document(
		para("❓"),
		para("✅ respuesta sin pregunta"),
		para("❓ pregunta"),
		para("✅   "),
		para("✅ respuesta"),
	))
	want := []Entry{{Question: "pregunta", Answer: "respuesta"}}
	if got := ix.Entries("General"); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBuild_OtherParagraphsIgnored(t *testing.T) {
	ix := Build(document(
		para("Introducción al banco de preguntas."),
		para("   "),
		para("❓ q"),
		para("texto suelto"),
		para("✅ a"),
	))
	want := []Entry{{Question: "q", Answer: "a"}}
	if got := ix.Entries("General"); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBuild_MergesDocumentsInOrder(t *testing.T) {
	d1 := document(
		heading("Obligaciones"),
		para("❓ a1"), para("✅ r1"),
		heading("Riesgos"),
		para("❓ a2"), para("✅ r2"),
	)
	d2 := document(
		para("❓ g1"), para("✅ rg"),
		heading("Obligaciones"),
		para("❓ a3"), para("✅ r3"),
	)
	ix := Build(d1, nil, d2)

	wantCats := []string{"Obligaciones", "Riesgos", "General"}
	if got := ix.Categories(); !reflect.DeepEqual(got, wantCats) {
		t.Fatalf("expected %v, got %v", wantCats, got)
	}
	got := ix.Entries("Obligaciones")
	if len(got) != 2 || got[0].Question != "a1" || got[1].Question != "a3" {
		t.Errorf("expected accumulated entries a1,a3, got %v", got)
	}
}

func TestBuild_CategoryDoesNotLeakAcrossDocuments(t *testing.T) {
	ix := Build(
		document(heading("Tema"), para("❓ q1"), para("✅ r1")),
		document(para("❓ q2"), para("✅ r2")),
	)
	if got := ix.Entries("General"); len(got) != 1 || got[0].Question != "q2" {
		t.Errorf("expected second document to start without a category, got %v", got)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	d := document(
		heading("A"), para("❓ 1"), para("✅ 1"),
		heading("B"), para("Pregunta: 2"), para("Respuesta: 2"),
		para("❓ 1"), para("✅ 1"),
	)
	ix1 := Build(d)
	ix2 := Build(d)
	if !reflect.DeepEqual(ix1, ix2) {
		t.Error("expected identical indexes from identical input")
	}
}

func TestBuild_DuplicatesKept(t *testing.T) {
	ix := Build(document(
		para("❓ q"), para("✅ a"),
		para("❓ q"), para("✅ a"),
	))
	if n := len(ix.Entries("General")); n != 2 {
		t.Errorf("expected duplicates to be kept, got %d entries", n)
	}
}

func TestBuild_NoDocuments(t *testing.T) {
	ix := Build()
	if !ix.Empty() {
		t.Error("expected empty index")
	}
	if got := ix.Categories(); len(got) != 0 {
		t.Errorf("expected no categories, got %v", got)
	}
	if got := ix.Search("riesgo"); len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}
