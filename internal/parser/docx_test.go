package parser

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/dgallion1/faqbot/internal/doctree"

	"github.com/fumiama/go-docx"
)

func docxPara(style string, texts ...string) *docx.Paragraph {
	p := &docx.Paragraph{}
	if style != "" {
		p.Properties = &docx.ParagraphProperties{Style: &docx.Style{Val: style}}
	}
	for _, s := range texts {
		p.Children = append(p.Children, &docx.Run{
			Children: []interface{}{&docx.Text{Text: s}},
		})
	}
	return p
}

func TestDocxParagraphText_JoinsRuns(t *testing.T) {
	para := docxPara("", "❓ ¿Quién ", "debe ", "registrar?")
	if got := docxParagraphText(para); got != "❓ ¿Quién debe registrar?" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestDocxParagraphText_SkipsNonRunChildren(t *testing.T) {
	para := docxPara("", "texto")
	para.Children = append([]interface{}{"not a run"}, para.Children...)
	if got := docxParagraphText(para); got != "texto" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestDocxParagraphStyle(t *testing.T) {
	tests := []struct {
		para *docx.Paragraph
		want string
	}{
		{docxPara("Heading1", "Obligaciones"), "Heading1"},
		{docxPara("", "body"), ""},
		{&docx.Paragraph{Properties: &docx.ParagraphProperties{}}, ""},
	}
	for i, tt := range tests {
		if got := docxParagraphStyle(tt.para, nil); got != tt.want {
			t.Errorf("case %d: expected style %q, got %q", i, tt.want, got)
		}
	}
}

func TestDOCXParser_CorruptInput(t *testing.T) {
	p := &DOCXParser{}
	if _, err := p.Parse(strings.NewReader("definitely not a zip archive"), "bad.docx"); err == nil {
		t.Fatal("expected error for corrupt docx")
	}
}

const localizedStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="Ttulo1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="Ttulo2"><w:name w:val="heading 2"/></w:style>
  <w:style w:type="character" w:styleId="Fuerte"><w:name w:val="Strong"/></w:style>
</w:styles>`

func zipParts(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDocxStyleNames_Localized(t *testing.T) {
	names, err := docxStyleNames(zipParts(t, map[string]string{docxStylesPart: localizedStyles}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if names["Ttulo1"] != "heading 1" || names["Ttulo2"] != "heading 2" || names["Fuerte"] != "Strong" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestDocxStyleNames_NoStylesPart(t *testing.T) {
	names, err := docxStyleNames(zipParts(t, map[string]string{"word/document.xml": "<w:document/>"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected no names, got %v", names)
	}
}

func TestDocxStyleNames_Errors(t *testing.T) {
	if _, err := docxStyleNames([]byte("not a zip")); err == nil {
		t.Error("expected error for non-zip data")
	}
	if _, err := docxStyleNames(zipParts(t, map[string]string{docxStylesPart: "<w:styles><w:style"})); err == nil {
		t.Error("expected error for truncated styles part")
	}
}

func TestDocxParagraphStyle_LocalizedHeading(t *testing.T) {
	names, err := docxStyleNames(zipParts(t, map[string]string{docxStylesPart: localizedStyles}))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		style   string
		want    string
		heading bool
	}{
		{"Ttulo1", "heading 1", true},
		{"Ttulo2", "heading 2", true},
		{"Normal", "Normal", false},
		{"Heading3", "Heading3", true},
		{"Desconocido", "Desconocido", false},
	}
	for _, tt := range tests {
		got := docxParagraphStyle(docxPara(tt.style, "Riesgos"), names)
		if got != tt.want {
			t.Errorf("%s: expected style %q, got %q", tt.style, tt.want, got)
		}
		if doctree.IsHeadingStyle(got) != tt.heading {
			t.Errorf("%s: expected heading=%v for %q", tt.style, tt.heading, got)
		}
	}
}
