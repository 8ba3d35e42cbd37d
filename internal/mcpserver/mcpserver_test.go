package mcpserver

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/dgallion1/faqbot/internal/doctree"
	"github.com/dgallion1/faqbot/internal/faq"
)

func testTools() *Tools {
	doc := &doctree.Document{}
	doc.Paragraphs = append(doc.Paragraphs, doctree.Paragraph{Text: "Obligaciones", Style: doctree.HeadingStyle(2)})
	for i := 1; i <= 6; i++ {
		doc.Paragraphs = append(doc.Paragraphs,
			doctree.Paragraph{Text: fmt.Sprintf("❓ ¿Obligación %d del empleador?", i)},
			doctree.Paragraph{Text: fmt.Sprintf("✅ Cumplir el punto %d.", i)},
		)
	}
	return &Tools{faqs: faq.NewStore(faq.Build(doc))}
}

func TestSearch(t *testing.T) {
	tools := testTools()
	_, out, err := tools.Search(context.Background(), nil, SearchInput{Query: " EMPLEADOR "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Query != "EMPLEADOR" || len(out.Results) != 6 {
		t.Errorf("unexpected output %+v", out)
	}

	if _, _, err := tools.Search(context.Background(), nil, SearchInput{}); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestListCategories(t *testing.T) {
	_, out, err := testTools().ListCategories(context.Background(), nil, ListCategoriesInput{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Categories) != 1 || out.Categories[0] != (Category{Name: "Obligaciones", Questions: 6}) {
		t.Errorf("unexpected categories %+v", out.Categories)
	}

	empty := &Tools{faqs: faq.NewStore(nil)}
	_, out, _ = empty.ListCategories(context.Background(), nil, ListCategoriesInput{})
	if out.Categories == nil || len(out.Categories) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", out.Categories)
	}
}

func TestBrowse(t *testing.T) {
	tools := testTools()
	tests := []struct {
		page    int
		found   bool
		entries int
	}{
		{0, true, 5},
		{1, true, 1},
		{2, false, 0},
		{-3, true, 5},
		{math.MaxInt, false, 0},
	}
	for _, tt := range tests {
		_, out, err := tools.Browse(context.Background(), nil, BrowseInput{Category: "Obligaciones", Page: tt.page})
		if err != nil {
			t.Fatalf("page %d: %v", tt.page, err)
		}
		if out.Found != tt.found || len(out.Page.Entries) != tt.entries {
			t.Errorf("page %d: got found=%v entries=%d", tt.page, out.Found, len(out.Page.Entries))
		}
	}

	if _, _, err := tools.Browse(context.Background(), nil, BrowseInput{}); err == nil {
		t.Error("expected error without category")
	}
}

func TestNewServer(t *testing.T) {
	if NewServer(faq.NewStore(nil), "test") == nil {
		t.Fatal("expected server")
	}
}
