// Package mcpserver exposes the FAQ index as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"errors"
	"strings"

	"github.com/dgallion1/faqbot/internal/faq"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverName = "faqbot"

// Tools serves MCP tool calls from the current FAQ snapshot.
type Tools struct {
	faqs *faq.Store
}

// NewServer builds an MCP server with every FAQ tool registered.
func NewServer(faqs *faq.Store, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version,
		},
		nil,
	)
	Register(server, &Tools{faqs: faqs})
	return server
}

// Register adds the FAQ tools to server.
func Register(server *mcp.Server, t *Tools) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "faq_search",
			Description: "Case-insensitive substring search over every FAQ question and answer. Returns at most 15 hits in document order.",
		},
		t.Search,
	)
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "faq_list_categories",
			Description: "List FAQ categories in document order with their question counts.",
		},
		t.ListCategories,
	)
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "faq_browse",
			Description: "Return one page (5 questions) of an FAQ category. Pages start at 0.",
		},
		t.Browse,
	)
}

type SearchInput struct {
	Query string `json:"query" jsonschema:"Text to look for in questions and answers"`
}

type SearchOutput struct {
	Query   string      `json:"query"`
	Results []faq.Match `json:"results"`
}

func (t *Tools) Search(ctx context.Context, req *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, SearchOutput{}, errors.New("query is required")
	}
	return nil, SearchOutput{Query: query, Results: t.faqs.Index().Search(query)}, nil
}

type ListCategoriesInput struct{}

type Category struct {
	Name      string `json:"name"`
	Questions int    `json:"questions"`
}

type ListCategoriesOutput struct {
	Categories []Category `json:"categories"`
}

func (t *Tools) ListCategories(ctx context.Context, req *mcp.CallToolRequest, in ListCategoriesInput) (*mcp.CallToolResult, ListCategoriesOutput, error) {
	ix := t.faqs.Index()
	out := ListCategoriesOutput{Categories: []Category{}}
	for _, name := range ix.Categories() {
		out.Categories = append(out.Categories, Category{Name: name, Questions: len(ix.Entries(name))})
	}
	return nil, out, nil
}

type BrowseInput struct {
	Category string `json:"category" jsonschema:"Category name as returned by faq_list_categories"`
	Page     int    `json:"page,omitempty" jsonschema:"Zero-based page number (optional, defaults to 0)"`
}

type BrowseOutput struct {
	Found bool     `json:"found"`
	Page  faq.Page `json:"page"`
}

func (t *Tools) Browse(ctx context.Context, req *mcp.CallToolRequest, in BrowseInput) (*mcp.CallToolResult, BrowseOutput, error) {
	if in.Category == "" {
		return nil, BrowseOutput{}, errors.New("category is required")
	}
	p, ok := t.faqs.Index().Browse(in.Category, in.Page)
	return nil, BrowseOutput{Found: ok, Page: p}, nil
}
