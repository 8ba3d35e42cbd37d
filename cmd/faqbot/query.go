package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dgallion1/faqbot/internal/config"
	"github.com/dgallion1/faqbot/internal/faq"
	cli "github.com/urfave/cli/v3"
)

func docFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:  "doc",
		Usage: "FAQ document to load, repeatable (default: FAQ_DOCUMENTS)",
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Print JSON instead of text"}
}

func documents(cmd *cli.Command) []string {
	if docs := cmd.StringSlice("doc"); len(docs) > 0 {
		return docs
	}
	return config.Load().FAQDocuments
}

// loadIndex builds the index for the one-shot commands; skipped documents are
// reported on stderr.
func loadIndex(cmd *cli.Command) *faq.Index {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return faq.Load(documents(cmd), log)
}

func searchCmd() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search questions and answers",
		ArgsUsage: "<term...>",
		Flags:     []cli.Flag{docFlag(), jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			term := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
			if term == "" {
				return fmt.Errorf("search term is required")
			}
			matches := loadIndex(cmd).Search(term)
			if cmd.Bool("json") {
				return printJSON(os.Stdout, matches)
			}
			printMatches(os.Stdout, term, matches)
			return nil
		},
	}
}

func categoriesCmd() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "List FAQ categories",
		Flags: []cli.Flag{docFlag(), jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ix := loadIndex(cmd)
			if cmd.Bool("json") {
				return printJSON(os.Stdout, ix.Categories())
			}
			printCategories(os.Stdout, ix)
			return nil
		},
	}
}

func browseCmd() *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Usage:     "Show one page of a category",
		ArgsUsage: "<category>",
		Flags: []cli.Flag{
			docFlag(),
			jsonFlag(),
			&cli.IntFlag{Name: "page", Usage: "Zero-based page number"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			category := strings.Join(cmd.Args().Slice(), " ")
			if category == "" {
				return fmt.Errorf("category argument is required")
			}
			p, ok := loadIndex(cmd).Browse(category, int(cmd.Int("page")))
			if !ok {
				return fmt.Errorf("no questions in %q on that page", category)
			}
			if cmd.Bool("json") {
				return printJSON(os.Stdout, p)
			}
			printPage(os.Stdout, p)
			return nil
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printMatches(w io.Writer, term string, matches []faq.Match) {
	if len(matches) == 0 {
		fmt.Fprintf(w, "No results for %q.\n", term)
		return
	}
	for _, m := range matches {
		fmt.Fprintf(w, "[%s]\n%s\n\n", m.Category, m.Entry)
	}
}

func printCategories(w io.Writer, ix *faq.Index) {
	if ix.Empty() {
		fmt.Fprintln(w, "No questions loaded.")
		return
	}
	for _, c := range ix.Categories() {
		fmt.Fprintf(w, "%s (%d)\n", c, len(ix.Entries(c)))
	}
}

func printPage(w io.Writer, p faq.Page) {
	pages := (p.Total + faq.PageSize - 1) / faq.PageSize
	fmt.Fprintf(w, "%s, page %d of %d\n\n", p.Category, p.Number+1, pages)
	for _, ne := range p.Entries {
		fmt.Fprintf(w, "%d. %s\n\n", ne.Number, ne.Entry)
	}
}
