package faq

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgallion1/faqbot/internal/doctree"
	"github.com/dgallion1/faqbot/internal/parser"
)

// Load reads every path in order and builds the merged Index. A document
// that cannot be opened or parsed is logged and skipped; Load never fails
// and returns an empty Index when nothing could be read.
func Load(paths []string, log *slog.Logger) *Index {
	start := time.Now()
	docs := make([]*doctree.Document, 0, len(paths))
	for _, path := range paths {
		d, err := ReadDocument(path)
		if err != nil {
			log.Warn("skipping faq document", "path", path, "error", err)
			continue
		}
		docs = append(docs, d)
	}

	ix := Build(docs...)
	log.Info("faq index built",
		"documents", len(docs),
		"skipped", len(paths)-len(docs),
		"categories", len(ix.order),
		"entries", ix.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ix
}

// ReadDocument opens path and parses it with the reader for its extension.
func ReadDocument(path string) (*doctree.Document, error) {
	p, err := parser.ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	d, err := p.Parse(f, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return d, nil
}
