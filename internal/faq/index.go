// Package faq builds the categorized question/answer index from source
// documents and serves keyword search and paginated category browsing over it.
package faq

import "strings"

const (
	// DefaultCategory holds entries that appear before any heading.
	DefaultCategory = "General"
	// PageSize is the number of entries per browse page.
	PageSize = 5
	// MaxSearchResults caps the number of search matches returned.
	MaxSearchResults = 15
)

// Entry is a single question/answer pair. Both fields are non-empty.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// String renders the entry the way users see it.
func (e Entry) String() string {
	return e.Question + "\n👉 " + e.Answer
}

// Index maps categories to their entries. Categories keep first-seen order and
// entries keep parse order. An Index is never modified after Build returns, so
// it can be shared between goroutines without locking.
type Index struct {
	order   []string
	entries map[string][]Entry
}

func newIndex() *Index {
	return &Index{entries: make(map[string][]Entry)}
}

func (ix *Index) ensure(category string) {
	if _, ok := ix.entries[category]; ok {
		return
	}
	ix.entries[category] = nil
	ix.order = append(ix.order, category)
}

func (ix *Index) add(category string, e Entry) {
	ix.ensure(category)
	ix.entries[category] = append(ix.entries[category], e)
}

// Empty reports whether no category was loaded at all.
func (ix *Index) Empty() bool {
	return ix == nil || len(ix.order) == 0
}

// Categories returns category names in first-seen order.
func (ix *Index) Categories() []string {
	if ix == nil {
		return []string{}
	}
	out := make([]string, len(ix.order))
	copy(out, ix.order)
	return out
}

// Entries returns a copy of the entries of a category, nil if unknown.
func (ix *Index) Entries(category string) []Entry {
	if ix == nil {
		return nil
	}
	src := ix.entries[category]
	if len(src) == 0 {
		return nil
	}
	out := make([]Entry, len(src))
	copy(out, src)
	return out
}

// Len returns the total number of entries across all categories.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	n := 0
	for _, es := range ix.entries {
		n += len(es)
	}
	return n
}

// Match is a search hit tagged with the category it was found in.
type Match struct {
	Category string `json:"category"`
	Entry    Entry  `json:"entry"`
}

// Search returns entries whose rendered text contains term, ignoring case.
// Categories and entries are scanned in index order and at most
// MaxSearchResults matches are returned. No match yields an empty slice.
func (ix *Index) Search(term string) []Match {
	matches := []Match{}
	if ix == nil {
		return matches
	}
	needle := strings.ToLower(term)
	for _, cat := range ix.order {
		for _, e := range ix.entries[cat] {
			if !strings.Contains(strings.ToLower(e.String()), needle) {
				continue
			}
			matches = append(matches, Match{Category: cat, Entry: e})
			if len(matches) == MaxSearchResults {
				return matches
			}
		}
	}
	return matches
}

// NumberedEntry is an entry with its 1-based position within its category.
type NumberedEntry struct {
	Number int   `json:"number"`
	Entry  Entry `json:"entry"`
}

// Page is one browse page of a category.
type Page struct {
	Category    string          `json:"category"`
	Number      int             `json:"page"`
	Total       int             `json:"total"`
	Entries     []NumberedEntry `json:"entries"`
	HasPrevious bool            `json:"has_previous"`
	HasNext     bool            `json:"has_next"`
}

// Previous returns the navigation that shows the preceding page.
func (p Page) Previous() ShowPage {
	return ShowPage{Category: p.Category, Page: p.Number - 1}
}

// Next returns the navigation that shows the following page.
func (p Page) Next() ShowPage {
	return ShowPage{Category: p.Category, Page: p.Number + 1}
}

// Browse returns page number page of category. A negative page is treated as
// page 0. The boolean is false when the category is unknown, has no entries,
// or page is past the last page; callers render that as an empty category.
func (ix *Index) Browse(category string, page int) (Page, bool) {
	if ix == nil {
		return Page{}, false
	}
	all := ix.entries[category]
	if len(all) == 0 {
		return Page{}, false
	}
	if page < 0 {
		page = 0
	}
	// Compare page counts before multiplying so a huge page cannot overflow.
	if page >= (len(all)+PageSize-1)/PageSize {
		return Page{}, false
	}
	start := page * PageSize
	end := min(start+PageSize, len(all))

	p := Page{
		Category:    category,
		Number:      page,
		Total:       len(all),
		Entries:     make([]NumberedEntry, 0, end-start),
		HasPrevious: page > 0,
		HasNext:     end < len(all),
	}
	for i := start; i < end; i++ {
		p.Entries = append(p.Entries, NumberedEntry{Number: i + 1, Entry: all[i]})
	}
	return p, true
}
