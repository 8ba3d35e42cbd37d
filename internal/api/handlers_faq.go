package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dgallion1/faqbot/internal/faq"
)

type categorySummary struct {
	Name      string `json:"name"`
	Questions int    `json:"questions"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	ix := s.faqs.Index()
	cats := ix.Categories()
	out := make([]categorySummary, 0, len(cats))
	for _, c := range cats {
		out = append(out, categorySummary{Name: c, Questions: len(ix.Entries(c))})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		jsonError(w, "q is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"term":    term,
		"results": s.faqs.Index().Search(term),
	})
}

// handleBrowse accepts either a navigation token or a category and page.
func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var nav faq.Navigation
	if token := q.Get("token"); token != "" {
		n, err := faq.ParseToken(token)
		if err != nil {
			jsonError(w, "invalid token: "+err.Error(), http.StatusBadRequest)
			return
		}
		nav = n
	} else {
		category := q.Get("category")
		if category == "" {
			jsonError(w, "token or category is required", http.StatusBadRequest)
			return
		}
		page := 0
		if v := q.Get("page"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				jsonError(w, "page must be an integer", http.StatusBadRequest)
				return
			}
			page = n
		}
		nav = faq.ShowPage{Category: category, Page: page}
	}

	category, page := nav.Target()
	p, ok := s.faqs.Index().Browse(category, page)
	if !ok {
		jsonError(w, "no questions on this page", http.StatusNotFound)
		return
	}
	resp := map[string]any{"page": p}
	if p.HasPrevious {
		resp["previous"] = p.Previous().Token()
	}
	if p.HasNext {
		resp["next"] = p.Next().Token()
	}
	writeJSON(w, http.StatusOK, resp)
}
