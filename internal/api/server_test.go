package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/faqbot/internal/bot"
	"github.com/dgallion1/faqbot/internal/content"
	"github.com/dgallion1/faqbot/internal/doctree"
	"github.com/dgallion1/faqbot/internal/faq"
	"github.com/dgallion1/faqbot/internal/outbox"
	"github.com/dgallion1/faqbot/internal/session"
)

const testKey = "test-key"

func newTestServer(t *testing.T, stats *outbox.Stats) *Server {
	t.Helper()
	doc := &doctree.Document{Paragraphs: []doctree.Paragraph{
		{Text: "Riesgos", Style: doctree.HeadingStyle(1)},
		{Text: "❓ ¿Qué es un riesgo laboral?"},
		{Text: "✅ La probabilidad de sufrir un daño en el trabajo."},
		{Text: "❓ ¿Quién evalúa los riesgos?"},
		{Text: "✅ El técnico de seguridad."},
		{Text: "Comités", Style: doctree.HeadingStyle(1)},
		{Text: "Pregunta: ¿Cuándo se conforma un comité?"},
		{Text: "Respuesta: Con más de 15 trabajadores."},
	}}
	faqs := faq.NewStore(faq.Build(doc))
	catalog, err := content.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := bot.New(faqs, catalog, session.NewStore(time.Hour), nil, log)
	return NewServer(b, faqs, stats, testKey, log)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Authorization", "Bearer "+testKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth_NoAuth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	if body["status"] != "ok" || body["questions"] != float64(3) {
		t.Errorf("unexpected health body %v", body)
	}
}

func TestAuth(t *testing.T) {
	s := newTestServer(t, nil)
	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic " + testKey},
		{"wrong key", "Bearer nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/faq/categories", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestCommand(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/updates/command",
		`{"user_id":"42","command":"/faq","args":["comité"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	reply := decode[bot.Reply](t, rec)
	if !strings.Contains(reply.Text, "📌 Comités") {
		t.Errorf("unexpected reply %q", reply.Text)
	}

	rec = do(t, s, http.MethodPost, "/api/updates/command", `{"user_id":"42","command":"faq"}`)
	reply = decode[bot.Reply](t, rec)
	if len(reply.Buttons) != 2 {
		t.Errorf("expected 2 category buttons, got %+v", reply.Buttons)
	}
}

func TestCommand_BadRequests(t *testing.T) {
	s := newTestServer(t, nil)
	for _, body := range []string{
		`not json`,
		`{"command":"faq"}`,
		`{"user_id":"1","command":" "}`,
		`{"user_id":"1","command":"faq","extra":true}`,
	} {
		if rec := do(t, s, http.MethodPost, "/api/updates/command", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestCallback(t *testing.T) {
	s := newTestServer(t, nil)
	token := faq.SelectCategory{Category: "Riesgos"}.Token()

	body, _ := json.Marshal(callbackRequest{UserID: "42", Data: token})
	rec := do(t, s, http.MethodPost, "/api/updates/callback", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	reply := decode[bot.Reply](t, rec)
	if !reply.Edit || !strings.HasPrefix(reply.Text, "❓ *Preguntas Frecuentes - Riesgos:*") {
		t.Errorf("unexpected reply %+v", reply)
	}
}

func TestCategories(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/api/faq/categories", "")
	body := decode[struct {
		Categories []categorySummary `json:"categories"`
	}](t, rec)
	want := []categorySummary{{"Riesgos", 2}, {"Comités", 1}}
	if len(body.Categories) != len(want) {
		t.Fatalf("got %+v", body.Categories)
	}
	for i := range want {
		if body.Categories[i] != want[i] {
			t.Errorf("category %d: got %+v, want %+v", i, body.Categories[i], want[i])
		}
	}
}

func TestSearch(t *testing.T) {
	s := newTestServer(t, nil)

	if rec := do(t, s, http.MethodGet, "/api/faq/search", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without q, got %d", rec.Code)
	}

	rec := do(t, s, http.MethodGet, "/api/faq/search?q="+url.QueryEscape("RIESGO"), "")
	body := decode[struct {
		Results []faq.Match `json:"results"`
	}](t, rec)
	if len(body.Results) != 2 {
		t.Fatalf("expected 2 results, got %+v", body.Results)
	}
	if body.Results[0].Category != "Riesgos" {
		t.Errorf("unexpected first result %+v", body.Results[0])
	}
}

func TestBrowse(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/api/faq/browse?category=Riesgos", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode[struct {
		Page faq.Page `json:"page"`
		Next string   `json:"next"`
	}](t, rec)
	if body.Page.Total != 2 || len(body.Page.Entries) != 2 || body.Next != "" {
		t.Errorf("unexpected page %+v", body)
	}

	token := url.QueryEscape(faq.ShowPage{Category: "Comités", Page: 0}.Token())
	if rec := do(t, s, http.MethodGet, "/api/faq/browse?token="+token, ""); rec.Code != http.StatusOK {
		t.Errorf("token browse: expected 200, got %d", rec.Code)
	}

	tests := []struct {
		query string
		code  int
	}{
		{"", http.StatusBadRequest},
		{"token=bogus", http.StatusBadRequest},
		{"category=Riesgos&page=x", http.StatusBadRequest},
		{"category=Riesgos&page=3", http.StatusNotFound},
		{"category=Riesgos&page=1844674407370955162", http.StatusNotFound},
		{"category=Nada", http.StatusNotFound},
	}
	for _, tt := range tests {
		if rec := do(t, s, http.MethodGet, "/api/faq/browse?"+tt.query, ""); rec.Code != tt.code {
			t.Errorf("%q: expected %d, got %d", tt.query, tt.code, rec.Code)
		}
	}
}

func TestDeliveryStats(t *testing.T) {
	s := newTestServer(t, nil)
	if rec := do(t, s, http.MethodGet, "/api/stats/delivery", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without stats, got %d", rec.Code)
	}

	stats := outbox.NewStats(time.Minute)
	stats.Observe(20*time.Millisecond, true)
	stats.Observe(40*time.Millisecond, false)
	s = newTestServer(t, stats)
	rec := do(t, s, http.MethodGet, "/api/stats/delivery", "")
	body := decode[struct {
		Stats outbox.StatsSnapshot `json:"stats"`
	}](t, rec)
	if body.Stats.Delivered != 1 || body.Stats.Failed != 1 {
		t.Errorf("unexpected stats %+v", body.Stats)
	}
}
