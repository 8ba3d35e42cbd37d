package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/faqbot/internal/bot"
	"github.com/dgallion1/faqbot/internal/faq"
	"github.com/dgallion1/faqbot/internal/outbox"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes bounds update payloads from the chat gateway.
const maxBodyBytes = 64 << 10

// Server is the HTTP API the chat gateway talks to.
type Server struct {
	router chi.Router
	bot    *bot.Bot
	faqs   *faq.Store
	stats  *outbox.Stats
	apiKey string
	log    *slog.Logger
}

// NewServer creates and configures the HTTP server. stats may be nil when
// outbound delivery is disabled.
func NewServer(b *bot.Bot, faqs *faq.Store, stats *outbox.Stats, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		bot:    b,
		faqs:   faqs,
		stats:  stats,
		apiKey: apiKey,
		log:    log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.apiKey, s.log))

		r.Post("/api/updates/command", s.handleCommand)
		r.Post("/api/updates/callback", s.handleCallback)

		r.Get("/api/faq/categories", s.handleCategories)
		r.Get("/api/faq/search", s.handleSearch)
		r.Get("/api/faq/browse", s.handleBrowse)

		r.Get("/api/stats/delivery", s.handleDeliveryStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"questions": s.faqs.Index().Len(),
	})
}
