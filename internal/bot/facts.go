package bot

import (
	"github.com/dgallion1/faqbot/internal/content"
	"github.com/dgallion1/faqbot/internal/session"
)

// Facts serves the per-user fact rotation with the source link appended.
// Peek and Advance are split so a sender can advance only after delivery.
type Facts struct {
	sessions *session.Store
	catalog  *content.Catalog
}

func NewFacts(sessions *session.Store, catalog *content.Catalog) *Facts {
	return &Facts{sessions: sessions, catalog: catalog}
}

// Next returns the formatted fact for key and advances its rotation.
func (f *Facts) Next(key string) string {
	return f.format(f.sessions.Get(key).NextFact(f.catalog.Facts))
}

// Peek returns the formatted fact Next would return, leaving the rotation
// where it is.
func (f *Facts) Peek(key string) string {
	return f.format(f.sessions.Get(key).PeekFact(f.catalog.Facts))
}

// Advance moves key's rotation past the current fact.
func (f *Facts) Advance(key string) {
	f.sessions.Get(key).SkipFact(f.catalog.Facts)
}

func (f *Facts) format(fact string) string {
	if fact == "" {
		return ""
	}
	return f.catalog.FactMessage(fact)
}
