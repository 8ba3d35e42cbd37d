package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/faqbot/internal/chunker"
	"github.com/dgallion1/faqbot/internal/content"
	"github.com/dgallion1/faqbot/internal/faq"
	"github.com/dgallion1/faqbot/internal/session"
	"github.com/dgallion1/faqbot/internal/store"
)

// Subscriber manages daily fact subscriptions.
type Subscriber interface {
	Subscribe(ctx context.Context, chatID string) (store.Subscription, error)
	Unsubscribe(ctx context.Context, chatID string) error
}

// Update identifies who triggered an interaction and where to answer.
type Update struct {
	UserID string `json:"user_id"`
	ChatID string `json:"chat_id"`
}

// Bot turns commands and button taps into replies. It holds no transport.
type Bot struct {
	faqs     *faq.Store
	catalog  *content.Catalog
	facts    *Facts
	subs     Subscriber
	log      *slog.Logger

	// MessageLimit is the longest text sent as one message.
	MessageLimit int
}

// New builds a Bot. subs may be nil, in which case the daily commands report
// that broadcasting is unavailable.
func New(faqs *faq.Store, catalog *content.Catalog, sessions *session.Store, subs Subscriber, log *slog.Logger) *Bot {
	return &Bot{
		faqs:     faqs,
		catalog:  catalog,
		facts:    NewFacts(sessions, catalog),
		subs:     subs,
		log:      log,

		MessageLimit: chunker.MaxMessageRunes,
	}
}

// CommandName normalizes "/faq@SomeBot" and "FAQ" to "faq".
func CommandName(raw string) string {
	name := strings.TrimPrefix(strings.TrimSpace(raw), "/")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

// Command answers a slash command.
func (b *Bot) Command(ctx context.Context, u Update, command string, args []string) Reply {
	return fit(b.command(ctx, u, command, args), b.MessageLimit)
}

// Callback answers a button tap carrying data.
func (b *Bot) Callback(ctx context.Context, u Update, data string) Reply {
	return fit(b.callback(ctx, u, data), b.MessageLimit)
}

func (b *Bot) command(ctx context.Context, u Update, command string, args []string) Reply {
	name := CommandName(command)
	b.log.Debug("command", "command", name, "user_id", u.UserID, "chat_id", u.ChatID)

	switch name {
	case "start":
		return b.start(u)
	case "help":
		return markdownReply(b.catalog.Help)
	case "menu":
		return b.menu()
	case "faq":
		return b.FAQ(strings.Join(args, " "))
	case "sabiasque":
		return b.fact(u.UserID)
	case "activar_diario":
		return b.subscribe(ctx, u)
	case "desactivar_diario":
		return b.unsubscribe(ctx, u)
	}

	if t, ok := b.catalog.Topic(name); ok {
		return markdownReply(t.Text)
	}
	return textReply(msgUnknownCommand)
}

func (b *Bot) callback(ctx context.Context, u Update, data string) Reply {
	switch a := ParseAction(b.catalog, data).(type) {
	case TopicAction:
		return markdownReply(a.Topic.Text)
	case FAQMenuAction:
		return renderCategories(b.faqs.Index())
	case FactAction:
		return b.fact(u.UserID)
	case NavigateAction:
		return renderPage(b.faqs.Index(), a.Nav)
	case UnknownAction:
		if a.Err != nil {
			b.log.Warn("malformed callback", "data", a.Data, "error", a.Err)
		}
		return textReply(msgUnknownOption)
	}
	return textReply(msgUnknownOption)
}

// FAQ lists categories when terms is blank and searches otherwise.
func (b *Bot) FAQ(terms string) Reply {
	ix := b.faqs.Index()
	term := strings.ToLower(strings.TrimSpace(terms))
	if term == "" {
		return renderCategories(ix)
	}
	return renderSearch(term, ix.Search(term))
}

func (b *Bot) start(u Update) Reply {
	text := b.catalog.Welcome
	if fact := b.facts.Next(u.UserID); fact != "" {
		text += "\n\n" + fact
	}
	return textReply(text)
}

func (b *Bot) menu() Reply {
	rows := make([][]Button, 0, len(b.catalog.Menu))
	for _, m := range b.catalog.Menu {
		rows = append(rows, []Button{{Label: m.Label, Data: m.Data}})
	}
	return Reply{Text: msgChooseTopic, Buttons: rows}
}

func (b *Bot) fact(userID string) Reply {
	msg := b.facts.Next(userID)
	if msg == "" {
		return textReply(msgNoFacts)
	}
	return textReply(msg)
}

func (b *Bot) subscribe(ctx context.Context, u Update) Reply {
	if b.subs == nil {
		return textReply("La difusión diaria no está disponible.")
	}
	sub, err := b.subs.Subscribe(ctx, u.ChatID)
	if err != nil {
		b.log.Error("subscribe failed", "chat_id", u.ChatID, "error", err)
		return textReply(msgError)
	}
	return textReply(fmt.Sprintf("✅ Difusión automática activada: todos los días a las %d:%02d.", sub.Hour, sub.Minute))
}

func (b *Bot) unsubscribe(ctx context.Context, u Update) Reply {
	if b.subs == nil {
		return textReply("La difusión diaria no está disponible.")
	}
	err := b.subs.Unsubscribe(ctx, u.ChatID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return textReply("La difusión diaria no estaba activada.")
	case err != nil:
		b.log.Error("unsubscribe failed", "chat_id", u.ChatID, "error", err)
		return textReply(msgError)
	}
	return textReply("🛑 Difusión automática desactivada.")
}
