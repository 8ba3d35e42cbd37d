package bot

import (
	"fmt"
	"strings"

	"github.com/dgallion1/faqbot/internal/chunker"
	"github.com/dgallion1/faqbot/internal/faq"
)

// ParseModeMarkdown asks the transport to render Telegram-style Markdown.
const ParseModeMarkdown = "Markdown"

// Button is an inline button; Data comes back verbatim as a callback payload.
type Button struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// Reply is what the transport should show the user.
type Reply struct {
	Text      string     `json:"text"`
	ParseMode string     `json:"parse_mode,omitempty"`
	Buttons   [][]Button `json:"buttons,omitempty"`
	// Edit asks the transport to replace the message whose button was tapped.
	Edit bool `json:"edit,omitempty"`
	// Parts is Text cut to the chat's message limit, set only when Text does
	// not fit in one message. Buttons go with the last part.
	Parts []string `json:"parts,omitempty"`
}

// fit fills Parts when Text exceeds the message limit.
func fit(r Reply, limit int) Reply {
	if parts := chunker.Split(r.Text, limit); len(parts) > 1 {
		r.Parts = parts
	}
	return r
}

func textReply(text string) Reply {
	return Reply{Text: text}
}

func markdownReply(text string) Reply {
	return Reply{Text: text, ParseMode: ParseModeMarkdown}
}

const (
	msgNoFAQs         = "Aún no hay preguntas cargadas."
	msgEmptyCategory  = "No hay preguntas en esta categoría."
	msgChooseCategory = "📂 Selecciona una categoría:"
	msgChooseTopic    = "Selecciona un tema:"
	msgUnknownOption  = "Opción no reconocida."
	msgUnknownCommand = "Comando no reconocido. Usa /help para ver los comandos disponibles."
	msgError          = "Ocurrió un error al procesar tu solicitud."
	msgNoFacts        = "No hay datos disponibles por ahora."
	labelPrevious     = "⬅️ Anterior"
	labelNext         = "➡️ Siguiente"
)

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// escapeMarkdown protects user or document text embedded inside markup.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func renderSearch(term string, matches []faq.Match) Reply {
	if len(matches) == 0 {
		return markdownReply(fmt.Sprintf("❌ No se encontraron resultados para *%s*.", escapeMarkdown(term)))
	}
	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, "📌 "+escapeMarkdown(m.Category)+"\n"+escapeMarkdown(m.Entry.String()))
	}
	return markdownReply(fmt.Sprintf("🔎 Resultados para *%s*:\n\n", escapeMarkdown(term)) + strings.Join(blocks, "\n\n"))
}

func renderCategories(ix *faq.Index) Reply {
	if ix.Empty() {
		return textReply(msgNoFAQs)
	}
	cats := ix.Categories()
	rows := make([][]Button, 0, len(cats))
	for _, cat := range cats {
		rows = append(rows, []Button{{Label: cat, Data: faq.SelectCategory{Category: cat}.Token()}})
	}
	return Reply{Text: msgChooseCategory, Buttons: rows}
}

func renderPage(ix *faq.Index, nav faq.Navigation) Reply {
	category, page := nav.Target()
	p, ok := ix.Browse(category, page)
	if !ok {
		return Reply{Text: msgEmptyCategory, Edit: true}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "❓ *Preguntas Frecuentes - %s:*\n\n", escapeMarkdown(p.Category))
	for _, ne := range p.Entries {
		fmt.Fprintf(&b, "%d. %s\n\n", ne.Number, escapeMarkdown(ne.Entry.String()))
	}

	var row []Button
	if p.HasPrevious {
		row = append(row, Button{Label: labelPrevious, Data: p.Previous().Token()})
	}
	if p.HasNext {
		row = append(row, Button{Label: labelNext, Data: p.Next().Token()})
	}

	r := Reply{Text: b.String(), ParseMode: ParseModeMarkdown, Edit: true}
	if len(row) > 0 {
		r.Buttons = [][]Button{row}
	}
	return r
}
