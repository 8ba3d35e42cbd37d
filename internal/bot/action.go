package bot

import (
	"errors"

	"github.com/dgallion1/faqbot/internal/content"
	"github.com/dgallion1/faqbot/internal/faq"
)

// Callback payloads that are not topics or navigation tokens.
const (
	FAQMenuData = "faq"
	FactData    = "sabiasque"
)

// Action is a decoded callback payload. The concrete types are TopicAction,
// FAQMenuAction, FactAction, NavigateAction and UnknownAction.
type Action interface {
	action()
}

// TopicAction shows a static informational topic.
type TopicAction struct {
	Topic content.Topic
}

// FAQMenuAction lists the FAQ categories.
type FAQMenuAction struct{}

// FactAction shows the user's next "¿Sabías que…?" fact.
type FactAction struct{}

// NavigateAction opens a category or one of its pages.
type NavigateAction struct {
	Nav faq.Navigation
}

// UnknownAction is any payload that matched nothing above.
type UnknownAction struct {
	Data string
	Err  error
}

func (TopicAction) action()    {}
func (FAQMenuAction) action()  {}
func (FactAction) action()     {}
func (NavigateAction) action() {}
func (UnknownAction) action()  {}

// ParseAction decodes a callback payload against the catalog's topics.
func ParseAction(catalog *content.Catalog, data string) Action {
	switch data {
	case FAQMenuData:
		return FAQMenuAction{}
	case FactData:
		return FactAction{}
	}
	if t, ok := catalog.Topic(data); ok {
		return TopicAction{Topic: t}
	}

	nav, err := faq.ParseToken(data)
	switch {
	case err == nil:
		return NavigateAction{Nav: nav}
	case errors.Is(err, faq.ErrNotNavigation):
		return UnknownAction{Data: data}
	default:
		return UnknownAction{Data: data, Err: err}
	}
}
