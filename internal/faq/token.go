package faq

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Token namespaces, as seen by the transport's callback dispatch.
const (
	SelectNamespace = "faqcat"
	PageNamespace   = "faqnav"
	tokenDelimiter  = ":"
)

var (
	// ErrNotNavigation means the token belongs to another namespace.
	ErrNotNavigation = errors.New("not a faq navigation token")
	// ErrMalformedToken means the namespace matched but the payload did not decode.
	ErrMalformedToken = errors.New("malformed faq navigation token")
)

// tokenEscaper keeps the delimiter out of encoded category names. '%' is
// escaped too so decoding with url.PathUnescape is exact.
var tokenEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

// Navigation is a decoded navigation request: SelectCategory or ShowPage.
type Navigation interface {
	// Token encodes the request for a round trip through the transport.
	Token() string
	// Target returns the category and zero-based page to show.
	Target() (category string, page int)
	navigation()
}

// SelectCategory opens a category at its first page.
type SelectCategory struct {
	Category string
}

func (s SelectCategory) Token() string {
	return SelectNamespace + tokenDelimiter + tokenEscaper.Replace(s.Category)
}

func (s SelectCategory) Target() (string, int) { return s.Category, 0 }

func (SelectCategory) navigation() {}

// ShowPage shows a specific page of a category.
type ShowPage struct {
	Category string
	Page     int
}

func (s ShowPage) Token() string {
	return PageNamespace + tokenDelimiter + tokenEscaper.Replace(s.Category) + tokenDelimiter + strconv.Itoa(s.Page)
}

func (s ShowPage) Target() (string, int) { return s.Category, s.Page }

func (ShowPage) navigation() {}

// ParseToken decodes a token produced by SelectCategory.Token or ShowPage.Token.
func ParseToken(token string) (Navigation, error) {
	ns, payload, ok := strings.Cut(token, tokenDelimiter)
	if !ok {
		return nil, ErrNotNavigation
	}

	switch ns {
	case SelectNamespace:
		cat, err := unescapeCategory(payload)
		if err != nil {
			return nil, err
		}
		return SelectCategory{Category: cat}, nil

	case PageNamespace:
		rawCat, rawPage, ok := strings.Cut(payload, tokenDelimiter)
		if !ok || strings.Contains(rawPage, tokenDelimiter) {
			return nil, fmt.Errorf("%w: %q", ErrMalformedToken, token)
		}
		page, err := strconv.Atoi(rawPage)
		if err != nil {
			return nil, fmt.Errorf("%w: page %q", ErrMalformedToken, rawPage)
		}
		cat, err := unescapeCategory(rawCat)
		if err != nil {
			return nil, err
		}
		return ShowPage{Category: cat, Page: page}, nil
	}

	return nil, ErrNotNavigation
}

func unescapeCategory(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty category", ErrMalformedToken)
	}
	cat, err := url.PathUnescape(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return cat, nil
}
