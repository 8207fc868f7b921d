package document

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Mode selects what a query extracts from each matched element
type Mode struct {
	attr string
}

// Text extracts the content of each element
func Text() Mode {
	return Mode{}
}

// Attribute extracts the value of the named attribute of each element
func Attribute(name string) Mode {
	return Mode{attr: name}
}

// Href is Attribute("href")
func Href() Mode {
	return Attribute("href")
}

func (m Mode) String() string {
	if m.attr == "" {
		return "text"
	}
	return "attr(" + m.attr + ")"
}

// Query runs selector against the current document and returns one string
// per matched element, in document order. A selector matching nothing
// yields an empty slice, not an error.
func (s *Store) Query(selector string, mode Mode) ([]string, error) {
	sel, err := s.Find(selector)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, sel.Length())
	var queryErr error

	sel.EachWithBreak(func(i int, el *goquery.Selection) bool {
		var value string
		if mode.attr == "" {
			value, queryErr = Content(el)
		} else {
			var ok bool
			value, ok = el.Attr(mode.attr)
			if !ok {
				queryErr = fmt.Errorf("%w: element %d matched by %q has no %q attribute",
					ErrMissingAttribute, i, selector, mode.attr)
			}
		}
		if queryErr != nil {
			return false
		}
		values = append(values, value)
		return true
	})

	if queryErr != nil {
		return nil, queryErr
	}
	return values, nil
}

// Content returns the content of the first element of sel. An element that
// only holds text yields that text with entities decoded; an element holding
// nested markup yields its inner HTML, which can be passed to Store.Narrow.
func Content(sel *goquery.Selection) (string, error) {
	if sel.Length() == 0 {
		return "", nil
	}

	for c := sel.Get(0).FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			inner, err := sel.Html()
			if err != nil {
				return "", fmt.Errorf("rendering inner html: %w", err)
			}
			return inner, nil
		}
	}

	return sel.Text(), nil
}
