package document

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrMalformedMarkup is returned when a document or fragment cannot be parsed
	ErrMalformedMarkup = errors.New("malformed markup")
	// ErrInvalidSelector is returned for a selector that is not valid CSS selector syntax
	ErrInvalidSelector = errors.New("invalid selector")
	// ErrMissingAttribute is returned when a matched element lacks the queried attribute
	ErrMissingAttribute = errors.New("missing attribute")
)

// Store owns one parsed HTML document. It is not safe for concurrent use;
// each extraction works on its own Store.
type Store struct {
	doc *goquery.Document
}

// New creates a Store holding an empty document
func New() *Store {
	return &Store{
		doc: goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode}),
	}
}

// Load parses htmlText as a full document and replaces the current content
func (s *Store) Load(htmlText string) error {
	return s.LoadReader(strings.NewReader(htmlText))
}

// LoadReader is Load for a streamed page body. On error the previous
// content is kept.
func (s *Store) LoadReader(r io.Reader) error {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return fmt.Errorf("%w: parsing document: %v", ErrMalformedMarkup, err)
	}
	s.doc = doc
	return nil
}

// Narrow parses fragmentText as a body fragment and replaces the current
// content with it, so that later queries only see the fragment.
func (s *Store) Narrow(fragmentText string) error {
	return s.NarrowReader(strings.NewReader(fragmentText))
}

// NarrowReader is Narrow for a streamed fragment. On error the previous
// content is kept.
func (s *Store) NarrowReader(r io.Reader) error {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}

	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return fmt.Errorf("%w: parsing fragment: %v", ErrMalformedMarkup, err)
	}

	// ParseFragment detaches the nodes it returns
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	s.doc = goquery.NewDocumentFromNode(root)
	return nil
}

// Find compiles selector and returns the matching elements in document order
func (s *Store) Find(selector string) (*goquery.Selection, error) {
	matcher, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	return s.doc.FindMatcher(matcher), nil
}

// Compile validates a selector sequence. goquery silently matches nothing
// for invalid selectors, so every query goes through cascadia first.
func Compile(selector string) (goquery.Matcher, error) {
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, selector, err)
	}
	return matcher, nil
}
