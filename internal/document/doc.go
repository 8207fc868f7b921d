// Package document holds a parsed HTML page and answers CSS selector queries
// against it.
//
// A Store owns exactly one document. It can be narrowed to a fragment of
// inner HTML taken from a previous query, which lets callers drill down into
// one cell of a wide table without fetching the page again. Queries return
// either the content or one attribute of every matched element, in document
// order.
package document
