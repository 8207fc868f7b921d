// Package scraper fetches the federation's result pages.
//
// The federation serves its pages over HTTPS with a certificate chain that
// common trust stores reject, and in ISO-8859-1. HTTPFetcher accepts invalid
// certificates and converts bodies to UTF-8 before handing them to the
// document parser. ChromeFetcher is an alternative backend that renders the
// page in a headless browser.
//
// Connection, timeout and cancellation failures are reported as
// ErrFetchFailure; an HTTP error status is reported as a *StatusError.
package scraper
