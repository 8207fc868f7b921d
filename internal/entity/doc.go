// Package entity provides the records produced by the FFVB results extractor.
//
// Competitions, regions and departments form the navigation hierarchy of the
// federation's result pages; matches and ranks are decoded from a pool's own
// results page. All entities are plain values that serialize to JSON with the
// field names used by the HTTP API.
package entity
