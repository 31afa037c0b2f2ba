// Package listbooks composes the canonical list descriptor for the book collection and fetches pages.
//
// A Descriptor is an immutable value built from independent facets: page, limit, sort key,
// search term, availability, price range, category and deletion state. Every facet change
// except the page itself resets the page to 1. Values applies the omission rule: a facet
// contributes a query key only when it differs from its unset default, so identical facets
// always encode to a byte-identical query.
//
// Clamp corrects a page that the authoritative result no longer reaches.
package listbooks
