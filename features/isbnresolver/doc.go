// Package isbnresolver classifies the ISBN typed into the add-book form against the authoritative catalog.
//
// Input is normalized and debounced: a lookup runs only after the input has been quiet for the
// configured interval. Concurrent lookups for the same key share one request, and a result is
// applied only while its key still matches the current input. A known title pre-fills and locks
// the metadata fields until the edit toggle is switched on. A failed lookup leaves the status unset
// with editable fields, so the form stays usable while the service is unreachable.
//
// Ensure is the submission barrier: it never returns a resolution for a key whose status is unknown.
package isbnresolver
