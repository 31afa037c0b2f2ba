// Package removebook soft-deletes a title.
//
// A title may only be removed while every copy is on the shelf. The guard runs against the
// locally known copy counts, the service enforces the same rule authoritatively.
package removebook
