// Package addbook submits a new title or additional copies of a known one.
//
// Decide turns the ISBN resolution and the copy count into exactly one of two payload shapes:
// copies-only for a known title whose metadata stays locked, full metadata otherwise.
// Every payload carries an explicit intent tag so the service never infers intent from shape.
// An ISBN whose status is still unknown never produces a payload.
package addbook
