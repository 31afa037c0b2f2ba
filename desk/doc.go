// Package desk wires the library desk client into one Session.
//
// A Session owns the book listing descriptor, the ISBN resolver of the add-book form,
// the local projections of books and borrow records and the category lookup table.
// Every mutation runs through the reconciler, so the projections are refreshed
// and each outcome is reported exactly once.
package desk
