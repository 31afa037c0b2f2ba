// Package recordborrow lends one copy of a book to a user identified by email.
//
// The local guard refuses deleted books and books without a copy on the shelf,
// so a borrow never drives the available quantity below zero.
package recordborrow
