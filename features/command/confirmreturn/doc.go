// Package confirmreturn marks an outstanding loan as returned.
//
// A loan is identified by the book and the borrower's email. The transition is one-way:
// a returned record is never submitted again.
package confirmreturn
