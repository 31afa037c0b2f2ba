// Package core holds the pure domain model of the library desk client:
// books with their copy counts, borrow records, categories, the tagged
// book mutation payloads, and the error taxonomy shared by all features.
//
// Nothing in this package performs I/O. The feature slices build on these
// types and keep their business rules in pure Decide and Project functions.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
