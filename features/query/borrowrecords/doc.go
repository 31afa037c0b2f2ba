// Package borrowrecords lists borrow records and classifies them into the two views of the desk.
//
// The catalog view splits every record into active-borrowed and overdue, the personal view into
// returned and outstanding. Both projections are pure: identical records and the same instant
// always yield identical partitions, in input order.
package borrowrecords
