package borrowrecords

import "github.com/AntonStoeckl/librarydesk/core"

const (
	queryType = "ListBorrowRecords"
)

// Query requests the borrow records of Scope.
type Query struct {
	Scope core.BorrowScope
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query for scope.
func BuildQuery(scope core.BorrowScope) Query {
	return Query{Scope: scope}
}
