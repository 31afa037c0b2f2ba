package listbooks

const (
	queryType = "ListBooks"
)

// Query requests the page of books described by Descriptor.
type Query struct {
	Descriptor Descriptor
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query for descriptor.
func BuildQuery(descriptor Descriptor) Query {
	return Query{Descriptor: descriptor}
}
