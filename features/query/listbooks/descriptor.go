package listbooks

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/librarydesk/core"
)

// SortKey orders the book collection.
type SortKey string

const (
	SortNewest       SortKey = "newest"
	SortPriceAsc     SortKey = "price_asc"
	SortPriceDesc    SortKey = "price_desc"
	SortQuantityDesc SortKey = "quantity_desc"
	SortQuantityAsc  SortKey = "quantity_asc"
)

// Availability is the tri-state availability filter.
type Availability string

const (
	AvailabilityAny         Availability = "any"
	AvailabilityAvailable   Availability = "true"
	AvailabilityUnavailable Availability = "false"
)

// DefaultLimit is the page size of a fresh Descriptor.
const DefaultLimit = 8

// Query keys sent to the service.
const (
	KeyPage         = "page"
	KeyLimit        = "limit"
	KeySort         = "sort"
	KeySearch       = "search"
	KeyAvailability = "availability"
	KeyMinPrice     = "minPrice"
	KeyMaxPrice     = "maxPrice"
	KeyCategory     = "category"
	KeyDeleted      = "deleted"
)

var (
	// ErrInvalidPage is returned for pages below 1.
	ErrInvalidPage = errors.New("page must be at least 1")

	// ErrInvalidLimit is returned for limits outside AllowedLimits.
	ErrInvalidLimit = errors.New("limit must be one of 5, 8, 12")

	// ErrInvalidSort is returned for unknown sort keys.
	ErrInvalidSort = errors.New("unknown sort key")

	// ErrInvalidAvailability is returned for unknown availability values.
	ErrInvalidAvailability = errors.New("unknown availability filter")

	// ErrInvalidPriceRange is returned for negative bounds or a minimum above the maximum.
	ErrInvalidPriceRange = errors.New("invalid price range")

	// ErrInvalidDeletionState is returned for unknown deletion states.
	ErrInvalidDeletionState = errors.New("unknown deletion state")
)

// AllowedLimits lists the accepted page sizes.
func AllowedLimits() []int {
	return []int{5, 8, 12}
}

// Descriptor is the canonical, immutable description of one page request.
// The zero value is not valid, use NewDescriptor.
type Descriptor struct {
	page         int
	limit        int
	sort         SortKey
	search       string
	availability Availability
	minPrice     decimal.NullDecimal
	maxPrice     decimal.NullDecimal
	category     core.CategoryIDString
	deletion     core.DeletionState
}

// NewDescriptor returns page 1 of the active books, newest first, DefaultLimit per page, unfiltered.
func NewDescriptor() Descriptor {
	return Descriptor{
		page:         1,
		limit:        DefaultLimit,
		sort:         SortNewest,
		availability: AvailabilityAny,
		deletion:     core.DeletionStateActive,
	}
}

// Page returns the 1-based page number.
func (d Descriptor) Page() int { return d.page }

// Limit returns the page size.
func (d Descriptor) Limit() int { return d.limit }

// Sort returns the sort key.
func (d Descriptor) Sort() SortKey { return d.sort }

// Search returns the trimmed search term.
func (d Descriptor) Search() string { return d.search }

// Availability returns the availability filter.
func (d Descriptor) Availability() Availability { return d.availability }

// MinPrice returns the lower price bound.
func (d Descriptor) MinPrice() decimal.NullDecimal { return d.minPrice }

// MaxPrice returns the upper price bound.
func (d Descriptor) MaxPrice() decimal.NullDecimal { return d.maxPrice }

// Category returns the category filter, empty when unset.
func (d Descriptor) Category() core.CategoryIDString { return d.category }

// DeletionState returns whether active or soft-deleted books are listed.
func (d Descriptor) DeletionState() core.DeletionState { return d.deletion }

// WithPage moves to page p. It is the only setter that keeps the other facets' position.
func (d Descriptor) WithPage(p int) (Descriptor, error) {
	if p < 1 {
		return d, fmt.Errorf("%w: got %d", ErrInvalidPage, p)
	}

	d.page = p

	return d, nil
}

// WithLimit sets the page size.
func (d Descriptor) WithLimit(limit int) (Descriptor, error) {
	if !isAllowedLimit(limit) {
		return d, fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}

	if limit == d.limit {
		return d, nil
	}

	d.limit = limit

	return d.resetPage(), nil
}

// WithSort sets the sort key.
func (d Descriptor) WithSort(sort SortKey) (Descriptor, error) {
	switch sort {
	case SortNewest, SortPriceAsc, SortPriceDesc, SortQuantityDesc, SortQuantityAsc:
	default:
		return d, fmt.Errorf("%w: %q", ErrInvalidSort, sort)
	}

	if sort == d.sort {
		return d, nil
	}

	d.sort = sort

	return d.resetPage(), nil
}

// WithSearch sets the free-text search term. The term is trimmed, an empty term clears the facet.
func (d Descriptor) WithSearch(term string) Descriptor {
	term = strings.TrimSpace(term)
	if term == d.search {
		return d
	}

	d.search = term

	return d.resetPage()
}

// WithAvailability sets the availability filter.
func (d Descriptor) WithAvailability(availability Availability) (Descriptor, error) {
	switch availability {
	case AvailabilityAny, AvailabilityAvailable, AvailabilityUnavailable:
	default:
		return d, fmt.Errorf("%w: %q", ErrInvalidAvailability, availability)
	}

	if availability == d.availability {
		return d, nil
	}

	d.availability = availability

	return d.resetPage(), nil
}

// WithMinPrice sets the lower price bound. A NullDecimal with Valid false clears it.
func (d Descriptor) WithMinPrice(bound decimal.NullDecimal) (Descriptor, error) {
	if err := checkPriceRange(bound, d.maxPrice); err != nil {
		return d, err
	}

	if nullDecimalEqual(bound, d.minPrice) {
		return d, nil
	}

	d.minPrice = bound

	return d.resetPage(), nil
}

// WithMaxPrice sets the upper price bound.
func (d Descriptor) WithMaxPrice(bound decimal.NullDecimal) (Descriptor, error) {
	if err := checkPriceRange(d.minPrice, bound); err != nil {
		return d, err
	}

	if nullDecimalEqual(bound, d.maxPrice) {
		return d, nil
	}

	d.maxPrice = bound

	return d.resetPage(), nil
}

// WithCategory filters by one category. An empty id clears the filter.
func (d Descriptor) WithCategory(id core.CategoryIDString) Descriptor {
	id = strings.TrimSpace(id)
	if id == d.category {
		return d
	}

	d.category = id

	return d.resetPage()
}

// WithDeletionState switches between the active and the soft-deleted books.
func (d Descriptor) WithDeletionState(state core.DeletionState) (Descriptor, error) {
	if state != core.DeletionStateActive && state != core.DeletionStateDeleted {
		return d, fmt.Errorf("%w: %q", ErrInvalidDeletionState, state)
	}

	if state == d.deletion {
		return d, nil
	}

	d.deletion = state

	return d.resetPage(), nil
}

// Equal reports whether both descriptors have identical facets.
func (d Descriptor) Equal(other Descriptor) bool {
	return d.page == other.page &&
		d.limit == other.limit &&
		d.sort == other.sort &&
		d.search == other.search &&
		d.availability == other.availability &&
		nullDecimalEqual(d.minPrice, other.minPrice) &&
		nullDecimalEqual(d.maxPrice, other.maxPrice) &&
		d.category == other.category &&
		d.deletion == other.deletion
}

// Values returns the query keys of the set facets. page and limit are always present.
func (d Descriptor) Values() url.Values {
	values := url.Values{}
	values.Set(KeyPage, strconv.Itoa(d.page))
	values.Set(KeyLimit, strconv.Itoa(d.limit))

	if d.sort != SortNewest {
		values.Set(KeySort, string(d.sort))
	}

	if d.search != "" {
		values.Set(KeySearch, d.search)
	}

	if d.availability != AvailabilityAny {
		values.Set(KeyAvailability, string(d.availability))
	}

	if d.minPrice.Valid {
		values.Set(KeyMinPrice, d.minPrice.Decimal.String())
	}

	if d.maxPrice.Valid {
		values.Set(KeyMaxPrice, d.maxPrice.Decimal.String())
	}

	if d.category != "" {
		values.Set(KeyCategory, d.category)
	}

	if d.deletion == core.DeletionStateDeleted {
		values.Set(KeyDeleted, "true")
	}

	return values
}

// Encode returns the canonical query string, keys sorted.
func (d Descriptor) Encode() string {
	return d.Values().Encode()
}

// String implements fmt.Stringer.
func (d Descriptor) String() string {
	return d.Encode()
}

// Clamp moves the page back to totalPages when the result no longer reaches the current page.
// It reports whether the page changed. It never yields a page below 1.
func (d Descriptor) Clamp(totalPages int) (Descriptor, bool) {
	if totalPages < 1 || d.page <= totalPages {
		return d, false
	}

	d.page = totalPages

	return d, true
}

// TotalPagesFor returns the number of pages needed for total books at limit per page.
func TotalPagesFor(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}

	return (total + limit - 1) / limit
}

func (d Descriptor) resetPage() Descriptor {
	d.page = 1
	return d
}

func isAllowedLimit(limit int) bool {
	for _, allowed := range AllowedLimits() {
		if limit == allowed {
			return true
		}
	}

	return false
}

func checkPriceRange(minPrice, maxPrice decimal.NullDecimal) error {
	if minPrice.Valid && minPrice.Decimal.IsNegative() {
		return fmt.Errorf("%w: minimum %s is negative", ErrInvalidPriceRange, minPrice.Decimal)
	}

	if maxPrice.Valid && maxPrice.Decimal.IsNegative() {
		return fmt.Errorf("%w: maximum %s is negative", ErrInvalidPriceRange, maxPrice.Decimal)
	}

	if minPrice.Valid && maxPrice.Valid && minPrice.Decimal.GreaterThan(maxPrice.Decimal) {
		return fmt.Errorf("%w: minimum %s exceeds maximum %s", ErrInvalidPriceRange, minPrice.Decimal, maxPrice.Decimal)
	}

	return nil
}

func nullDecimalEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}

	return !a.Valid || a.Decimal.Equal(b.Decimal)
}
