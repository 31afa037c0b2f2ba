package core

import "sync"

// Category is a display label that books reference by ID.
type Category struct {
	ID   CategoryIDString
	Name string
}

// CategoryLookup resolves category IDs to display names.
// It is built once per session and must be rebuilt after Invalidate.
type CategoryLookup struct {
	mu    sync.RWMutex
	names map[CategoryIDString]string
	stale bool
}

// NewCategoryLookup builds a lookup table from the given categories.
// A nil list yields an unbuilt table that reports Stale until the first Rebuild.
func NewCategoryLookup(categories []Category) *CategoryLookup {
	l := &CategoryLookup{}
	if categories == nil {
		return l
	}

	l.Rebuild(categories)

	return l
}

// Rebuild replaces the table and clears the stale mark.
func (l *CategoryLookup) Rebuild(categories []Category) {
	names := make(map[CategoryIDString]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.names = names
	l.stale = false
}

// Invalidate marks the table as stale after an explicit category-change signal.
func (l *CategoryLookup) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stale = true
}

// Stale reports whether the table must be rebuilt before use.
func (l *CategoryLookup) Stale() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.names == nil || l.stale
}

// Name returns the display name for id, or id itself when it is unknown.
func (l *CategoryLookup) Name(id CategoryIDString) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if name, ok := l.names[id]; ok {
		return name
	}

	return id
}

// Names resolves a list of IDs, preserving order.
func (l *CategoryLookup) Names(ids []CategoryIDString) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, l.Name(id))
	}

	return names
}
