package model

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest addresses a window of an ordered collection.
type PageRequest struct {
	Offset int
	Limit  int
}

// Page is a window of items plus the size of the whole collection.
type Page[T any] struct {
	Items  []T `json:"items"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// NewPage builds a page, normalising a nil slice so it encodes as [].
func NewPage[T any](items []T, req PageRequest, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Offset: req.Offset, Limit: req.Limit, Total: total}
}
