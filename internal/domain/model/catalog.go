//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// Category groups vocabulary topics.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TopicCount  int    `json:"topicCount,omitempty"`
}

// Topic is a lesson unit within a category.
type Topic struct {
	ID         string `json:"id"`
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Level      string `json:"level,omitempty"`
	WordCount  int    `json:"wordCount,omitempty"`
}

// ListOptions controls paging for backend list endpoints.
type ListOptions struct {
	Page   int
	Limit  int
	Search string
	Status string
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Normalize clamps paging values to backend-accepted bounds.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	switch {
	case o.Limit <= 0:
		o.Limit = defaultListLimit
	case o.Limit > maxListLimit:
		o.Limit = maxListLimit
	}
	return o
}

// Page is a single page of list results.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// HasNext reports whether another page follows this one.
func (p Page[T]) HasNext() bool {
	return p.Page*p.Limit < p.Total
}
