package easytrans

import (
	"encoding/json"
	"fmt"
)

// Links are the pagination links of a list response. An empty Next means
// the page is the last one.
type Links struct {
	First string `json:"first"`
	Last  string `json:"last"`
	Prev  string `json:"prev"`
	Next  string `json:"next"`
}

// Meta is the pagination metadata of a list response.
type Meta struct {
	CurrentPage int  `json:"current_page"`
	LastPage    int  `json:"last_page"`
	PerPage     int  `json:"per_page"`
	Total       int  `json:"total"`
	From        *int `json:"from"`
	To          *int `json:"to"`
}

// Page is one page of a REST list response.
type Page[T any] struct {
	Items []T   `json:"data"`
	Links Links `json:"links"`
	Meta  Meta  `json:"meta"`
}

// HasNext reports whether the backend advertised a following page.
func (p *Page[T]) HasNext() bool {
	return p.Links.Next != ""
}

// ParsePage decodes a list response, parsing each item with parse. Missing
// links decode as empty and missing meta fields take the backend defaults.
func ParsePage[T any](data []byte, parse func([]byte) (T, error)) (*Page[T], error) {
	var raw struct {
		Data  []json.RawMessage `json:"data"`
		Links *Links            `json:"links"`
		Meta  *json.RawMessage  `json:"meta"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, NewError(KindValidation, 0, "invalid list response").WithCause(err)
	}

	page := &Page[T]{
		Items: make([]T, 0, len(raw.Data)),
		Meta:  Meta{CurrentPage: 1, LastPage: 1, PerPage: 100},
	}
	if raw.Links != nil {
		page.Links = *raw.Links
	}
	if raw.Meta != nil {
		if err := json.Unmarshal(*raw.Meta, &page.Meta); err != nil {
			return nil, NewError(KindValidation, 0, "invalid list meta").WithCause(err)
		}
	}
	for i, item := range raw.Data {
		v, err := parse(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		page.Items = append(page.Items, v)
	}
	return page, nil
}

// ParseItem decodes a single-entity response, which the backend wraps in
// a data member.
func ParseItem[T any](data []byte, parse func([]byte) (T, error)) (T, error) {
	var raw struct {
		Data json.RawMessage `json:"data"`
	}
	var zero T
	if err := json.Unmarshal(data, &raw); err != nil {
		return zero, NewError(KindValidation, 0, "invalid response").WithCause(err)
	}
	if isNull(raw.Data) {
		return zero, NewError(KindValidation, 0, "response missing required fields: data")
	}
	return parse(raw.Data)
}
