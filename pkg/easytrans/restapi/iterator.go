package restapi

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"

	"github.com/tournevent/easytrans/pkg/easytrans"
)

// FetchPage GETs a single page of a list endpoint.
func FetchPage[T any](ctx context.Context, api APIClient, path string, query url.Values, parse func([]byte) (T, error)) (*easytrans.Page[T], error) {
	data, err := api.List(ctx, path, query)
	if err != nil {
		return nil, err
	}
	return easytrans.ParsePage(data, parse)
}

// PageIterator yields every item of a list endpoint, following links.next
// until the backend stops advertising a next page. Only the page number
// changes between requests; every other parameter is preserved.
//
// Pages are fetched lazily, so records created or deleted while iterating
// may be skipped or seen twice.
type PageIterator[T any] struct {
	api   APIClient
	path  string
	query url.Values
	parse func([]byte) (T, error)

	page      *easytrans.Page[T]
	requested int
	next      int
	item      T
	err       error
}

// NewPageIterator returns an iterator starting at the page in query, or
// page 1 when query has none.
func NewPageIterator[T any](api APIClient, path string, query url.Values, parse func([]byte) (T, error)) *PageIterator[T] {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	return &PageIterator[T]{api: api, path: path, query: q, parse: parse}
}

// FailedIterator returns an iterator that yields nothing and reports err.
func FailedIterator[T any](err error) *PageIterator[T] {
	return &PageIterator[T]{err: err}
}

// Next advances to the next item, fetching the next page when the current
// one is exhausted.
func (it *PageIterator[T]) Next(ctx context.Context) bool {
	for it.err == nil {
		if it.page != nil && it.next < len(it.page.Items) {
			it.item = it.page.Items[it.next]
			it.next++
			return true
		}
		if it.page != nil && !it.page.HasNext() {
			return false
		}
		if err := it.fetch(ctx); err != nil {
			it.err = err
		}
	}
	return false
}

// fetch loads the first page, or the page after the current one.
func (it *PageIterator[T]) fetch(ctx context.Context) error {
	prev := 0
	if it.page != nil {
		prev = it.page.Meta.CurrentPage
		if prev+1 <= it.requested {
			return it.stalled(prev+1, it.requested)
		}
		it.query.Set("page", strconv.Itoa(prev+1))
	}
	it.requested = 1
	if p, err := strconv.Atoi(it.query.Get("page")); err == nil {
		it.requested = p
	}

	page, err := FetchPage(ctx, it.api, it.path, it.query, it.parse)
	if err != nil {
		return err
	}
	if it.page != nil && page.Meta.CurrentPage <= prev {
		return it.stalled(page.Meta.CurrentPage, prev)
	}
	it.page = page
	it.next = 0
	return nil
}

func (it *PageIterator[T]) stalled(page, after int) error {
	return easytrans.NewError(easytrans.KindAPI, 0,
		fmt.Sprintf("pagination of %s did not advance: page %d after page %d", it.path, page, after))
}

// Item returns the current item.
func (it *PageIterator[T]) Item() T {
	return it.item
}

// Page returns the metadata of the most recently fetched page.
func (it *PageIterator[T]) Page() *easytrans.Meta {
	if it.page == nil {
		return nil
	}
	return &it.page.Meta
}

// Err returns the error that stopped iteration, if any.
func (it *PageIterator[T]) Err() error {
	return it.err
}

// All adapts the iterator to a range-over-func sequence. A failure is
// yielded once, as the last element.
func (it *PageIterator[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for it.Next(ctx) {
			if !yield(it.Item(), nil) {
				return
			}
		}
		if it.err != nil {
			var zero T
			yield(zero, it.err)
		}
	}
}

var _ easytrans.Iterator[easytrans.RestOrder] = (*PageIterator[easytrans.RestOrder])(nil)
