package garmin

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"net/url"
	"strconv"
)

// Paginate drives an offset/limit operation as a lazy sequence. Starting at
// offset 0 it merges start and limit into the query, yields each page's
// items in order, and advances the offset by exactly pageSize — regardless
// of how many items the page held. The sequence ends only when a page comes
// back empty: a short but nonempty page does NOT terminate it, since the
// true result count may land exactly on a page boundary.
//
// The sequence is finite and single-use. A failed page yields its error in
// place and ends the sequence; items from earlier pages have already been
// delivered. Use Collect for all-or-nothing consumption.
func Paginate[T any](ctx context.Context, c *Client, op Operation, params Params, query url.Values, pageSize int) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		if pageSize <= 0 {
			yield(zero, fmt.Errorf("page size must be positive, got %d", pageSize))
			return
		}

		offset := 0
		for {
			q := make(url.Values, len(query)+2)
			maps.Copy(q, query)
			q.Set("start", strconv.Itoa(offset))
			q.Set("limit", strconv.Itoa(pageSize))

			var page []T
			if err := c.call(ctx, op, params, q, nil, &page); err != nil {
				yield(zero, err)
				return
			}
			if len(page) == 0 {
				return
			}

			for _, item := range page {
				if !yield(item, nil) {
					return
				}
			}

			offset += pageSize
		}
	}
}

// Collect drains a paginated sequence into a slice. Any error discards the
// items accumulated so far.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var items []T
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
