// Package batch runs one call per id concurrently and reports each outcome,
// so bulk actions can reconcile local state with exactly the ids that
// succeeded.
package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit bounds concurrency when Run is given a limit below 1.
const DefaultLimit = 4

// Item is the outcome for one id. Err is nil on success.
type Item struct {
	ID  string
	Err error
}

// Result holds one Item per input id, in input order.
type Result struct {
	Items []Item
}

// Run calls fn for every id with at most limit calls in flight. A failing
// call never cancels its siblings. Ids not started before ctx is done are
// reported with ctx.Err().
func Run(ctx context.Context, ids []string, limit int, fn func(ctx context.Context, id string) error) Result {
	if limit < 1 {
		limit = DefaultLimit
	}

	items := make([]Item, len(ids))
	var g errgroup.Group
	g.SetLimit(limit)

	for i, id := range ids {
		items[i].ID = id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			items[i].Err = fn(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	return Result{Items: items}
}

// Succeeded returns the ids whose call returned nil.
func (r Result) Succeeded() []string {
	out := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		if it.Err == nil {
			out = append(out, it.ID)
		}
	}
	return out
}

// Failed returns the items whose call returned an error.
func (r Result) Failed() []Item {
	var out []Item
	for _, it := range r.Items {
		if it.Err != nil {
			out = append(out, it)
		}
	}
	return out
}

func (r Result) AllSucceeded() bool {
	return len(r.Failed()) == 0
}

// Err joins the per-id errors, or returns nil when every call succeeded.
func (r Result) Err() error {
	var errs []error
	for _, it := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", it.ID, it.Err))
	}
	return errors.Join(errs...)
}
