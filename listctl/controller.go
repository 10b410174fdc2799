// Package listctl drives a list view: it owns the page/sort/filter query
// and decides which fetch results are still worth showing. Controllers are
// pure state machines — mutators return a Fetch descriptor and the caller
// runs the network call, reporting back with Apply or Fail.
package listctl

import (
	"github.com/clinicware/go-clinic-console/records"
)

// Phase is the controller's lifecycle state.
type Phase int

const (
	Idle Phase = iota
	Loading
	Loaded
	Errored
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Fetch describes one fetch the caller should perform. Gen identifies the
// query state that produced it; a response reported back with an older
// generation is discarded, so out-of-order responses can never overwrite
// a newer query's result.
type Fetch struct {
	Gen   int64
	Query records.ListQuery
}

// Controller is the filter/sort/page state machine behind one list view.
// It is owned by a single goroutine (the UI event loop) and is not safe
// for concurrent use.
type Controller[T any] struct {
	query      records.ListQuery
	phase      Phase
	items      []T
	totalPages int
	err        error
	gen        int64
}

// New creates a controller sorted ascending on defaultSort, at page 1.
// filters, when non-nil, defines the filter keys the view supports; the
// keys are sent on every fetch even while their values are empty.
func New[T any](defaultSort string, filters map[string]string) *Controller[T] {
	return &Controller[T]{
		query: records.ListQuery{
			Page:    1,
			SortBy:  defaultSort,
			Order:   records.OrderAscending,
			Filters: filters,
		},
		totalPages: 1,
	}
}

// Refresh re-issues the current query, e.g. after a create/edit/delete
// round trip or for the first authoritative fetch.
func (c *Controller[T]) Refresh() Fetch {
	return c.issue()
}

// SetFilters replaces the filter set, resets to page 1 and drops the
// previous result — a filtered register is a different dataset, so stale
// rows are worse than an empty table.
func (c *Controller[T]) SetFilters(filters map[string]string) Fetch {
	c.query.Filters = filters
	c.query.Page = 1
	c.items = nil
	return c.issue()
}

// SetSort sets the sort field and flips the order on every call, even
// when the field changes. Re-clicking a different column therefore flips
// the order rather than resetting it to ascending; the behaviour is kept
// deliberately because existing users navigate by it.
func (c *Controller[T]) SetSort(field string) Fetch {
	c.query.SortBy = field
	c.query.Order = c.query.Order.Flipped()
	return c.issue()
}

// SetPage moves to the given page, keeping sort and filters.
func (c *Controller[T]) SetPage(page int) Fetch {
	if page < 1 {
		page = 1
	}
	c.query.Page = page
	return c.issue()
}

// Seed pre-populates the rows before the first fetch resolves, to avoid
// an empty flash when a parent already holds data. The next authoritative
// fetch result supersedes it wholesale.
func (c *Controller[T]) Seed(items []T) {
	if c.phase != Idle {
		return
	}
	c.items = items
}

// Apply installs a completed fetch's result. It reports false, leaving
// all state untouched, when gen is not the controller's latest issued
// generation.
func (c *Controller[T]) Apply(gen int64, items []T, totalPages int) bool {
	if gen != c.gen {
		return false
	}
	if totalPages < 1 {
		totalPages = 1
	}
	c.items = items
	c.totalPages = totalPages
	c.err = nil
	c.phase = Loaded
	return true
}

// Fail records a fetch failure. The last good rows stay visible; only the
// phase and error change. Stale generations are discarded like in Apply.
func (c *Controller[T]) Fail(gen int64, err error) bool {
	if gen != c.gen {
		return false
	}
	c.err = err
	c.phase = Errored
	return true
}

func (c *Controller[T]) issue() Fetch {
	c.gen++
	c.phase = Loading
	return Fetch{Gen: c.gen, Query: c.cloneQuery()}
}

// cloneQuery snapshots the query so an in-flight fetch keeps the
// parameters it was issued with.
func (c *Controller[T]) cloneQuery() records.ListQuery {
	q := c.query
	if c.query.Filters != nil {
		q.Filters = make(map[string]string, len(c.query.Filters))
		for k, v := range c.query.Filters {
			q.Filters[k] = v
		}
	}
	return q
}

// Reset returns the controller to its logged-out state: no rows, no
// error, page 1 of the current sort. Outstanding fetches become stale.
func (c *Controller[T]) Reset() {
	c.gen++
	c.items = nil
	c.err = nil
	c.phase = Idle
	c.query.Page = 1
	c.totalPages = 1
}

func (c *Controller[T]) Items() []T                 { return c.items }
func (c *Controller[T]) TotalPages() int            { return c.totalPages }
func (c *Controller[T]) Phase() Phase               { return c.phase }
func (c *Controller[T]) Err() error                 { return c.err }
func (c *Controller[T]) Query() records.ListQuery   { return c.cloneQuery() }
func (c *Controller[T]) Page() int                  { return c.query.Page }
func (c *Controller[T]) SortBy() string             { return c.query.SortBy }
func (c *Controller[T]) Order() records.SortOrder   { return c.query.Order }
func (c *Controller[T]) Loading() bool              { return c.phase == Loading }
