package order

import (
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// PageQuery is the pagination and filter state sent to the upstream to
// retrieve one page of orders. It is explicit and serializable so request
// parameters can be derived and tested without any transport in place.
type PageQuery struct {
	Page         int
	PerPage      int
	CustomerName string
	Date         *time.Time
}

// Normalize clamps page and page size into their valid ranges.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	return q
}

// Values derives the upstream request parameters for this query. Pure: the
// same query always yields the same parameters. The date filter is sent as
// YYYY-MM-DD and omitted entirely when unset, as is an empty name filter.
func (q PageQuery) Values() url.Values {
	q = q.Normalize()

	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("per_page", strconv.Itoa(q.PerPage))
	if q.CustomerName != "" {
		v.Set("customerName", q.CustomerName)
	}
	if q.Date != nil {
		v.Set("date", q.Date.Format("2006-01-02"))
	}
	return v
}
