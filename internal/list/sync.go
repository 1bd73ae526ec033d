// Package list owns the order list's filter and pagination state and keeps
// it synchronized with the upstream.
package list

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"orders-admin/internal/backend"
	"orders-admin/internal/order"
)

// Synchronizer holds the current page query plus the rows and total count of
// the most recent successful fetch. It is safe for concurrent use: state is
// guarded by a mutex and upstream calls run outside of it.
//
// Overlapping fetches do not race. Each fetch takes a monotonically
// increasing token under the lock; when its response arrives, the result is
// committed only if the token is still the newest one issued. A superseded
// fetch leaves no trace in the state.
type Synchronizer struct {
	gw backend.Gateway

	mu      sync.Mutex
	token   uint64
	query   order.PageQuery
	rows    []order.Row
	total   int
	loading bool
	lastErr error
}

// Snapshot is a copy of the synchronizer's state for rendering.
type Snapshot struct {
	Query   order.PageQuery
	Rows    []order.Row
	Total   int
	Loading bool
	Err     error
}

func New(gw backend.Gateway) *Synchronizer {
	return &Synchronizer{
		gw: gw,
		query: order.PageQuery{
			Page:    1,
			PerPage: order.DefaultPerPage,
		},
		rows: []order.Row{},
	}
}

// SetFilter replaces the name and date filters, resets to page 1, and
// refetches.
func (s *Synchronizer) SetFilter(ctx context.Context, name string, date *time.Time) error {
	s.mu.Lock()
	s.query.CustomerName = name
	s.query.Date = date
	s.query.Page = 1
	tok, q := s.begin()
	s.mu.Unlock()

	return s.fetch(ctx, tok, q)
}

// SetPageSize changes the page size and refetches from page 1. The reset to
// page 1 is deliberate: keeping the old page number can strand the view past
// the last page of the resized result set.
func (s *Synchronizer) SetPageSize(ctx context.Context, n int) error {
	s.mu.Lock()
	s.query.PerPage = n
	s.query.Page = 1
	tok, q := s.begin()
	s.mu.Unlock()

	return s.fetch(ctx, tok, q)
}

// GoToPage refetches the given page without touching the filters.
func (s *Synchronizer) GoToPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	s.query.Page = page
	tok, q := s.begin()
	s.mu.Unlock()

	return s.fetch(ctx, tok, q)
}

// Refresh refetches the current query unchanged.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	s.mu.Lock()
	tok, q := s.begin()
	s.mu.Unlock()

	return s.fetch(ctx, tok, q)
}

// DeleteAndRefresh deletes the order upstream and, only if that succeeded,
// refetches from page 1. On failure the list state is left untouched and the
// error is returned for the caller to surface.
func (s *Synchronizer) DeleteAndRefresh(ctx context.Context, id int64) error {
	if err := s.gw.DeleteOrder(ctx, id); err != nil {
		log.Error().Err(err).Int64("order_id", id).Msg("list: delete failed")
		return err
	}

	log.Info().Int64("order_id", id).Msg("list: order deleted")

	s.mu.Lock()
	s.query.Page = 1
	tok, q := s.begin()
	s.mu.Unlock()

	return s.fetch(ctx, tok, q)
}

// Snapshot returns a copy of the current state.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]order.Row, len(s.rows))
	copy(rows, s.rows)

	return Snapshot{
		Query:   s.query,
		Rows:    rows,
		Total:   s.total,
		Loading: s.loading,
		Err:     s.lastErr,
	}
}

// begin issues a new fetch token for the current query. Callers must hold
// the lock.
func (s *Synchronizer) begin() (uint64, order.PageQuery) {
	s.token++
	s.loading = true
	return s.token, s.query
}

// fetch performs one upstream read and commits the result if the token is
// still current. A stale token means a newer fetch superseded this one; its
// result is dropped and no error is reported.
func (s *Synchronizer) fetch(ctx context.Context, tok uint64, q order.PageQuery) error {
	page, err := s.gw.ListOrders(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if tok != s.token {
		log.Debug().Uint64("token", tok).Uint64("current", s.token).Msg("list: fetch superseded, dropping result")
		return nil
	}

	s.loading = false

	if err != nil {
		// Keep the previous rows visible; just record the failure.
		s.lastErr = err
		log.Error().Err(err).Int("page", q.Page).Msg("list: fetch failed")
		return err
	}

	s.rows = page.List
	s.total = page.Total
	s.lastErr = nil
	return nil
}
