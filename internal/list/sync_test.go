package list_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"orders-admin/internal/backend"
	"orders-admin/internal/list"
	"orders-admin/internal/order"
)

type mockGateway struct {
	ListOrdersFunc  func(ctx context.Context, q order.PageQuery) (*backend.OrderPage, error)
	DeleteOrderFunc func(ctx context.Context, id int64) error
}

func (m *mockGateway) ListOrders(ctx context.Context, q order.PageQuery) (*backend.OrderPage, error) {
	return m.ListOrdersFunc(ctx, q)
}

func (m *mockGateway) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	return nil, errors.New("not used")
}

func (m *mockGateway) CreateOrder(ctx context.Context, draft order.Draft) error {
	return errors.New("not used")
}

func (m *mockGateway) UpdateOrder(ctx context.Context, id int64, draft order.Draft) error {
	return errors.New("not used")
}

func (m *mockGateway) DeleteOrder(ctx context.Context, id int64) error {
	return m.DeleteOrderFunc(ctx, id)
}

func (m *mockGateway) ListProducts(ctx context.Context) ([]order.Product, error) {
	return nil, errors.New("not used")
}

func page(total int, rows ...order.Row) *backend.OrderPage {
	return &backend.OrderPage{List: rows, Total: total}
}

func TestSetFilterResetsToPageOneWithOneFetch(t *testing.T) {
	var (
		fetches int
		gotQ    order.PageQuery
	)
	gw := &mockGateway{
		ListOrdersFunc: func(ctx context.Context, q order.PageQuery) (*backend.OrderPage, error) {
			fetches++
			gotQ = q
			return page(1, order.Row{ID: 1, CustomerName: "Ann"}), nil
		},
	}

	s := list.New(gw)
	assert.NoError(t, s.GoToPage(context.Background(), 4))

	fetches = 0
	err := s.SetFilter(context.Background(), "Ann", nil)

	assert.NoError(t, err)
	assert.Equal(t, 1, fetches, "a filter change issues exactly one fetch")
	assert.Equal(t, 1, gotQ.Page, "a filter change resets to page 1")
	assert.Equal(t, "Ann", gotQ.CustomerName)
	assert.Nil(t, gotQ.Date)

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Query.Page)
	assert.Equal(t, "Ann", snap.Query.CustomerName)
	assert.Len(t, snap.Rows, 1)
	assert.False(t, snap.Loading)
}

func TestSetPageSizeResetsToPageOne(t *testing.T) {
	var gotQ order.PageQuery
	gw := &mockGateway{
		ListOrdersFunc: func(ctx context.Context, q order.PageQuery) (*backend.OrderPage, error) {
			gotQ = q
			return page(0), nil
		},
	}

	s := list.New(gw)
	assert.NoError(t, s.GoToPage(context.Background(), 3))
	assert.NoError(t, s.SetPageSize(context.Background(), 25))

	assert.Equal(t, 1, gotQ.Page)
	assert.Equal(t, 25, gotQ.PerPage)
}

func TestGoToPageKeepsFilters(t *testing.T) {
	var gotQ order.PageQuery
	gw := &mockGateway{
		ListOrdersFunc: func(ctx context.Context, q order.PageQuery) (*backend.OrderPage, error) {
			gotQ = q
			return page(0), nil
		},
	}

	s := list.New(gw)
	assert.NoError(t, s.SetFilter(context.Background(), "Bob", nil))
	assert.NoError(t, s.GoToPage(context.Background(), 2))

	assert.Equal(t, 2, gotQ.Page)
	assert.Equal(t, "Bob", gotQ.CustomerName)
}

func TestFetchFailureKeepsPriorRows(t *testing.T) {
	fail := false
	gw := &mockGateway{
		ListOrdersFunc: func(ctx context.Context, q order.PageQuery) (*backend.OrderPage, error) {
			if fail {
				return nil, errors.New("upstream down")
			}
			return page(2, order.Row{ID: 1}, order.Row{ID: 2}), nil
		},
	}

	s := list.New(gw)
	assert.NoError(t, s.Refresh(context.Background()))

	fail = true
	err := s.GoToPage(context.Background(), 2)
	assert.Error(t, err)

	snap := s.Snapshot()
	assert.Len(t, snap.Rows, 2, "prior rows stay visible after a failed fetch")
	assert.Equal(t, 2, snap.Total)
	assert.Error(t, snap.Err)
	assert.False(t, snap.Loading)

	// A later successful fetch clears the recorded error.
	fail = false
	assert.NoError(t, s.Refresh(context.Background()))
	assert.NoError(t, s.Snapshot().Err)
}

func TestOverlappingFetchIsSuperseded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	gw := &mockGateway{
		ListOrdersFunc: func(ctx context.Context, q order.PageQuery) (*backend.OrderPage, error) {
			if q.CustomerName == "slow" {
				close(started)
				<-release
				return page(999, order.Row{ID: 999, CustomerName: "stale"}), nil
			}
			return page(1, order.Row{ID: 1, CustomerName: "fresh"}), nil
		},
	}

	s := list.New(gw)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// The slow fetch resolves after a newer one has been issued; its
		// result must be dropped without being reported as an error.
		assert.NoError(t, s.SetFilter(context.Background(), "slow", nil))
	}()

	<-started
	assert.NoError(t, s.SetFilter(context.Background(), "fresh", nil))

	close(release)
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Total)
	assert.Len(t, snap.Rows, 1)
	assert.Equal(t, "fresh", snap.Rows[0].CustomerName, "last issued fetch wins, not last resolved")
	assert.False(t, snap.Loading)
}

func TestDeleteAndRefresh(t *testing.T) {
	t.Run("success_refetches_page_one", func(t *testing.T) {
		var (
			deleted int64
			gotQ    order.PageQuery
		)
		gw := &mockGateway{
			DeleteOrderFunc: func(ctx context.Context, id int64) error {
				deleted = id
				return nil
			},
			ListOrdersFunc: func(ctx context.Context, q order.PageQuery) (*backend.OrderPage, error) {
				gotQ = q
				return page(0), nil
			},
		}

		s := list.New(gw)
		assert.NoError(t, s.GoToPage(context.Background(), 5))
		assert.NoError(t, s.DeleteAndRefresh(context.Background(), 12))

		assert.Equal(t, int64(12), deleted)
		assert.Equal(t, 1, gotQ.Page)
	})

	t.Run("failure_leaves_state_untouched", func(t *testing.T) {
		fetches := 0
		gw := &mockGateway{
			DeleteOrderFunc: func(ctx context.Context, id int64) error {
				return errors.New("backend refused")
			},
			ListOrdersFunc: func(ctx context.Context, q order.PageQuery) (*backend.OrderPage, error) {
				fetches++
				return page(1, order.Row{ID: 12}), nil
			},
		}

		s := list.New(gw)
		assert.NoError(t, s.GoToPage(context.Background(), 2))
		fetches = 0

		err := s.DeleteAndRefresh(context.Background(), 12)

		assert.Error(t, err)
		assert.Equal(t, 0, fetches, "no refetch after a failed delete")

		snap := s.Snapshot()
		assert.Equal(t, 2, snap.Query.Page)
		assert.Len(t, snap.Rows, 1, "the row is still present after a failed delete")
	})
}

func TestSnapshotRowsAreACopy(t *testing.T) {
	gw := &mockGateway{
		ListOrdersFunc: func(ctx context.Context, q order.PageQuery) (*backend.OrderPage, error) {
			return page(1, order.Row{ID: 1, CustomerName: "Ann"}), nil
		},
	}

	s := list.New(gw)
	assert.NoError(t, s.Refresh(context.Background()))

	snap := s.Snapshot()
	snap.Rows[0].CustomerName = "mutated"

	assert.Equal(t, "Ann", s.Snapshot().Rows[0].CustomerName)
}
