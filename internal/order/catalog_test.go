package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"orders-admin/internal/order"
)

func TestCatalogSnapshot(t *testing.T) {
	products := []order.Product{
		{ID: 1, Name: "Latte", Price: 28000},
		{ID: 2, Name: "Americano", Price: 22000},
	}

	t.Run("copies_price_at_selection_time", func(t *testing.T) {
		catalog := order.NewCatalog(products)
		items := []order.LineItem{{Quantity: 2}}

		err := catalog.Snapshot(items, 0, 2)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), items[0].ProductID)
		assert.Equal(t, 22000.0, items[0].ProductPrice)
	})

	t.Run("stored_price_is_not_a_live_reference", func(t *testing.T) {
		catalog := order.NewCatalog(products)
		items := []order.LineItem{{Quantity: 1}}

		err := catalog.Snapshot(items, 0, 1)
		assert.NoError(t, err)
		assert.Equal(t, 28000.0, items[0].ProductPrice)

		// A later catalog load with a changed price must not affect the
		// already-snapshotted item.
		_ = order.NewCatalog([]order.Product{{ID: 1, Name: "Latte", Price: 99000}})
		assert.Equal(t, 28000.0, items[0].ProductPrice)
	})

	t.Run("unknown_product_rejected", func(t *testing.T) {
		catalog := order.NewCatalog(products)
		items := []order.LineItem{{Quantity: 1}}

		err := catalog.Snapshot(items, 0, 42)

		assert.ErrorIs(t, err, order.ErrProductNotFound)
		assert.Zero(t, items[0].ProductID)
		assert.Zero(t, items[0].ProductPrice)
	})

	t.Run("index_out_of_range", func(t *testing.T) {
		catalog := order.NewCatalog(products)

		err := catalog.Snapshot(nil, 0, 1)

		assert.Error(t, err)
	})
}

func TestCatalogGet(t *testing.T) {
	catalog := order.NewCatalog([]order.Product{{ID: 7, Name: "Mocha", Price: 30000}})

	p, ok := catalog.Get(7)
	assert.True(t, ok)
	assert.Equal(t, "Mocha", p.Name)

	_, ok = catalog.Get(8)
	assert.False(t, ok)

	assert.Len(t, catalog.Products(), 1)
}
