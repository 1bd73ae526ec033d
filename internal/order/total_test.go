package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"orders-admin/internal/order"
)

func TestTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []order.LineItem
		want  float64
	}{
		{
			name:  "empty_order",
			items: nil,
			want:  0,
		},
		{
			name: "single_item",
			items: []order.LineItem{
				{ProductID: 1, Quantity: 3, ProductPrice: 25000},
			},
			want: 75000,
		},
		{
			name: "multiple_items",
			items: []order.LineItem{
				{ProductID: 1, Quantity: 2, ProductPrice: 15000},
				{ProductID: 2, Quantity: 1, ProductPrice: 40000},
				{ProductID: 3, Quantity: 5, ProductPrice: 1000},
			},
			want: 75000,
		},
		{
			name: "zero_quantity_contributes_nothing",
			items: []order.LineItem{
				{ProductID: 1, Quantity: 0, ProductPrice: 99999},
				{ProductID: 2, Quantity: 2, ProductPrice: 500},
			},
			want: 1000,
		},
		{
			name: "fractional_prices",
			items: []order.LineItem{
				{ProductID: 1, Quantity: 4, ProductPrice: 2.5},
			},
			want: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, order.Total(tt.items), 1e-9)
		})
	}
}

func TestTotalMatchesLineTotals(t *testing.T) {
	items := []order.LineItem{
		{ProductID: 1, Quantity: 7, ProductPrice: 1234.5},
		{ProductID: 2, Quantity: 3, ProductPrice: 42},
		{ProductID: 3, Quantity: 1, ProductPrice: 0.99},
	}

	sum := 0.0
	for _, item := range items {
		sum += order.LineTotal(item)
	}

	assert.InDelta(t, sum, order.Total(items), 1e-9)
}
