package order

import "time"

// LineItem is one product-quantity-price entry within an order. ProductPrice
// is the unit price copied from the catalog at selection time; it has no live
// link to the catalog afterwards.
type LineItem struct {
	ProductID    int64   `json:"product_id" db:"product_id"`
	Quantity     int     `json:"quantity" db:"quantity"`
	ProductPrice float64 `json:"product_price" db:"product_price"`
}

// Order is a customer purchase record with its nested line items.
type Order struct {
	ID           int64      `json:"id" db:"id"`
	CustomerName string     `json:"customer_name" db:"customer_name"`
	Products     []LineItem `json:"products" db:"-"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// Row is one entry of the paginated order list. The aggregate columns are
// computed by the upstream; detail and edit views derive totals with Total
// instead.
type Row struct {
	ID            int64     `json:"id" db:"id"`
	CustomerName  string    `json:"customer_name" db:"customer_name"`
	TotalProducts int       `json:"total_products" db:"total_products"`
	TotalPrice    float64   `json:"total_price" db:"total_price"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Product is read-only catalog reference data.
type Product struct {
	ID    int64   `json:"id" db:"id"`
	Name  string  `json:"name" db:"name"`
	Price float64 `json:"price" db:"price"`
}

// Draft is the mutation payload for creating or replacing an order.
type Draft struct {
	CustomerName string     `json:"customer_name"`
	Products     []LineItem `json:"products"`
}
