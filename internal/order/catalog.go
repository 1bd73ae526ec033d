package order

import "errors"

var ErrProductNotFound = errors.New("product not found")

// Catalog is the read-only product list loaded once per form session. Line
// items copy a product's price out of the catalog when it is selected; the
// catalog itself is never referenced again for stored items.
type Catalog struct {
	products []Product
	byID     map[int64]Product
}

func NewCatalog(products []Product) Catalog {
	byID := make(map[int64]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return Catalog{products: products, byID: byID}
}

// Products returns the catalog in its loaded order, for rendering selects.
func (c Catalog) Products() []Product {
	return c.products
}

// Get looks up a product by id.
func (c Catalog) Get(id int64) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Snapshot records a product selection on items[index]: it sets the product
// id and copies the product's current catalog price onto the item. An id
// absent from the catalog is rejected with ErrProductNotFound rather than
// snapshotting a zero price.
func (c Catalog) Snapshot(items []LineItem, index int, productID int64) error {
	if index < 0 || index >= len(items) {
		return errors.New("line item index out of range")
	}

	p, ok := c.byID[productID]
	if !ok {
		return ErrProductNotFound
	}

	items[index].ProductID = p.ID
	items[index].ProductPrice = p.Price
	return nil
}
