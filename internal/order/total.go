package order

// Total returns the grand total of an order: the sum of unit price times
// quantity over every line item. An empty list totals zero. Every view path
// recomputes this from the current items; the result must never be cached
// against a stale item list.
func Total(items []LineItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.ProductPrice * float64(item.Quantity)
	}
	return total
}

// LineTotal returns the total for a single line item.
func LineTotal(item LineItem) float64 {
	return item.ProductPrice * float64(item.Quantity)
}
