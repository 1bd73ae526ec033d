package order

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationErrors maps a field path (e.g. "products.0.quantity") to its
// message, mirroring the form field names the admin UI renders inline.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks a draft against the form schema: customer name required,
// at least one line item, each item with a chosen product and a positive
// quantity. Returns ValidationErrors describing every failing field, or nil.
func Validate(d Draft) error {
	errs := ValidationErrors{}

	if strings.TrimSpace(d.CustomerName) == "" {
		errs["customer_name"] = "Customer name is required"
	}

	if len(d.Products) == 0 {
		errs["products"] = "At least one product is required"
	}

	for i, item := range d.Products {
		if item.ProductID <= 0 {
			errs[fmt.Sprintf("products.%d.product_id", i)] = "Product is required"
		}
		if item.Quantity <= 0 {
			errs[fmt.Sprintf("products.%d.quantity", i)] = "Quantity must be positive"
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
