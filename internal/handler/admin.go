// Package handler serves the admin routes as JSON view models. The widget
// layer that renders them is an external collaborator.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"orders-admin/internal/backend"
	"orders-admin/internal/format"
	"orders-admin/internal/list"
	"orders-admin/internal/order"
)

const dateDisplayLayout = "02 Jan 2006 15:04"

// Admin handles the admin application's HTTP surface.
type Admin struct {
	gw   backend.Gateway
	list *list.Synchronizer
}

func NewAdmin(gw backend.Gateway, sync *list.Synchronizer) *Admin {
	return &Admin{gw: gw, list: sync}
}

type listOrderView struct {
	ID            int64  `json:"id"`
	CustomerName  string `json:"customer_name"`
	TotalProducts string `json:"total_products"`
	TotalPrice    string `json:"total_price"`
	OrderDate     string `json:"order_date"`
}

type listPageView struct {
	Orders  []listOrderView `json:"orders"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
	Error   string          `json:"error,omitempty"`
}

// ListOrders renders the order list. The query parameters express the full
// desired list state; the handler applies the one thing that changed against
// the synchronizer (filter beats page size beats page number) so each request
// triggers exactly one upstream fetch.
func (h *Admin) ListOrders(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	name := params.Get("customer_name")

	var date *time.Time
	if raw := params.Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid date filter, want YYYY-MM-DD")
			return
		}
		date = &parsed
	}

	snap := h.list.Snapshot()

	perPage := snap.Query.PerPage
	if raw := params.Get("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondWithError(w, http.StatusBadRequest, "invalid per_page")
			return
		}
		perPage = n
	}

	page := snap.Query.Page
	if raw := params.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondWithError(w, http.StatusBadRequest, "invalid page")
			return
		}
		page = n
	}

	ctx := r.Context()

	// Fetch failures are not surfaced as request failures: the prior rows
	// stay visible and the recorded error rides along in the view model.
	switch {
	case name != snap.Query.CustomerName || !sameDay(date, snap.Query.Date):
		_ = h.list.SetFilter(ctx, name, date)
	case perPage != snap.Query.PerPage:
		_ = h.list.SetPageSize(ctx, perPage)
	default:
		_ = h.list.GoToPage(ctx, page)
	}

	respondWithJSON(w, http.StatusOK, buildListView(h.list.Snapshot()))
}

func buildListView(snap list.Snapshot) listPageView {
	view := listPageView{
		Orders:  make([]listOrderView, 0, len(snap.Rows)),
		Total:   snap.Total,
		Page:    snap.Query.Page,
		PerPage: snap.Query.PerPage,
	}
	if snap.Err != nil {
		view.Error = "failed to fetch orders"
	}
	for _, row := range snap.Rows {
		view.Orders = append(view.Orders, listOrderView{
			ID:            row.ID,
			CustomerName:  row.CustomerName,
			TotalProducts: format.Group(float64(row.TotalProducts)),
			TotalPrice:    format.Group(row.TotalPrice),
			OrderDate:     row.CreatedAt.Format(dateDisplayLayout),
		})
	}
	return view
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

type detailItemView struct {
	ProductID         int64  `json:"product_id"`
	Quantity          int    `json:"quantity"`
	ProductPrice      string `json:"product_price"`
	TotalProductPrice string `json:"total_product_price"`
}

type detailView struct {
	ID              int64            `json:"id"`
	CustomerName    string           `json:"customer_name"`
	OrderDate       string           `json:"order_date"`
	TotalOrderPrice string           `json:"total_order_price"`
	Products        []detailItemView `json:"products"`
}

// OrderDetail renders the read-only detail view. The grand total and the
// per-line totals are recomputed from the line items on every request.
func (h *Admin) OrderDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	o, err := h.gw.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Error().Err(err).Int64("order_id", id).Msg("handler: failed to fetch order detail")
		respondWithError(w, mapErrorToStatusCode(err), "failed to fetch order")
		return
	}

	view := detailView{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		OrderDate:       o.CreatedAt.Format(dateDisplayLayout),
		TotalOrderPrice: format.Group(order.Total(o.Products)),
		Products:        make([]detailItemView, 0, len(o.Products)),
	}
	for _, item := range o.Products {
		view.Products = append(view.Products, detailItemView{
			ProductID:         item.ProductID,
			Quantity:          item.Quantity,
			ProductPrice:      format.Group(item.ProductPrice),
			TotalProductPrice: format.Group(order.LineTotal(item)),
		})
	}

	respondWithJSON(w, http.StatusOK, view)
}

type formView struct {
	Order           *order.Order    `json:"order,omitempty"`
	Draft           order.Draft     `json:"draft"`
	Products        []order.Product `json:"products"`
	TotalOrderPrice string          `json:"total_order_price"`
}

// NewOrderForm bootstraps the create form: the product catalog plus an empty
// draft with one blank line item.
func (h *Admin) NewOrderForm(w http.ResponseWriter, r *http.Request) {
	products, err := h.gw.ListProducts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to fetch product catalog")
		respondWithError(w, mapErrorToStatusCode(err), "failed to fetch products")
		return
	}

	respondWithJSON(w, http.StatusOK, formView{
		Draft:           order.Draft{Products: []order.LineItem{{}}},
		Products:        products,
		TotalOrderPrice: format.Group(0),
	})
}

// EditOrderForm bootstraps the edit form: the order, the product catalog for
// the selects, and the recomputed total.
func (h *Admin) EditOrderForm(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	o, err := h.gw.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Error().Err(err).Int64("order_id", id).Msg("handler: failed to fetch order for edit")
		respondWithError(w, mapErrorToStatusCode(err), "failed to fetch order")
		return
	}

	products, err := h.gw.ListProducts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to fetch product catalog")
		respondWithError(w, mapErrorToStatusCode(err), "failed to fetch products")
		return
	}

	respondWithJSON(w, http.StatusOK, formView{
		Order:           o,
		Draft:           order.Draft{CustomerName: o.CustomerName, Products: o.Products},
		Products:        products,
		TotalOrderPrice: format.Group(order.Total(o.Products)),
	})
}

// CreateOrder validates the submitted draft and forwards it to the upstream.
func (h *Admin) CreateOrder(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	if err := h.gw.CreateOrder(r.Context(), draft); err != nil {
		log.Error().Err(err).Msg("handler: failed to submit new order")
		respondWithError(w, mapErrorToStatusCode(err), "failed to submit order")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"redirect": "/"})
}

// UpdateOrder validates the submitted draft and replaces the order upstream.
func (h *Admin) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	draft, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	if err := h.gw.UpdateOrder(r.Context(), id, draft); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Error().Err(err).Int64("order_id", id).Msg("handler: failed to submit order update")
		respondWithError(w, mapErrorToStatusCode(err), "failed to submit order")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"redirect": "/"})
}

// DeleteOrder deletes upstream and refreshes the list at page 1 only on
// success; a failure leaves the list (and the caller's confirmation dialog)
// as they were.
func (h *Admin) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	if err := h.list.DeleteAndRefresh(r.Context(), id); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		respondWithError(w, mapErrorToStatusCode(err), "failed to delete order")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"deleted": id,
		"list":    buildListView(h.list.Snapshot()),
	})
}

// decodeDraft reads and validates a mutation payload. Prices are never
// trusted from the form: each line item's unit price is re-snapshotted from
// the current catalog, which also rejects product ids the catalog does not
// contain.
func (h *Admin) decodeDraft(w http.ResponseWriter, r *http.Request) (order.Draft, bool) {
	var draft order.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return draft, false
	}

	if err := order.Validate(draft); err != nil {
		var verrs order.ValidationErrors
		if errors.As(err, &verrs) {
			respondWithValidation(w, verrs)
		} else {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		}
		return draft, false
	}

	products, err := h.gw.ListProducts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to fetch product catalog for validation")
		respondWithError(w, mapErrorToStatusCode(err), "failed to fetch products")
		return draft, false
	}

	catalog := order.NewCatalog(products)
	for i := range draft.Products {
		if err := catalog.Snapshot(draft.Products, i, draft.Products[i].ProductID); err != nil {
			respondWithValidation(w, order.ValidationErrors{
				fmt.Sprintf("products.%d.product_id", i): "Unknown product",
			})
			return draft, false
		}
	}

	return draft, true
}

func orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}
