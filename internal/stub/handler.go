package stub

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"orders-admin/internal/order"
)

// Handler exposes the upstream REST surface the admin expects.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func NewRouter(store *Store) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := NewHandler(store)

	r.Get("/api/orders", h.ListOrders)
	r.Get("/api/order/{id}", h.GetOrder)
	r.Post("/api/order", h.CreateOrder)
	r.Put("/api/order/{id}", h.UpdateOrder)
	r.Delete("/api/order/{id}", h.DeleteOrder)
	r.Get("/api/products", h.ListProducts)

	return r
}

// ListOrders serves GET /api/orders?page&per_page&customerName&date as
// {list, total}.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, total, err := h.store.ListOrders(r.Context(), q)
	if err != nil {
		log.Error().Err(err).Msg("stub: list orders failed")
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"list":  rows,
		"total": total,
	})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	o, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Error().Err(err).Int64("order_id", id).Msg("stub: get order failed")
		writeError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}

	id, err := h.store.CreateOrder(r.Context(), draft)
	if err != nil {
		log.Error().Err(err).Msg("stub: create order failed")
		writeError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}

	if err := h.store.UpdateOrder(r.Context(), id, draft); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Error().Err(err).Int64("order_id", id).Msg("stub: update order failed")
		writeError(w, http.StatusInternalServerError, "failed to update order")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteOrder(r.Context(), id); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Error().Err(err).Int64("order_id", id).Msg("stub: delete order failed")
		writeError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("stub: list products failed")
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": products})
}

func parseListQuery(r *http.Request) (order.PageQuery, error) {
	params := r.URL.Query()

	q := order.PageQuery{
		Page:         1,
		PerPage:      order.DefaultPerPage,
		CustomerName: params.Get("customerName"),
	}

	if raw := params.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("invalid page")
		}
		q.Page = n
	}
	if raw := params.Get("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("invalid per_page")
		}
		q.PerPage = n
	}
	if raw := params.Get("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return q, errors.New("invalid date, want YYYY-MM-DD")
		}
		q.Date = &d
	}

	return q.Normalize(), nil
}

func decodeDraft(w http.ResponseWriter, r *http.Request) (order.Draft, bool) {
	var draft order.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return draft, false
	}
	if err := order.Validate(draft); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return draft, false
	}
	return draft, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
