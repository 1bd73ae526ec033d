// Package transport wires the admin routes onto a chi router.
package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"orders-admin/internal/backend"
	"orders-admin/internal/handler"
	"orders-admin/internal/list"
)

func NewRouter(gw backend.Gateway, sync *list.Synchronizer) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	h := handler.NewAdmin(gw, sync)

	r.Get("/", h.ListOrders)
	r.Get("/orders/create", h.NewOrderForm)
	r.Get("/orders/{id}/edit", h.EditOrderForm)
	r.Get("/orders/{id}/view", h.OrderDetail)

	r.Post("/orders", h.CreateOrder)
	r.Put("/orders/{id}", h.UpdateOrder)
	r.Delete("/orders/{id}", h.DeleteOrder)

	return r
}
