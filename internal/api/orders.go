package api

import (
	"net/http"

	"github.com/paksmart/storefront/internal/middleware"
	"github.com/paksmart/storefront/internal/models"
)

// CheckoutHandler handles POST /api/v1/checkout
func (a *App) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	var req models.DeliveryDetails
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := a.orderService.Checkout(r.Context(), middleware.SessionFromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// ListMyOrdersHandler handles GET /api/v1/orders
func (a *App) ListMyOrdersHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orderService.ListUserOrders(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}
