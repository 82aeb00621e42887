package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/paksmart/storefront/internal/cart"
	"github.com/paksmart/storefront/internal/middleware"
	"github.com/paksmart/storefront/internal/models"
)

func userID(r *http.Request) string {
	return middleware.SessionFromContext(r.Context()).UserID
}

func writeCart(w http.ResponseWriter, r *http.Request, c *cart.Cart, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Response())
}

// GetCartHandler handles GET /api/v1/cart
func (a *App) GetCartHandler(w http.ResponseWriter, r *http.Request) {
	c, err := a.cartService.GetCart(r.Context(), userID(r))
	writeCart(w, r, c, err)
}

// AddToCartHandler handles POST /api/v1/cart/items
func (a *App) AddToCartHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AddToCartRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := a.cartService.AddToCart(r.Context(), userID(r), req.ProductID)
	writeCart(w, r, c, err)
}

// UpdateCartItemHandler handles PUT /api/v1/cart/items/{id}
func (a *App) UpdateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := a.cartService.UpdateQuantity(r.Context(), userID(r), mux.Vars(r)["id"], req.Quantity)
	writeCart(w, r, c, err)
}

// RemoveCartItemHandler handles DELETE /api/v1/cart/items/{id}
func (a *App) RemoveCartItemHandler(w http.ResponseWriter, r *http.Request) {
	c, err := a.cartService.RemoveFromCart(r.Context(), userID(r), mux.Vars(r)["id"])
	writeCart(w, r, c, err)
}

// ClearCartHandler handles DELETE /api/v1/cart
func (a *App) ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.cartService.ClearCart(r.Context(), userID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart.New().Response())
}
