package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/paksmart/storefront/internal/cart"
	"github.com/paksmart/storefront/internal/logging"
	"github.com/paksmart/storefront/internal/middleware"
	"github.com/paksmart/storefront/internal/services"
)

var apiLog = logging.NewPackageLogger("api")

type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"description"`
}

type messageBody struct {
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

// errorMapping gives a service error its status and display title.
// An empty description means the error text is shown.
type errorMapping struct {
	err         error
	status      int
	title       string
	description string
}

var errorMappings = []errorMapping{
	{services.ErrMissingFields, http.StatusBadRequest, "Please fill all required fields", ""},
	{services.ErrInvalidPrice, http.StatusBadRequest, "Invalid price", ""},
	{services.ErrInvalidCategory, http.StatusBadRequest, "Invalid category", ""},
	{services.ErrInvalidStatus, http.StatusBadRequest, "Invalid order status", ""},
	{services.ErrEmptyCart, http.StatusBadRequest, "Your cart is empty", ""},
	{services.ErrWeakPassword, http.StatusBadRequest, "Password too short", "Password must be at least 6 characters."},
	{services.ErrSoldOut, http.StatusBadRequest, "Out of stock", ""},
	{services.ErrInsufficientStock, http.StatusBadRequest, "Not enough stock", ""},
	{services.ErrQuantityTooLarge, http.StatusBadRequest, "Invalid quantity", ""},
	{cart.ErrConflict, http.StatusConflict, "Cart busy", "Your cart was changed elsewhere. Please try again."},
	{services.ErrInvalidImage, http.StatusBadRequest, "Invalid image", ""},
	{services.ErrImagesDisabled, http.StatusServiceUnavailable, "Image uploads unavailable", ""},
	{services.ErrUnauthenticated, http.StatusUnauthorized, "Please sign in", ""},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "Error", "Invalid login credentials"},
	{services.ErrAdminCannotOrder, http.StatusForbidden, "Admin cannot place orders", "Please use a customer account to place orders."},
	{services.ErrAdminRequired, http.StatusForbidden, "Access denied", "Admin access required"},
	{services.ErrEmailTaken, http.StatusConflict, "Error", "User already registered"},
	{services.ErrProductNotFound, http.StatusNotFound, "Product not found", ""},
	{services.ErrOrderNotFound, http.StatusNotFound, "Order not found", ""},
	{services.ErrUserNotFound, http.StatusNotFound, "User not found", ""},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		apiLog.Warn().Err(err).Msg("failed to write response")
	}
}

// writeError maps err onto a status and a title/description pair.
// Unmapped errors are store failures and carry their message as is.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			desc := m.description
			if desc == "" {
				desc = err.Error()
			}
			writeJSON(w, m.status, errorBody{Error: m.title, Description: desc})
			return
		}
	}

	apiLog.Error().Err(err).Str(logging.REQUEST_ID, middleware.RequestIDFromContext(r.Context())).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Error", Description: err.Error()})
}
