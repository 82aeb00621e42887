package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/paksmart/storefront/internal/metrics"
	"github.com/paksmart/storefront/internal/middleware"
	"github.com/paksmart/storefront/internal/services"
)

// App holds application dependencies
type App struct {
	metrics        *metrics.AppMetrics
	productService *services.ProductService
	cartService    *services.CartService
	orderService   *services.OrderService
	userService    *services.UserService
	contactService *services.ContactService
	themes         sessions.Store
}

// NewApp creates a new application instance
func NewApp(
	m *metrics.AppMetrics,
	ps *services.ProductService,
	cs *services.CartService,
	os *services.OrderService,
	us *services.UserService,
	contact *services.ContactService,
	themes sessions.Store,
) *App {
	return &App{
		metrics:        m,
		productService: ps,
		cartService:    cs,
		orderService:   os,
		userService:    us,
		contactService: contact,
		themes:         themes,
	}
}

// SetupRoutes configures the HTTP routes
func (a *App) SetupRoutes(r *mux.Router) {
	// mux skips r.Use middleware when no route matches, so the
	// fallback handlers get the same chain explicitly
	chain := a.middlewareChain()
	r.Use(chain...)
	r.NotFoundHandler = wrap(http.HandlerFunc(NotFoundHandler), chain)
	r.MethodNotAllowedHandler = wrap(http.HandlerFunc(MethodNotAllowedHandler), chain)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.AuthMiddleware(a.userService))
	signedIn := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }

	// Catalog
	api.HandleFunc("/home", a.HomeHandler).Methods("GET")
	api.HandleFunc("/products", a.ListProductsHandler).Methods("GET")
	api.HandleFunc("/products/{id}", a.GetProductHandler).Methods("GET")

	// Auth
	api.HandleFunc("/auth/signup", a.SignUpHandler).Methods("POST")
	api.HandleFunc("/auth/signin", a.SignInHandler).Methods("POST")
	api.Handle("/auth/signout", signedIn(a.SignOutHandler)).Methods("POST")
	api.Handle("/auth/me", signedIn(a.MeHandler)).Methods("GET")

	// Cart
	api.Handle("/cart", signedIn(a.GetCartHandler)).Methods("GET")
	api.Handle("/cart", signedIn(a.ClearCartHandler)).Methods("DELETE")
	api.Handle("/cart/items", signedIn(a.AddToCartHandler)).Methods("POST")
	api.Handle("/cart/items/{id}", signedIn(a.UpdateCartItemHandler)).Methods("PUT")
	api.Handle("/cart/items/{id}", signedIn(a.RemoveCartItemHandler)).Methods("DELETE")

	// Orders
	api.Handle("/checkout", signedIn(a.CheckoutHandler)).Methods("POST")
	api.Handle("/orders", signedIn(a.ListMyOrdersHandler)).Methods("GET")

	// Admin
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/products", a.AdminListProductsHandler).Methods("GET")
	admin.HandleFunc("/products", a.AdminCreateProductHandler).Methods("POST")
	admin.HandleFunc("/products/images", a.AdminUploadImageHandler).Methods("POST")
	admin.HandleFunc("/products/{id}", a.AdminUpdateProductHandler).Methods("PUT")
	admin.HandleFunc("/products/{id}", a.AdminDeleteProductHandler).Methods("DELETE")
	admin.HandleFunc("/orders", a.AdminListOrdersHandler).Methods("GET")
	admin.HandleFunc("/orders/{id}/status", a.AdminUpdateOrderStatusHandler).Methods("PUT")

	// Theme
	api.HandleFunc("/theme", a.GetThemeHandler).Methods("GET")
	api.HandleFunc("/theme", a.SetThemeHandler).Methods("PUT")
	api.HandleFunc("/theme/toggle", a.ToggleThemeHandler).Methods("POST")

	// Contact
	api.HandleFunc("/contact", a.ContactHandler).Methods("POST")
	api.HandleFunc("/contact/whatsapp", a.WhatsAppHandler).Methods("GET")

	// Health
	r.HandleFunc("/health", a.HealthHandler).Methods("GET")
}

// middlewareChain runs outermost first. Recovery sits inside metrics so a
// panic is still counted and logged as a 500.
func (a *App) middlewareChain() []mux.MiddlewareFunc {
	return []mux.MiddlewareFunc{
		middleware.RequestIDMiddleware,
		middleware.MetricsMiddleware(a.metrics),
		middleware.ErrorHandlerMiddleware,
	}
}

func wrap(h http.Handler, chain []mux.MiddlewareFunc) http.Handler {
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}

// Handler returns the router wrapped for cross-origin browser access
func (a *App) Handler() http.Handler {
	r := mux.NewRouter()
	a.SetupRoutes(r)
	return middleware.CORSMiddleware(r)
}

// HealthHandler handles health check requests
func (a *App) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// NotFoundHandler answers unknown routes
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody{
		Error:       "Page not found",
		Description: "Oops! Page not found: " + r.URL.Path,
	})
}

// MethodNotAllowedHandler answers known paths called with the wrong method
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{
		Error:       "Method not allowed",
		Description: r.Method + " is not supported for " + r.URL.Path,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body", Description: err.Error()})
		return false
	}
	return true
}
