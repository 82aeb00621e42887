package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// HomeHandler handles GET /api/v1/home
func (a *App) HomeHandler(w http.ResponseWriter, r *http.Request) {
	home, err := a.productService.Home(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, home)
}

// ListProductsHandler handles GET /api/v1/products?category=&search=
func (a *App) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := a.productService.Browse(r.Context(), q.Get("category"), q.Get("search"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProductHandler handles GET /api/v1/products/{id}
func (a *App) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	product, err := a.productService.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}
