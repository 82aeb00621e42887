package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/paksmart/storefront/internal/models"
)

// maxImageSize caps product image uploads
const maxImageSize = 5 << 20

// AdminListProductsHandler handles GET /api/v1/admin/products
func (a *App) AdminListProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := a.productService.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// AdminCreateProductHandler handles POST /api/v1/admin/products
func (a *App) AdminCreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var form models.ProductForm
	if !decodeJSON(w, r, &form) {
		return
	}

	product, err := a.productService.CreateProduct(r.Context(), form)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// AdminUpdateProductHandler handles PUT /api/v1/admin/products/{id}
func (a *App) AdminUpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	var form models.ProductForm
	if !decodeJSON(w, r, &form) {
		return
	}

	product, err := a.productService.UpdateProduct(r.Context(), mux.Vars(r)["id"], form)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// AdminDeleteProductHandler handles DELETE /api/v1/admin/products/{id}
func (a *App) AdminDeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.productService.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminUploadImageHandler handles POST /api/v1/admin/products/images (multipart field "image")
func (a *App) AdminUploadImageHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+1<<20)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid image", Description: err.Error()})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid image", Description: err.Error()})
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:       "Invalid image",
			Description: fmt.Sprintf("image must be at most %d MB", maxImageSize>>20),
		})
		return
	}

	url, err := a.productService.UploadImage(r.Context(), header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"image_url": url})
}

// AdminListOrdersHandler handles GET /api/v1/admin/orders
func (a *App) AdminListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := a.orderService.ListOrders(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// AdminUpdateOrderStatusHandler handles PUT /api/v1/admin/orders/{id}/status
func (a *App) AdminUpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateOrderStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := a.orderService.SetOrderStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
