package api

import (
	"net/http"

	"github.com/paksmart/storefront/internal/middleware"
	"github.com/paksmart/storefront/internal/models"
)

// SignUpHandler handles POST /api/v1/auth/signup
func (a *App) SignUpHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.userService.SignUp(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// SignInHandler handles POST /api/v1/auth/signin
func (a *App) SignInHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := a.userService.SignIn(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SignOutHandler handles POST /api/v1/auth/signout
func (a *App) SignOutHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.userService.SignOut(r.Context(), middleware.SessionFromContext(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MeHandler handles GET /api/v1/auth/me
func (a *App) MeHandler(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	user, err := a.userService.GetUser(r.Context(), session.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
