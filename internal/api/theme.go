package api

import (
	"net/http"

	"github.com/paksmart/storefront/internal/models"
)

const (
	themeSessionName = "storefront"
	themeKey         = "theme"
)

func (a *App) currentTheme(r *http.Request) models.Theme {
	sess, _ := a.themes.Get(r, themeSessionName)
	if t, ok := sess.Values[themeKey].(string); ok && models.Theme(t).Valid() {
		return models.Theme(t)
	}
	return models.ThemeLight
}

func (a *App) saveTheme(w http.ResponseWriter, r *http.Request, t models.Theme) {
	// a cookie that fails to decode still yields a usable new session
	sess, _ := a.themes.Get(r, themeSessionName)
	sess.Values[themeKey] = string(t)
	if err := sess.Save(r, w); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ThemeRequest{Theme: t})
}

// GetThemeHandler handles GET /api/v1/theme
func (a *App) GetThemeHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.ThemeRequest{Theme: a.currentTheme(r)})
}

// SetThemeHandler handles PUT /api/v1/theme
func (a *App) SetThemeHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ThemeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Theme.Valid() {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid theme", Description: "theme must be light or dark"})
		return
	}
	a.saveTheme(w, r, req.Theme)
}

// ToggleThemeHandler handles POST /api/v1/theme/toggle
func (a *App) ToggleThemeHandler(w http.ResponseWriter, r *http.Request) {
	a.saveTheme(w, r, a.currentTheme(r).Toggled())
}
