package api

import (
	"net/http"

	"github.com/paksmart/storefront/internal/models"
)

// ContactHandler handles POST /api/v1/contact
func (a *App) ContactHandler(w http.ResponseWriter, r *http.Request) {
	var msg models.ContactMessage
	if !decodeJSON(w, r, &msg) {
		return
	}
	if err := a.contactService.Submit(r.Context(), msg); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, messageBody{Message: "Message Sent!", Description: "We will get back to you soon."})
}

// WhatsAppHandler handles GET /api/v1/contact/whatsapp
func (a *App) WhatsAppHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"url": a.contactService.WhatsAppLink()})
}
