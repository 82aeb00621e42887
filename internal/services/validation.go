package services

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/paksmart/storefront/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func trimDelivery(d models.DeliveryDetails) models.DeliveryDetails {
	return models.DeliveryDetails{
		Name:    strings.TrimSpace(d.Name),
		Phone:   strings.TrimSpace(d.Phone),
		Address: strings.TrimSpace(d.Address),
		City:    strings.TrimSpace(d.City),
		Notes:   strings.TrimSpace(d.Notes),
	}
}

func trimContact(m models.ContactMessage) models.ContactMessage {
	return models.ContactMessage{
		Name:    strings.TrimSpace(m.Name),
		Email:   strings.TrimSpace(m.Email),
		Phone:   strings.TrimSpace(m.Phone),
		Message: strings.TrimSpace(m.Message),
	}
}

// ValidateDelivery trims the form and checks the required fields
func ValidateDelivery(d models.DeliveryDetails) (models.DeliveryDetails, error) {
	d = trimDelivery(d)
	if err := validate.Struct(d); err != nil {
		return d, ErrMissingFields
	}
	return d, nil
}
