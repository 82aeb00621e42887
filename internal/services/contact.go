package services

import (
	"context"

	"github.com/paksmart/storefront/internal/logging"
	"github.com/paksmart/storefront/internal/models"
)

var contactLog = logging.NewPackageLogger("services.contact")

// ContactService forwards contact form submissions to the shop
type ContactService struct {
	notifier     Notifier
	whatsAppLink string
}

// NewContactService creates a new contact service
func NewContactService(notifier Notifier, whatsAppLink string) *ContactService {
	return &ContactService{notifier: notifier, whatsAppLink: whatsAppLink}
}

// Submit validates and forwards a contact message
func (s *ContactService) Submit(ctx context.Context, msg models.ContactMessage) error {
	msg = trimContact(msg)
	if err := validate.Struct(msg); err != nil {
		return ErrMissingFields
	}
	if err := s.notifier.ForwardContact(ctx, msg); err != nil {
		return err
	}
	contactLog.Info().Str("from", msg.Email).Msg("contact message received")
	return nil
}

// WhatsAppLink returns the shop's messaging deep link
func (s *ContactService) WhatsAppLink() string {
	return s.whatsAppLink
}
