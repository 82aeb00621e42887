package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/paksmart/storefront/internal/logging"
	"github.com/paksmart/storefront/internal/models"
	"github.com/wneessen/go-mail"
)

var notifyLog = logging.NewPackageLogger("notify")

// SMTPConfig holds the outgoing mail settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// ShopEmail is both the sender and the inbox that receives notifications
	ShopEmail string
}

// Mailer sends shop notifications over SMTP
type Mailer struct {
	cfg SMTPConfig
}

// NewMailer creates a mailer
func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// NotifyNewOrder mails the order summary to the shop inbox
func (m *Mailer) NotifyNewOrder(ctx context.Context, o *models.Order) error {
	msg, err := m.newMessage(OrderSubject(o), OrderBody(o))
	if err != nil {
		return err
	}
	return m.send(ctx, msg)
}

// ForwardContact mails a contact form submission to the shop inbox, replying to the sender
func (m *Mailer) ForwardContact(ctx context.Context, c models.ContactMessage) error {
	msg, err := m.newMessage(ContactSubject(c), ContactBody(c))
	if err != nil {
		return err
	}
	if err := msg.ReplyTo(c.Email); err != nil {
		return fmt.Errorf("invalid reply-to address: %w", err)
	}
	return m.send(ctx, msg)
}

func (m *Mailer) newMessage(subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.ShopEmail); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(m.cfg.ShopEmail); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

func (m *Mailer) send(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	notifyLog.Debug().Str("host", m.cfg.Host).Msg("mail sent")
	return nil
}

// LogNotifier writes notifications to the log when mail is not configured
type LogNotifier struct{}

// NotifyNewOrder logs the order
func (LogNotifier) NotifyNewOrder(_ context.Context, o *models.Order) error {
	notifyLog.Info().
		Str(logging.ORDER_ID, o.ID).
		Str("total", o.Total.String()).
		Str("customer", o.Delivery().Name).
		Msg("new order")
	return nil
}

// ForwardContact logs the contact message
func (LogNotifier) ForwardContact(_ context.Context, c models.ContactMessage) error {
	notifyLog.Info().
		Str("name", c.Name).
		Str("email", c.Email).
		Str("phone", c.Phone).
		Str("message", c.Message).
		Msg("contact message")
	return nil
}

// OrderSubject is the subject line of a new order mail
func OrderSubject(o *models.Order) string {
	return fmt.Sprintf("New COD order %s - Rs. %s", shortID(o.ID), o.Total.StringFixed(0))
}

// OrderBody renders a new order as plain text
func OrderBody(o *models.Order) string {
	d := o.Delivery()
	var b strings.Builder
	fmt.Fprintf(&b, "Order: %s\n", o.ID)
	fmt.Fprintf(&b, "Placed: %s\n\n", o.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Customer: %s\nPhone: %s\nAddress: %s, %s\n", d.Name, d.Phone, d.Address, d.City)
	if d.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", d.Notes)
	}
	b.WriteString("\nItems:\n")
	for _, line := range o.Items {
		fmt.Fprintf(&b, "  %d x %s @ Rs. %s = Rs. %s\n",
			line.Quantity, line.Name, line.Price.StringFixed(0), line.Subtotal().StringFixed(0))
	}
	fmt.Fprintf(&b, "\nTotal: Rs. %s\nPayment: %s\n", o.Total.StringFixed(0), models.PaymentCOD)
	return b.String()
}

// ContactSubject is the subject line of a forwarded contact message
func ContactSubject(c models.ContactMessage) string {
	return "Contact form: " + c.Name
}

// ContactBody renders a contact message as plain text
func ContactBody(c models.ContactMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\n", c.Name, c.Email)
	if c.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", c.Phone)
	}
	b.WriteString("\n")
	b.WriteString(c.Message)
	b.WriteString("\n")
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
