package services

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"crmdash/internal/format"
	"crmdash/internal/models"
)

var ErrMailDisabled = errors.New("email is not configured")

// Mailer sends one HTML message.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailService returns nil when no SMTP host is configured.
func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) *EmailService {
	if smtpHost == "" {
		return nil
	}
	return &EmailService{
		dialer: gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword),
		from:   fromEmail,
	}
}

func (s *EmailService) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// RenderDigest builds the subject and HTML body of the activity digest.
func RenderDigest(overdue, upcoming []models.Activity, contactNames map[string]string, now time.Time) (string, string) {
	subject := fmt.Sprintf("Activity digest for %s: %d overdue, %d upcoming",
		format.Date(now), len(overdue), len(upcoming))

	var b strings.Builder
	b.WriteString("<h2>Activity digest</h2>\n")
	writeSection(&b, "Overdue", overdue, contactNames)
	writeSection(&b, "Upcoming", upcoming, contactNames)
	if len(overdue)+len(upcoming) == 0 {
		b.WriteString("<p>Nothing open. Nice work.</p>\n")
	}
	return subject, b.String()
}

func writeSection(b *strings.Builder, title string, list []models.Activity, names map[string]string) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(b, "<h3>%s (%d)</h3>\n<ul>\n", title, len(list))
	for _, a := range list {
		contact := names[a.ContactID]
		if contact == "" {
			contact = UnknownContact
		}
		fmt.Fprintf(b, "<li><strong>%s</strong> [%s] %s, due %s (%s)</li>\n",
			html.EscapeString(a.Title),
			a.Type,
			html.EscapeString(contact),
			format.DateTime(a.DueDate),
			format.Relative(a.DueDate),
		)
	}
	b.WriteString("</ul>\n")
}
