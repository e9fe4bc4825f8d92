// Package notifier turns queued mail messages into emails.
package notifier

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var ErrUnknownType = errors.New("unknown mail type")

var subjects = map[string]string{
	domain.MailTypeResetPassword:        "FitMatch - Reset your password",
	domain.MailTypeAppointmentRequested: "FitMatch - New session request",
	domain.MailTypeAppointmentAccepted:  "FitMatch - Session confirmed",
	domain.MailTypeAppointmentRejected:  "FitMatch - Session not confirmed",
}

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Render returns the subject and HTML body for m.
func Render(m domain.MailMessage) (string, string, error) {
	subject, ok := subjects[m.Type]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, m.Type+".html", m.Data); err != nil {
		return "", "", err
	}

	return subject, body.String(), nil
}

// BuildMessage renders m into a message ready to be sent from sender.
func BuildMessage(sender string, m domain.MailMessage) (*mail.Msg, error) {
	subject, body, err := Render(m)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(sender); err != nil {
		return nil, err
	}
	if err := msg.To(m.To); err != nil {
		return nil, err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	return msg, nil
}
