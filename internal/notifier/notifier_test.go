package notifier

import (
	"encoding/json"
	"testing"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

// decoded mirrors what the worker sees after reading a message off the queue
func decoded(t *testing.T, m domain.MailMessage) domain.MailMessage {
	t.Helper()
	raw, err := json.Marshal(m)
	require.NoError(t, err)

	var out domain.MailMessage
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestRenderEveryType(t *testing.T) {
	appointment := domain.AppointmentMailData{
		FullName:    "Ana Souza",
		Counterpart: "Bruno Lima",
		Date:        "14/10/2026",
		Time:        "08:00",
		Duration:    60,
		Location:    "Smart Fit Paulista",
	}

	tests := []struct {
		typ      string
		data     any
		contains []string
	}{
		{domain.MailTypeResetPassword, domain.ResetPasswordMailData{FullName: "Ana Souza", OTP: "042137", Expiration: 15}, []string{"Ana Souza", "042137", "15 minutes"}},
		{domain.MailTypeAppointmentRequested, appointment, []string{"Bruno Lima asked", "14/10/2026 at 08:00", "60 minutes"}},
		{domain.MailTypeAppointmentAccepted, appointment, []string{"Bruno Lima confirmed"}},
		{domain.MailTypeAppointmentRejected, appointment, []string{"could not take"}},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			subject, body, err := Render(decoded(t, domain.MailMessage{Type: tt.typ, To: "ana@example.com", Data: tt.data}))
			require.NoError(t, err)
			assert.NotEmpty(t, subject)
			for _, s := range tt.contains {
				assert.Contains(t, body, s)
			}
		})
	}
}

func TestRenderRejectReason(t *testing.T) {
	data := domain.AppointmentMailData{FullName: "Ana", Counterpart: "Bruno", RejectReason: "travelling"}

	_, body, err := Render(decoded(t, domain.MailMessage{Type: domain.MailTypeAppointmentRejected, Data: data}))
	require.NoError(t, err)
	assert.Contains(t, body, "Reason: travelling")

	data.RejectReason = ""
	_, body, err = Render(decoded(t, domain.MailMessage{Type: domain.MailTypeAppointmentRejected, Data: data}))
	require.NoError(t, err)
	assert.NotContains(t, body, "Reason:")
}

func TestRenderUnknownType(t *testing.T) {
	_, _, err := Render(domain.MailMessage{Type: "create_user"})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestBuildMessage(t *testing.T) {
	m := domain.MailMessage{
		Type: domain.MailTypeResetPassword,
		To:   "ana@example.com",
		Data: domain.ResetPasswordMailData{FullName: "Ana", OTP: "111111", Expiration: 15},
	}

	msg, err := BuildMessage("noreply@fitmatch.example", decoded(t, m))
	require.NoError(t, err)
	assert.Equal(t, []string{"<ana@example.com>"}, msg.GetToString())
	assert.Equal(t, []string{"FitMatch - Reset your password"}, msg.GetGenHeader(mail.HeaderSubject))

	_, err = BuildMessage("noreply@fitmatch.example", domain.MailMessage{Type: domain.MailTypeResetPassword, To: "not an address", Data: m.Data})
	assert.Error(t, err)
}
