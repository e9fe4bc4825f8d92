package domain

const (
	MailTypeResetPassword        = "reset_password"
	MailTypeAppointmentRequested = "appointment_requested"
	MailTypeAppointmentAccepted  = "appointment_accepted"
	MailTypeAppointmentRejected  = "appointment_rejected"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

// AppointmentMailData is shared by every appointment notification.
type AppointmentMailData struct {
	FullName     string `json:"fullName"`
	Counterpart  string `json:"counterpart"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Duration     int    `json:"duration"`
	Location     string `json:"location"`
	RejectReason string `json:"rejectReason,omitempty"`
}
