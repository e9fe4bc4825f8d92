package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

func (h *Handler) publishMail(ctx context.Context, msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		h.config.RabbitMQ.Queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// notifyAppointment queues a mail about a to recipient. The appointment is
// already stored, so a failed publish is logged instead of failing the request.
func (h *Handler) notifyAppointment(ctx context.Context, mailType string, a *domain.Appointment, recipientID, counterpartID, reason string) {
	recipient, err := h.repository.GetUserByID(ctx, recipientID)
	if err != nil {
		slog.Error("cannot load notification recipient", "appointment", a.ID, "user", recipientID, "error", err)
		return
	}

	counterpart := ""
	if c, err := h.repository.GetUserByID(ctx, counterpartID); err == nil {
		counterpart = c.FullName
	}

	date := a.Date.In(h.availability.Location())
	msg := domain.MailMessage{
		Type: mailType,
		To:   recipient.Email,
		Data: domain.AppointmentMailData{
			FullName:     recipient.FullName,
			Counterpart:  counterpart,
			Date:         date.Format("02/01/2006"),
			Time:         date.Format("15:04"),
			Duration:     a.Duration,
			Location:     a.Location,
			RejectReason: reason,
		},
	}

	if err := h.publishMail(ctx, msg); err != nil {
		slog.Error("cannot queue appointment notification", "appointment", a.ID, "type", mailType, "error", err)
	}
}
