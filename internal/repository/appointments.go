package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/google/uuid"
)

// ErrAppointmentConflict is returned when a new appointment overlaps a
// pending or accepted one of the same trainer.
var ErrAppointmentConflict = errors.New("appointment overlaps an existing one")

const appointmentColumns = `
	id, trainer_id, student_id, location, date, duration, notes, status, payment_status,
	subscription_id, single_workout_id, accepted_at, rejected_at, completed_at, paid_at, created_at, version
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	a := &domain.Appointment{}
	var duration sql.NullInt32
	dst := []any{
		&a.ID, &a.TrainerID, &a.StudentID, &a.Location, &a.Date, &duration, &a.Notes, &a.Status, &a.PaymentStatus,
		&a.SubscriptionID, &a.SingleWorkoutID, &a.AcceptedAt, &a.RejectedAt, &a.CompletedAt, &a.PaidAt, &a.CreatedAt, &a.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	if duration.Valid {
		a.Duration = int(duration.Int32)
	}
	return a, nil
}

func (r *Repository) collectAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return appointments, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// lockTrainerSlots takes a row lock on the trainer and fails with
// ErrAppointmentConflict when [a.Date, a.End()) overlaps a blocking
// appointment other than a itself. It returns sql.ErrNoRows when the trainer
// does not exist.
func lockTrainerSlots(ctx context.Context, tx *sql.Tx, a *domain.Appointment) error {
	lockTrainer := `SELECT id FROM users WHERE id = $1 AND role = 'TRAINER' FOR UPDATE`
	var trainerID string
	if err := tx.QueryRowContext(ctx, lockTrainer, a.TrainerID).Scan(&trainerID); err != nil {
		return err
	}

	overlap := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE trainer_id = $1
				AND id::text <> $4
				AND status IN ('pending', 'accepted')
				AND date < $3
				AND date + make_interval(mins => COALESCE(duration, 60)) > $2
		)
	`
	var conflict bool
	if err := tx.QueryRowContext(ctx, overlap, a.TrainerID, a.Date, a.End(), a.ID).Scan(&conflict); err != nil {
		return err
	}
	if conflict {
		return ErrAppointmentConflict
	}

	return nil
}

// CreateAppointment inserts a after checking, under a row lock on the trainer,
// that it does not overlap any blocking appointment. It returns sql.ErrNoRows
// when the trainer does not exist.
func (r *Repository) CreateAppointment(ctx context.Context, a *domain.Appointment) error {
	ctx, cancel := r.withTransactionTimeout(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	a.ID = ""
	if err := lockTrainerSlots(ctx, tx, a); err != nil {
		return err
	}

	insert := `
		INSERT INTO appointments (id, trainer_id, student_id, location, date, duration, notes, status, payment_status, subscription_id, single_workout_id, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, version
	`
	a.ID = uuid.NewString()
	args := []any{a.ID, a.TrainerID, a.StudentID, a.Location, a.Date, a.Duration, a.Notes, a.Status, a.PaymentStatus, a.SubscriptionID, a.SingleWorkoutID, a.PaidAt}
	if err := tx.QueryRowContext(ctx, insert, args...).Scan(&a.CreatedAt, &a.Version); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) GetAppointmentByID(ctx context.Context, id string) (*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	return scanAppointment(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetAllAppointments(ctx context.Context) ([]*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments ORDER BY date DESC`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return r.collectAppointments(rows)
}

// ListUserAppointments returns the appointments in [from, to) where userID is
// either the trainer or the student.
func (r *Repository) ListUserAppointments(ctx context.Context, userID string, from, to time.Time) ([]*domain.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + ` FROM appointments
		WHERE (trainer_id = $1 OR student_id = $1) AND date >= $2 AND date < $3
		ORDER BY date
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}

	return r.collectAppointments(rows)
}

func (r *Repository) ListBlockingAppointments(ctx context.Context, trainerID string, from, to time.Time) ([]*domain.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + ` FROM appointments
		WHERE trainer_id = $1 AND date >= $2 AND date < $3 AND status IN ('pending', 'accepted')
		ORDER BY date
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, trainerID, from, to)
	if err != nil {
		return nil, err
	}

	return r.collectAppointments(rows)
}

// UpdateAppointment writes every mutable column. A stale version yields sql.ErrNoRows.
func (r *Repository) UpdateAppointment(ctx context.Context, a *domain.Appointment) error {
	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	return updateAppointment(ctx, r.dbpool, a)
}

// RescheduleAppointment is UpdateAppointment for a moved appointment: the new
// time is checked against the trainer's other blocking appointments in the
// same transaction, as in CreateAppointment.
func (r *Repository) RescheduleAppointment(ctx context.Context, a *domain.Appointment) error {
	ctx, cancel := r.withTransactionTimeout(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockTrainerSlots(ctx, tx, a); err != nil {
		return err
	}
	if err := updateAppointment(ctx, tx, a); err != nil {
		return err
	}

	return tx.Commit()
}

func updateAppointment(ctx context.Context, q queryRower, a *domain.Appointment) error {
	query := `
		UPDATE appointments
		SET
			location = $1,
			date = $2,
			duration = $3,
			notes = $4,
			status = $5,
			payment_status = $6,
			accepted_at = $7,
			rejected_at = $8,
			completed_at = $9,
			paid_at = $10,
			version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING version
	`

	args := []any{a.Location, a.Date, a.Duration, a.Notes, a.Status, a.PaymentStatus, a.AcceptedAt, a.RejectedAt, a.CompletedAt, a.PaidAt, a.ID, a.Version}
	return q.QueryRowContext(ctx, query, args...).Scan(&a.Version)
}

func (r *Repository) DeleteAppointment(ctx context.Context, id string) error {
	query := `DELETE FROM appointments WHERE id = $1`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}
