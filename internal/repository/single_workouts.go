package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/google/uuid"
)

const singleWorkoutColumns = `
	id, trainer_id, trainer_username, name, description, price, category, duration, is_active, created_at, updated_at, version
`

func scanSingleWorkout(row rowScanner) (*domain.SingleWorkout, error) {
	sw := &domain.SingleWorkout{}
	var category sql.NullString
	var duration sql.NullInt32
	dst := []any{&sw.ID, &sw.TrainerID, &sw.TrainerUsername, &sw.Name, &sw.Description, &sw.Price, &category, &duration, &sw.IsActive, &sw.CreatedAt, &sw.UpdatedAt, &sw.Version}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	if category.Valid {
		sw.Category = &category.String
	}
	if duration.Valid {
		d := int(duration.Int32)
		sw.Duration = &d
	}
	return sw, nil
}

func (r *Repository) CreateSingleWorkout(ctx context.Context, sw *domain.SingleWorkout) error {
	query := `
		INSERT INTO single_workouts (id, trainer_id, trainer_username, name, description, price, category, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING is_active, created_at, updated_at, version
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	sw.ID = uuid.NewString()
	args := []any{sw.ID, sw.TrainerID, sw.TrainerUsername, sw.Name, sw.Description, sw.Price, sw.Category, sw.Duration}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&sw.IsActive, &sw.CreatedAt, &sw.UpdatedAt, &sw.Version)
}

// GetSingleWorkoutByID returns sql.ErrNoRows when id is unknown or not a UUID.
func (r *Repository) GetSingleWorkoutByID(ctx context.Context, id string) (*domain.SingleWorkout, error) {
	if err := uuid.Validate(id); err != nil {
		return nil, sql.ErrNoRows
	}

	query := `SELECT ` + singleWorkoutColumns + ` FROM single_workouts WHERE id = $1`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	return scanSingleWorkout(r.dbpool.QueryRowContext(ctx, query, id))
}

// ListTrainerSingleWorkouts lists the workouts of a trainer with the given
// active flag, newest first. An empty category does not filter.
func (r *Repository) ListTrainerSingleWorkouts(ctx context.Context, trainerUsername, category string, active bool) ([]*domain.SingleWorkout, error) {
	query := `
		SELECT ` + singleWorkoutColumns + ` FROM single_workouts
		WHERE trainer_username = $1 AND is_active = $2 AND ($3 = '' OR category = $3)
		ORDER BY created_at DESC
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, trainerUsername, active, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := make([]*domain.SingleWorkout, 0)
	for rows.Next() {
		sw, err := scanSingleWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, sw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workouts, nil
}

func (r *Repository) ListSingleWorkoutCategories(ctx context.Context, trainerUsername string) ([]*domain.SingleWorkoutCategory, error) {
	query := `
		SELECT category, COUNT(*) FROM single_workouts
		WHERE trainer_username = $1 AND is_active AND category IS NOT NULL
		GROUP BY category
		ORDER BY category
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, trainerUsername)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.SingleWorkoutCategory, 0)
	for rows.Next() {
		c := &domain.SingleWorkoutCategory{}
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

// UpdateSingleWorkout writes every mutable column. A stale version yields sql.ErrNoRows.
func (r *Repository) UpdateSingleWorkout(ctx context.Context, sw *domain.SingleWorkout) error {
	query := `
		UPDATE single_workouts
		SET
			name = $1,
			description = $2,
			price = $3,
			category = $4,
			duration = $5,
			is_active = $6,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING updated_at, version
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	args := []any{sw.Name, sw.Description, sw.Price, sw.Category, sw.Duration, sw.IsActive, sw.ID, sw.Version}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&sw.UpdatedAt, &sw.Version)
}

// RemoveSingleWorkout deletes the workout, or only deactivates it when
// appointments from now on still reference it. It reports which one happened.
func (r *Repository) RemoveSingleWorkout(ctx context.Context, id string, now time.Time) (deactivated bool, err error) {
	ctx, cancel := r.withTransactionTimeout(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var upcoming int
	count := `SELECT COUNT(*) FROM appointments WHERE single_workout_id = $1 AND date >= $2`
	if err := tx.QueryRowContext(ctx, count, id, now).Scan(&upcoming); err != nil {
		return false, err
	}

	query := `DELETE FROM single_workouts WHERE id = $1`
	if upcoming > 0 {
		query = `UPDATE single_workouts SET is_active = FALSE, updated_at = NOW(), version = version + 1 WHERE id = $1`
	}

	res, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("remove single workout: %w", err)
	}

	return upcoming > 0, nil
}
