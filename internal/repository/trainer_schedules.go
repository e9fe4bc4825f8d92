package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/google/uuid"
)

// GetWeeklySchedule returns sql.ErrNoRows when the trainer never saved a
// schedule or trainerID is not a UUID.
func (r *Repository) GetWeeklySchedule(ctx context.Context, trainerID string) (*domain.WeeklySchedule, error) {
	if err := uuid.Validate(trainerID); err != nil {
		return nil, sql.ErrNoRows
	}

	query := `
		SELECT id, days, saved_locations, default_location_config, updated_at, version
		FROM trainer_schedules WHERE trainer_id = $1
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	s := &domain.WeeklySchedule{TrainerID: trainerID}
	var days, saved, defaults []byte
	if err := r.dbpool.QueryRowContext(ctx, query, trainerID).Scan(&s.ID, &days, &saved, &defaults, &s.UpdatedAt, &s.Version); err != nil {
		return nil, err
	}

	if err := decodeScheduleDocument(s, days, saved, defaults); err != nil {
		return nil, err
	}

	return s, nil
}

// UpsertWeeklySchedule replaces the whole schedule document of a trainer.
func (r *Repository) UpsertWeeklySchedule(ctx context.Context, s *domain.WeeklySchedule) error {
	query := `
		INSERT INTO trainer_schedules (trainer_id, days, saved_locations, default_location_config)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (trainer_id) DO UPDATE
		SET
			days = EXCLUDED.days,
			saved_locations = EXCLUDED.saved_locations,
			default_location_config = EXCLUDED.default_location_config,
			updated_at = NOW(),
			version = trainer_schedules.version + 1
		RETURNING id, updated_at, version
	`

	days, err := json.Marshal(s.Days)
	if err != nil {
		return err
	}
	saved, err := json.Marshal(s.SavedLocations)
	if err != nil {
		return err
	}
	var defaults []byte
	if s.DefaultLocationConfig != nil {
		if defaults, err = json.Marshal(s.DefaultLocationConfig); err != nil {
			return err
		}
	}

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query, s.TrainerID, days, saved, defaults).Scan(&s.ID, &s.UpdatedAt, &s.Version)
}

func decodeScheduleDocument(s *domain.WeeklySchedule, days, saved, defaults []byte) error {
	if len(days) > 0 {
		if err := json.Unmarshal(days, &s.Days); err != nil {
			return err
		}
	}
	if len(saved) > 0 {
		if err := json.Unmarshal(saved, &s.SavedLocations); err != nil {
			return err
		}
	}
	if len(defaults) > 0 && string(defaults) != "null" {
		s.DefaultLocationConfig = &domain.DefaultLocationConfig{}
		if err := json.Unmarshal(defaults, s.DefaultLocationConfig); err != nil {
			return err
		}
	}
	return nil
}
