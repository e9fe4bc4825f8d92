package repository

import (
	"context"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
)

func (r *Repository) CreateFeedback(ctx context.Context, f *domain.Feedback) error {
	query := `
		INSERT INTO feedback (name, email, experience, liked, disliked, bug, navigation, recommend, suggestion, features, usability)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	args := []any{f.Name, f.Email, f.Experience, f.Liked, f.Disliked, f.Bug, f.Navigation, f.Recommend, f.Suggestion, f.Features, f.Usability}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&f.ID, &f.CreatedAt)
}

func (r *Repository) GetAllFeedback(ctx context.Context) ([]*domain.Feedback, error) {
	query := `
		SELECT id, name, email, experience, liked, disliked, bug, navigation, recommend, suggestion, features, usability, created_at
		FROM feedback ORDER BY created_at DESC
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feedback := make([]*domain.Feedback, 0)
	for rows.Next() {
		f := &domain.Feedback{}
		dst := []any{&f.ID, &f.Name, &f.Email, &f.Experience, &f.Liked, &f.Disliked, &f.Bug, &f.Navigation, &f.Recommend, &f.Suggestion, &f.Features, &f.Usability, &f.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		feedback = append(feedback, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return feedback, nil
}
