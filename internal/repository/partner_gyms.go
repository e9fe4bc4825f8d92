package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/google/uuid"
)

const partnerGymColumns = `
	id, name, street, street_number, neighborhood, city, state, zip_code, complementary, available_services,
	contact_phone, contact_email, contact_website, photo_url, is_active, created_at, updated_at, version
`

func scanPartnerGym(row rowScanner) (*domain.PartnerGym, error) {
	g := &domain.PartnerGym{}
	var services []byte
	dst := []any{
		&g.ID, &g.Name, &g.Street, &g.StreetNumber, &g.Neighborhood, &g.City, &g.State, &g.ZipCode, &g.Complementary, &services,
		&g.ContactPhone, &g.ContactEmail, &g.ContactWebsite, &g.PhotoURL, &g.IsActive, &g.CreatedAt, &g.UpdatedAt, &g.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	g.AvailableServices = make([]string, 0)
	if len(services) > 0 {
		if err := json.Unmarshal(services, &g.AvailableServices); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// partnerGymWhere builds the WHERE clause of a directory listing. Its
// placeholders start at $1.
func partnerGymWhere(f domain.PartnerGymFilter) (string, []any, error) {
	conds := []string{"is_active"}
	args := []any{}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.City != "" {
		add("city ILIKE '%%' || $%d || '%%'", f.City)
	}
	if f.State != "" {
		add("state = $%d", f.State)
	}
	if f.Search != "" {
		add("name ILIKE '%%' || $%d || '%%'", f.Search)
	}
	if len(f.Services) > 0 {
		services, err := json.Marshal(f.Services)
		if err != nil {
			return "", nil, err
		}
		add("available_services ?| ARRAY(SELECT jsonb_array_elements_text($%d::jsonb))", string(services))
	}

	return "WHERE " + strings.Join(conds, " AND "), args, nil
}

// ListPartnerGyms returns one page of active gyms ordered by name and the
// number of gyms matching f across all pages.
func (r *Repository) ListPartnerGyms(ctx context.Context, f domain.PartnerGymFilter) ([]*domain.PartnerGym, int, error) {
	where, args, err := partnerGymWhere(f)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	var total int
	if err := r.dbpool.QueryRowContext(ctx, `SELECT COUNT(*) FROM partner_gyms `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM partner_gyms %s ORDER BY name LIMIT $%d OFFSET $%d`, partnerGymColumns, where, len(args)+1, len(args)+2)
	rows, err := r.dbpool.QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	gyms := make([]*domain.PartnerGym, 0)
	for rows.Next() {
		g, err := scanPartnerGym(rows)
		if err != nil {
			return nil, 0, err
		}
		gyms = append(gyms, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return gyms, total, nil
}

func (r *Repository) GetPartnerGymByID(ctx context.Context, id string) (*domain.PartnerGym, error) {
	query := `SELECT ` + partnerGymColumns + ` FROM partner_gyms WHERE id = $1`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	return scanPartnerGym(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) CreatePartnerGym(ctx context.Context, g *domain.PartnerGym) error {
	query := `
		INSERT INTO partner_gyms (id, name, street, street_number, neighborhood, city, state, zip_code, complementary,
			available_services, contact_phone, contact_email, contact_website, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING is_active, created_at, updated_at, version
	`

	services, err := json.Marshal(g.AvailableServices)
	if err != nil {
		return err
	}

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	g.ID = uuid.NewString()
	args := []any{g.ID, g.Name, g.Street, g.StreetNumber, g.Neighborhood, g.City, g.State, g.ZipCode, g.Complementary,
		services, g.ContactPhone, g.ContactEmail, g.ContactWebsite, g.PhotoURL}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&g.IsActive, &g.CreatedAt, &g.UpdatedAt, &g.Version)
}

// UpdatePartnerGym writes every column, the active flag included. A stale
// version yields sql.ErrNoRows.
func (r *Repository) UpdatePartnerGym(ctx context.Context, g *domain.PartnerGym) error {
	query := `
		UPDATE partner_gyms
		SET
			name = $1,
			street = $2,
			street_number = $3,
			neighborhood = $4,
			city = $5,
			state = $6,
			zip_code = $7,
			complementary = $8,
			available_services = $9,
			contact_phone = $10,
			contact_email = $11,
			contact_website = $12,
			photo_url = $13,
			is_active = $14,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $15 AND version = $16
		RETURNING updated_at, version
	`

	services, err := json.Marshal(g.AvailableServices)
	if err != nil {
		return err
	}

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	args := []any{g.Name, g.Street, g.StreetNumber, g.Neighborhood, g.City, g.State, g.ZipCode, g.Complementary,
		services, g.ContactPhone, g.ContactEmail, g.ContactWebsite, g.PhotoURL, g.IsActive, g.ID, g.Version}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&g.UpdatedAt, &g.Version)
}

func (r *Repository) DeletePartnerGym(ctx context.Context, id string) error {
	query := `DELETE FROM partner_gyms WHERE id = $1`

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
