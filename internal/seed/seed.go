// Package seed fills a development database with plausible marketplace data.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math/rand"

	"github.com/fitmatch-dev/marketplace/backend/internal/availability"
	"github.com/fitmatch-dev/marketplace/backend/internal/config"
	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/fitmatch-dev/marketplace/backend/internal/repository"
	"github.com/fitmatch-dev/marketplace/backend/internal/utils"
	"github.com/jackc/pgx/v5/pgconn"
)

type Seeder struct {
	cfg    *config.Config
	repo   *repository.Repository
	engine *availability.Engine
}

func NewSeeder(cfg *config.Config, repo *repository.Repository, engine *availability.Engine) *Seeder {
	return &Seeder{cfg: cfg, repo: repo, engine: engine}
}

// Users inserts n random users with role and returns how many were created.
// Username clashes are skipped.
func (s *Seeder) Users(ctx context.Context, role domain.Role, n int) int {
	cnt := 0
	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomUser(s.cfg.Seed.User.Password, s.cfg.Email.UserDomain, role)
		if err != nil {
			slog.Error("cannot generate user", "error", err)
			continue
		}

		if err := s.repo.CreateUser(ctx, user); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && (pgErr.ConstraintName == "users_username_key" || pgErr.ConstraintName == "users_email_key") {
				slog.Warn("username taken, skipping", "username", user.Username)
				continue
			}
			slog.Error("cannot insert user", "error", err)
			continue
		}
		cnt++
	}
	return cnt
}

// Schedules gives every trainer without a schedule a random one.
func (s *Seeder) Schedules(ctx context.Context) int {
	trainers, err := s.repo.GetUsersByRole(ctx, domain.RoleTrainer)
	if err != nil {
		slog.Error("cannot list trainers", "error", err)
		return 0
	}

	cnt := 0
	for _, t := range trainers {
		if _, err := s.repo.GetWeeklySchedule(ctx, t.ID); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("cannot load schedule", "trainer", t.Username, "error", err)
			continue
		}

		schedule := utils.GenerateRandomWeeklySchedule(t.ID)
		if err := s.repo.UpsertWeeklySchedule(ctx, schedule); err != nil {
			slog.Error("cannot save schedule", "trainer", t.Username, "error", err)
			continue
		}
		cnt++
	}
	return cnt
}

// Appointments books up to n sessions per trainer, only at times that are still free.
func (s *Seeder) Appointments(ctx context.Context, n int) int {
	trainers, err := s.repo.GetUsersByRole(ctx, domain.RoleTrainer)
	if err != nil {
		slog.Error("cannot list trainers", "error", err)
		return 0
	}
	students, err := s.repo.GetUsersByRole(ctx, domain.RoleStudent)
	if err != nil {
		slog.Error("cannot list students", "error", err)
		return 0
	}
	if len(students) == 0 {
		slog.Error("no students to book for, seed students first")
		return 0
	}

	cnt := 0
	for _, t := range trainers {
		schedule, err := s.repo.GetWeeklySchedule(ctx, t.ID)
		if err != nil {
			continue
		}

		for i := 0; i < n; i++ {
			student := students[rand.Intn(len(students))]
			a := utils.GenerateRandomAppointment(schedule, student.ID, s.engine.Location())
			if a == nil {
				continue
			}

			free, err := s.engine.IsAvailable(ctx, t.ID, a.Date, a.Duration)
			if err != nil {
				slog.Error("cannot check availability", "trainer", t.Username, "error", err)
				continue
			}
			if !free {
				continue
			}

			if err := s.repo.CreateAppointment(ctx, a); err != nil {
				if !errors.Is(err, repository.ErrAppointmentConflict) {
					slog.Error("cannot insert appointment", "error", err)
				}
				continue
			}
			cnt++
		}
	}
	return cnt
}
