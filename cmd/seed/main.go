package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/fitmatch-dev/marketplace/backend/internal/availability"
	"github.com/fitmatch-dev/marketplace/backend/internal/config"
	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/fitmatch-dev/marketplace/backend/internal/repository"
	"github.com/fitmatch-dev/marketplace/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "operation (1: students, 2: trainers, 3: schedules for trainers without one, 4: appointments per trainer, 5: all of them)")
	flag.IntVar(&n, "n", 5, "how many records to insert")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("cannot load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("cannot load scheduling timezone", "error", err)
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("cannot create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("cannot connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)
	seeder := seed.NewSeeder(cfg, repo, availability.NewEngine(repo, repo, loc, nil))

	if n <= 0 {
		logger.Error("n must be positive")
		return
	}

	bg := context.Background()
	switch op {
	case 1:
		logger.Info("students inserted", "count", seeder.Users(bg, domain.RoleStudent, n))
	case 2:
		logger.Info("trainers inserted", "count", seeder.Users(bg, domain.RoleTrainer, n))
	case 3:
		logger.Info("schedules inserted", "count", seeder.Schedules(bg))
	case 4:
		logger.Info("appointments inserted", "count", seeder.Appointments(bg, n))
	case 5:
		logger.Info("students inserted", "count", seeder.Users(bg, domain.RoleStudent, n*4))
		logger.Info("trainers inserted", "count", seeder.Users(bg, domain.RoleTrainer, n))
		logger.Info("schedules inserted", "count", seeder.Schedules(bg))
		logger.Info("appointments inserted", "count", seeder.Appointments(bg, n))
	default:
		logger.Error("unknown operation", "op", op)
	}
}
