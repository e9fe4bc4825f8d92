package handler

import (
	"reflect"
	"strings"

	"github.com/fitmatch-dev/marketplace/backend/internal/availability"
	"github.com/fitmatch-dev/marketplace/backend/internal/config"
	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/fitmatch-dev/marketplace/backend/internal/lock"
	"github.com/fitmatch-dev/marketplace/backend/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	validate     *validator.Validate
	config       *config.Config
	repository   *repository.Repository
	translator   ut.Translator
	mailChannel  *amqp.Channel
	redisClient  *redis.Client
	availability *availability.Engine
	locker       lock.Locker

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client, engine *availability.Engine, locker lock.Locker) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:     validate,
		config:       cfg,
		repository:   repo,
		translator:   trans,
		mailChannel:  mailCh,
		redisClient:  rdb,
		availability: engine,
		locker:       locker,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// browsing trainers and their free time does not need an account
	h.Mux.Get("/trainers", h.GetAllTrainers)

	h.Mux.Route("/partner-gyms", func(r chi.Router) {
		r.Get("/", h.GetPartnerGyms)
		r.Get("/search/nearby", h.GetNearbyPartnerGyms)
		r.Get("/search/services", h.GetPartnerGymsByServices)
		r.With(h.auth, h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreatePartnerGym)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.partnerGym)
			r.Get("/", h.GetPartnerGym)

			r.Group(func(r chi.Router) {
				r.Use(h.auth)
				r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
				r.Put("/", h.UpdatePartnerGym)
				r.Patch("/deactivate", h.DeactivatePartnerGym)
				r.Patch("/activate", h.ActivatePartnerGym)
				r.Delete("/", h.DeletePartnerGym)
			})
		})
	})

	h.Mux.Route("/feedback", func(r chi.Router) {
		r.Post("/", h.CreateFeedback)
		r.With(h.auth, h.RequiredRole([]domain.Role{domain.RoleAdmin})).Get("/", h.GetAllFeedback)
	})

	h.Mux.Route("/single-workouts", func(r chi.Router) {
		r.Get("/trainer/{username}", h.GetTrainerSingleWorkouts)
		r.Get("/trainer/{username}/categories", h.GetSingleWorkoutCategories)
		r.With(h.auth, h.RequiredRole([]domain.Role{domain.RoleTrainer, domain.RoleAdmin})).Post("/", h.CreateSingleWorkout)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.singleWorkout)
			r.Get("/", h.GetSingleWorkout)

			r.Group(func(r chi.Router) {
				r.Use(h.auth)
				r.Use(h.singleWorkoutOwner)
				r.Put("/", h.UpdateSingleWorkout)
				r.Delete("/", h.DeleteSingleWorkout)
			})
		})
	})

	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/", h.UpdateMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})
	})

	h.Mux.Route("/appointments", func(r chi.Router) {
		r.Get("/horarios/{trainerUsername}", h.GetTrainerSchedule)
		r.Get("/horarios/date/{trainerId}/{date}", h.GetAvailableTimes)

		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.With(h.RequiredRole([]domain.Role{domain.RoleTrainer})).Post("/horarios", h.UpsertTrainerSchedule)

			r.Post("/", h.CreateAppointment)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Get("/", h.GetAllAppointments)
			r.Get("/by-month/{year}/{month}/{userId}", h.GetAppointmentsByMonth)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.appointment)
				r.Use(h.appointmentParticipant)
				r.Get("/", h.GetAppointment)
				r.Patch("/", h.UpdateAppointment)
				r.Delete("/", h.DeleteAppointment)
				r.With(h.appointmentTrainer).Patch("/accept", h.AcceptAppointment)
				r.With(h.appointmentTrainer).Patch("/reject", h.RejectAppointment)
				r.With(h.appointmentTrainer).Patch("/complete", h.CompleteAppointment)
				r.With(h.RequiredRole([]domain.Role{domain.RoleTrainer, domain.RoleAdmin})).Patch("/mark-paid", h.MarkAppointmentPaid)
			})
		})
	})
}
