package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"hospital-ops/internal/admission"
	"hospital-ops/internal/audit"
	"hospital-ops/internal/registry"
	"hospital-ops/internal/scheduling"
	"hospital-ops/internal/visit"
)

type RouterConfig struct {
	Scheduling *scheduling.Service
	Admissions *admission.Service
	Visits     *visit.Service
	Audit      *audit.Recorder
	Registry   registry.Reader

	PgPool    *pgxpool.Pool
	Redis     *redis.Client
	JWTSecret []byte
	Log       zerolog.Logger
	Env       string
	Version   string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(IdentityMiddleware(cfg.JWTSecret, cfg.Log))
	r.Use(LoggingMiddleware(cfg.Log))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Appointment endpoints
	r.Post("/appointments", createAppointmentHandler(cfg.Scheduling))
	r.Get("/appointments", listAppointmentsHandler(cfg.Scheduling))
	r.Get("/appointments/{id}", getAppointmentHandler(cfg.Scheduling))
	r.Put("/appointments/{id}", updateAppointmentHandler(cfg.Scheduling))
	r.Delete("/appointments/{id}", deleteAppointmentHandler(cfg.Scheduling))

	// Admission endpoints
	r.Post("/admissions", createAdmissionHandler(cfg.Admissions))
	r.Get("/admissions", listAdmissionsHandler(cfg.Admissions))
	r.Get("/admissions/{id}", getAdmissionHandler(cfg.Admissions))
	r.Post("/admissions/{id}/discharge", dischargeAdmissionHandler(cfg.Admissions))
	r.Delete("/admissions/{id}", deleteAdmissionHandler(cfg.Admissions))

	// Visit endpoints
	r.Post("/visits", createVisitHandler(cfg.Visits))
	r.Get("/visits", listVisitsHandler(cfg.Visits))
	r.Get("/visits/{id}", getVisitHandler(cfg.Visits))
	r.Post("/visits/{id}/medical-records", addMedicalRecordHandler(cfg.Visits))
	r.Post("/visits/{id}/prescriptions", addPrescriptionHandler(cfg.Visits))
	r.Delete("/visits/{id}", deleteVisitHandler(cfg.Visits))

	// Audit search
	r.Get("/audit-logs", searchAuditLogsHandler(cfg.Audit))

	// Registry reads
	r.Get("/patients", listPatientsHandler(cfg.Registry))
	r.Get("/patients/{id}", getPatientHandler(cfg.Registry))
	r.Get("/doctors", listDoctorsHandler(cfg.Registry))
	r.Get("/doctors/{id}", getDoctorHandler(cfg.Registry))
	r.Get("/departments", listDepartmentsHandler(cfg.Registry))
	r.Get("/departments/{id}", getDepartmentHandler(cfg.Registry))
	r.Get("/rooms", listRoomsHandler(cfg.Registry))
	r.Get("/rooms/{id}", getRoomHandler(cfg.Registry))

	return r
}
