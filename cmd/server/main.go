package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"hrops/internal/domain/attendance"
	"hrops/internal/domain/audit"
	"hrops/internal/domain/auth"
	"hrops/internal/domain/core"
	"hrops/internal/domain/leave"
	"hrops/internal/domain/notifications"
	"hrops/internal/domain/payroll"
	"hrops/internal/domain/reimbursement"
	"hrops/internal/domain/reports"
	"hrops/internal/domain/timesheet"
	"hrops/internal/platform/config"
	"hrops/internal/platform/db"
	"hrops/internal/platform/email"
	"hrops/internal/platform/geocode"
	"hrops/internal/platform/jobs"
	"hrops/internal/platform/logging"
	"hrops/internal/platform/media"
	"hrops/internal/platform/metrics"
	attendancehandler "hrops/internal/transport/http/handlers/attendance"
	audithandler "hrops/internal/transport/http/handlers/audit"
	authhandler "hrops/internal/transport/http/handlers/auth"
	corehandler "hrops/internal/transport/http/handlers/core"
	leavehandler "hrops/internal/transport/http/handlers/leave"
	notificationshandler "hrops/internal/transport/http/handlers/notifications"
	payrollhandler "hrops/internal/transport/http/handlers/payroll"
	reimbursementhandler "hrops/internal/transport/http/handlers/reimbursement"
	reportshandler "hrops/internal/transport/http/handlers/reports"
	timesheethandler "hrops/internal/transport/http/handlers/timesheet"
	"hrops/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()

	level := slog.LevelInfo
	if cfg.Environment == "development" {
		level = slog.LevelDebug
	}
	logger := logging.Setup(cfg.LogFile, level)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			slog.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			slog.Error("seed failed", "err", err)
			os.Exit(1)
		}
	}

	collector := metrics.New()
	mailer := email.New(cfg)
	uploader := media.New(cfg.MediaUploadURL, cfg.MediaAPIKey)
	geocoder := geocode.New(cfg.GeocodeBaseURL)

	authStore := auth.NewStore(pool)
	coreStore := core.NewStore(pool)
	attendanceStore := attendance.NewStore(pool)
	leaveStore := leave.NewStore(pool)
	timesheetStore := timesheet.NewStore(pool)
	reimbursementStore := reimbursement.NewStore(pool)
	payrollStore := payroll.NewStore(pool)
	reportsStore := reports.NewStore(pool)

	auditSvc := audit.New(pool)
	notifySvc := notifications.New(pool, mailer, cfg.EmailFrom)
	attendanceSvc := attendance.NewService(attendanceStore, coreStore, uploader, geocoder)
	leaveSvc := leave.NewService(leaveStore, coreStore)
	timesheetSvc := timesheet.NewService(timesheetStore, coreStore)
	reimbursementSvc := reimbursement.NewService(reimbursementStore, coreStore)
	payrollSvc := payroll.NewService(payrollStore, cfg.PayslipDir)
	reportsSvc := reports.NewService(reportsStore, attendanceStore, payrollStore)

	jobsSvc := jobs.New(pool, cfg)
	jobsSvc.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret, authStore))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.MetricsEnabled {
		router.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, cfg.JWTSecret, mailer, cfg.EmailFrom).RegisterRoutes(r)
		corehandler.NewHandler(coreStore, auditSvc).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceSvc).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc, notifySvc, auditSvc).RegisterRoutes(r)
		timesheethandler.NewHandler(timesheetSvc, notifySvc).RegisterRoutes(r)
		reimbursementhandler.NewHandler(reimbursementSvc, uploader, notifySvc, auditSvc).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc, coreStore, jobsSvc, notifySvc, auditSvc).RegisterRoutes(r)
		reportshandler.NewHandler(reportsSvc).RegisterRoutes(r)
		notificationshandler.NewHandler(notifySvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc).RegisterRoutes(r)
	})

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
