package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/opencampus/records-api/api/swagger"
	"github.com/opencampus/records-api/internal/bootstrap"
	"github.com/opencampus/records-api/internal/handler"
	"github.com/opencampus/records-api/internal/notify"
	"github.com/opencampus/records-api/internal/repository"
	"github.com/opencampus/records-api/internal/router"
	"github.com/opencampus/records-api/internal/service"
	"github.com/opencampus/records-api/pkg/cache"
	"github.com/opencampus/records-api/pkg/config"
	"github.com/opencampus/records-api/pkg/database"
	"github.com/opencampus/records-api/pkg/jobs"
	"github.com/opencampus/records-api/pkg/logger"
	"github.com/opencampus/records-api/pkg/storage"

	"github.com/go-playground/validator/v10"
)

// @title Campus Records API
// @version 1.0.0
// @description Academic records backend: identities, grades, requests, evaluations and ledgers
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, stats caching disabled", "error", err)
		redisClient = nil
	}

	fileStore, err := storage.NewLocalStorage(cfg.Documents.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init document storage", "error", err)
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	loadRepo := repository.NewCourseLoadRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, logr, metricsSvc, cfg.Stats.CacheEnabled, cfg.Stats.CacheTTL)

	notificationSvc := service.NewNotificationService(notify.NewLogNotifier(logr), jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
	}, logr)

	accountSvc := service.NewAccountService(userRepo, profileRepo, subjectRepo, requestRepo, loadRepo, cacheSvc, logr)
	authSvc := service.NewAuthService(userRepo, profileRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, accountSvc.InvalidateStats)
	scheduleSvc := service.NewScheduleService(loadRepo, profileRepo, subjectRepo, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, loadRepo, profileRepo, validate, logr, service.GradeConfig{
		AllowResubmission: cfg.Grades.AllowResubmission,
	})
	attendanceSvc := service.NewAttendanceService(attendanceRepo, loadRepo, profileRepo, subjectRepo, notificationSvc, validate, logr)
	requestSvc := service.NewRequestService(requestRepo, profileRepo, validate, logr, accountSvc.InvalidateStats)
	evaluationSvc := service.NewEvaluationService(evaluationRepo, profileRepo, validate, logr)
	ledgerSvc := service.NewLedgerService(ledgerRepo, profileRepo, validate, logr)
	rosterSvc := service.NewRosterService(profileRepo, validate, logr)
	documentSvc := service.NewDocumentService(documentRepo, fileStore, logr, service.DocumentConfig{
		MaxFileSizeBytes: cfg.Documents.MaxFileSizeBytes,
		AllowedMIMEs:     cfg.Documents.AllowedMIMEs,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notificationSvc.Start(ctx)
	defer notificationSvc.Stop()

	if err := bootstrap.Seed(ctx, userRepo, subjectRepo, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, logr); err != nil {
		logr.Sugar().Fatalw("failed to seed baseline data", "error", err)
	}

	engine := router.New(router.Deps{
		Config:  cfg,
		Logger:  logr,
		Auth:    authSvc,
		Metrics: metricsSvc,

		AuthHandler:       handler.NewAuthHandler(authSvc),
		AdminHandler:      handler.NewAdminHandler(accountSvc),
		TeacherHandler:    handler.NewTeacherHandler(scheduleSvc, gradeSvc, attendanceSvc, accountSvc),
		StudentHandler:    handler.NewStudentHandler(gradeSvc, attendanceSvc, requestSvc, evaluationSvc, ledgerSvc),
		RegistrarHandler:  handler.NewRegistrarHandler(rosterSvc, scheduleSvc, gradeSvc, requestSvc, documentSvc),
		DeanHandler:       handler.NewDeanHandler(gradeSvc, scheduleSvc),
		DepartmentHandler: handler.NewDepartmentHandler(rosterSvc, gradeSvc),
		HRHandler:         handler.NewHRHandler(evaluationSvc, rosterSvc),
		AccountingHandler: handler.NewAccountingHandler(ledgerSvc),
		CommonHandler:     handler.NewCommonHandler(scheduleSvc, rosterSvc, evaluationSvc),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
