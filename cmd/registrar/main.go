package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/campus-records/ccrm-api/internal/handler"
	"github.com/campus-records/ccrm-api/internal/middleware"
	"github.com/campus-records/ccrm-api/internal/models"
	"github.com/campus-records/ccrm-api/internal/repository"
	"github.com/campus-records/ccrm-api/internal/service"
	"github.com/campus-records/ccrm-api/pkg/cache"
	"github.com/campus-records/ccrm-api/pkg/config"
	"github.com/campus-records/ccrm-api/pkg/logger"
	corsmiddleware "github.com/campus-records/ccrm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campus-records/ccrm-api/pkg/middleware/requestid"
	"github.com/campus-records/ccrm-api/pkg/storage"
)

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	defaultSemester, err := models.ParseSemester(cfg.Academic.CurrentSemester)
	if err != nil {
		logr.Sugar().Fatalw("invalid current semester", "value", cfg.Academic.CurrentSemester, "error", err)
	}

	dataStore, err := storage.NewLocalStorage(cfg.Files.DataDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare data directory", "error", err)
	}

	var reportCache *redis.Client
	if cfg.Redis.Enabled {
		reportCache, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, report cache disabled", "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metrics := service.NewMetricsService()

	studentRepo := repository.NewStudentRepository()
	courseRepo := repository.NewCourseRepository()
	instructorRepo := repository.NewInstructorRepository()
	enrollmentRepo := repository.NewEnrollmentRepository()

	studentSvc := service.NewStudentService(studentRepo, defaultSemester, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, instructorRepo, validate, logr)
	instructorSvc := service.NewInstructorService(instructorRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, courseRepo, cfg.Academic.MaxSemesterCredits, validate, logr, metrics)
	gradeSvc := service.NewGradeService(enrollmentRepo, studentRepo, courseRepo, validate, logr, metrics)
	transcriptSvc := service.NewTranscriptService(studentRepo, courseRepo, enrollmentRepo, logr)
	reportSvc := service.NewReportService(studentRepo, courseRepo, enrollmentRepo, reportCache, cfg.Reports.CacheTTL, logr)
	fileSvc := service.NewFileService(studentRepo, courseRepo, instructorRepo, enrollmentRepo, dataStore, service.FileServiceConfig{
		BackupWorkers: cfg.Files.BackupWorkers,
		BackupRetries: cfg.Files.BackupRetries,
		RetryDelay:    cfg.Files.BackupInterval,
	}, logr, metrics)

	fileSvc.Start(ctx)
	defer fileSvc.Stop()

	studentHandler := handler.NewStudentHandler(studentSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	instructorHandler := handler.NewInstructorHandler(instructorSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, defaultSemester)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	transcriptHandler := handler.NewTranscriptHandler(transcriptSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	fileHandler := handler.NewFileHandler(fileSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		students := api.Group("/students")
		{
			students.GET("", studentHandler.List)
			students.POST("", studentHandler.Create)
			students.GET("/:id", studentHandler.Get)
			students.PUT("/:id", studentHandler.Update)
			students.DELETE("/:id", studentHandler.Delete)
			students.GET("/:id/enrollments", enrollmentHandler.StudentEnrollments)
			students.GET("/:id/credits", enrollmentHandler.Credits)
			students.GET("/:id/gpa", gradeHandler.GPA)
			students.GET("/:id/transcript", transcriptHandler.Get)
			students.GET("/:id/transcript/export", transcriptHandler.Export)
		}

		courses := api.Group("/courses")
		{
			courses.GET("", courseHandler.List)
			courses.POST("", courseHandler.Create)
			courses.GET("/:code", courseHandler.Get)
			courses.PUT("/:code", courseHandler.Update)
			courses.DELETE("/:code", courseHandler.Delete)
		}

		instructors := api.Group("/instructors")
		{
			instructors.GET("", instructorHandler.List)
			instructors.POST("", instructorHandler.Create)
			instructors.GET("/:id", instructorHandler.Get)
		}

		enrollments := api.Group("/enrollments")
		{
			enrollments.GET("", enrollmentHandler.List)
			enrollments.POST("", enrollmentHandler.Create)
			enrollments.DELETE("", enrollmentHandler.Delete)
		}

		grades := api.Group("/grades")
		{
			grades.POST("/score", gradeHandler.RecordScore)
			grades.POST("/letter", gradeHandler.RecordLetter)
		}

		reports := api.Group("/reports")
		{
			reports.GET("/summary", reportHandler.Summary)
			reports.GET("/gpa-distribution", reportHandler.GPADistribution)
			reports.GET("/semester-statistics", reportHandler.SemesterStatistics)
			reports.GET("/course-popularity", reportHandler.CoursePopularity)
			reports.GET("/top-students", reportHandler.TopStudents)
		}

		files := api.Group("/files")
		{
			files.POST("/import/:entity", fileHandler.Import)
			files.POST("/export/:entity", fileHandler.Export)
			files.POST("/backup", fileHandler.Backup)
			files.GET("/backup/size", fileHandler.BackupSize)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
