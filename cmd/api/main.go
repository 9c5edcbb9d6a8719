package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shulehub/shule-api/internal/config"
	"github.com/shulehub/shule-api/internal/database"
	"github.com/shulehub/shule-api/internal/handler"
	"github.com/shulehub/shule-api/internal/middleware"
	"github.com/shulehub/shule-api/internal/models"
	"github.com/shulehub/shule-api/internal/repository"
	"github.com/shulehub/shule-api/internal/router"
	"github.com/shulehub/shule-api/internal/service"
	cloud "github.com/shulehub/shule-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Account{},
		&models.AuthToken{},
		&models.Profile{},
		&models.TeacherProfile{},
		&models.Class{},
		&models.Subject{},
		&models.Exam{},
		&models.ExamSubject{},
		&models.Student{},
		&models.Score{},
		&models.Result{},
		&models.StudentReport{},
		&models.ClassPerformance{},
		&models.Subscription{},
		&models.PaymentRecord{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis only backs the login throttle; the API runs without it.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not set, login throttling disabled")
	}

	var uploader service.AvatarStorage
	if cfg.CloudinaryCloudName != "" {
		cloudService, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploader = cloudService
	} else {
		logger.Warn().Msg("cloudinary credentials not set, avatar uploads disabled")
		uploader = cloud.Disabled{}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	accountRepo := repository.NewAccountRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	classRepo := repository.NewClassRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	examRepo := repository.NewExamRepository(db)
	examSubjectRepo := repository.NewExamSubjectRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	resultRepo := repository.NewResultRepository(db)
	reportRepo := repository.NewReportRepository(db)
	performanceRepo := repository.NewPerformanceRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	authService := service.NewAuthService(accountRepo, tokenRepo, redisClient, cfg.LoginMaxAttempts, cfg.LoginWindow, validate, logger)
	teacherService := service.NewTeacherService(teacherRepo, validate, logger)
	profileService := service.NewProfileService(profileRepo, uploader, cfg.AvatarMaxSizeMB, validate, logger)
	classService := service.NewClassService(classRepo, validate, logger)
	subjectService := service.NewSubjectService(subjectRepo, validate, logger)
	examService := service.NewExamService(examRepo, classRepo, validate, logger)
	examSubjectService := service.NewExamSubjectService(examSubjectRepo, examRepo, subjectRepo, validate, logger)
	studentService := service.NewStudentService(studentRepo, classRepo, subjectRepo, validate, logger)
	scoreService := service.NewScoreService(scoreRepo, studentRepo, examSubjectRepo, validate, logger)
	resultService := service.NewResultService(resultRepo, studentRepo, subjectRepo, validate, logger)
	reportService := service.NewReportService(reportRepo, resultRepo, studentRepo, validate, logger)
	performanceService := service.NewPerformanceService(performanceRepo, resultRepo, classRepo, validate, logger)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, validate, logger)
	paymentService := service.NewPaymentService(paymentRepo, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		TeacherHandler:      handler.NewTeacherHandler(teacherService, logger),
		ProfileHandler:      handler.NewProfileHandler(profileService, logger),
		ClassHandler:        handler.NewClassHandler(classService, logger),
		SubjectHandler:      handler.NewSubjectHandler(subjectService, logger),
		ExamHandler:         handler.NewExamHandler(examService, logger),
		ExamSubjectHandler:  handler.NewExamSubjectHandler(examSubjectService, logger),
		StudentHandler:      handler.NewStudentHandler(studentService, logger),
		ScoreHandler:        handler.NewScoreHandler(scoreService, logger),
		ResultHandler:       handler.NewResultHandler(resultService, logger),
		ReportHandler:       handler.NewReportHandler(reportService, logger),
		PerformanceHandler:  handler.NewPerformanceHandler(performanceService, logger),
		SubscriptionHandler: handler.NewSubscriptionHandler(subscriptionService, logger),
		PaymentHandler:      handler.NewPaymentHandler(paymentService, logger),
		AuthMiddleware:      middleware.TokenAuth(tokenRepo, teacherRepo, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
