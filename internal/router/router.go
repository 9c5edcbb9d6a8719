package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/shulehub/shule-api/internal/config"
	"github.com/shulehub/shule-api/internal/handler"
	"github.com/shulehub/shule-api/internal/middleware"
	"github.com/shulehub/shule-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	TeacherHandler      *handler.TeacherHandler
	ProfileHandler      *handler.ProfileHandler
	ClassHandler        *handler.ClassHandler
	SubjectHandler      *handler.SubjectHandler
	ExamHandler         *handler.ExamHandler
	ExamSubjectHandler  *handler.ExamSubjectHandler
	StudentHandler      *handler.StudentHandler
	ScoreHandler        *handler.ScoreHandler
	ResultHandler       *handler.ResultHandler
	ReportHandler       *handler.ReportHandler
	PerformanceHandler  *handler.PerformanceHandler
	SubscriptionHandler *handler.SubscriptionHandler
	PaymentHandler      *handler.PaymentHandler
	AuthMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application. Registration and
// login stay open; every resource group sits behind the token middleware.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.AuthHandler != nil {
		// Per-IP limiter in front of the open auth routes; the redis-backed
		// per-username throttle inside the service does the finer-grained work.
		deps.AuthHandler.Register(api.Group("/auth", middleware.RateLimit("auth", 30, time.Minute)))
	}

	authMiddleware := deps.AuthMiddleware
	if authMiddleware == nil {
		authMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.TeacherHandler != nil {
		deps.TeacherHandler.Register(api.Group("/teachers", authMiddleware))
	}
	if deps.ProfileHandler != nil {
		deps.ProfileHandler.Register(api.Group("/profiles", authMiddleware))
	}
	if deps.ClassHandler != nil {
		deps.ClassHandler.Register(api.Group("/classes", authMiddleware))
	}
	if deps.SubjectHandler != nil {
		deps.SubjectHandler.Register(api.Group("/subjects", authMiddleware))
	}
	if deps.ExamHandler != nil {
		deps.ExamHandler.Register(api.Group("/exams", authMiddleware))
	}
	if deps.ExamSubjectHandler != nil {
		deps.ExamSubjectHandler.Register(api.Group("/exam-subjects", authMiddleware))
	}
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api.Group("/students", authMiddleware))
	}
	if deps.ScoreHandler != nil {
		deps.ScoreHandler.Register(api.Group("/scores", authMiddleware))
	}
	if deps.ResultHandler != nil {
		deps.ResultHandler.Register(api.Group("/results", authMiddleware))
	}
	if deps.ReportHandler != nil {
		deps.ReportHandler.Register(api.Group("/student-reports", authMiddleware))
	}
	if deps.PerformanceHandler != nil {
		deps.PerformanceHandler.Register(api.Group("/class-performance", authMiddleware))
	}
	if deps.SubscriptionHandler != nil {
		deps.SubscriptionHandler.Register(api.Group("/subscriptions", authMiddleware))
	}
	if deps.PaymentHandler != nil {
		deps.PaymentHandler.Register(api.Group("/payments", authMiddleware))
	}
}
