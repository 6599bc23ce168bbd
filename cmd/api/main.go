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

	"github.com/emmaus-school/talent-api/internal/config"
	"github.com/emmaus-school/talent-api/internal/database"
	"github.com/emmaus-school/talent-api/internal/handler"
	"github.com/emmaus-school/talent-api/internal/ledger"
	"github.com/emmaus-school/talent-api/internal/middleware"
	"github.com/emmaus-school/talent-api/internal/models"
	"github.com/emmaus-school/talent-api/internal/observability"
	"github.com/emmaus-school/talent-api/internal/repository"
	"github.com/emmaus-school/talent-api/internal/router"
	"github.com/emmaus-school/talent-api/internal/service"
	"github.com/emmaus-school/talent-api/pkg/events"
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
		&models.Student{},
		&models.Teacher{},
		&models.AttendanceRecord{},
		&models.WeeklyActivity{},
		&models.TalentHistory{},
		&models.TeacherTalentHistory{},
		&models.Product{},
		&models.Purchase{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer cache.Close()
	}

	publisher := events.NewNop()
	if cfg.NATSURL != "" {
		publisher, err = events.NewNATS(cfg.NATSURL, logger)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	engine := ledger.New(db, ledger.Options{
		AttendanceStep: cfg.AttendanceStep,
		CascadeStep:    cfg.CascadeStep,
		WeeklyGrantCap: cfg.WeeklyGrantCap,
		Holidays:       cfg.Holidays,
	}, logger)

	historyRepo := repository.NewHistoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	attendanceService := service.NewAttendanceService(engine, validate, publisher, logger)
	activityService := service.NewActivityService(engine, validate, publisher, logger)
	talentService := service.NewTalentService(engine, historyRepo, validate, publisher, logger)
	purchaseService := service.NewPurchaseService(engine, productRepo, validate, publisher, logger)
	summaryService := service.NewSummaryService(studentRepo, cache, cfg.SummaryCacheTTL, logger)

	attendanceHandler := handler.NewAttendanceHandler(attendanceService, activityService, logger)
	talentHandler := handler.NewTalentHandler(talentService, logger)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService, logger)
	summaryHandler := handler.NewSummaryHandler(summaryService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	app.Get("/metrics", observability.MetricsHandler())

	router.Register(app, cfg, router.Dependencies{
		AttendanceHandler: attendanceHandler,
		TalentHandler:     talentHandler,
		PurchaseHandler:   purchaseHandler,
		SummaryHandler:    summaryHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
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
