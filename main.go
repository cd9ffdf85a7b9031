package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"workspace/config"
	"workspace/database"
	"workspace/logging"
	"workspace/models"
	"workspace/onboarding"
	"workspace/tasks"
	"workspace/teams"
)

func main() {
	name := flag.String("name", "", "team name")
	subdomain := flag.String("subdomain", "", "team subdomain (optional)")
	adminName := flag.String("admin-name", "", "name of the first admin user")
	adminEmail := flag.String("admin-email", "", "email of the first admin user")
	migrateOnly := flag.Bool("migrate-only", false, "migrate the schema and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := database.Init(cfg.DatabaseURL, cfg.DatabaseLogLevel)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	if *migrateOnly {
		logger.Info("schema migrated")
		return
	}

	if *name == "" || *adminEmail == "" {
		flag.Usage()
		os.Exit(2)
	}

	scheduler, closeScheduler, err := newScheduler(cfg)
	if err != nil {
		logger.Fatal("failed to connect task queue", zap.String("backend", cfg.TaskBackend), zap.Error(err))
	}
	defer closeScheduler()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	service := teams.New(db, onboarding.Embedded(), scheduler, logger)

	team := models.NewTeam(*name)
	if *subdomain != "" {
		team.Subdomain = subdomain
	}
	if err := service.Create(ctx, team); err != nil {
		logger.Fatal("failed to create team", zap.Error(err))
	}

	admin := models.User{Name: *adminName, Email: *adminEmail, TeamID: team.ID, Role: models.UserRoleAdmin}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		logger.Fatal("failed to create admin user", zap.Error(err))
	}

	collection, err := service.ProvisionFirstCollection(ctx, team, admin.ID)
	if err != nil {
		logger.Fatal("failed to provision workspace", zap.Error(err))
	}

	logger.Info("workspace ready",
		zap.String("team_id", team.ID),
		zap.String("url", team.URL(cfg.Platform())),
		zap.String("collection_id", collection.ID),
	)
}

func newScheduler(cfg *config.Config) (tasks.Scheduler, func(), error) {
	switch cfg.TaskBackend {
	case config.TaskBackendRedis:
		s, err := tasks.DialRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TaskQueue)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		s, conn, err := tasks.DialAMQP(cfg.AMQPURL, cfg.TaskQueue)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { conn.Close() }, nil
	}
}
