package main

import (
	"os"

	"github.com/empmgmt/backend/internal/config"
	"github.com/empmgmt/backend/internal/domain"
	"github.com/empmgmt/backend/internal/export"
	"github.com/empmgmt/backend/internal/infrastructure/db"
	"github.com/empmgmt/backend/internal/infrastructure/logger"
	"github.com/empmgmt/backend/internal/infrastructure/redislock"
	"github.com/empmgmt/backend/internal/infrastructure/workbook"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := "config/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = "../config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	database, err := db.NewPostgresConnection(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close(database)
	log.Info("database connection established")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	taskRepo := db.NewExportTaskRepository(database, log)
	employeeRepo := db.NewEmployeeRepository(database, log)
	userRepo := db.NewUserRepository(database, log)

	locker := redislock.New(redisClient, cfg.Export.LockTTL, log)
	writer := workbook.NewExcelWriter()

	exporters := export.Exporters{
		domain.TaskTypeEmployeeExport: export.NewEmployeeExporter(employeeRepo, writer, cfg.Export.Dir, log),
		domain.TaskTypeUserExport:     export.NewUserExporter(userRepo, writer, cfg.Export.Dir, log),
	}

	publisher := export.NewPublisher(redisOpt, cfg.Export.MaxRetry, log)
	defer publisher.Close()

	worker := export.NewWorker(taskRepo, locker, exporters, cfg.Export.SuccessTTL, log)
	deadLetter := export.NewDeadLetterHandler(taskRepo, log)

	server := export.NewServer(export.ServerConfig{
		RedisOpt:    redisOpt,
		Concurrency: cfg.Export.Concurrency,
		RetryDelay:  cfg.Export.RetryDelay,
		Publisher:   publisher,
		Logger:      log,
	})

	log.Infof("export worker starting, concurrency=%d max_retry=%d", cfg.Export.Concurrency, cfg.Export.MaxRetry)
	if err := server.Run(export.NewMux(worker, deadLetter)); err != nil {
		log.Fatalf("export worker stopped: %v", err)
	}
}
