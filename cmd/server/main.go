package main

import (
	"log"

	"github.com/redis/go-redis/v9"

	"rtis.uz/deptrecords/internal/bootstrap"
	"rtis.uz/deptrecords/internal/config"
	"rtis.uz/deptrecords/internal/server"
	"rtis.uz/deptrecords/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedDepartments(db); err != nil {
		log.Fatalf("failed to seed departments: %v", err)
	}
	if err := bootstrap.SeedPositions(db); err != nil {
		log.Fatalf("failed to seed positions: %v", err)
	}
	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	// Redis backs the login rate limiter; without it the limiter is off.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	}

	srv := server.NewServer(cfg, db, redisClient)
	log.Printf("listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
