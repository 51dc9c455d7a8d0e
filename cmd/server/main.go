package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"

	"searchbar/internal/cache"
	"searchbar/internal/config"
	"searchbar/internal/db"
	"searchbar/internal/jobs"
	"searchbar/internal/metrics"
	"searchbar/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Redis backs the block cache and sessions when configured
	var storage fiber.Storage
	var blockCache *cache.BlockCache
	if cfg.RedisURL != "" {
		redisStorage := cache.NewRedisStorage(cfg.RedisURL)
		defer redisStorage.Close()
		storage = redisStorage
		blockCache = cache.NewBlockCache(redisStorage, cfg.BlockCacheTTL)
		log.Printf("Block cache enabled (ttl: %v)", cfg.BlockCacheTTL)
	}

	// Sync blocks and pages declared in config.yaml
	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load YAML config: %v", err)
	}
	if yamlCfg != nil {
		if err := database.SyncYAMLConfig(ctx, yamlCfg, blockCache); err != nil {
			log.Fatalf("Failed to sync YAML config: %v", err)
		}
		log.Printf("Synced %d blocks and %d pages from YAML config", len(yamlCfg.Blocks), len(yamlCfg.Pages))
	} else if cfg.IsDev() {
		if err := database.SeedDevBlocks(ctx, blockCache); err != nil {
			log.Printf("Warning: Failed to seed development blocks: %v", err)
		}
	}

	metrics.Init(database)

	srv := server.New(cfg, storage)
	if err := srv.RegisterRoutes(ctx, database, blockCache); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	if cfg.DestinationCheckInterval > 0 {
		checker := jobs.NewDestinationChecker(database, cfg.DestinationCheckInterval, cfg.DestinationCheckInterval)
		go checker.Start(ctx)
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	metrics.Wait()
	log.Println("Server exited")
}
