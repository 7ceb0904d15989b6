package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"contentflow/internal/aggregate"
	"contentflow/internal/board"
	"contentflow/internal/config"
	"contentflow/internal/db"
	"contentflow/internal/jobs"
	"contentflow/internal/metrics"
	"contentflow/internal/models"
	"contentflow/internal/notify"
	"contentflow/internal/realtime"
	"contentflow/internal/server"
	"contentflow/internal/workflow"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}

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

	// Seed agencies, clients and columns declared in config.yaml
	if err := seedWorkspaces(ctx, database, yamlCfg); err != nil {
		log.Fatalf("Failed to seed workspaces: %v", err)
	}

	if cfg.IsDev() {
		if err := database.SeedDevEvents(ctx); err != nil {
			log.Printf("Warning: Failed to seed dev events: %v", err)
		}
	}

	// Register the transition metrics collector
	metrics.Init(database)

	// Change-event bus: redis pub/sub between instances, in-process fallback
	var bus realtime.Bus
	if cfg.RedisAddr != "" {
		bus, err = realtime.NewRedisBus(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisChannel)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		log.Printf("Using redis change-event bus at %s", cfg.RedisAddr)
	} else {
		bus = realtime.NewMemoryBus()
		log.Println("REDIS_ADDR not set; using in-process change-event bus")
	}

	// Core components
	engine := workflow.New(database, bus, metrics.RecordTransition)
	aggregator := aggregate.New(database, cfg.KanbanWindowDays)
	notifier := notify.NewNotifier(cfg, database)
	hub := realtime.NewHub()

	boards := board.NewRegistry(ctx, func(agencyID uuid.UUID) *board.Board {
		scope := aggregate.Scope{AgencyID: agencyID}
		return board.New(scope, aggregator, database, engine, notifier)
	})

	// Fan bus events out to SSE clients and live boards
	if err := bus.Subscribe(ctx, func(ev realtime.Event) {
		hub.Broadcast(ev)
		boards.Dispatch(ev)
	}); err != nil {
		log.Fatalf("Failed to subscribe to change events: %v", err)
	}

	// Auto-publish scheduled pieces when their time arrives
	if cfg.AutoPublishEnabled {
		publisher := jobs.NewAutoPublisher(database, engine, cfg.AutoPublishInterval)
		go publisher.Start(ctx)
	}

	// HTTP server
	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, server.Deps{
		DB:         database,
		Bus:        bus,
		Hub:        hub,
		Engine:     engine,
		Aggregator: aggregator,
		Boards:     boards,
	}); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
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
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

// seedWorkspaces materializes the agencies declared in config.yaml: agency
// row, system columns, declared custom columns and clients. Idempotent, safe
// to run on every start.
func seedWorkspaces(ctx context.Context, database *db.DB, yamlCfg *config.YAMLConfig) error {
	if yamlCfg == nil {
		return nil
	}

	for _, ac := range yamlCfg.Agencies {
		agency, err := database.EnsureAgency(ctx, ac.Name, ac.Slug)
		if err != nil {
			return err
		}
		if err := database.SeedDefaultColumns(ctx, agency.ID); err != nil {
			return err
		}

		for _, cc := range ac.Columns {
			col := &models.ColumnDefinition{
				AgencyID: agency.ID,
				ColumnID: cc.ColumnID,
				Name:     cc.Name,
				Color:    cc.Color,
				Order:    cc.Order,
			}
			if err := database.UpsertColumn(ctx, col); err != nil {
				return err
			}
		}

		existing, err := database.ListClients(ctx, agency.ID)
		if err != nil {
			return err
		}
		known := make(map[string]bool, len(existing))
		for _, c := range existing {
			known[c.Name] = true
		}
		for _, cc := range ac.Clients {
			if known[cc.Name] {
				continue
			}
			client := &models.Client{
				AgencyID: agency.ID,
				Name:     cc.Name,
				Cities:   cc.Cities,
				States:   cc.States,
				Regions:  cc.Regions,
			}
			if err := database.CreateClient(ctx, client); err != nil {
				return err
			}
		}

		log.Printf("Workspace ready: %s (%s)", ac.Name, ac.Slug)
	}
	return nil
}
