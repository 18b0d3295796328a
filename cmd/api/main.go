package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"

	"github.com/tenkey-events/raffle-backend/api/routes"
	"github.com/tenkey-events/raffle-backend/internal/config"
	"github.com/tenkey-events/raffle-backend/internal/handlers"
	"github.com/tenkey-events/raffle-backend/internal/repositories"
	"github.com/tenkey-events/raffle-backend/internal/repositories/csvstore"
	mongorepo "github.com/tenkey-events/raffle-backend/internal/repositories/mongodb"
	"github.com/tenkey-events/raffle-backend/internal/services"
	mongodb "github.com/tenkey-events/raffle-backend/pkg/mongodb"
)

func main() {
	// A .env file is optional, local convenience only.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogger(cfg.LogLevel)

	rosterRepo, cancelRepo, catalogRepo, mappingRepo, cleanup, err := buildRepositories(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer cleanup()

	// One lock for all three stores: ledger writes read the roster and
	// catalog, roster/catalog writes consult the ledger.
	var mu sync.RWMutex

	participantService := services.NewParticipantService(&mu, rosterRepo, cancelRepo)
	prizeService := services.NewPrizeService(&mu, catalogRepo)
	raffleService := services.NewRaffleService(&mu, mappingRepo, participantService, prizeService)
	participantService.BindLedger(raffleService)
	prizeService.BindLedger(raffleService)
	coordinator := services.NewRaffleCoordinator(&mu, participantService, prizeService, raffleService)

	// Load persisted state before serving. A corrupt file means the dataset
	// on disk no longer matches what was drawn, so refuse to start rather
	// than run the raffle against half-loaded state.
	ctx := context.Background()
	loadErr := participantService.Load(ctx)
	if loadErr == nil {
		loadErr = prizeService.Load(ctx)
	}
	if loadErr == nil {
		loadErr = raffleService.Load(ctx)
	}
	if loadErr != nil {
		// log.Fatalf skips deferred calls, so release the storage driver
		// here before exiting.
		cleanup()
		if errors.Is(loadErr, repositories.ErrCorruptState) {
			log.Fatalf("Persisted raffle state is corrupt, fix or remove the stored data: %v", loadErr)
		}
		log.Fatalf("Failed to load persisted state: %v", loadErr)
	}

	handlerDeps := routes.HandlerDependencies{
		ParticipantHandler: handlers.NewParticipantHandler(participantService),
		PrizeHandler:       handlers.NewPrizeHandler(prizeService),
		RaffleHandler:      handlers.NewRaffleHandler(raffleService, coordinator),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	slog.Info("Server starting", "port", cfg.Server.Port, "storage", cfg.Storage.Driver)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	slog.Info("Server exiting")
}

// buildRepositories returns the four persistence repositories for the
// configured driver, plus a cleanup function for the driver's resources.
func buildRepositories(cfg *config.Config) (
	repositories.RosterRepository,
	repositories.CancellationRepository,
	repositories.CatalogRepository,
	repositories.MappingRepository,
	func(),
	error,
) {
	switch cfg.Storage.Driver {
	case "mongodb":
		client, err := mongodb.NewClient(context.Background(), cfg.MongoDB.URI)
		if err != nil {
			return nil, nil, nil, nil, nil, err
		}
		db := client.Database(cfg.MongoDB.Database)
		cleanup := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				slog.Error("Error disconnecting from MongoDB", "error", err)
			}
		}
		return mongorepo.NewRosterRepository(db),
			mongorepo.NewCancellationRepository(db),
			mongorepo.NewCatalogRepository(db),
			mongorepo.NewMappingRepository(db),
			cleanup, nil
	default:
		store, err := csvstore.NewStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, nil, nil, nil, err
		}
		return csvstore.NewRosterRepository(store),
			csvstore.NewCancellationRepository(store),
			csvstore.NewCatalogRepository(store),
			csvstore.NewMappingRepository(store),
			func() {}, nil
	}
}

func setupLogger(level string) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(handler))
}
