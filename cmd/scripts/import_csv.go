// Command import_csv seeds the configured store from CSV files before the
// event, without going through the HTTP surface. It honors the same lock as
// the API: nothing is replaced while winner mappings exist.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"

	"github.com/tenkey-events/raffle-backend/internal/config"
	"github.com/tenkey-events/raffle-backend/internal/csvparse"
	"github.com/tenkey-events/raffle-backend/internal/repositories/csvstore"
	"github.com/tenkey-events/raffle-backend/internal/services"
)

func main() {
	participantsPath := flag.String("participants", "", "path to a connpass participants CSV to import")
	prizesPath := flag.String("prizes", "", "path to a prize catalog CSV to import")
	flag.Parse()

	if *participantsPath == "" && *prizesPath == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -participants and/or -prizes")
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := csvstore.NewStore(cfg.Storage.DataDir)
	if err != nil {
		log.Fatalf("Failed to open data directory: %v", err)
	}

	var mu sync.RWMutex
	participantService := services.NewParticipantService(&mu, csvstore.NewRosterRepository(store), csvstore.NewCancellationRepository(store))
	prizeService := services.NewPrizeService(&mu, csvstore.NewCatalogRepository(store))
	raffleService := services.NewRaffleService(&mu, csvstore.NewMappingRepository(store), participantService, prizeService)
	participantService.BindLedger(raffleService)
	prizeService.BindLedger(raffleService)

	ctx := context.Background()
	if err := participantService.Load(ctx); err != nil {
		log.Fatalf("Failed to load persisted state: %v", err)
	}
	if err := prizeService.Load(ctx); err != nil {
		log.Fatalf("Failed to load persisted state: %v", err)
	}
	if err := raffleService.Load(ctx); err != nil {
		log.Fatalf("Failed to load persisted state: %v", err)
	}

	if *participantsPath != "" {
		n, err := importParticipants(ctx, participantService, *participantsPath)
		if err != nil {
			log.Fatalf("Participants import failed: %v", err)
		}
		fmt.Printf("Imported %d participants from %s\n", n, *participantsPath)
	}

	if *prizesPath != "" {
		n, err := importPrizes(ctx, prizeService, *prizesPath)
		if err != nil {
			log.Fatalf("Prizes import failed: %v", err)
		}
		fmt.Printf("Imported %d prizes from %s\n", n, *prizesPath)
	}
}

func importParticipants(ctx context.Context, svc *services.ParticipantService, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	roster, err := csvparse.ParseParticipants(f)
	if err != nil {
		return 0, err
	}
	if err := svc.ImportRoster(ctx, roster); err != nil {
		return 0, err
	}
	return len(roster), nil
}

func importPrizes(ctx context.Context, svc *services.PrizeService, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	catalog, err := csvparse.ParsePrizes(f)
	if err != nil {
		return 0, err
	}
	if err := svc.ImportCatalog(ctx, catalog); err != nil {
		return 0, err
	}
	return len(catalog), nil
}
