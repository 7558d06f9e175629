package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/navina/travelguide/internal/adapters/database"
	"github.com/navina/travelguide/internal/application/assistant"
	"github.com/navina/travelguide/internal/infrastructure/clients/postgres"
	"github.com/navina/travelguide/internal/infrastructure/observability"
	"github.com/navina/travelguide/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-seed", cfg.Env, cfg.LogLevel)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	ctx := context.Background()

	if err := database.EnsureSchema(ctx, pgClient); err != nil {
		log.Fatal().Err(err).Msg("failed to create schema")
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		if err := database.TruncateAll(ctx, pgClient); err != nil {
			log.Fatal().Err(err).Msg("failed to reset tables")
		}
	}

	facts, err := assistant.LoadFacts(cfg.Assistant.FactsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load guide facts")
	}

	now := time.Now()
	pois, err := seedPOIs(facts, now)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build POIs")
	}
	tours := seedTours(now)
	if err := tourStarts(tours, pois); err != nil {
		log.Fatal().Err(err).Msg("failed to build tours")
	}

	poiRepo := database.NewPOIAdapter(pgClient)
	tourRepo := database.NewTourAdapter(pgClient)

	created := 0
	for _, p := range pois {
		if err := poiRepo.Create(ctx, p); err != nil {
			log.Warn().Err(err).Str("poi_id", p.ID).Msg("failed to create POI")
			continue
		}
		created++
	}
	log.Info().Int("created", created).Int("total", len(pois)).Msg("seeded POIs")

	created = 0
	for _, t := range tours {
		if err := tourRepo.Create(ctx, t); err != nil {
			log.Warn().Err(err).Str("tour_id", t.ID).Msg("failed to create tour")
			continue
		}
		created++
	}
	log.Info().Int("created", created).Int("total", len(tours)).Msg("seeded tours")
}
