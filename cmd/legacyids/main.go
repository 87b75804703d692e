// Command legacyids maps existing rows to numeric identifiers so older
// admin clients can address them.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"nightlife/internal/config"
	"nightlife/internal/database"
	"nightlife/internal/featureflags"
	"nightlife/internal/legacyid"
	"nightlife/internal/models"
	"nightlife/internal/repository"
)

func main() {
	kinds := flag.String("kinds", "establishment,employee,comment", "Comma-separated entity kinds to backfill")
	batch := flag.Int("batch", 500, "Rows per batch")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	resolver := legacyid.NewResolver(repository.NewLegacyIDRepository(db), featureflags.NewManager(cfg.FeatureFlags))
	for _, raw := range strings.Split(*kinds, ",") {
		kind := models.ModerationKind(strings.TrimSpace(raw))
		if kind.Table() == "" {
			log.Fatalf("unknown kind %q", raw)
		}
		res, err := resolver.Backfill(ctx, kind, *batch)
		if err != nil {
			log.Fatalf("backfill %s: %v", kind, err)
		}
		log.Printf("%s: mapped=%d collisions=%d", kind, res.Mapped, res.Collisions)
	}
}
