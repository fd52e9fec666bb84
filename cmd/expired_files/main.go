package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"cadportal/internal/config"
	"cadportal/internal/database"
	"cadportal/internal/domain/upload"
)

type expiredFile struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	StoragePath string    `json:"storagePath"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Prints free-tier files past their retention deadline as JSON lines. Nothing
// is deleted; the output feeds whatever job purges the bucket.
func main() {
	limit := flag.Int("limit", 1000, "maximum records to print")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	db, err := database.Connect(cfg.DatabaseURL, database.Options{}, logger)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	records, err := upload.NewRepository(db).ListExpired(context.Background(), time.Now().UTC(), *limit)
	if err != nil {
		log.Fatalf("list expired files failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	for _, rec := range records {
		if err := enc.Encode(expiredFile{
			ID:          rec.ID,
			ProjectID:   rec.ProjectID,
			StoragePath: rec.StoragePath,
			ExpiresAt:   *rec.ExpiresAt,
		}); err != nil {
			log.Fatalf("write output: %v", err)
		}
	}
	log.Printf("expired files listed: %d", len(records))
}
