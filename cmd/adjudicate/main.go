package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/structcost/takeoff/internal/adjudicate"
	"github.com/structcost/takeoff/internal/common"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	docID := flag.String("doc", "", "document id (required)")
	flag.Parse()

	if *docID == "" || flag.NArg() == 0 {
		logger.Error("usage", "cmd", "adjudicate -doc <id> <adapter1.json> [adapter2.json ...]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	builder := adjudicate.NewBuilder(*docID, nil)
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("read adapter file", "path", path, "error", err)
			os.Exit(1)
		}
		var af adjudicate.AdapterFile
		if err := json.Unmarshal(data, &af); err != nil {
			logger.Error("decode adapter file", "path", path, "error", err)
			os.Exit(1)
		}
		af.Merge(builder)
		logger.Info("adapter merged",
			"source", string(af.Source), "candidates", len(af.Candidates))
	}

	payload := builder.Finalize()

	var (
		store adjudicate.Store
		err   error
	)
	switch cfg.Store.Driver {
	case "postgres":
		var pg *adjudicate.PostgresStore
		pg, err = adjudicate.OpenPostgres(ctx, cfg.Store, logger)
		if err == nil {
			if hcErr := pg.HealthCheck(ctx, cfg.Store.DialTimeout); hcErr != nil {
				logger.Error("payload store unhealthy", "error", hcErr)
				os.Exit(1)
			}
			store = pg
		}
	default:
		store, err = adjudicate.OpenSQLite(ctx, cfg.Store.DSN)
	}
	if err != nil {
		logger.Error("open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("close store", "error", cerr)
		}
	}()

	if err := store.Put(ctx, payload); err != nil {
		logger.Error("persist payload", "doc_id", *docID, "error", err)
		os.Exit(1)
	}

	logger.Info("payload persisted",
		"doc_id", *docID,
		"pages", len(payload.Pages),
		"candidates", len(payload.Candidates),
		"notes", len(payload.Notes),
	)
}
