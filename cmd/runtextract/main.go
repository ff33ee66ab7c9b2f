package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/structcost/takeoff/constants"
	"github.com/structcost/takeoff/internal/common"
	"github.com/structcost/takeoff/internal/ocr"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		key     = flag.String("key", "", "S3 object key of the drawing (required)")
		outPath = flag.String("out", "", "path to write the blocks JSON (default stdout)")
	)
	flag.Parse()

	if *key == "" {
		logger.Error("usage", "cmd", "runtextract -key <s3-key> [-out blocks.json]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if cfg.Textract.S3Bucket == "" {
		logger.Error("TEXTRACT_S3_BUCKET required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Textract.PollTimeout)
	defer cancel()

	client, err := ocr.NewTextractClient(ctx)
	if err != nil {
		logger.Error("textract client", "error", err)
		os.Exit(1)
	}
	adapter := ocr.NewTextractAdapter(client, ocr.TextractConfig{
		S3Bucket:     cfg.Textract.S3Bucket,
		PollInterval: cfg.Textract.PollInterval,
	}, logger)

	jobID, err := adapter.Submit(ctx, *key)
	if err != nil {
		logger.Error("submit", "key", *key, "error", err)
		os.Exit(1)
	}

	res, err := adapter.Wait(ctx, jobID)
	if err != nil {
		logger.Error("poll", "job_id", jobID, "error", err)
		os.Exit(1)
	}
	if res.Status == constants.JobStatusFailed {
		logger.Error("job failed", "job_id", jobID)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(res.Blocks, "", "  ")
	if err != nil {
		logger.Error("encode blocks", "error", err)
		os.Exit(1)
	}

	if *outPath == "" {
		os.Stdout.Write(data)
		os.Stdout.Write([]byte("\n"))
		return
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		logger.Error("write blocks", "path", *outPath, "error", err)
		os.Exit(1)
	}
	logger.Info("blocks written",
		"job_id", jobID, "status", string(res.Status),
		"blocks", len(res.Blocks), "path", *outPath)
}
