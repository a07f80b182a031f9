// Command enqueue submits ingestion jobs to the worker via NATS. Each
// argument is a PDF path published as one job.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/kactuary/actuary-rag/engine/ingest"
	"github.com/kactuary/actuary-rag/pkg/natsutil"
)

func main() {
	natsURL := flag.String("nats", nats.DefaultURL, "NATS server URL")
	flag.Parse()
	_ = godotenv.Load()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: enqueue [-nats url] <pdf-path>...")
		os.Exit(2)
	}

	nc, err := nats.Connect(*natsURL)
	if err != nil {
		log.Error("nats connect failed", "url", *natsURL, "error", err)
		os.Exit(1)
	}
	defer nc.Close()

	ctx := context.Background()
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			log.Error("bad path", "path", path, "error", err)
			os.Exit(1)
		}
		if err := natsutil.Publish(ctx, nc, ingest.IngestSubject, ingest.Job{Path: abs}); err != nil {
			log.Error("publish failed", "path", abs, "error", err)
			os.Exit(1)
		}
		log.Info("job enqueued", "path", abs)
	}

	if err := nc.Flush(); err != nil {
		log.Error("flush failed", "error", err)
		os.Exit(1)
	}
}
