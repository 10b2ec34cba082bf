package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/db"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/reindex"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report stale profiles without rewriting them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	st, err := db.OpenStore(ctx, cfg, nil)
	if err != nil {
		log.Error("store init failed", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer st.Close()

	log.Info("reindex started", "driver", cfg.StoreDriver, "dry_run", *dryRun)

	res, err := reindex.Run(ctx, st, log, *dryRun)
	if err != nil {
		log.Error("reindex stopped with error", "err", err, "scanned", res.Scanned, "rewritten", res.Rewritten)
		os.Exit(1)
	}

	log.Info("reindex complete", "scanned", res.Scanned, "rewritten", res.Rewritten)
}
