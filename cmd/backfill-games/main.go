package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/crimson-data/cfb-analytics/internal/app"
)

// exportPath points at a local CSV export of historical games. Backfilling
// from a file costs no upstream calls, so deep history stays off budget.
const exportPath = "./data/games_history.csv"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "build app:", err)
		os.Exit(1)
	}
	logger := application.Logger

	file, err := os.Open(exportPath)
	if err != nil {
		logger.Error("open export", "path", exportPath, "error", err)
		application.Close(context.Background())
		os.Exit(1)
	}

	report, err := application.GamesBackfill.Backfill(ctx, file)
	_ = file.Close()
	if err != nil {
		logger.Error("games backfill aborted", "error", err)
		application.Close(context.Background())
		os.Exit(1)
	}

	report.LogSummary(logger)
	runErr := report.Err()
	application.Close(context.Background())

	if runErr != nil {
		os.Exit(1)
	}
}
