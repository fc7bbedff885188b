package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/crimson-data/cfb-analytics/internal/app"
)

// Edit these to retarget a run. callBudget caps upstream requests for the
// whole run; 0 means unlimited. A full season costs 18 calls.
const (
	targetTeam = "Oklahoma"
	startYear  = 2015
	endYear    = 2024
	callBudget = 200
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "build app:", err)
		os.Exit(1)
	}
	logger := application.Logger

	report, err := application.Games.Sync(ctx, targetTeam, startYear, endYear, callBudget)
	if err != nil {
		logger.Error("games ingest aborted", "error", err)
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
