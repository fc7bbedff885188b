package usecase

import "errors"

var (
	// ErrNoRowsWritten means an ingestion run finished without persisting a
	// single row. CLIs translate it into a non-zero exit.
	ErrNoRowsWritten = errors.New("no rows written")

	ErrInvalidYearRange = errors.New("invalid year range")
	ErrTeamRequired     = errors.New("team is required")
	ErrSeasonRequired   = errors.New("season is required")
)
