package usecase

import (
	"fmt"
	"time"

	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
)

type ValidationStatus string

const (
	ValidationPass ValidationStatus = "PASS"
	ValidationWarn ValidationStatus = "WARN"
	ValidationFail ValidationStatus = "FAIL"
)

// ValidationCheck is one post-run data quality check. Checks never gate the
// run; a FAIL still exits successfully when rows were written.
type ValidationCheck struct {
	Name   string
	Status ValidationStatus
	Detail string
}

// RecordError is one failure captured during a run. The run keeps going;
// errors accumulate here instead of aborting.
type RecordError struct {
	Year     int
	Resource string
	Detail   string
}

// RunReport accumulates everything an ingestion run did: rows written,
// upstream calls spent against the budget, per-record errors, and post-run
// validation results.
type RunReport struct {
	Job       string
	Team      string
	StartYear int
	EndYear   int

	CallBudget int
	CallsMade  int
	// BudgetExhausted is set when the budget could not cover the next
	// year's calls and the run stopped early.
	BudgetExhausted bool

	RowsWritten int
	Errors      []RecordError
	Checks      []ValidationCheck

	startedAt time.Time
	Elapsed   time.Duration
}

func NewRunReport(job, team string, startYear, endYear, callBudget int) *RunReport {
	return &RunReport{
		Job:        job,
		Team:       team,
		StartYear:  startYear,
		EndYear:    endYear,
		CallBudget: callBudget,
		startedAt:  time.Now(),
	}
}

// BudgetAllows reports whether the remaining budget covers calls more
// upstream requests. A zero budget means unlimited.
func (r *RunReport) BudgetAllows(calls int) bool {
	if r.CallBudget <= 0 {
		return true
	}
	return r.CallsMade+calls <= r.CallBudget
}

func (r *RunReport) AddCalls(calls int) {
	r.CallsMade += calls
}

func (r *RunReport) AddRows(rows int) {
	r.RowsWritten += rows
}

func (r *RunReport) AddError(year int, resource string, err error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, RecordError{
		Year:     year,
		Resource: resource,
		Detail:   err.Error(),
	})
}

func (r *RunReport) AddCheck(name string, status ValidationStatus, format string, args ...any) {
	r.Checks = append(r.Checks, ValidationCheck{
		Name:   name,
		Status: status,
		Detail: fmt.Sprintf(format, args...),
	})
}

func (r *RunReport) Finish() {
	r.Elapsed = time.Since(r.startedAt)
}

// Err returns ErrNoRowsWritten when the run produced nothing; per-record
// errors and failed checks do not make the run itself an error.
func (r *RunReport) Err() error {
	if r.RowsWritten == 0 {
		return fmt.Errorf("%w: job %s", ErrNoRowsWritten, r.Job)
	}
	return nil
}

func (r *RunReport) LogSummary(logger *logging.Logger) {
	if logger == nil {
		logger = logging.Default()
	}

	logger.Info("run summary",
		"job", r.Job,
		"team", r.Team,
		"start_year", r.StartYear,
		"end_year", r.EndYear,
		"rows_written", r.RowsWritten,
		"calls_made", r.CallsMade,
		"call_budget", r.CallBudget,
		"budget_exhausted", r.BudgetExhausted,
		"errors", len(r.Errors),
		"elapsed", r.Elapsed.String(),
	)

	for _, recordErr := range r.Errors {
		logger.Warn("run record error",
			"job", r.Job,
			"year", recordErr.Year,
			"resource", recordErr.Resource,
			"detail", recordErr.Detail,
		)
	}

	for _, check := range r.Checks {
		switch check.Status {
		case ValidationFail:
			logger.Error("validation check", "job", r.Job, "check", check.Name, "status", string(check.Status), "detail", check.Detail)
		case ValidationWarn:
			logger.Warn("validation check", "job", r.Job, "check", check.Name, "status", string(check.Status), "detail", check.Detail)
		default:
			logger.Info("validation check", "job", r.Job, "check", check.Name, "status", string(check.Status), "detail", check.Detail)
		}
	}
}
