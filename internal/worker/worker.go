// Package worker runs the polling loop that claims and processes
// analysis jobs one at a time.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/kiranshivaraju/sprintsight/internal/backend"
	"github.com/kiranshivaraju/sprintsight/internal/config"
	"github.com/kiranshivaraju/sprintsight/pkg/models"
)

// Processor runs one claimed job and reports success plus result text.
type Processor interface {
	Process(ctx context.Context, job *models.Job) (bool, string)
}

// Status is a point-in-time snapshot of the worker's state.
type Status struct {
	State       string    `json:"state"`
	Cycles      uint64    `json:"cycles"`
	LastJobID   *int64    `json:"last_job_id,omitempty"`
	LastJobType string    `json:"last_job_type,omitempty"`
	LastResult  string    `json:"last_result,omitempty"`
	StartedAt   time.Time `json:"started_at"`
}

// Worker polls the backend for pending jobs, claims them, and drives
// each through its processor. One job at a time; mutual exclusion
// across worker instances is the backend's claim operation.
type Worker struct {
	cfg       *config.Config
	client    backend.Client
	processor Processor
	runID     string

	mu     sync.Mutex
	status Status
}

// New creates a Worker. Each worker instance claims jobs under a
// unique agent-id/run-id pair so stale claims are attributable.
func New(cfg *config.Config, client backend.Client, processor Processor) *Worker {
	return &Worker{
		cfg:       cfg,
		client:    client,
		processor: processor,
		runID:     uuid.NewString(),
		status: Status{
			State:     "idle",
			StartedAt: time.Now().UTC(),
		},
	}
}

// Snapshot returns a copy of the worker's current status.
func (w *Worker) Snapshot() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Run loops until ctx is cancelled. A panic inside one cycle is
// logged and followed by a cooldown; the process keeps running.
func (w *Worker) Run(ctx context.Context) error {
	slog.Info("worker started",
		"agent_id", w.cfg.AgentID,
		"run_id", w.runID,
		"job_types", w.cfg.JobTypes,
		"polling_interval", w.cfg.PollingInterval,
	)

	for ctx.Err() == nil {
		w.cycle(ctx)
	}
	slog.Info("worker stopped")
	return nil
}

func (w *Worker) cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("unexpected panic in worker cycle", "panic", r)
			w.setState("idle")
			w.sleep(ctx, w.cfg.CycleCooldown)
		}
	}()

	w.mu.Lock()
	w.status.Cycles++
	w.status.State = "claiming"
	w.mu.Unlock()

	job, err := w.pollNextJob(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Warn("fetching next pending job failed", "error", err)
			w.setState("idle")
			w.sleep(ctx, w.cfg.PollingInterval)
		}
		return
	}
	if job == nil {
		w.setState("idle")
		w.sleep(ctx, w.cfg.PollingInterval)
		return
	}

	jobID, ok := job.ResolveID()
	if !ok {
		slog.Warn("skipping job with missing or invalid id", "job_type", job.JobType)
		w.setState("idle")
		w.sleep(ctx, w.cfg.PollingIntervalAfterJob)
		return
	}

	if !w.cfg.Supports(job.JobType) {
		slog.Info("leaving unsupported job unclaimed", "job_id", jobID, "job_type", job.JobType)
		w.setState("idle")
		w.sleep(ctx, w.cfg.PollingInterval)
		return
	}

	slog.Info("processing job",
		"job_id", jobID,
		"job_type", job.JobType,
		"team_name", job.TeamName,
		"pi", job.ResolvePI(),
	)

	claimedBy := w.cfg.AgentID + "/" + w.runID
	if err := w.client.ClaimJob(ctx, jobID, claimedBy, time.Now().UTC()); err != nil {
		slog.Warn("claiming job failed", "job_id", jobID, "error", err)
		w.setState("idle")
		w.sleep(ctx, w.cfg.PollingIntervalAfterJob)
		return
	}

	w.mu.Lock()
	w.status.State = "claimed"
	w.status.LastJobID = &jobID
	w.status.LastJobType = job.JobType
	w.mu.Unlock()

	// Placeholder input lands before any LLM call so a job that fails
	// mid-processing still shows what the worker was doing.
	placeholder := fmt.Sprintf("sprintsight agent collected basic job context at %s",
		time.Now().UTC().Format(time.RFC3339))
	if err := w.client.RecordInput(ctx, jobID, placeholder); err != nil {
		slog.Warn("recording placeholder input failed", "job_id", jobID, "error", err)
	}

	w.setState("processing")
	success, result := w.processor.Process(ctx, job)

	w.setState("reporting")
	status := models.JobStatusCompleted
	errMsg := ""
	if !success {
		status = models.JobStatusError
		errMsg = result
		if errMsg == "" {
			errMsg = "Unknown error"
		}
	}
	if err := w.client.ReportResult(ctx, jobID, status, result, errMsg); err != nil {
		slog.Warn("reporting job result failed", "job_id", jobID, "error", err)
	} else {
		slog.Info("job reported", "job_id", jobID, "status", status)
	}

	w.mu.Lock()
	w.status.LastResult = status
	w.status.State = "idle"
	w.mu.Unlock()

	w.sleep(ctx, w.cfg.PollingIntervalAfterJob)
}

// pollNextJob asks the backend for the next pending job, retrying
// with capped exponential backoff while the backend is unreachable.
// Every other failure class is returned immediately.
func (w *Worker) pollNextJob(ctx context.Context) (*models.Job, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = w.cfg.BackoffInitial
	bo.RandomizationFactor = 0
	bo.Multiplier = 2
	bo.MaxInterval = w.cfg.BackoffCap
	bo.MaxElapsedTime = 0

	var job *models.Job
	op := func() error {
		j, err := w.client.NextPendingJob(ctx)
		if err != nil {
			if errors.Is(err, backend.ErrBackendUnreachable) || errors.Is(err, backend.ErrBackendTimeout) {
				slog.Warn("backend unreachable, backing off", "error", err)
				return err
			}
			return backoff.Permanent(err)
		}
		job = j
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return job, nil
}

func (w *Worker) setState(state string) {
	w.mu.Lock()
	w.status.State = state
	w.mu.Unlock()
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
