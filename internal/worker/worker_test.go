package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/sprintsight/internal/backend"
	"github.com/kiranshivaraju/sprintsight/internal/backend/mock"
	"github.com/kiranshivaraju/sprintsight/internal/config"
	"github.com/kiranshivaraju/sprintsight/pkg/models"
)

type stubProcessor struct {
	fn func(ctx context.Context, job *models.Job) (bool, string)
}

func (s *stubProcessor) Process(ctx context.Context, job *models.Job) (bool, string) {
	if s.fn != nil {
		return s.fn(ctx, job)
	}
	return true, "done"
}

func testConfig() *config.Config {
	return &config.Config{
		BaseURL: "http://backend.test",
		AgentID: "agent-1",
		JobTypes: []string{
			models.JobTypeDailyProgress,
			models.JobTypeDailyAgent,
			models.JobTypeSprintGoal,
			models.JobTypePISync,
			models.JobTypeTeamPIInsight,
			models.JobTypeTeamRetroTopics,
		},
		PollingInterval:         2 * time.Millisecond,
		PollingIntervalAfterJob: time.Millisecond,
		BackoffInitial:          10 * time.Millisecond,
		BackoffCap:              time.Second,
		CycleCooldown:           time.Millisecond,
		HTTPTimeout:             time.Second,
	}
}

func TestPollNextJobRetriesWhileUnreachable(t *testing.T) {
	attempts := 0
	m := &mock.Client{
		NextPendingJobFunc: func(ctx context.Context) (*models.Job, error) {
			attempts++
			if attempts < 3 {
				return nil, fmt.Errorf("%w: connection refused", backend.ErrBackendUnreachable)
			}
			return nil, nil
		},
	}
	w := New(testConfig(), m, &stubProcessor{})

	start := time.Now()
	job, err := w.pollNextJob(context.Background())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Nil(t, job)
	assert.Equal(t, 3, attempts)
	// First retry waits the initial interval, the second twice that.
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}

func TestPollNextJobDoesNotRetryHTTPFailures(t *testing.T) {
	attempts := 0
	m := &mock.Client{
		NextPendingJobFunc: func(ctx context.Context) (*models.Job, error) {
			attempts++
			return nil, fmt.Errorf("%w: status 500", backend.ErrRequestFailed)
		},
	}
	w := New(testConfig(), m, &stubProcessor{})

	_, err := w.pollNextJob(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrRequestFailed))
	assert.Equal(t, 1, attempts, "HTTP failures are terminal, not retried")
}

func TestRunProcessesJobLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		claimedBy      string
		placeholder    string
		reportedStatus string
		reportedResult string
	)

	polls := 0
	m := &mock.Client{
		NextPendingJobFunc: func(ctx context.Context) (*models.Job, error) {
			polls++
			if polls == 1 {
				return &models.Job{
					JobID:    json.RawMessage("7"),
					JobType:  models.JobTypeDailyAgent,
					TeamName: "Atlas",
				}, nil
			}
			return nil, nil
		},
		ClaimJobFunc: func(ctx context.Context, jobID int64, by string, at time.Time) error {
			require.Equal(t, int64(7), jobID)
			claimedBy = by
			return nil
		},
		RecordInputFunc: func(ctx context.Context, jobID int64, input string) error {
			placeholder = input
			return nil
		},
		ReportResultFunc: func(ctx context.Context, jobID int64, status, result, errMsg string) error {
			reportedStatus = status
			reportedResult = result
			cancel()
			return nil
		},
	}

	w := New(testConfig(), m, &stubProcessor{})
	err := w.Run(ctx)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(claimedBy, "agent-1/"))
	assert.Contains(t, placeholder, "collected basic job context")
	assert.Equal(t, models.JobStatusCompleted, reportedStatus)
	assert.Equal(t, "done", reportedResult)

	status := w.Snapshot()
	require.NotNil(t, status.LastJobID)
	assert.Equal(t, int64(7), *status.LastJobID)
	assert.Equal(t, models.JobTypeDailyAgent, status.LastJobType)
}

func TestRunReportsProcessorFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reportedStatus, reportedErr string
	m := &mock.Client{
		NextPendingJobFunc: func(ctx context.Context) (*models.Job, error) {
			return &models.Job{JobID: json.RawMessage("3"), JobType: models.JobTypePISync}, nil
		},
		ReportResultFunc: func(ctx context.Context, jobID int64, status, result, errMsg string) error {
			reportedStatus = status
			reportedErr = errMsg
			cancel()
			return nil
		},
	}
	p := &stubProcessor{fn: func(ctx context.Context, job *models.Job) (bool, string) {
		return false, "Missing PI in job payload"
	}}

	require.NoError(t, New(testConfig(), m, p).Run(ctx))
	assert.Equal(t, models.JobStatusError, reportedStatus)
	assert.Equal(t, "Missing PI in job payload", reportedErr)
}

func TestRunLeavesUnsupportedJobUnclaimed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	claimCalled := false
	polls := 0
	m := &mock.Client{
		NextPendingJobFunc: func(ctx context.Context) (*models.Job, error) {
			polls++
			if polls == 1 {
				return &models.Job{JobID: json.RawMessage("9"), JobType: models.JobTypeDailyAgent}, nil
			}
			cancel()
			return nil, nil
		},
		ClaimJobFunc: func(ctx context.Context, jobID int64, by string, at time.Time) error {
			claimCalled = true
			return nil
		},
	}

	cfg := testConfig()
	cfg.JobTypes = []string{models.JobTypePISync}

	require.NoError(t, New(cfg, m, &stubProcessor{}).Run(ctx))
	assert.False(t, claimCalled, "unsupported jobs stay unclaimed for other workers")
}

func TestRunSkipsJobWithInvalidID(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	claimCalled := false
	polls := 0
	m := &mock.Client{
		NextPendingJobFunc: func(ctx context.Context) (*models.Job, error) {
			polls++
			if polls == 1 {
				return &models.Job{JobID: json.RawMessage(`"not-a-number"`), JobType: models.JobTypeDailyAgent}, nil
			}
			cancel()
			return nil, nil
		},
		ClaimJobFunc: func(ctx context.Context, jobID int64, by string, at time.Time) error {
			claimCalled = true
			return nil
		},
	}

	require.NoError(t, New(testConfig(), m, &stubProcessor{}).Run(ctx))
	assert.False(t, claimCalled)
}

func TestRunSurvivesProcessorPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	polls := 0
	m := &mock.Client{
		NextPendingJobFunc: func(ctx context.Context) (*models.Job, error) {
			polls++
			switch polls {
			case 1:
				return &models.Job{JobID: json.RawMessage("4"), JobType: models.JobTypeDailyAgent}, nil
			default:
				cancel()
				return nil, nil
			}
		},
	}
	p := &stubProcessor{fn: func(ctx context.Context, job *models.Job) (bool, string) {
		panic("boom")
	}}

	require.NoError(t, New(testConfig(), m, p).Run(ctx))
	assert.GreaterOrEqual(t, polls, 2, "loop keeps polling after a panic")
}
