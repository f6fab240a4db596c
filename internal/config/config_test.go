package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/sprintsight/pkg/models"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SPRINTSIGHT_BASE_URL", "http://localhost:8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "agent-1", cfg.AgentID)
	assert.Len(t, cfg.JobTypes, 6)
	assert.Equal(t, 10*time.Second, cfg.PollingInterval)
	assert.Equal(t, time.Second, cfg.PollingIntervalAfterJob)
	assert.Equal(t, 2*time.Second, cfg.BackoffInitial)
	assert.Equal(t, 5*time.Minute, cfg.BackoffCap)
	assert.Equal(t, 30*time.Second, cfg.CycleCooldown)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Zero(t, cfg.OpsPort)
}

func TestLoadMissingBaseURL(t *testing.T) {
	t.Setenv("SPRINTSIGHT_BASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SPRINTSIGHT_BASE_URL")
}

func TestLoadRejectsBadScheme(t *testing.T) {
	t.Setenv("SPRINTSIGHT_BASE_URL", "localhost:8080")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http://")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SPRINTSIGHT_BASE_URL", "https://backend.example.com")
	t.Setenv("SPRINTSIGHT_AGENT_ID", "agent-7")
	t.Setenv("SPRINTSIGHT_JOB_TYPES", "Daily Agent, Sprint Goal")
	t.Setenv("POLLING_INTERVAL", "30")
	t.Setenv("POLLING_INTERVAL_AFTER_JOB", "5")
	t.Setenv("NETWORK_BACKOFF_INITIAL", "1")
	t.Setenv("NETWORK_BACKOFF_CAP", "60")
	t.Setenv("SPRINTSIGHT_OPS_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "agent-7", cfg.AgentID)
	assert.Equal(t, []string{models.JobTypeDailyAgent, models.JobTypeSprintGoal}, cfg.JobTypes)
	assert.Equal(t, 30*time.Second, cfg.PollingInterval)
	assert.Equal(t, 5*time.Second, cfg.PollingIntervalAfterJob)
	assert.Equal(t, time.Second, cfg.BackoffInitial)
	assert.Equal(t, time.Minute, cfg.BackoffCap)
	assert.Equal(t, 9090, cfg.OpsPort)
}

func TestLoadRejectsUnknownJobType(t *testing.T) {
	t.Setenv("SPRINTSIGHT_BASE_URL", "http://localhost:8080")
	t.Setenv("SPRINTSIGHT_JOB_TYPES", "Daily Agent,Nonsense Job")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nonsense Job")
}

func TestLoadRejectsBackoffCapBelowInitial(t *testing.T) {
	t.Setenv("SPRINTSIGHT_BASE_URL", "http://localhost:8080")
	t.Setenv("NETWORK_BACKOFF_INITIAL", "10")
	t.Setenv("NETWORK_BACKOFF_CAP", "5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NETWORK_BACKOFF_CAP")
}

func TestSupports(t *testing.T) {
	cfg := &Config{JobTypes: []string{models.JobTypeDailyAgent, models.JobTypePISync}}

	assert.True(t, cfg.Supports(models.JobTypeDailyAgent))
	assert.True(t, cfg.Supports(models.JobTypePISync))
	assert.False(t, cfg.Supports(models.JobTypeSprintGoal))
}
