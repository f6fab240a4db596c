package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kiranshivaraju/sprintsight/pkg/models"
)

// Config holds all configuration for the sprintsight agent.
type Config struct {
	BaseURL                 string
	AgentID                 string
	JobTypes                []string
	PollingInterval         time.Duration
	PollingIntervalAfterJob time.Duration
	BackoffInitial          time.Duration
	BackoffCap              time.Duration
	CycleCooldown           time.Duration
	HTTPTimeout             time.Duration
	OpsPort                 int
}

var knownJobTypes = map[string]bool{
	models.JobTypeDailyProgress:   true,
	models.JobTypeDailyAgent:      true,
	models.JobTypeSprintGoal:      true,
	models.JobTypePISync:          true,
	models.JobTypeTeamPIInsight:   true,
	models.JobTypeTeamRetroTopics: true,
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL:                 os.Getenv("SPRINTSIGHT_BASE_URL"),
		AgentID:                 envString("SPRINTSIGHT_AGENT_ID", "agent-1"),
		JobTypes:                envStringList("SPRINTSIGHT_JOB_TYPES", defaultJobTypes()),
		PollingInterval:         envDurationSecs("POLLING_INTERVAL", 10*time.Second),
		PollingIntervalAfterJob: envDurationSecs("POLLING_INTERVAL_AFTER_JOB", time.Second),
		BackoffInitial:          envDurationSecs("NETWORK_BACKOFF_INITIAL", 2*time.Second),
		BackoffCap:              envDurationSecs("NETWORK_BACKOFF_CAP", 5*time.Minute),
		CycleCooldown:           envDurationSecs("CYCLE_COOLDOWN", 30*time.Second),
		HTTPTimeout:             envDurationSecs("HTTP_TIMEOUT", 30*time.Second),
		OpsPort:                 envInt("SPRINTSIGHT_OPS_PORT", 0),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultJobTypes() []string {
	return []string{
		models.JobTypeDailyProgress,
		models.JobTypeDailyAgent,
		models.JobTypeSprintGoal,
		models.JobTypePISync,
		models.JobTypeTeamPIInsight,
		models.JobTypeTeamRetroTopics,
	}
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("SPRINTSIGHT_BASE_URL is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("SPRINTSIGHT_BASE_URL must start with http:// or https://, got %q", c.BaseURL)
	}

	if len(c.JobTypes) == 0 {
		return fmt.Errorf("SPRINTSIGHT_JOB_TYPES must name at least one job type")
	}
	for _, jt := range c.JobTypes {
		if !knownJobTypes[jt] {
			return fmt.Errorf("SPRINTSIGHT_JOB_TYPES contains unknown job type %q", jt)
		}
	}

	if c.PollingInterval <= 0 {
		return fmt.Errorf("POLLING_INTERVAL must be positive")
	}
	if c.PollingIntervalAfterJob <= 0 {
		return fmt.Errorf("POLLING_INTERVAL_AFTER_JOB must be positive")
	}
	if c.BackoffInitial <= 0 {
		return fmt.Errorf("NETWORK_BACKOFF_INITIAL must be positive")
	}
	if c.BackoffCap < c.BackoffInitial {
		return fmt.Errorf("NETWORK_BACKOFF_CAP must be at least NETWORK_BACKOFF_INITIAL")
	}

	return nil
}

// Supports reports whether jobType is in the configured allowlist.
func (c *Config) Supports(jobType string) bool {
	for _, jt := range c.JobTypes {
		if jt == jobType {
			return true
		}
	}
	return false
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}

func envStringList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
