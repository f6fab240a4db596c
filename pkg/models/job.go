package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	JobStatusPending   = "pending"
	JobStatusClaimed   = "claimed"
	JobStatusCompleted = "completed"
	JobStatusError     = "error"
)

// Job types the backend schedules. "Daily Progress" and "Daily Agent"
// are the same job under the new and old backend names.
const (
	JobTypeDailyProgress   = "Daily Progress"
	JobTypeDailyAgent      = "Daily Agent"
	JobTypeSprintGoal      = "Sprint Goal"
	JobTypePISync          = "PI Sync"
	JobTypeTeamPIInsight   = "Team PI Insight"
	JobTypeTeamRetroTopics = "Team Retro Topics"
)

// Job is a unit of work claimed from the backend. The id may arrive as
// job_id or id, and as a JSON number or a numeric string, so both are
// kept raw and resolved on demand.
type Job struct {
	JobID    json.RawMessage `json:"job_id,omitempty"`
	ID       json.RawMessage `json:"id,omitempty"`
	JobType  string          `json:"job_type"`
	TeamName string          `json:"team_name,omitempty"`
	PI       string          `json:"pi,omitempty"`
	JobData  json.RawMessage `json:"job_data,omitempty"`
	Status   string          `json:"status,omitempty"`
}

// ResolveID returns the job's integer id, preferring job_id over id.
func (j Job) ResolveID() (int64, bool) {
	for _, raw := range []json.RawMessage{j.JobID, j.ID} {
		if id, ok := parseID(raw); ok {
			return id, true
		}
	}
	return 0, false
}

// ResolvePI returns the PI identifier from the pi field, falling back
// to a pi key inside the job_data blob (which may itself be a
// JSON-encoded string).
func (j Job) ResolvePI() string {
	if j.PI != "" {
		return j.PI
	}
	data := j.JobData
	if len(data) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		data = json.RawMessage(asString)
	}
	var payload struct {
		PI string `json:"pi"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.PI
}

func parseID(raw json.RawMessage) (int64, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, false
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return int64(f), true
	}
	return 0, false
}
