package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SprintSummary is one active-sprint summary record. The backend owns
// the column set, so the record stays dynamic; the fields the worker
// reasons about get typed accessors.
type SprintSummary map[string]any

// SprintID returns the sprint_id field as an integer.
func (s SprintSummary) SprintID() (int64, bool) {
	switch v := s["sprint_id"].(type) {
	case float64:
		return int64(v), true
	case string:
		if id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return id, true
		}
	}
	return 0, false
}

// SprintGoal returns the sprint_goal field, or "" when absent.
func (s SprintSummary) SprintGoal() string {
	if goal, ok := s["sprint_goal"].(string); ok {
		return goal
	}
	return ""
}

// IssuesAtStart returns the issues_at_start field as a number.
// Missing or unparseable values count as zero.
func (s SprintSummary) IssuesAtStart() float64 {
	switch v := s["issues_at_start"].(type) {
	case float64:
		return v
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return n
		}
	}
	return 0
}

// SprintIssue is one JIRA issue row from the sprint-issues-with-epic
// view. Flagged and dependency are backend-defined arrays kept raw.
type SprintIssue struct {
	IssueKey         string          `json:"issue_key"`
	IssueSummary     string          `json:"issue_summary"`
	IssueDescription string          `json:"issue_description"`
	IssueType        string          `json:"issue_type"`
	StatusCategory   string          `json:"status_category"`
	Flagged          json.RawMessage `json:"flagged"`
	Dependency       json.RawMessage `json:"dependency"`
	EpicSummary      string          `json:"epic_summary"`
}
