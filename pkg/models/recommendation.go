package models

// RecommendationStatusProposed is the status every new recommendation
// is created with; humans move them through the rest of the workflow.
const RecommendationStatusProposed = "Proposed"

// Recommendation is an actionable item derived from an AI summary.
// TeamName holds the team for team-scoped jobs and the PI identifier
// for PI-scoped jobs.
type Recommendation struct {
	TeamName          string `json:"team_name"`
	ActionText        string `json:"action_text"`
	Rational          string `json:"rational,omitempty"`
	Date              string `json:"date"`
	Priority          string `json:"priority"`
	Status            string `json:"status"`
	FullInformation   string `json:"full_information"`
	InformationJSON   string `json:"information_json,omitempty"`
	SourceJobID       *int64 `json:"source_job_id,omitempty"`
	SourceAISummaryID *int64 `json:"source_ai_summary_id,omitempty"`
}
