package models

// Card is a persisted AI summary attached to a team or a PI, keyed by
// (date, owner, card_name). PI cards carry the pi field; team cards
// leave it empty.
type Card struct {
	TeamName        string `json:"team_name,omitempty"`
	PI              string `json:"pi,omitempty"`
	CardName        string `json:"card_name"`
	CardType        string `json:"card_type"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	Priority        string `json:"priority"`
	Source          string `json:"source"`
	SourceJobID     *int64 `json:"source_job_id,omitempty"`
	FullInformation string `json:"full_information"`
	InformationJSON string `json:"information_json,omitempty"`
}

// CardSummary is the subset of card fields the list endpoints return
// that the upsert scan needs.
type CardSummary struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"`
	TeamName string `json:"team_name"`
	PI       string `json:"pi"`
	CardName string `json:"card_name"`
}
