package models

// Transcript is one meeting transcript record from the backend.
type Transcript struct {
	Type           string `json:"type"`
	TeamName       string `json:"team_name"`
	PIName         string `json:"pi_name"`
	FileName       string `json:"file_name"`
	TranscriptDate string `json:"transcript_date"`
	RawText        string `json:"raw_text"`
}
