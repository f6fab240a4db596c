package backend

import (
	"github.com/kiranshivaraju/sprintsight/pkg/models"
)

// TranscriptQuery holds parameters for the unified transcripts/getLatest call.
type TranscriptQuery struct {
	Type     string
	TeamName string
	PIName   string
	Limit    int
}

// LLMRequest is the body for POST /agent-llm-process.
type LLMRequest struct {
	Prompt   string            `json:"prompt"`
	JobType  string            `json:"job_type"`
	JobID    *int64            `json:"job_id,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// --- Backend response envelopes ---
//
// One typed shape per endpoint. Payloads whose column set the backend
// owns (burndown, PI status, predictability, sprint summaries) stay
// dynamic because they flow straight into the table renderer.

type nextPendingResponse struct {
	Data struct {
		Job *models.Job `json:"job"`
	} `json:"data"`
}

type transcriptsResponse struct {
	Data struct {
		Transcripts []models.Transcript `json:"transcripts"`
	} `json:"data"`
}

type dataEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type sprintSummariesResponse struct {
	Data struct {
		Summaries []models.SprintSummary `json:"summaries"`
	} `json:"data"`
}

type sprintIssuesResponse struct {
	Success bool `json:"success"`
	Data    struct {
		SprintIssues []models.SprintIssue `json:"sprint_issues"`
	} `json:"data"`
}

type predictabilityResponse struct {
	Data struct {
		SprintPredictability []map[string]any `json:"sprint_predictability"`
	} `json:"data"`
}

type promptResponse struct {
	Data struct {
		Prompt struct {
			PromptDescription string `json:"prompt_description"`
		} `json:"prompt"`
		PromptDescription string `json:"prompt_description"`
	} `json:"data"`
	PromptDescription string `json:"prompt_description"`
}

// description returns the prompt text from whichever nesting level the
// backend used.
func (p promptResponse) description() string {
	if p.Data.Prompt.PromptDescription != "" {
		return p.Data.Prompt.PromptDescription
	}
	if p.Data.PromptDescription != "" {
		return p.Data.PromptDescription
	}
	return p.PromptDescription
}

type llmProcessResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Response string `json:"response"`
	} `json:"data"`
}

type cardListResponse struct {
	Data []models.CardSummary `json:"data"`
}

type cardCreateResponse struct {
	Data struct {
		Card struct {
			ID int64 `json:"id"`
		} `json:"card"`
	} `json:"data"`
}
