package jobs

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kiranshivaraju/sprintsight/internal/backend"
	"github.com/kiranshivaraju/sprintsight/internal/format"
	"github.com/kiranshivaraju/sprintsight/pkg/models"
)

// processDaily analyzes a team's daily standing: active sprint status,
// the latest daily transcript, and the sprint burndown.
func (p *Processor) processDaily(ctx context.Context, job *models.Job) (bool, string) {
	if job.TeamName == "" {
		return false, "Missing team_name in job payload"
	}
	jobID := jobIDPtr(job)

	sprintSection, _ := p.activeSprintSection(ctx, job.TeamName)
	transcriptSection := p.dailyTranscriptSection(ctx, job.TeamName)
	burndownSection := p.teamBurndownSection(ctx, job.TeamName)

	prompt, errMsg := p.fetchPrompt(ctx, "DailyAgent", "Daily Insights")
	if errMsg != "" {
		return false, errMsg
	}

	formatted := strings.Join([]string{
		"=== DAILY CONTEXT ===",
		"Team: " + job.TeamName,
		"",
		sprintSection,
		transcriptSection,
		burndownSection,
		"=== PROMPT ===",
		prompt,
	}, "\n")

	p.recordInput(ctx, jobID, formatted)

	answer, err := p.client.ProcessLLM(ctx, backend.LLMRequest{
		Prompt:   formatted,
		JobType:  models.JobTypeDailyAgent,
		JobID:    jobID,
		Metadata: map[string]string{"team_name": job.TeamName},
	})
	if err != nil {
		return false, "AI chat failed or returned empty response"
	}
	slog.Debug("daily analysis received", "team", job.TeamName, "preview", format.Truncate(answer, 400))

	p.saveCardAndRecommendations(ctx, answer, cardConfig{
		Kind:     teamCard,
		Name:     "Daily Progress Review",
		Type:     "Daily Progress",
		Priority: "Critical",
		Source:   "Daily Agent",
		TeamName: job.TeamName,
		RecOwner: job.TeamName,
		JobID:    jobID,
	})

	return true, p.resultReport("Daily Agent", []string{
		"Team: " + job.TeamName,
		"Job ID: " + jobIDString(jobID),
		"Timestamp: " + p.timestamp(),
	}, formatted, answer)
}
