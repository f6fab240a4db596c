package jobs

import (
	"context"
	"strings"

	"github.com/kiranshivaraju/sprintsight/internal/backend"
	"github.com/kiranshivaraju/sprintsight/pkg/models"
)

// processTeamRetroTopics gathers retrospective material for a team:
// the last five daily transcripts, the active sprint burndown, and a
// three-month predictability window.
func (p *Processor) processTeamRetroTopics(ctx context.Context, job *models.Job) (bool, string) {
	if job.TeamName == "" {
		return false, "Missing team_name in job payload"
	}
	jobID := jobIDPtr(job)

	transcripts := p.transcriptsBlock(ctx, backend.TranscriptQuery{
		Type:     "Daily",
		TeamName: job.TeamName,
		Limit:    5,
	})
	burndownSection := p.teamBurndownSection(ctx, job.TeamName)
	predictabilitySection := p.predictabilitySection(ctx, job.TeamName, 3)

	prompt, errMsg := p.fetchPrompt(ctx, "TeamRetroTopicsAgent", "Team Retro Topics")
	if errMsg != "" {
		return false, errMsg
	}

	formatted := strings.Join([]string{
		"=== TEAM RETRO TOPICS ===",
		"Team: " + job.TeamName,
		"",
		transcripts,
		"",
		burndownSection,
		"",
		predictabilitySection,
		prompt,
	}, "\n")

	p.recordInput(ctx, jobID, formatted)

	answer, err := p.client.ProcessLLM(ctx, backend.LLMRequest{
		Prompt:   formatted,
		JobType:  models.JobTypeTeamRetroTopics,
		JobID:    jobID,
		Metadata: map[string]string{"team_name": job.TeamName},
	})
	if err != nil {
		return false, "AI chat failed or returned empty response"
	}

	p.saveCardAndRecommendations(ctx, answer, cardConfig{
		Kind:     teamCard,
		Name:     "Team Retro Topics",
		Type:     "Team Retro Topics",
		Priority: "High",
		Source:   "Team Retro Topics",
		TeamName: job.TeamName,
		RecOwner: job.TeamName,
		JobID:    jobID,
	})

	return true, p.resultReport("Team Retro Topics", []string{
		"Team: " + job.TeamName,
		"Job ID: " + jobIDString(jobID),
		"Timestamp: " + p.timestamp(),
	}, formatted, answer)
}
