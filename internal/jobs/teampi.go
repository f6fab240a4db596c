package jobs

import (
	"context"
	"strings"

	"github.com/kiranshivaraju/sprintsight/internal/backend"
	"github.com/kiranshivaraju/sprintsight/pkg/models"
)

// processTeamPIInsight analyzes one team's slice of a program
// increment: team-filtered PI status and burndown, no transcript.
// Both the team and the PI must be present on the job.
func (p *Processor) processTeamPIInsight(ctx context.Context, job *models.Job) (bool, string) {
	if job.TeamName == "" {
		return false, "Missing team_name in job payload"
	}
	pi := job.ResolvePI()
	if pi == "" {
		return false, "Missing PI in job payload"
	}
	jobID := jobIDPtr(job)

	statusSection := p.piStatusSection(ctx, pi, job.TeamName)
	burndownSection := p.piBurndownSection(ctx, pi, job.TeamName)

	prompt, errMsg := p.fetchPrompt(ctx, "TeamPIInsightAgent", "Team PI Insight")
	if errMsg != "" {
		return false, errMsg
	}

	formatted := strings.Join([]string{
		"===TEAM PI INSIGHT DATA===",
		"Team: " + job.TeamName,
		"",
		statusSection,
		burndownSection,
		prompt,
	}, "\n")

	p.recordInput(ctx, jobID, formatted)

	answer, err := p.client.ProcessLLM(ctx, backend.LLMRequest{
		Prompt:  formatted,
		JobType: models.JobTypeTeamPIInsight,
		JobID:   jobID,
		Metadata: map[string]string{
			"pi_name":   pi,
			"team_name": job.TeamName,
		},
	})
	if err != nil {
		return false, "AI chat failed or returned empty response"
	}

	p.saveCardAndRecommendations(ctx, answer, cardConfig{
		Kind:     piCard,
		Name:     "Team PI Insight",
		Type:     "Team PI Insight",
		Priority: "High",
		Source:   "Team PI Insight",
		TeamName: job.TeamName,
		PI:       pi,
		RecOwner: job.TeamName,
		JobID:    jobID,
	})

	return true, p.resultReport("Team PI Insight", []string{
		"PI: " + pi,
		"Team: " + job.TeamName,
		"Job ID: " + jobIDString(jobID),
		"Timestamp: " + p.timestamp(),
	}, formatted, answer)
}
