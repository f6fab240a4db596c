package jobs

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/kiranshivaraju/sprintsight/internal/backend"
	"github.com/kiranshivaraju/sprintsight/pkg/models"
)

// minSprintGoalLength is the shortest trimmed sprint goal worth
// analyzing; anything below it counts as "no goal yet".
const minSprintGoalLength = 10

// processSprintGoal analyzes the goal of the team's busiest active
// sprint against its issue list. A missing or trivial goal is a
// successful no-op, not a failure: the job completes with an
// explanatory message so the backend stops rescheduling it.
func (p *Processor) processSprintGoal(ctx context.Context, job *models.Job) (bool, string) {
	if job.TeamName == "" {
		return false, "Missing team_name in job payload"
	}
	jobID := jobIDPtr(job)

	summarySection, selected := p.activeSprintSection(ctx, job.TeamName)
	if selected == nil {
		return true, "No sprint Goal found"
	}
	if selected.IssuesAtStart() <= 0 {
		return true, "No sprint Goal found"
	}
	goal := strings.TrimSpace(selected.SprintGoal())
	if utf8.RuneCountInString(goal) < minSprintGoalLength {
		return true, "No sprint Goal found"
	}

	issuesSection := "=== JIRA ISSUES ===\n" + strings.Repeat("-", 20) + "\nNo issues found\n"
	if sprintID, ok := selected.SprintID(); ok {
		issuesSection = p.issuesSection(ctx, sprintID, job.TeamName)
	}

	prompt, errMsg := p.fetchPrompt(ctx, "DailyAgent", "Sprint Goal")
	if errMsg != "" {
		return false, errMsg
	}

	formatted := strings.Join([]string{
		"SPRINT GOAL ANALYSIS DATA",
		strings.Repeat("=", 50),
		"",
		summarySection,
		issuesSection,
		"ANALYSIS PROMPT:",
		strings.Repeat("-", 20),
		prompt,
		"",
	}, "\n")

	p.recordInput(ctx, jobID, formatted)

	answer, err := p.client.ProcessLLM(ctx, backend.LLMRequest{
		Prompt:   formatted,
		JobType:  models.JobTypeSprintGoal,
		JobID:    jobID,
		Metadata: map[string]string{"team_name": job.TeamName},
	})
	if err != nil {
		return false, "AI chat failed or returned empty response"
	}

	p.saveCardAndRecommendations(ctx, answer, cardConfig{
		Kind:     teamCard,
		Name:     "Sprint Goal Analysis",
		Type:     "Sprint Goal",
		Priority: "High",
		Source:   "Sprint Goal",
		TeamName: job.TeamName,
		RecOwner: job.TeamName,
		JobID:    jobID,
	})

	return true, p.resultReport("Sprint Goal", []string{
		"Team: " + job.TeamName,
		"Job ID: " + jobIDString(jobID),
		"Timestamp: " + p.timestamp(),
	}, formatted, answer)
}
