package jobs

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kiranshivaraju/sprintsight/internal/backend"
	"github.com/kiranshivaraju/sprintsight/internal/format"
	"github.com/kiranshivaraju/sprintsight/pkg/models"
)

// processPISync reviews a program increment: the latest PI Sync
// transcript, today's PI status, and the PI burndown. The resulting
// card is PI-scoped and its recommendations carry the PI identifier
// as their owner.
func (p *Processor) processPISync(ctx context.Context, job *models.Job) (bool, string) {
	pi := job.ResolvePI()
	if pi == "" {
		return false, "Missing PI in job payload"
	}
	jobID := jobIDPtr(job)

	var latest *models.Transcript
	if ts, err := p.client.Transcripts(ctx, backend.TranscriptQuery{
		Type:   "PI Sync",
		PIName: pi,
		Limit:  1,
	}); err == nil && len(ts) > 0 {
		latest = &ts[0]
	}

	status, _ := p.client.PIStatusToday(ctx, pi, "")
	burndown, _ := p.client.PIBurndown(ctx, pi, "")

	prompt, errMsg := p.fetchPrompt(ctx, "PIAgent", "PISync")
	if errMsg != "" {
		return false, errMsg
	}

	formatted := strings.Join([]string{
		"===PI SYNC DATA===",
		"-- Latest Transcript --",
		format.Transcript(latest, "Transcript:"),
		"",
		"-- PI status for current date --",
		format.PIStatus(status),
		"",
		"-- PI Burndown Snapshot --",
		format.Burndown(burndown),
		"",
		prompt,
	}, "\n")

	p.recordInput(ctx, jobID, formatted)

	answer, err := p.client.ProcessLLM(ctx, backend.LLMRequest{
		Prompt:  formatted,
		JobType: models.JobTypePISync,
		JobID:   jobID,
		Metadata: map[string]string{
			"pi_name":   pi,
			"team_name": job.TeamName,
		},
	})
	if err != nil {
		return false, "AI chat failed or returned empty response"
	}
	slog.Debug("pi sync analysis received", "pi", pi, "preview", format.Truncate(answer, 500))

	p.saveCardAndRecommendations(ctx, answer, cardConfig{
		Kind:     piCard,
		Name:     "PI Sync Review",
		Type:     "PI Sync",
		Priority: "Critical",
		Source:   "PI",
		TeamName: job.TeamName,
		PI:       pi,
		RecOwner: pi,
		JobID:    jobID,
	})

	team := job.TeamName
	if team == "" {
		team = "Unknown"
	}
	return true, p.resultReport("PI Sync", []string{
		"PI: " + pi,
		"Team: " + team,
		"Job ID: " + jobIDString(jobID),
		"Timestamp: " + p.timestamp(),
	}, formatted, answer)
}
