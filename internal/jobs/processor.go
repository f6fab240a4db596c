// Package jobs implements the per-job-type analysis pipeline: context
// assembly, LLM invocation, and result persistence.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kiranshivaraju/sprintsight/internal/backend"
	"github.com/kiranshivaraju/sprintsight/pkg/models"
)

// Processor runs one claimed job end to end and returns whether it
// succeeded plus the result text to report.
type Processor struct {
	client backend.Client
	now    func() time.Time
}

// NewProcessor creates a Processor backed by the given client.
func NewProcessor(client backend.Client) *Processor {
	return &Processor{client: client, now: time.Now}
}

// Process dispatches a job to its type-specific pipeline.
func (p *Processor) Process(ctx context.Context, job *models.Job) (bool, string) {
	switch job.JobType {
	case models.JobTypeDailyProgress, models.JobTypeDailyAgent:
		return p.processDaily(ctx, job)
	case models.JobTypeSprintGoal:
		return p.processSprintGoal(ctx, job)
	case models.JobTypePISync:
		return p.processPISync(ctx, job)
	case models.JobTypeTeamPIInsight:
		return p.processTeamPIInsight(ctx, job)
	case models.JobTypeTeamRetroTopics:
		return p.processTeamRetroTopics(ctx, job)
	}
	return false, fmt.Sprintf("Unknown job type: %s", job.JobType)
}

func (p *Processor) today() string {
	return p.now().UTC().Format("2006-01-02")
}

func (p *Processor) timestamp() string {
	return p.now().UTC().Format("2006-01-02 15:04:05")
}

// recordInput saves the composed prompt onto the job so partial
// progress stays inspectable even if the LLM call fails afterwards.
func (p *Processor) recordInput(ctx context.Context, jobID *int64, input string) {
	if jobID == nil {
		return
	}
	if err := p.client.RecordInput(ctx, *jobID, input); err != nil {
		slog.Warn("failed to record job input", "job_id", *jobID, "error", err)
	}
}

func (p *Processor) resultReport(title string, meta []string, prompt, answer string) string {
	var b strings.Builder
	b.WriteString(title + " Analysis Completed\n\n")
	for _, m := range meta {
		b.WriteString(m + "\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Data Sent to LLM: %d characters\n", utf8.RuneCountInString(prompt))
	fmt.Fprintf(&b, "LLM Response Length: %d characters\n\n", utf8.RuneCountInString(answer))
	b.WriteString("=== AI ANALYSIS ===\n")
	b.WriteString(answer)
	b.WriteString("\n")
	return b.String()
}

func jobIDPtr(job *models.Job) *int64 {
	if id, ok := job.ResolveID(); ok {
		return &id
	}
	return nil
}

func jobIDString(jobID *int64) string {
	if jobID == nil {
		return "unknown"
	}
	return strconv.FormatInt(*jobID, 10)
}
