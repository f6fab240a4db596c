package jobs

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kiranshivaraju/sprintsight/internal/backend"
	"github.com/kiranshivaraju/sprintsight/internal/format"
	"github.com/kiranshivaraju/sprintsight/pkg/models"
)

// Section fetch helpers. Each returns a fully formatted prompt block
// with its own header; individual fetch failures degrade to a
// placeholder so one missing data source never fails the whole job.

var sprintIssueColumns = []string{
	"issue_key",
	"issue_summary",
	"issue_description",
	"issue_type",
	"status_category",
	"flagged",
	"dependency",
	"epic_summary",
}

func (p *Processor) transcriptsBlock(ctx context.Context, q backend.TranscriptQuery) string {
	ts, err := p.client.Transcripts(ctx, q)
	if err != nil {
		return format.Transcripts(nil)
	}
	return format.Transcripts(ts)
}

func (p *Processor) dailyTranscriptSection(ctx context.Context, teamName string) string {
	block := p.transcriptsBlock(ctx, backend.TranscriptQuery{
		Type:     "Daily",
		TeamName: teamName,
		Limit:    1,
	})
	if strings.Contains(block, "No transcripts found") {
		return "=== TRANSCRIPT DATA ===\nNo transcript found\n"
	}
	return "=== TRANSCRIPT DATA ===\n" + block + "\n"
}

func (p *Processor) teamBurndownSection(ctx context.Context, teamName string) string {
	const header = "=== BURN DOWN DATA FOR THE ACTIVE SPRINT ==="
	data, err := p.client.TeamSprintBurndown(ctx, teamName)
	if err != nil || emptyData(data) {
		return header + "\nNo burndown data available\n"
	}
	return header + "\n" + format.Burndown(data) + "\n"
}

func (p *Processor) predictabilitySection(ctx context.Context, teamName string, months int) string {
	const header = "=== Previous Sprints metrics and predictability ==="
	records, err := p.client.SprintPredictability(ctx, teamName, months)
	if err != nil {
		return header + "\nNo sprint predictability data found (HTTP error)\n"
	}
	if len(records) == 0 {
		return header + "\nNo sprint predictability data found\n"
	}

	parts := []string{header, ""}
	if table := format.Table(records, 25); table != "" {
		parts = append(parts, table)
	} else {
		parts = append(parts, "No sprint predictability data available")
	}
	parts = append(parts, "")
	return strings.Join(parts, "\n")
}

// activeSprintSection formats the team's active sprint with the most
// issues_at_start and returns that sprint for downstream use. The
// returned summary is nil when the fetch fails or no summaries exist.
func (p *Processor) activeSprintSection(ctx context.Context, teamName string) (string, models.SprintSummary) {
	const header = "=== ACTIVE SPRINT STATUS ==="
	summaries, err := p.client.ActiveSprintSummaries(ctx, teamName)
	if err != nil {
		return header + "\nNo active sprint summaries found (HTTP error)\n", nil
	}
	if len(summaries) == 0 {
		return header + "\nNo active sprint summaries found\n", nil
	}

	// Strictly-greater comparison keeps the first sprint on ties.
	var selected models.SprintSummary
	maxIssues := -1.0
	for _, s := range summaries {
		if issues := s.IssuesAtStart(); issues > maxIssues {
			maxIssues = issues
			selected = s
		}
	}

	parts := []string{header, strings.Repeat("-", 30)}
	if goal := selected.SprintGoal(); goal != "" {
		parts = append(parts, "**Sprint Goal:**", goal, "")
	}

	keys := make([]string, 0, len(selected))
	for k := range selected {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(strings.ToLower(k), "point") || k == "sprint_goal" {
			continue
		}
		parts = append(parts, k+": "+sprintFieldValue(selected[k]))
	}

	parts = append(parts, "", "Current Date: "+p.timestamp(), "")
	return strings.Join(parts, "\n"), selected
}

func (p *Processor) issuesSection(ctx context.Context, sprintID int64, teamName string) string {
	parts := []string{"=== JIRA ISSUES ===", strings.Repeat("-", 20)}

	issues, err := p.client.SprintIssuesWithEpic(ctx, sprintID, teamName)
	if err != nil || len(issues) == 0 {
		parts = append(parts, "No issues found", "")
		return strings.Join(parts, "\n")
	}

	records := make([]map[string]any, 0, len(issues))
	for _, issue := range issues {
		records = append(records, map[string]any{
			"issue_key":         issue.IssueKey,
			"issue_summary":     issue.IssueSummary,
			"issue_description": issue.IssueDescription,
			"issue_type":        issue.IssueType,
			"status_category":   issue.StatusCategory,
			"flagged":           rawArrayString(issue.Flagged),
			"dependency":        rawArrayString(issue.Dependency),
			"epic_summary":      issue.EpicSummary,
		})
	}

	if table := format.TableColumns(records, sprintIssueColumns, 100); table != "" {
		parts = append(parts, table)
	} else {
		parts = append(parts, "No issues found")
	}
	parts = append(parts, "")
	return strings.Join(parts, "\n")
}

func (p *Processor) piStatusSection(ctx context.Context, pi, teamName string) string {
	const header = "=== PI status for current date ==="
	data, err := p.client.PIStatusToday(ctx, pi, teamName)
	if err != nil || emptyData(data) {
		return header + "\nNo PI status data available\n"
	}
	return header + "\n" + format.PIStatus(data) + "\n"
}

func (p *Processor) piBurndownSection(ctx context.Context, pi, teamName string) string {
	const header = "=== PI Burndown Snapshot ==="
	data, err := p.client.PIBurndown(ctx, pi, teamName)
	if err != nil || emptyData(data) {
		return header + "\nNo burndown data available\n"
	}
	return header + "\n" + format.Burndown(data) + "\n"
}

func emptyData(v any) bool {
	switch data := v.(type) {
	case nil:
		return true
	case string:
		return data == ""
	case []any:
		return len(data) == 0
	case map[string]any:
		return len(data) == 0
	}
	return false
}

func rawArrayString(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return "[]"
	}
	return string(trimmed)
}

func sprintFieldValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}
