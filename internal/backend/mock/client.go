// Package mock provides a mock backend client for testing.
package mock

import (
	"context"
	"time"

	"github.com/kiranshivaraju/sprintsight/internal/backend"
	"github.com/kiranshivaraju/sprintsight/pkg/models"
)

// Client is a mock implementation of backend.Client for testing.
// Each method delegates to an optional function field; unset fields
// return zero values.
type Client struct {
	HealthFunc                func(ctx context.Context) error
	NextPendingJobFunc        func(ctx context.Context) (*models.Job, error)
	ClaimJobFunc              func(ctx context.Context, jobID int64, claimedBy string, claimedAt time.Time) error
	RecordInputFunc           func(ctx context.Context, jobID int64, input string) error
	ReportResultFunc          func(ctx context.Context, jobID int64, status, result, errMsg string) error
	TranscriptsFunc           func(ctx context.Context, q backend.TranscriptQuery) ([]models.Transcript, error)
	PIBurndownFunc            func(ctx context.Context, pi, teamName string) (any, error)
	PIStatusTodayFunc         func(ctx context.Context, pi, teamName string) (any, error)
	TeamSprintBurndownFunc    func(ctx context.Context, teamName string) (any, error)
	ActiveSprintSummariesFunc func(ctx context.Context, teamName string) ([]models.SprintSummary, error)
	SprintIssuesWithEpicFunc  func(ctx context.Context, sprintID int64, teamName string) ([]models.SprintIssue, error)
	SprintPredictabilityFunc  func(ctx context.Context, teamName string, months int) ([]map[string]any, error)
	PromptFunc                func(ctx context.Context, emailAddress, promptName string) (string, error)
	ProcessLLMFunc            func(ctx context.Context, req backend.LLMRequest) (string, error)
	ListPICardsFunc           func(ctx context.Context) ([]models.CardSummary, error)
	CreatePICardFunc          func(ctx context.Context, card models.Card) (int64, error)
	PatchPICardFunc           func(ctx context.Context, cardID int64, card models.Card) error
	ListTeamCardsFunc         func(ctx context.Context) ([]models.CardSummary, error)
	CreateTeamCardFunc        func(ctx context.Context, card models.Card) (int64, error)
	PatchTeamCardFunc         func(ctx context.Context, cardID int64, card models.Card) error
	CreateRecommendationFunc  func(ctx context.Context, rec models.Recommendation) error
}

func (m *Client) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

func (m *Client) NextPendingJob(ctx context.Context) (*models.Job, error) {
	if m.NextPendingJobFunc != nil {
		return m.NextPendingJobFunc(ctx)
	}
	return nil, nil
}

func (m *Client) ClaimJob(ctx context.Context, jobID int64, claimedBy string, claimedAt time.Time) error {
	if m.ClaimJobFunc != nil {
		return m.ClaimJobFunc(ctx, jobID, claimedBy, claimedAt)
	}
	return nil
}

func (m *Client) RecordInput(ctx context.Context, jobID int64, input string) error {
	if m.RecordInputFunc != nil {
		return m.RecordInputFunc(ctx, jobID, input)
	}
	return nil
}

func (m *Client) ReportResult(ctx context.Context, jobID int64, status, result, errMsg string) error {
	if m.ReportResultFunc != nil {
		return m.ReportResultFunc(ctx, jobID, status, result, errMsg)
	}
	return nil
}

func (m *Client) Transcripts(ctx context.Context, q backend.TranscriptQuery) ([]models.Transcript, error) {
	if m.TranscriptsFunc != nil {
		return m.TranscriptsFunc(ctx, q)
	}
	return nil, nil
}

func (m *Client) PIBurndown(ctx context.Context, pi, teamName string) (any, error) {
	if m.PIBurndownFunc != nil {
		return m.PIBurndownFunc(ctx, pi, teamName)
	}
	return nil, nil
}

func (m *Client) PIStatusToday(ctx context.Context, pi, teamName string) (any, error) {
	if m.PIStatusTodayFunc != nil {
		return m.PIStatusTodayFunc(ctx, pi, teamName)
	}
	return nil, nil
}

func (m *Client) TeamSprintBurndown(ctx context.Context, teamName string) (any, error) {
	if m.TeamSprintBurndownFunc != nil {
		return m.TeamSprintBurndownFunc(ctx, teamName)
	}
	return nil, nil
}

func (m *Client) ActiveSprintSummaries(ctx context.Context, teamName string) ([]models.SprintSummary, error) {
	if m.ActiveSprintSummariesFunc != nil {
		return m.ActiveSprintSummariesFunc(ctx, teamName)
	}
	return nil, nil
}

func (m *Client) SprintIssuesWithEpic(ctx context.Context, sprintID int64, teamName string) ([]models.SprintIssue, error) {
	if m.SprintIssuesWithEpicFunc != nil {
		return m.SprintIssuesWithEpicFunc(ctx, sprintID, teamName)
	}
	return nil, nil
}

func (m *Client) SprintPredictability(ctx context.Context, teamName string, months int) ([]map[string]any, error) {
	if m.SprintPredictabilityFunc != nil {
		return m.SprintPredictabilityFunc(ctx, teamName, months)
	}
	return nil, nil
}

func (m *Client) Prompt(ctx context.Context, emailAddress, promptName string) (string, error) {
	if m.PromptFunc != nil {
		return m.PromptFunc(ctx, emailAddress, promptName)
	}
	return "", nil
}

func (m *Client) ProcessLLM(ctx context.Context, req backend.LLMRequest) (string, error) {
	if m.ProcessLLMFunc != nil {
		return m.ProcessLLMFunc(ctx, req)
	}
	return "", nil
}

func (m *Client) ListPICards(ctx context.Context) ([]models.CardSummary, error) {
	if m.ListPICardsFunc != nil {
		return m.ListPICardsFunc(ctx)
	}
	return nil, nil
}

func (m *Client) CreatePICard(ctx context.Context, card models.Card) (int64, error) {
	if m.CreatePICardFunc != nil {
		return m.CreatePICardFunc(ctx, card)
	}
	return 0, nil
}

func (m *Client) PatchPICard(ctx context.Context, cardID int64, card models.Card) error {
	if m.PatchPICardFunc != nil {
		return m.PatchPICardFunc(ctx, cardID, card)
	}
	return nil
}

func (m *Client) ListTeamCards(ctx context.Context) ([]models.CardSummary, error) {
	if m.ListTeamCardsFunc != nil {
		return m.ListTeamCardsFunc(ctx)
	}
	return nil, nil
}

func (m *Client) CreateTeamCard(ctx context.Context, card models.Card) (int64, error) {
	if m.CreateTeamCardFunc != nil {
		return m.CreateTeamCardFunc(ctx, card)
	}
	return 0, nil
}

func (m *Client) PatchTeamCard(ctx context.Context, cardID int64, card models.Card) error {
	if m.PatchTeamCardFunc != nil {
		return m.PatchTeamCardFunc(ctx, cardID, card)
	}
	return nil
}

func (m *Client) CreateRecommendation(ctx context.Context, rec models.Recommendation) error {
	if m.CreateRecommendationFunc != nil {
		return m.CreateRecommendationFunc(ctx, rec)
	}
	return nil
}

// Compile-time check that Client implements backend.Client.
var _ backend.Client = (*Client)(nil)
