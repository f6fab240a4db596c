package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kiranshivaraju/sprintsight/pkg/models"
)

// Sentinel errors for backend client failures.
var (
	ErrBackendUnreachable = errors.New("backend unreachable")
	ErrBackendTimeout     = errors.New("backend request timeout")
	ErrRequestFailed      = errors.New("backend request failed")
	ErrNotFound           = errors.New("not found")
	ErrInvalidResponse    = errors.New("backend returned invalid response")
	ErrEmptyResponse      = errors.New("backend returned empty response")
)

// Client is the interface for talking to the backend API.
type Client interface {
	Health(ctx context.Context) error

	NextPendingJob(ctx context.Context) (*models.Job, error)
	ClaimJob(ctx context.Context, jobID int64, claimedBy string, claimedAt time.Time) error
	RecordInput(ctx context.Context, jobID int64, input string) error
	ReportResult(ctx context.Context, jobID int64, status, result, errMsg string) error

	Transcripts(ctx context.Context, q TranscriptQuery) ([]models.Transcript, error)
	PIBurndown(ctx context.Context, pi, teamName string) (any, error)
	PIStatusToday(ctx context.Context, pi, teamName string) (any, error)
	TeamSprintBurndown(ctx context.Context, teamName string) (any, error)
	ActiveSprintSummaries(ctx context.Context, teamName string) ([]models.SprintSummary, error)
	SprintIssuesWithEpic(ctx context.Context, sprintID int64, teamName string) ([]models.SprintIssue, error)
	SprintPredictability(ctx context.Context, teamName string, months int) ([]map[string]any, error)

	Prompt(ctx context.Context, emailAddress, promptName string) (string, error)
	ProcessLLM(ctx context.Context, req LLMRequest) (string, error)

	ListPICards(ctx context.Context) ([]models.CardSummary, error)
	CreatePICard(ctx context.Context, card models.Card) (int64, error)
	PatchPICard(ctx context.Context, cardID int64, card models.Card) error
	ListTeamCards(ctx context.Context) ([]models.CardSummary, error)
	CreateTeamCard(ctx context.Context, card models.Card) (int64, error)
	PatchTeamCard(ctx context.Context, cardID int64, card models.Card) error
	CreateRecommendation(ctx context.Context, rec models.Recommendation) error
}

// HTTPClient implements Client against the backend's JSON API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a new backend HTTP client.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Health(ctx context.Context) error {
	status, _, err := c.do(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: backend not healthy (status %d)", ErrRequestFailed, status)
	}
	return nil
}

func (c *HTTPClient) NextPendingJob(ctx context.Context) (*models.Job, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.apiURL("/agent-jobs/next-pending", nil), nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: next-pending status %d", ErrRequestFailed, status)
	}

	var resp nextPendingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding next-pending: %v", ErrInvalidResponse, err)
	}
	if resp.Data.Job == nil {
		return nil, fmt.Errorf("%w: next-pending has no job object", ErrInvalidResponse)
	}
	return resp.Data.Job, nil
}

func (c *HTTPClient) ClaimJob(ctx context.Context, jobID int64, claimedBy string, claimedAt time.Time) error {
	body := map[string]any{
		"status":     models.JobStatusClaimed,
		"claimed_by": claimedBy,
		"claimed_at": claimedAt.UTC().Format(time.RFC3339),
	}
	return c.patchJob(ctx, jobID, body)
}

func (c *HTTPClient) RecordInput(ctx context.Context, jobID int64, input string) error {
	return c.patchJob(ctx, jobID, map[string]any{"input_sent": input})
}

// ReportResult marks the job completed or errored. The unused field is
// sent as an explicit null so a retried job never keeps a stale value.
func (c *HTTPClient) ReportResult(ctx context.Context, jobID int64, status, result, errMsg string) error {
	body := map[string]any{"status": status}
	if status == models.JobStatusCompleted {
		body["result"] = result
		body["error"] = nil
	} else {
		body["result"] = nil
		body["error"] = errMsg
	}
	return c.patchJob(ctx, jobID, body)
}

func (c *HTTPClient) patchJob(ctx context.Context, jobID int64, body map[string]any) error {
	u := c.apiURL("/agent-jobs/"+strconv.FormatInt(jobID, 10), nil)
	status, _, err := c.do(ctx, http.MethodPatch, u, body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: patch agent-job %d status %d", ErrRequestFailed, jobID, status)
	}
	return nil
}

func (c *HTTPClient) Transcripts(ctx context.Context, q TranscriptQuery) ([]models.Transcript, error) {
	params := url.Values{}
	if q.Type != "" {
		params.Set("type", q.Type)
	}
	if q.TeamName != "" {
		params.Set("team_name", q.TeamName)
	}
	if q.PIName != "" {
		params.Set("pi_name", q.PIName)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	status, body, err := c.do(ctx, http.MethodGet, c.apiURL("/transcripts/getLatest", params), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: transcripts status %d", ErrRequestFailed, status)
	}

	var resp transcriptsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding transcripts: %v", ErrInvalidResponse, err)
	}
	return resp.Data.Transcripts, nil
}

func (c *HTTPClient) PIBurndown(ctx context.Context, pi, teamName string) (any, error) {
	params := url.Values{"pi": {pi}}
	if teamName != "" {
		params.Set("team_name", teamName)
	}
	return c.getData(ctx, c.apiURL("/pis/burndown", params))
}

func (c *HTTPClient) PIStatusToday(ctx context.Context, pi, teamName string) (any, error) {
	params := url.Values{"pi": {pi}}
	if teamName != "" {
		params.Set("team_name", teamName)
	}
	return c.getData(ctx, c.apiURL("/pis/get-pi-status-for-today", params))
}

func (c *HTTPClient) TeamSprintBurndown(ctx context.Context, teamName string) (any, error) {
	params := url.Values{"team_name": {teamName}, "issue_type": {"all"}}
	return c.getData(ctx, c.apiURL("/team-metrics/sprint-burndown", params))
}

func (c *HTTPClient) ActiveSprintSummaries(ctx context.Context, teamName string) ([]models.SprintSummary, error) {
	params := url.Values{"team_name": {teamName}}
	status, body, err := c.do(ctx, http.MethodGet, c.apiURL("/sprints/active-sprint-summary-by-team", params), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: active-sprint-summary status %d", ErrRequestFailed, status)
	}

	var resp sprintSummariesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding sprint summaries: %v", ErrInvalidResponse, err)
	}
	return resp.Data.Summaries, nil
}

func (c *HTTPClient) SprintIssuesWithEpic(ctx context.Context, sprintID int64, teamName string) ([]models.SprintIssue, error) {
	params := url.Values{
		"sprint_id": {strconv.FormatInt(sprintID, 10)},
		"team_name": {teamName},
	}
	status, body, err := c.do(ctx, http.MethodGet, c.apiURL("/sprints/sprint-issues-with-epic-for-llm", params), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: sprint-issues status %d", ErrRequestFailed, status)
	}

	var resp sprintIssuesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding sprint issues: %v", ErrInvalidResponse, err)
	}
	if !resp.Success {
		return nil, nil
	}
	return resp.Data.SprintIssues, nil
}

func (c *HTTPClient) SprintPredictability(ctx context.Context, teamName string, months int) ([]map[string]any, error) {
	params := url.Values{
		"team_name": {teamName},
		"months":    {strconv.Itoa(months)},
	}
	status, body, err := c.do(ctx, http.MethodGet, c.apiURL("/sprints/sprint-predictability", params), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: sprint-predictability status %d", ErrRequestFailed, status)
	}

	var resp predictabilityResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding sprint predictability: %v", ErrInvalidResponse, err)
	}
	return resp.Data.SprintPredictability, nil
}

// Prompt fetches a named prompt. The prompt name is inserted into the
// path verbatim; some prompts are stored with a literal %20 in their
// name, so callers drive the encoded-then-plain fallback themselves.
func (c *HTTPClient) Prompt(ctx context.Context, emailAddress, promptName string) (string, error) {
	u := c.apiURL("/prompts/"+url.PathEscape(emailAddress)+"/"+promptName, nil)
	status, body, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		return "", fmt.Errorf("%w: prompt %q for %s", ErrNotFound, promptName, emailAddress)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("%w: prompt status %d", ErrRequestFailed, status)
	}

	var resp promptResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decoding prompt: %v", ErrInvalidResponse, err)
	}
	text := resp.description()
	if len(bytes.TrimSpace([]byte(text))) == 0 {
		return "", fmt.Errorf("%w: prompt %q for %s has no description", ErrNotFound, promptName, emailAddress)
	}
	return text, nil
}

// ProcessLLM sends the composed prompt to the LLM processing endpoint.
// Anything other than a 200 with {success, data.response} is a hard
// failure; no fallback text is substituted.
func (c *HTTPClient) ProcessLLM(ctx context.Context, req LLMRequest) (string, error) {
	status, body, err := c.do(ctx, http.MethodPost, c.apiURL("/agent-llm-process", nil), req)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("%w: agent-llm-process status %d", ErrRequestFailed, status)
	}

	var resp llmProcessResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decoding llm response: %v", ErrInvalidResponse, err)
	}
	if !resp.Success {
		return "", fmt.Errorf("%w: agent-llm-process reported failure", ErrInvalidResponse)
	}
	if len(bytes.TrimSpace([]byte(resp.Data.Response))) == 0 {
		return "", fmt.Errorf("%w: agent-llm-process response text", ErrEmptyResponse)
	}
	return resp.Data.Response, nil
}

func (c *HTTPClient) ListPICards(ctx context.Context) ([]models.CardSummary, error) {
	return c.listCards(ctx, "/pi-ai-cards")
}

func (c *HTTPClient) CreatePICard(ctx context.Context, card models.Card) (int64, error) {
	return c.createCard(ctx, "/pi-ai-cards", card)
}

func (c *HTTPClient) PatchPICard(ctx context.Context, cardID int64, card models.Card) error {
	return c.patchCard(ctx, "/pi-ai-cards", cardID, card)
}

func (c *HTTPClient) ListTeamCards(ctx context.Context) ([]models.CardSummary, error) {
	return c.listCards(ctx, "/team-ai-cards")
}

func (c *HTTPClient) CreateTeamCard(ctx context.Context, card models.Card) (int64, error) {
	return c.createCard(ctx, "/team-ai-cards", card)
}

func (c *HTTPClient) PatchTeamCard(ctx context.Context, cardID int64, card models.Card) error {
	return c.patchCard(ctx, "/team-ai-cards", cardID, card)
}

func (c *HTTPClient) CreateRecommendation(ctx context.Context, rec models.Recommendation) error {
	status, _, err := c.do(ctx, http.MethodPost, c.apiURL("/recommendations", nil), rec)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("%w: create recommendation status %d", ErrRequestFailed, status)
	}
	return nil
}

func (c *HTTPClient) listCards(ctx context.Context, path string) ([]models.CardSummary, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.apiURL(path, nil), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: list %s status %d", ErrRequestFailed, path, status)
	}

	var resp cardListResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Data != nil {
		return resp.Data, nil
	}
	// Some backend versions return the bare list.
	var cards []models.CardSummary
	if err := json.Unmarshal(body, &cards); err != nil {
		return nil, fmt.Errorf("%w: decoding %s list: %v", ErrInvalidResponse, path, err)
	}
	return cards, nil
}

func (c *HTTPClient) createCard(ctx context.Context, path string, card models.Card) (int64, error) {
	status, body, err := c.do(ctx, http.MethodPost, c.apiURL(path, nil), card)
	if err != nil {
		return 0, err
	}
	if status >= 300 {
		return 0, fmt.Errorf("%w: create %s status %d", ErrRequestFailed, path, status)
	}

	var resp cardCreateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("%w: decoding %s create: %v", ErrInvalidResponse, path, err)
	}
	return resp.Data.Card.ID, nil
}

func (c *HTTPClient) patchCard(ctx context.Context, path string, cardID int64, card models.Card) error {
	u := c.apiURL(path+"/"+strconv.FormatInt(cardID, 10), nil)
	status, _, err := c.do(ctx, http.MethodPatch, u, card)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("%w: patch %s %d status %d", ErrRequestFailed, path, cardID, status)
	}
	return nil
}

func (c *HTTPClient) getData(ctx context.Context, u string) (any, error) {
	status, body, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, status)
	}

	var resp dataEnvelope
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding envelope: %v", ErrInvalidResponse, err)
	}
	return resp.Data, nil
}

func (c *HTTPClient) apiURL(path string, params url.Values) string {
	u := c.baseURL + "/api/v1" + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// do performs one request and returns the status code and body.
// Transport-level failures are classified into sentinel errors.
func (c *HTTPClient) do(ctx context.Context, method, u string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, classifyError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, classifyError(err)
	}
	return resp.StatusCode, raw, nil
}

// classifyError maps transport-level errors to sentinel errors.
// Context cancellation passes through unwrapped so a shutdown is never
// reported as a backend failure.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrBackendTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %v", ErrBackendTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
	}

	return fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)
