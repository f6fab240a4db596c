package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/kiranshivaraju/sprintsight/internal/extract"
	"github.com/kiranshivaraju/sprintsight/internal/format"
	"github.com/kiranshivaraju/sprintsight/pkg/models"
)

type cardKind int

const (
	teamCard cardKind = iota
	piCard
)

// cardConfig describes the card one job type persists. RecOwner is the
// team_name value written on recommendations; PI jobs put the PI
// identifier there.
type cardConfig struct {
	Kind     cardKind
	Name     string
	Type     string
	Priority string
	Source   string
	TeamName string
	PI       string
	RecOwner string
	JobID    *int64
}

type cardResult struct {
	Description     string
	FullInformation string
	RawJSON         string
	CardID          *int64
	Recommendations int
}

// saveCardAndRecommendations turns a raw LLM answer into a persisted
// card plus up to the recommendation cap. Persistence is best-effort:
// individual create/patch failures are logged and never abort the
// remaining steps.
func (p *Processor) saveCardAndRecommendations(ctx context.Context, answer string, cfg cardConfig) cardResult {
	split := extract.SplitTextAndJSON(answer)

	description, ok := extract.ReviewSection(answer)
	if !ok || description == "" {
		description = format.Truncate(answer, 2000)
	}
	description = format.Truncate(description, 2000)
	fullInfo := format.Truncate(split.Prose, 2000)

	today := p.today()
	card := models.Card{
		TeamName:        cfg.TeamName,
		PI:              cfg.PI,
		CardName:        cfg.Name,
		CardType:        cfg.Type,
		Description:     description,
		Date:            today,
		Priority:        cfg.Priority,
		Source:          cfg.Source,
		SourceJobID:     cfg.JobID,
		FullInformation: fullInfo,
		InformationJSON: split.RawJSON,
	}

	cardID := p.upsertCard(ctx, cfg.Kind, card)

	slog.Info("card saved",
		"card_name", card.CardName,
		"card_type", card.CardType,
		"priority", card.Priority,
		"preview", format.Truncate(card.Description, 120),
	)
	if cardID == nil {
		slog.Warn("card id unknown, recommendations will not link to a summary")
	}

	saved := p.saveRecommendationsFromJSON(ctx, split.RecommendationsJSON, cfg, today, fullInfo, cardID)
	if saved == 0 {
		saved = p.saveRecommendationsFromText(ctx, answer, cfg, today, fullInfo)
	}

	return cardResult{
		Description:     description,
		FullInformation: fullInfo,
		RawJSON:         split.RawJSON,
		CardID:          cardID,
		Recommendations: saved,
	}
}

// upsertCard patches the first same-day card matching the owner and
// name, creating a new one when no match exists or the patch fails.
func (p *Processor) upsertCard(ctx context.Context, kind cardKind, card models.Card) *int64 {
	var (
		existing []models.CardSummary
		err      error
	)
	if kind == piCard {
		existing, err = p.client.ListPICards(ctx)
	} else {
		existing, err = p.client.ListTeamCards(ctx)
	}
	if err != nil {
		slog.Warn("listing cards failed", "error", err)
	}

	var cardID *int64
	patched := false
	for _, c := range existing {
		if len(c.Date) < 10 || c.Date[:10] != card.Date {
			continue
		}
		if c.TeamName != card.TeamName || c.CardName != card.CardName {
			continue
		}
		if kind == piCard && c.PI != card.PI {
			continue
		}
		id := c.ID
		cardID = &id
		if kind == piCard {
			err = p.client.PatchPICard(ctx, id, card)
		} else {
			err = p.client.PatchTeamCard(ctx, id, card)
		}
		if err != nil {
			slog.Warn("patching card failed", "card_id", id, "error", err)
		}
		patched = err == nil
		break
	}

	if !patched {
		var (
			id  int64
			err error
		)
		if kind == piCard {
			id, err = p.client.CreatePICard(ctx, card)
		} else {
			id, err = p.client.CreateTeamCard(ctx, card)
		}
		if err != nil {
			slog.Warn("creating card failed", "card_name", card.CardName, "error", err)
		} else if id != 0 {
			cardID = &id
		}
	}

	return cardID
}

// saveRecommendationsFromJSON creates recommendations from the
// structured Recommendations array. Objects missing header or text are
// skipped; each stored recommendation keeps its source element bytes.
func (p *Processor) saveRecommendationsFromJSON(ctx context.Context, recsJSON string, cfg cardConfig, today, fullInfo string, cardID *int64) int {
	if recsJSON == "" {
		return 0
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(recsJSON), &items); err != nil {
		slog.Warn("failed to parse recommendations JSON", "error", err)
		return 0
	}

	saved := 0
	for _, item := range items {
		var fields struct {
			Header   *string `json:"header"`
			Text     *string `json:"text"`
			Priority string  `json:"priority"`
		}
		if err := json.Unmarshal(item, &fields); err != nil || fields.Header == nil || fields.Text == nil {
			slog.Warn("skipping invalid recommendation object")
			continue
		}

		priority := fields.Priority
		if priority == "" {
			priority = "Important"
		}
		rec := models.Recommendation{
			TeamName:          cfg.RecOwner,
			ActionText:        *fields.Text,
			Rational:          *fields.Header,
			Date:              today,
			Priority:          priority,
			Status:            models.RecommendationStatusProposed,
			FullInformation:   fullInfo,
			InformationJSON:   string(item),
			SourceJobID:       cfg.JobID,
			SourceAISummaryID: cardID,
		}
		if err := p.client.CreateRecommendation(ctx, rec); err != nil {
			slog.Warn("creating recommendation failed", "error", err)
			continue
		}
		saved++
		if saved >= extract.MaxRecommendations {
			break
		}
	}
	return saved
}

// saveRecommendationsFromText is the fallback path for answers whose
// JSON payload yielded no recommendations.
func (p *Processor) saveRecommendationsFromText(ctx context.Context, answer string, cfg cardConfig, today, fullInfo string) int {
	saved := 0
	for _, text := range extract.RecommendationsFromText(answer, extract.MaxRecommendations) {
		rec := models.Recommendation{
			TeamName:        cfg.RecOwner,
			ActionText:      text,
			Date:            today,
			Priority:        "High",
			Status:          models.RecommendationStatusProposed,
			FullInformation: fullInfo,
			SourceJobID:     cfg.JobID,
		}
		if err := p.client.CreateRecommendation(ctx, rec); err != nil {
			slog.Warn("creating recommendation failed", "error", err)
			continue
		}
		saved++
		if saved >= extract.MaxRecommendations {
			break
		}
	}
	return saved
}
