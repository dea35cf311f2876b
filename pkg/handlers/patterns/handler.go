package patterns

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/xam-health/equity-atlas/pkg/adapters"
	"github.com/xam-health/equity-atlas/pkg/handlers/respond"
	"github.com/xam-health/equity-atlas/pkg/models/api"
	"github.com/xam-health/equity-atlas/pkg/models/domain"
	"github.com/xam-health/equity-atlas/pkg/services/dataset"
	"github.com/xam-health/equity-atlas/pkg/services/insight"
	"github.com/xam-health/equity-atlas/pkg/services/mining"
)

type Handler struct {
	miner    mining.Miner
	narrator insight.Narrator
	datasets dataset.Explorer
	validate *validator.Validate
}

func NewHandler(miner mining.Miner, narrator insight.Narrator, datasets dataset.Explorer) *Handler {
	return &Handler{
		miner:    miner,
		narrator: narrator,
		datasets: datasets,
		validate: validator.New(),
	}
}

// MinePatterns handles POST /api/mine_patterns.
func (h *Handler) MinePatterns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, scope, ok := h.decodeMineRequest(w, r)
	if !ok {
		return
	}

	result, err := h.miner.Mine(ctx, scope, domain.MiningParams{
		MinSupport:    req.MinSupport,
		MinConfidence: req.MinConfidence,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, adapters.MapMiningResultToMineResponse(result))
}

// AIInsights handles POST /api/ai_insights: the same mining pass, plus a
// narrated summary. A narrator outage downgrades the source tag instead of
// failing the request.
func (h *Handler) AIInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	req, scope, ok := h.decodeMineRequest(w, r)
	if !ok {
		return
	}

	result, err := h.miner.Mine(ctx, scope, domain.MiningParams{
		MinSupport:    req.MinSupport,
		MinConfidence: req.MinConfidence,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	text, source, err := h.narrator.Narrate(ctx, result)
	if err != nil {
		var upstream *domain.UpstreamError
		if !errors.As(err, &upstream) {
			respond.Error(w, r, err)
			return
		}
		logger.Warn().Err(err).Msg("narrator degraded to ml_only")
	}
	result.Insights = text
	result.Source = source

	respond.JSON(w, r, http.StatusOK, adapters.MapMiningResultToInsightsResponse(result))
}

// Filter handles POST /filter: suppressed per-state aggregates for the
// map and bar views.
func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, &domain.InputError{Message: "malformed JSON body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond.Error(w, r, &domain.InputError{Message: err.Error()})
		return
	}

	scope, err := adapters.MapRequestScope(req.Disease, req.Year, req.Demographics)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	ds, err := h.datasets.GetScopeDataset(ctx, scope)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	records := make([]api.StateRecord, 0, len(ds.States))
	for _, agg := range ds.States {
		records = append(records, adapters.MapStateAggregateDomainToApi(agg))
	}
	respond.JSON(w, r, http.StatusOK, records)
}

func (h *Handler) decodeMineRequest(w http.ResponseWriter, r *http.Request) (api.MineRequest, domain.Scope, bool) {
	var req api.MineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, &domain.InputError{Message: "malformed JSON body"})
		return req, domain.Scope{}, false
	}
	if err := h.validate.Struct(req); err != nil {
		respond.Error(w, r, &domain.InputError{Message: err.Error()})
		return req, domain.Scope{}, false
	}

	scope, err := adapters.MapRequestScope(req.Disease, req.Year, req.Demographics)
	if err != nil {
		respond.Error(w, r, err)
		return req, domain.Scope{}, false
	}
	return req, scope, true
}
