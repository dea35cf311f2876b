package qa

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/xam-health/equity-atlas/pkg/adapters"
	"github.com/xam-health/equity-atlas/pkg/handlers/respond"
	"github.com/xam-health/equity-atlas/pkg/models/api"
	"github.com/xam-health/equity-atlas/pkg/models/domain"
	qasvc "github.com/xam-health/equity-atlas/pkg/services/qa"
)

type Handler struct {
	answerer qasvc.Answerer
	validate *validator.Validate
}

func NewHandler(answerer qasvc.Answerer) *Handler {
	return &Handler{
		answerer: answerer,
		validate: validator.New(),
	}
}

// Ask handles POST /qa.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.QARequest
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

	answer, err := h.answerer.Answer(ctx, scope, req.Query)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, api.QAResponse{Answer: answer})
}
