// Package respond centralizes JSON encoding and the error taxonomy
// mapping: every failure leaves the API as a structured body with a kind
// discriminator, never a bare 500.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/xam-health/equity-atlas/pkg/models/api"
	"github.com/xam-health/equity-atlas/pkg/models/domain"
)

func JSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// Error maps a domain error onto its HTTP shape. Disclosure guard trips
// fail closed with a deliberately unspecific message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	var inputErr *domain.InputError
	if errors.As(err, &inputErr) {
		JSON(w, r, http.StatusBadRequest, api.Error{Kind: "input_error", Error: inputErr.Error()})
		return
	}

	var insufficientErr *domain.InsufficientDataError
	if errors.As(err, &insufficientErr) {
		JSON(w, r, http.StatusOK, api.Error{Kind: "insufficient_data", Error: insufficientErr.Error()})
		return
	}

	var guardErr *domain.DisclosureGuardError
	if errors.As(err, &guardErr) {
		logger.Error().Err(err).Msg("disclosure guard violation")
		JSON(w, r, http.StatusInternalServerError, api.Error{
			Kind:  "disclosure_guard",
			Error: "the requested answer was withheld to protect privacy",
		})
		return
	}

	logger.Error().Err(err).Msg("request failed")
	JSON(w, r, http.StatusInternalServerError, api.Error{Kind: "internal", Error: err.Error()})
}
