package api

// MineRequest is the shared request body for /api/mine_patterns and
// /api/ai_insights.
type MineRequest struct {
	Disease       string            `json:"disease" validate:"required"`
	Year          int               `json:"year" validate:"required"`
	Demographics  map[string]string `json:"demographics,omitempty"`
	MinSupport    float64           `json:"min_support,omitempty" validate:"omitempty,gt=0,lte=1"`
	MinConfidence float64           `json:"min_confidence,omitempty" validate:"omitempty,gt=0,lte=1"`
}

// Rule is one mined association. Antecedent and consequent labels are
// sorted; support/confidence/lift are rounded at this boundary only.
type Rule struct {
	Antecedent []string `json:"antecedent"`
	Consequent []string `json:"consequent"`
	Support    float64  `json:"support"`
	Confidence float64  `json:"confidence"`
	Lift       float64  `json:"lift"`
}

type MineResponse struct {
	Rules   []Rule `json:"rules"`
	Summary string `json:"summary,omitempty"`
}

// InsightsResponse augments the mined rules with a narrated summary. Source
// reports whether the narration came from the generative collaborator or
// the local ML-only fallback.
type InsightsResponse struct {
	Source     string `json:"source"`
	Insights   string `json:"insights"`
	MLPatterns []Rule `json:"ml_patterns"`
}

type QARequest struct {
	Disease      string            `json:"disease" validate:"required"`
	Year         int               `json:"year" validate:"required"`
	Demographics map[string]string `json:"demographics,omitempty"`
	Query        string            `json:"query" validate:"required"`
}

type QAResponse struct {
	Answer string `json:"answer"`
}

type FilterRequest struct {
	Disease      string            `json:"disease" validate:"required"`
	Year         int               `json:"year" validate:"required"`
	Demographics map[string]string `json:"demographics,omitempty"`
}

// StateRecord is one suppressed per-state cell for the map/bar views. Cases
// and Rate are null when the cell is suppressed.
type StateRecord struct {
	State      string   `json:"state"`
	Year       int      `json:"year"`
	Cases      *int64   `json:"cases"`
	Population int64    `json:"population"`
	Rate       *float64 `json:"rate"`
	Suppressed bool     `json:"suppressed"`
}

type HealthCheckResponse struct {
	Status string `json:"status"`
}

// Error is the structured failure body shared by all endpoints.
type Error struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}
