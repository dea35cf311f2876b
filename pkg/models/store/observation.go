package store

// HealthRecord is one patient-level row of the synthetic health dataset as
// persisted in DuckDB. Disease columns are 0/1 indicators.
type HealthRecord struct {
	ID           string
	State        string
	Year         int
	AgeGroup     string
	Sex          string
	RaceEthnicity string
	IncomeGroup  string
	HeartDisease int
	Diabetes     int
	Cancer       int
}

// StateCount is a raw per-state aggregate: disease-positive cases over the
// scoped population. Counts here are unsuppressed and must pass through the
// privacy layer before leaving the service tier.
type StateCount struct {
	State      string
	Year       int
	Cases      int64
	Population int64
}

// DemographicCount is a raw per (state, subCategory) aggregate for one
// demographic axis within a scope.
type DemographicCount struct {
	State       string
	SubCategory string
	Cases       int64
	Population  int64
}

// DatasetStats describes the stored dataset for health and CLI reporting.
type DatasetStats struct {
	RecordsCount int64
	Years        []int
}
