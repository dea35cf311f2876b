package observation

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/xam-health/equity-atlas/pkg/models/domain"
	"github.com/xam-health/equity-atlas/pkg/models/store"
	"github.com/xam-health/equity-atlas/pkg/store/duckdb"
)

// Store reads and ingests patient-level health observations in DuckDB.
// Aggregates returned from Get* methods are raw (unsuppressed) and must be
// masked by the privacy layer before leaving the service tier.
type Store interface {
	Add(ctx context.Context, records []store.HealthRecord) error
	GetStateCounts(ctx context.Context, scope domain.Scope) ([]store.StateCount, error)
	GetDemographicCounts(
		ctx context.Context,
		scope domain.Scope,
		category domain.DemographicCategory,
	) ([]store.DemographicCount, error)
	GetStats(ctx context.Context) (*store.DatasetStats, error)
}

type observationStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &observationStore{db: db}, nil
}

func (o *observationStore) Add(ctx context.Context, records []store.HealthRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx := duckdb.GetTransaction(ctx)
	query := `
		INSERT INTO health_observations (
			id, state, year, age_group, sex, race_ethnicity, income_group,
			heart_disease, diabetes, cancer
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var stmt *sql.Stmt
	var err error
	if tx == nil {
		stmt, err = o.db.PrepareContext(ctx, query)
	} else {
		stmt, err = tx.PrepareContext(ctx, query)
	}
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err = stmt.ExecContext(ctx,
			r.ID,
			r.State,
			r.Year,
			r.AgeGroup,
			r.Sex,
			r.RaceEthnicity,
			r.IncomeGroup,
			r.HeartDisease,
			r.Diabetes,
			r.Cancer,
		)
		if err != nil {
			return fmt.Errorf("insert observation: %w", err)
		}
	}

	return nil
}

func (o *observationStore) GetStateCounts(ctx context.Context, scope domain.Scope) ([]store.StateCount, error) {
	diseaseCol, err := diseaseColumn(scope.Disease)
	if err != nil {
		return nil, err
	}

	where, args, err := scopeFilter(scope)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT state, year, SUM(%s) AS cases, COUNT(*) AS population
		FROM health_observations
		%s
		GROUP BY state, year
		ORDER BY state
	`, diseaseCol, where)

	rows, err := o.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query state counts: %w", err)
	}
	defer rows.Close()

	counts := make([]store.StateCount, 0)
	for rows.Next() {
		var c store.StateCount
		if err := rows.Scan(&c.State, &c.Year, &c.Cases, &c.Population); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (o *observationStore) GetDemographicCounts(
	ctx context.Context,
	scope domain.Scope,
	category domain.DemographicCategory,
) ([]store.DemographicCount, error) {
	diseaseCol, err := diseaseColumn(scope.Disease)
	if err != nil {
		return nil, err
	}
	categoryCol, err := categoryColumn(category)
	if err != nil {
		return nil, err
	}

	where, args, err := scopeFilter(scope)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT state, %s AS sub_category, SUM(%s) AS cases, COUNT(*) AS population
		FROM health_observations
		%s
		GROUP BY state, %s
		ORDER BY state, %s
	`, categoryCol, diseaseCol, where, categoryCol, categoryCol)

	rows, err := o.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query demographic counts: %w", err)
	}
	defer rows.Close()

	counts := make([]store.DemographicCount, 0)
	for rows.Next() {
		var c store.DemographicCount
		if err := rows.Scan(&c.State, &c.SubCategory, &c.Cases, &c.Population); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (o *observationStore) GetStats(ctx context.Context) (*store.DatasetStats, error) {
	var total int64
	if err := o.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM health_observations`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count observations: %w", err)
	}

	rows, err := o.db.QueryContext(ctx, `SELECT DISTINCT year FROM health_observations ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	defer rows.Close()

	stats := &store.DatasetStats{RecordsCount: total}
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, err
		}
		stats.Years = append(stats.Years, year)
	}
	return stats, rows.Err()
}

// scopeFilter builds the WHERE clause for a scope. Column names come from
// the closed demographic enum, never from caller input.
func scopeFilter(scope domain.Scope) (string, []interface{}, error) {
	clauses := []string{"year = ?"}
	args := []interface{}{scope.Year}

	categories := make([]domain.DemographicCategory, 0, len(scope.Demographics))
	for c := range scope.Demographics {
		categories = append(categories, c)
	}
	// Deterministic clause order keeps queries reproducible (and testable).
	for _, c := range domain.DemographicCategories() {
		for _, sc := range categories {
			if sc != c {
				continue
			}
			col, err := categoryColumn(c)
			if err != nil {
				return "", nil, err
			}
			clauses = append(clauses, fmt.Sprintf("%s = ?", col))
			args = append(args, scope.Demographics[c])
		}
	}

	return "WHERE " + strings.Join(clauses, " AND "), args, nil
}

func diseaseColumn(d domain.Disease) (string, error) {
	switch d {
	case domain.DiseaseHeartDisease, domain.DiseaseDiabetes, domain.DiseaseCancer:
		return string(d), nil
	default:
		return "", &domain.InputError{Field: "disease", Message: fmt.Sprintf("unknown disease %q", d)}
	}
}

func categoryColumn(c domain.DemographicCategory) (string, error) {
	switch c {
	case domain.CategoryAge, domain.CategorySex, domain.CategoryRace, domain.CategoryIncome:
		return string(c), nil
	default:
		return "", &domain.InputError{Field: "demographics", Message: fmt.Sprintf("unknown demographic category %q", c)}
	}
}
