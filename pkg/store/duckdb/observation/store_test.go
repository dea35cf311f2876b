package observation

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xam-health/equity-atlas/pkg/models/domain"
	"github.com/xam-health/equity-atlas/pkg/models/store"
)

func setupMock(t *testing.T) (Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := NewStore(db)
	require.NoError(t, err)
	return s, mock
}

func TestNewStore_NilDB(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}

func TestAdd(t *testing.T) {
	s, mock := setupMock(t)
	ctx := context.Background()

	records := []store.HealthRecord{
		{
			ID: "r1", State: "CA", Year: 2023,
			AgeGroup: "65+", Sex: "Female", RaceEthnicity: "White", IncomeGroup: "Low",
			HeartDisease: 1, Diabetes: 0, Cancer: 0,
		},
		{
			ID: "r2", State: "TX", Year: 2023,
			AgeGroup: "18-34", Sex: "Male", RaceEthnicity: "Hispanic", IncomeGroup: "Middle",
			HeartDisease: 0, Diabetes: 1, Cancer: 0,
		},
	}

	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO health_observations"))
	for _, r := range records {
		prep.ExpectExec().
			WithArgs(r.ID, r.State, r.Year, r.AgeGroup, r.Sex, r.RaceEthnicity, r.IncomeGroup,
				r.HeartDisease, r.Diabetes, r.Cancer).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	require.NoError(t, s.Add(ctx, records))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdd_EmptyBatchIsNoop(t *testing.T) {
	s, mock := setupMock(t)
	require.NoError(t, s.Add(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStateCounts(t *testing.T) {
	s, mock := setupMock(t)
	ctx := context.Background()

	scope := domain.Scope{
		Disease: domain.DiseaseDiabetes,
		Year:    2023,
		Demographics: map[domain.DemographicCategory]string{
			domain.CategoryIncome: "Low",
		},
	}

	rows := sqlmock.NewRows([]string{"state", "year", "cases", "population"}).
		AddRow("CA", 2023, int64(120), int64(900)).
		AddRow("TX", 2023, int64(80), int64(600))

	mock.ExpectQuery(`SELECT state, year, SUM\(diabetes\) AS cases, COUNT\(\*\) AS population`).
		WithArgs(2023, "Low").
		WillReturnRows(rows)

	counts, err := s.GetStateCounts(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, []store.StateCount{
		{State: "CA", Year: 2023, Cases: 120, Population: 900},
		{State: "TX", Year: 2023, Cases: 80, Population: 600},
	}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStateCounts_UnknownDisease(t *testing.T) {
	s, _ := setupMock(t)

	_, err := s.GetStateCounts(context.Background(), domain.Scope{Disease: "ebola", Year: 2023})
	var inputErr *domain.InputError
	require.ErrorAs(t, err, &inputErr)
}

func TestGetDemographicCounts(t *testing.T) {
	s, mock := setupMock(t)
	ctx := context.Background()

	scope := domain.Scope{Disease: domain.DiseaseHeartDisease, Year: 2022}

	rows := sqlmock.NewRows([]string{"state", "sub_category", "cases", "population"}).
		AddRow("AL", "Low", int64(40), int64(100)).
		AddRow("AL", "Middle", int64(25), int64(180))

	mock.ExpectQuery(`SELECT state, income_group AS sub_category, SUM\(heart_disease\) AS cases`).
		WithArgs(2022).
		WillReturnRows(rows)

	counts, err := s.GetDemographicCounts(ctx, scope, domain.CategoryIncome)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "Low", counts[0].SubCategory)
	assert.Equal(t, int64(40), counts[0].Cases)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStats(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM health_observations")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(100000)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT year FROM health_observations ORDER BY year")).
		WillReturnRows(sqlmock.NewRows([]string{"year"}).AddRow(2022).AddRow(2023))

	stats, err := s.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(100000), stats.RecordsCount)
	assert.Equal(t, []int{2022, 2023}, stats.Years)
	assert.NoError(t, mock.ExpectationsWereMet())
}
