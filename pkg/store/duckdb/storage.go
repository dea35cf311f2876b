package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const HealthObservationsSchema = `
	CREATE TABLE IF NOT EXISTS health_observations (
		id VARCHAR NOT NULL PRIMARY KEY,
		state VARCHAR NOT NULL,
		year INTEGER NOT NULL,
		age_group VARCHAR NOT NULL,
		sex VARCHAR NOT NULL,
		race_ethnicity VARCHAR NOT NULL,
		income_group VARCHAR NOT NULL,
		heart_disease TINYINT NOT NULL,
		diabetes TINYINT NOT NULL,
		cancer TINYINT NOT NULL
	);
`

var bootQueries = []string{
	HealthObservationsSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
