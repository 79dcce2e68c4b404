package report

import (
	"context"
	"net/http"

	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/database"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/tracing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
)

// ReportRepository executes pre-validated ad-hoc SELECT statements.
type ReportRepository interface {
	RunQuery(ctx context.Context, sqlText string) ([]map[string]any, error)
}

// Repository implements ReportRepository over Postgres.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// RunQuery executes the statement verbatim in a read-only transaction and
// returns column-name-keyed rows. The caller must have passed the text
// through sqlguard first; the read-only transaction mode is the backstop for
// anything the gate misses.
func (r *Repository) RunQuery(ctx context.Context, sqlText string) ([]map[string]any, error) {
	ctx, span := tracing.StartSpan(ctx, "ReportRepository.RunQuery")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, database.ReadOnly)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	rows, err := tx.QueryxContext(ctx, sqlText)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("ad-hoc query failed")
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "query failed")
	}
	defer rows.Close()

	results := []map[string]any{}
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error("failed to scan ad-hoc query row")
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to read query results")
		}
		// pq hands back []byte for text columns; make them JSON-friendly
		for key, value := range row {
			if b, ok := value.([]byte); ok {
				row[key] = string(b)
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("ad-hoc query iteration failed")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to read query results")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit")
	}

	return results, nil
}
