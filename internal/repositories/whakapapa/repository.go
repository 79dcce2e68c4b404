package whakapapa

import (
	"context"
	"net/http"

	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/database"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/tracing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"
)

// WhakapapaRepository appends whakapapa narrative rows. History is
// cumulative: rows are only ever added, never updated or removed.
type WhakapapaRepository interface {
	Append(ctx context.Context, featureNameID int64, text string, usage string, updatedBy string) error
}

// Repository implements WhakapapaRepository over Postgres.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Append inserts a whakapapa row with the given usage tag and the join row
// linking it to the feature name, in one write transaction. Both rows carry
// the database's current timestamp as the audit time.
func (r *Repository) Append(ctx context.Context, featureNameID int64, text string, usage string, updatedBy string) error {
	ctx, span := tracing.StartSpan(ctx, "WhakapapaRepository.Append")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("whakapapa")
	sb.Cols("whakapapa", "whakapapausage", "lastupdateuser", "lastupdatedate")
	sb.Values(text, usage, updatedBy, sqlbuilder.Raw("current_timestamp"))
	sb.Returning("id")

	query, args := sb.Build()

	var whakapapaID int64
	if err := tx.GetContext(ctx, &whakapapaID, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"feature_name_id": featureNameID,
			"usage":           usage,
		}).Error("failed to insert whakapapa")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert whakapapa")
	}

	jb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	jb.InsertInto("featurename_whakapapa")
	jb.Cols("featurename_id", "whakapapa_id", "lastupdateuser", "lastupdatedate")
	jb.Values(featureNameID, whakapapaID, updatedBy, sqlbuilder.Raw("current_timestamp"))

	query, args = jb.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"feature_name_id": featureNameID,
			"whakapapa_id":    whakapapaID,
		}).Error("failed to link whakapapa to feature name")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert whakapapa")
	}

	if err := tx.Commit(ctx); err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"feature_name_id": featureNameID,
		"whakapapa_id":    whakapapaID,
		"usage":           usage,
	}).Info("appended whakapapa")

	return nil
}
