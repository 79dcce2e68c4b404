package source

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/database"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/models"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/tracing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
)

// maoriLanguageTag marks a name as te reo Māori. Sibling names carrying it are
// surfaced separately from other-language variants.
const maoriLanguageTag = "mi"

const initialSourceQuery = `
	SELECT s.source
	FROM featurename fn
	LEFT JOIN source s ON s.featurename_id = fn.id
	WHERE fn.id = $1
	ORDER BY s.lastupdatedate DESC NULLS LAST
	LIMIT 1`

const classificationQuery = `
	SELECT ft.featureclass, f.featuredescription
	FROM featurename fn
	LEFT JOIN feature f ON f.id = fn.feature_id
	LEFT JOIN featuretype ft ON ft.feature_id = fn.feature_id
	LEFT JOIN source s ON s.featuretype_id = ft.id
	WHERE fn.id = $1 AND s.source = $2
	LIMIT 1`

const siblingNamesQuery = `
	SELECT fn2.featurename, fn2.language
	FROM featurename fn2
	WHERE fn2.feature_id = (SELECT feature_id FROM featurename WHERE id = $1 LIMIT 1)
	  AND fn2.featurename <> $2
	ORDER BY fn2.featurename
	LIMIT 100`

const originWhakapapaQuery = `
	SELECT w.whakapapa
	FROM featurename fn
	LEFT JOIN featurename_whakapapa fnw ON fnw.featurename_id = fn.id
	LEFT JOIN whakapapa w ON w.id = fnw.whakapapa_id
	WHERE fn.id = $1 AND (w.whakapapausage = 'info_origi' OR w.whakapapausage IS NULL)
	ORDER BY w.lastupdatedate DESC NULLS LAST
	LIMIT 1`

// SourceRepository reads source citations and source-scoped feature metadata.
type SourceRepository interface {
	GetInitialSource(ctx context.Context, featureNameID int64) (*string, error)
	GetFeatureMetadata(ctx context.Context, req models.MetadataRequest) (*models.FeatureMetadata, error)
}

// Repository implements SourceRepository over Postgres.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// GetInitialSource returns the most recently updated source citation for a
// feature name, or nil when none is recorded.
func (r *Repository) GetInitialSource(ctx context.Context, featureNameID int64) (*string, error) {
	ctx, span := tracing.StartSpan(ctx, "SourceRepository.GetInitialSource")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, database.ReadOnly)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	var source sql.NullString
	err = tx.GetContext(ctx, &source, initialSourceQuery, featureNameID)
	if err != nil && err != sql.ErrNoRows {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"feature_name_id": featureNameID,
		}).Error("failed to get initial source")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get initial source")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit")
	}

	if !source.Valid {
		return nil, nil
	}
	return &source.String, nil
}

// GetFeatureMetadata runs the three metadata reads in one read-only
// transaction. A nil result means no classification is tied to the given
// source citation, which is a valid outcome rather than an error.
func (r *Repository) GetFeatureMetadata(ctx context.Context, req models.MetadataRequest) (*models.FeatureMetadata, error) {
	ctx, span := tracing.StartSpan(ctx, "SourceRepository.GetFeatureMetadata")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, database.ReadOnly)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	var classification struct {
		FeatureClass       sql.NullString `db:"featureclass"`
		FeatureDescription sql.NullString `db:"featuredescription"`
	}
	err = tx.GetContext(ctx, &classification, classificationQuery, req.FeatureNameID, req.Source)
	if err == sql.ErrNoRows {
		if err := tx.Commit(ctx); err != nil {
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit")
		}
		return nil, nil
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"feature_name_id": req.FeatureNameID,
		}).Error("failed to get feature classification")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get feature metadata")
	}

	var siblings []models.SiblingName
	if err := tx.SelectContext(ctx, &siblings, siblingNamesQuery, req.FeatureNameID, req.FeatureName); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"feature_name_id": req.FeatureNameID,
		}).Error("failed to get sibling feature names")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get feature metadata")
	}

	var whakapapa sql.NullString
	err = tx.GetContext(ctx, &whakapapa, originWhakapapaQuery, req.FeatureNameID)
	if err != nil && err != sql.ErrNoRows {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"feature_name_id": req.FeatureNameID,
		}).Error("failed to get origin whakapapa")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get feature metadata")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit")
	}

	metadata := &models.FeatureMetadata{
		Source: req.Source,
	}
	if classification.FeatureClass.Valid {
		metadata.FeatureType = &classification.FeatureClass.String
	}
	if classification.FeatureDescription.Valid {
		metadata.FeatureDescription = &classification.FeatureDescription.String
	}

	// Partition siblings: first Māori name wins, everything else joins into
	// a comma-delimited string.
	var otherNames []string
	for _, sibling := range siblings {
		if sibling.Language != nil && *sibling.Language == maoriLanguageTag {
			if metadata.MaoriName == nil {
				name := sibling.FeatureName
				metadata.MaoriName = &name
			}
			continue
		}
		otherNames = append(otherNames, sibling.FeatureName)
	}
	metadata.OtherNames = strings.Join(otherNames, ", ")

	if whakapapa.Valid {
		metadata.Whakapapa = &whakapapa.String
	}

	return metadata, nil
}
