package geometry

import (
	"context"
	"net/http"

	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/database"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/models"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/tracing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
)

// geometriesQuery unions the three geometry child tables back through the
// spatialgeometryrepresentation parent to the feature's names. Each branch
// tags rows with its storage kind; the union's natural row order is the
// response order.
const geometriesQuery = `
	SELECT ST_AsGeoJSON(p.geometry) AS geometry, 'point' AS type, fn.id AS featurename_id, s.source AS source
	FROM spatialgeometryrepresentation_point p
	JOIN spatialgeometryrepresentation sgr ON p.spatialgeometryrepresentation_id = sgr.id
	JOIN featurename fn ON sgr.feature_id = fn.feature_id
	LEFT JOIN source s ON s.spatialgeometryrepresentation_id = sgr.id
	WHERE fn.featurename = $1
	UNION ALL
	SELECT ST_AsGeoJSON(l.geometry) AS geometry, 'line' AS type, fn.id AS featurename_id, s.source AS source
	FROM spatialgeometryrepresentation_line l
	JOIN spatialgeometryrepresentation sgr ON l.spatialgeometryrepresentation_id = sgr.id
	JOIN featurename fn ON sgr.feature_id = fn.feature_id
	LEFT JOIN source s ON s.spatialgeometryrepresentation_id = sgr.id
	WHERE fn.featurename = $2
	UNION ALL
	SELECT ST_AsGeoJSON(pg.geometry) AS geometry, 'polygon' AS type, fn.id AS featurename_id, s.source AS source
	FROM spatialgeometryrepresentation_polygon pg
	JOIN spatialgeometryrepresentation sgr ON pg.spatialgeometryrepresentation_id = sgr.id
	JOIN featurename fn ON sgr.feature_id = fn.feature_id
	LEFT JOIN source s ON s.spatialgeometryrepresentation_id = sgr.id
	WHERE fn.featurename = $3`

// GeometryRepository reads stored geometries as GeoJSON.
type GeometryRepository interface {
	GetByFeatureName(ctx context.Context, featureName string) ([]models.GeometryEntry, error)
}

// Repository implements GeometryRepository over PostGIS.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// GetByFeatureName returns every geometry attached to features carrying the
// exact given name, one entry per stored shape.
func (r *Repository) GetByFeatureName(ctx context.Context, featureName string) ([]models.GeometryEntry, error) {
	ctx, span := tracing.StartSpan(ctx, "GeometryRepository.GetByFeatureName")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, database.ReadOnly)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	var entries []models.GeometryEntry
	if err := tx.SelectContext(ctx, &entries, geometriesQuery, featureName, featureName, featureName); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"feature_name": featureName,
		}).Error("failed to get geometries")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get geometries")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit")
	}

	return entries, nil
}
