package feature

import (
	"context"
	"fmt"
	"net/http"

	geom "github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/geometry"

	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/database"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/models"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/tracing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"
)

// Geometries are stored in WGS 84. The SRID tags the geometry value; the
// label is recorded alongside it as reference-system metadata.
const (
	geodeticSRID            = 4326
	geodeticReferenceSystem = "EPSG 4326"
)

// geometryInsertQuery targets one of the three child tables. The table name
// is interpolated only from the geometry.ChildTable map, never from request
// input.
const geometryInsertQuery = `
	INSERT INTO %s (geodeticreferencesystem, geometry, lastupdatedate, lastupdateuser, spatialgeometryrepresentation_id)
	VALUES ($1, ST_SetSRID(ST_GeomFromGeoJSON($2), %d), current_date, $3, $4)`

// FeatureRepository creates gazetteer features.
type FeatureRepository interface {
	Create(ctx context.Context, req models.AddFeatureRequest, parsed *geom.Parsed) error
}

// Repository implements FeatureRepository over PostGIS.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Create inserts the feature, its name, its classification, the geometry
// representation with its concrete shape, and the optional origin whakapapa,
// all in a single transaction. A failure at any step leaves nothing behind:
// partial completion would orphan a feature with no geometry or no name.
func (r *Repository) Create(ctx context.Context, req models.AddFeatureRequest, parsed *geom.Parsed) error {
	ctx, span := tracing.StartSpan(ctx, "FeatureRepository.Create")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	featureID, err := r.insertFeature(ctx, tx, req)
	if err != nil {
		return err
	}

	featureNameID, err := r.insertFeatureName(ctx, tx, featureID, req)
	if err != nil {
		return err
	}

	if err := r.insertFeatureType(ctx, tx, featureID, req); err != nil {
		return err
	}

	sgrID, err := r.insertGeometryRepresentation(ctx, tx, featureID, req)
	if err != nil {
		return err
	}

	if err := r.insertGeometry(ctx, tx, sgrID, req, parsed); err != nil {
		return err
	}

	if req.Whakapapa != "" {
		if err := r.insertWhakapapa(ctx, tx, featureNameID, req); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"feature_id":      featureID,
		"feature_name_id": featureNameID,
		"geometry_kind":   parsed.Kind,
	}).Info("created feature")

	return nil
}

func (r *Repository) insertFeature(ctx context.Context, tx database.Tx, req models.AddFeatureRequest) (int64, error) {
	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("feature")
	sb.Cols("featuredescription", "lastupdateuser", "lastupdatedate")
	sb.Values(req.FeatureDescription, req.Creator, sqlbuilder.Raw("current_date"))
	sb.Returning("id")

	query, args := sb.Build()

	var featureID int64
	if err := tx.GetContext(ctx, &featureID, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to insert feature")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create feature")
	}
	return featureID, nil
}

func (r *Repository) insertFeatureName(ctx context.Context, tx database.Tx, featureID int64, req models.AddFeatureRequest) (int64, error) {
	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("featurename")
	sb.Cols("feature_id", "featurename", "lastupdateuser", "lastupdatedate")
	sb.Values(featureID, req.Name, req.Creator, sqlbuilder.Raw("current_date"))
	sb.Returning("id")

	query, args := sb.Build()

	var featureNameID int64
	if err := tx.GetContext(ctx, &featureNameID, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"feature_id": featureID,
		}).Error("failed to insert feature name")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create feature")
	}
	return featureNameID, nil
}

func (r *Repository) insertFeatureType(ctx context.Context, tx database.Tx, featureID int64, req models.AddFeatureRequest) error {
	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("featuretype")
	sb.Cols("feature_id", "featureclass", "lastupdateuser", "lastupdatedate")
	sb.Values(featureID, req.FeatureType, req.Creator, sqlbuilder.Raw("current_date"))

	query, args := sb.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"feature_id": featureID,
		}).Error("failed to insert feature type")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create feature")
	}
	return nil
}

func (r *Repository) insertGeometryRepresentation(ctx context.Context, tx database.Tx, featureID int64, req models.AddFeatureRequest) (int64, error) {
	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("spatialgeometryrepresentation")
	sb.Cols("lastupdatedate", "lastupdateuser", "timeperiod", "spatialaccuracy", "feature_id", "localitydescription_id")
	sb.Values(sqlbuilder.Raw("current_date"), req.Creator, nil, nil, featureID, nil)
	sb.Returning("id")

	query, args := sb.Build()

	var sgrID int64
	if err := tx.GetContext(ctx, &sgrID, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"feature_id": featureID,
		}).Error("failed to insert geometry representation")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create feature")
	}
	return sgrID, nil
}

func (r *Repository) insertGeometry(ctx context.Context, tx database.Tx, sgrID int64, req models.AddFeatureRequest, parsed *geom.Parsed) error {
	table, ok := geom.ChildTable[parsed.Kind]
	if !ok {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "Unsupported geometry type: %s", parsed.GeoJSONType)
	}

	query := fmt.Sprintf(geometryInsertQuery, table, geodeticSRID)

	if _, err := tx.ExecContext(ctx, query, geodeticReferenceSystem, parsed.GeoJSON, req.Creator, sgrID); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"spatialgeometryrepresentation_id": sgrID,
			"geometry_kind":                    parsed.Kind,
		}).Error("failed to insert geometry")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create feature")
	}
	return nil
}

func (r *Repository) insertWhakapapa(ctx context.Context, tx database.Tx, featureNameID int64, req models.AddFeatureRequest) error {
	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("whakapapa")
	sb.Cols("whakapapa", "whakapapausage", "lastupdatedate", "lastupdateuser")
	sb.Values(req.Whakapapa, models.WhakapapaUsageOrigin, sqlbuilder.Raw("current_timestamp"), req.Creator)
	sb.Returning("id")

	query, args := sb.Build()

	var whakapapaID int64
	if err := tx.GetContext(ctx, &whakapapaID, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"feature_name_id": featureNameID,
		}).Error("failed to insert whakapapa")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create feature")
	}

	jb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	jb.InsertInto("featurename_whakapapa")
	jb.Cols("featurename_id", "whakapapa_id", "lastupdatedate", "lastupdateuser")
	jb.Values(featureNameID, whakapapaID, sqlbuilder.Raw("current_timestamp"), req.Creator)

	query, args = jb.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"feature_name_id": featureNameID,
			"whakapapa_id":    whakapapaID,
		}).Error("failed to link whakapapa to feature name")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create feature")
	}
	return nil
}
