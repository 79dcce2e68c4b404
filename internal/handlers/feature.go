package handlers

import (
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/internal/repositories/feature"
	geom "github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/geometry"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/metrics"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/models"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/tracing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
)

// FeatureHandler creates gazetteer features.
type FeatureHandler struct {
	repo   feature.FeatureRepository
	logger ectologger.Logger
}

func NewFeatureHandler(repo feature.FeatureRepository, logger ectologger.Logger) *FeatureHandler {
	return &FeatureHandler{repo: repo, logger: logger}
}

func (h *FeatureHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/add_feature", h.AddFeature)
}

// AddFeature creates a feature with its name, classification, geometry and
// optional origin whakapapa in one transaction. Geometry is validated before
// any database work; an unsupported or malformed payload never opens a
// transaction.
func (h *FeatureHandler) AddFeature(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "feature_handler.AddFeature")
	defer span.End()

	var req models.AddFeatureRequest
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	parsed, err := geom.ParseFeature(req.Geometry)
	if err != nil {
		metrics.FeatureInsertsTotal.WithLabelValues("rejected", "invalid").Inc()
		return err
	}

	if err := h.repo.Create(ctx, req, parsed); err != nil {
		metrics.FeatureInsertsTotal.WithLabelValues("failed", string(parsed.Kind)).Inc()
		return err
	}
	metrics.FeatureInsertsTotal.WithLabelValues("created", string(parsed.Kind)).Inc()

	return SuccessResponse(c, models.SuccessResponse{Success: true})
}
