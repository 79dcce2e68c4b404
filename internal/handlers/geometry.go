package handlers

import (
	"time"

	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/internal/repositories/geometry"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/metrics"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/models"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/tracing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
)

// GeometryHandler serves stored geometries as GeoJSON.
type GeometryHandler struct {
	repo   geometry.GeometryRepository
	logger ectologger.Logger
}

func NewGeometryHandler(repo geometry.GeometryRepository, logger ectologger.Logger) *GeometryHandler {
	return &GeometryHandler{repo: repo, logger: logger}
}

func (h *GeometryHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/get_geometries", h.GetGeometries)
}

// GetGeometries returns every point, line and polygon attached to features
// with the exact given name.
func (h *GeometryHandler) GetGeometries(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "geometry_handler.GetGeometries")
	defer span.End()

	var req models.GeometriesRequest
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	start := time.Now()
	entries, err := h.repo.GetByFeatureName(ctx, req.FeatureName)
	if err != nil {
		return err
	}
	metrics.QueryDuration.WithLabelValues("get_geometries").Observe(time.Since(start).Seconds())

	return SuccessResponse(c, models.NewListResponse(entries))
}
