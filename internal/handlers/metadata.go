package handlers

import (
	"time"

	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/internal/repositories/source"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/metrics"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/models"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/tracing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
)

// MetadataHandler serves source citations and source-scoped feature metadata.
type MetadataHandler struct {
	repo   source.SourceRepository
	logger ectologger.Logger
}

func NewMetadataHandler(repo source.SourceRepository, logger ectologger.Logger) *MetadataHandler {
	return &MetadataHandler{repo: repo, logger: logger}
}

func (h *MetadataHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/get_initial_source", h.GetInitialSource)
	e.POST("/get_feature_metadata", h.GetFeatureMetadata)
}

// GetInitialSource returns the most recent source citation for a feature
// name, or null when none is recorded.
func (h *MetadataHandler) GetInitialSource(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "metadata_handler.GetInitialSource")
	defer span.End()

	var req models.InitialSourceRequest
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	src, err := h.repo.GetInitialSource(ctx, req.FeatureNameID)
	if err != nil {
		return err
	}

	return SuccessResponse(c, models.SourceResponse{Source: src})
}

// GetFeatureMetadata returns the classification, description, sibling names
// and origin whakapapa for a feature name under a specific source citation.
// An unknown citation yields {data:null}, not an error.
func (h *MetadataHandler) GetFeatureMetadata(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "metadata_handler.GetFeatureMetadata")
	defer span.End()

	var req models.MetadataRequest
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	start := time.Now()
	metadata, err := h.repo.GetFeatureMetadata(ctx, req)
	if err != nil {
		return err
	}
	metrics.QueryDuration.WithLabelValues("get_feature_metadata").Observe(time.Since(start).Seconds())

	if metadata == nil {
		return SuccessResponse(c, models.NullDataResponse{})
	}

	return SuccessResponse(c, metadata)
}
