package handlers

import (
	"strings"

	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/internal/repositories/whakapapa"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/metrics"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/models"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/tracing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
)

// WhakapapaHandler appends whakapapa and ancestor narrative to a feature
// name. The two operations differ only in the usage tag written.
type WhakapapaHandler struct {
	repo   whakapapa.WhakapapaRepository
	logger ectologger.Logger
}

func NewWhakapapaHandler(repo whakapapa.WhakapapaRepository, logger ectologger.Logger) *WhakapapaHandler {
	return &WhakapapaHandler{repo: repo, logger: logger}
}

func (h *WhakapapaHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/add_whakapapa", h.AddWhakapapa)
	e.POST("/add_ancestor", h.AddAncestor)
}

// AddWhakapapa appends an origin-info whakapapa row for the feature name.
func (h *WhakapapaHandler) AddWhakapapa(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "whakapapa_handler.AddWhakapapa")
	defer span.End()

	var req models.AddWhakapapaRequest
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	text := strings.TrimSpace(req.WhakapapaText)
	if text == "" {
		return BadRequest("No text provided")
	}

	if err := h.repo.Append(ctx, req.FeatureNameID, text, models.WhakapapaUsageOrigin, req.UpdatedBy); err != nil {
		return err
	}
	metrics.WhakapapaAppendsTotal.WithLabelValues(models.WhakapapaUsageOrigin).Inc()

	return SuccessResponse(c, models.SuccessResponse{Success: true})
}

// AddAncestor appends an ancestor-info whakapapa row for the feature name.
func (h *WhakapapaHandler) AddAncestor(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "whakapapa_handler.AddAncestor")
	defer span.End()

	var req models.AddAncestorRequest
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	text := strings.TrimSpace(req.AncestorText)
	if text == "" {
		return BadRequest("No text provided")
	}

	if err := h.repo.Append(ctx, req.FeatureNameID, text, models.WhakapapaUsageAncestor, req.UpdatedBy); err != nil {
		return err
	}
	metrics.WhakapapaAppendsTotal.WithLabelValues(models.WhakapapaUsageAncestor).Inc()

	return SuccessResponse(c, models.SuccessResponse{Success: true})
}
