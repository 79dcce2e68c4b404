package handlers

import (
	"time"

	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/internal/repositories/report"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/metrics"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/models"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/sqlguard"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/tracing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
)

// QueryHandler serves the ad-hoc report query surface.
type QueryHandler struct {
	repo   report.ReportRepository
	logger ectologger.Logger
}

func NewQueryHandler(repo report.ReportRepository, logger ectologger.Logger) *QueryHandler {
	return &QueryHandler{repo: repo, logger: logger}
}

func (h *QueryHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/run_query", h.RunQuery)
}

// RunQuery executes a caller-provided SELECT after the sqlguard gate accepts
// it. Rejected statements never reach the database.
func (h *QueryHandler) RunQuery(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "query_handler.RunQuery")
	defer span.End()

	var req models.RunQueryRequest
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	if err := sqlguard.Validate(req.SQL); err != nil {
		metrics.AdhocQueriesTotal.WithLabelValues("rejected").Inc()
		return err
	}
	metrics.AdhocQueriesTotal.WithLabelValues("allowed").Inc()

	start := time.Now()
	rows, err := h.repo.RunQuery(ctx, req.SQL)
	if err != nil {
		return err
	}
	metrics.QueryDuration.WithLabelValues("run_query").Observe(time.Since(start).Seconds())

	return SuccessResponse(c, models.NewListResponse(rows))
}
