package handlers

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/internal/repositories/featurename"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/metrics"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/models"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/tracing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
)

// SearchHandler serves feature-name substring search.
type SearchHandler struct {
	repo            featurename.FeatureNameRepository
	searchMinLength int
	logger          ectologger.Logger
}

func NewSearchHandler(repo featurename.FeatureNameRepository, searchMinLength int, logger ectologger.Logger) *SearchHandler {
	return &SearchHandler{
		repo:            repo,
		searchMinLength: searchMinLength,
		logger:          logger,
	}
}

func (h *SearchHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/search", h.Search)
}

// Search returns feature names matching the search term. Terms at or below
// the configured minimum length short-circuit to an empty result without
// touching the database; very short prefixes would otherwise scan the whole
// name table.
func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "search_handler.Search")
	defer span.End()

	var req models.SearchRequest
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	// Character count, not byte count: macron vowels are two bytes each and
	// must not push a short te reo term past the threshold.
	term := strings.TrimSpace(req.SearchTerm)
	if utf8.RuneCountInString(term) <= h.searchMinLength {
		metrics.SearchesTotal.WithLabelValues("below_minimum").Inc()
		return SuccessResponse(c, models.NewListResponse[models.FeatureNameMatch](nil))
	}

	start := time.Now()
	matches, err := h.repo.Search(ctx, term)
	if err != nil {
		return err
	}
	metrics.QueryDuration.WithLabelValues("search").Observe(time.Since(start).Seconds())
	metrics.SearchesTotal.WithLabelValues("executed").Inc()

	return SuccessResponse(c, models.NewListResponse(matches))
}
