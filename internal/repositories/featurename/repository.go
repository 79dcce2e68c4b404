package featurename

import (
	"context"
	"net/http"

	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/database"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/models"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/tracing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"
)

// searchLimit caps substring search results. The cap is fixed; there is no
// pagination on this surface.
const searchLimit = 50

// FeatureNameRepository defines feature name lookups.
type FeatureNameRepository interface {
	Search(ctx context.Context, term string) ([]models.FeatureNameMatch, error)
}

// Repository implements FeatureNameRepository over Postgres.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Search runs a case-insensitive substring match against feature names,
// alphabetically ordered and capped. The caller is responsible for the
// minimum-length short circuit; by the time this runs, a query is intended.
func (r *Repository) Search(ctx context.Context, term string) ([]models.FeatureNameMatch, error) {
	ctx, span := tracing.StartSpan(ctx, "FeatureNameRepository.Search")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, database.ReadOnly)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("featurename", "id")
	sb.From("featurename")
	sb.Where(sb.ILike("featurename", "%"+term+"%"))
	sb.OrderBy("featurename")
	sb.Limit(searchLimit)

	query, args := sb.Build()

	var matches []models.FeatureNameMatch
	if err := tx.SelectContext(ctx, &matches, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to search feature names")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to search feature names")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit")
	}

	return matches, nil
}
