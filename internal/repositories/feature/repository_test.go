package feature_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/internal/repositories/feature"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/database"
	geom "github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/geometry"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/models"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

type fakeResult struct{}

func (fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (fakeResult) RowsAffected() (int64, error) { return 1, nil }

// fakeTx records every statement and can be told to fail on the first query
// containing a marker, mimicking a mid-transaction insert failure.
type fakeTx struct {
	failOn      string
	execQueries []string
	getQueries  []string
	nextID      int64
	commits     int
	rollbacks   int
	closed      bool
}

func (f *fakeTx) IsOpen() bool { return !f.closed }

func (f *fakeTx) Commit(ctx context.Context) error {
	if f.closed {
		return nil
	}
	f.commits++
	f.closed = true
	return nil
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	if f.closed {
		return nil
	}
	f.rollbacks++
	f.closed = true
	return nil
}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.execQueries = append(f.execQueries, query)
	if f.failOn != "" && strings.Contains(query, f.failOn) {
		return nil, errors.New("insert failed")
	}
	return fakeResult{}, nil
}

func (f *fakeTx) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	f.getQueries = append(f.getQueries, query)
	if f.failOn != "" && strings.Contains(query, f.failOn) {
		return errors.New("insert failed")
	}
	f.nextID++
	if id, ok := dest.(*int64); ok {
		*id = f.nextID
	}
	return nil
}

func (f *fakeTx) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return nil
}

func (f *fakeTx) QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row {
	return nil
}

func (f *fakeTx) Rebind(query string) string { return query }

type fakeDB struct {
	database.DB
	tx *fakeTx
}

func (f *fakeDB) GetTx(ctx context.Context, opts *sql.TxOptions) (context.Context, database.Tx, error) {
	return ctx, f.tx, nil
}

func (f *fakeTx) allQueries() string {
	return strings.Join(append(append([]string{}, f.getQueries...), f.execQueries...), "\n")
}

func pointParsed() *geom.Parsed {
	return &geom.Parsed{
		GeoJSONType: "Point",
		Kind:        geom.KindPoint,
		GeoJSON:     `{"type":"Point","coordinates":[175,-41]}`,
	}
}

func addFeatureRequest() models.AddFeatureRequest {
	return models.AddFeatureRequest{
		Name:               "Te Mata Peak",
		FeatureType:        "Hill",
		Creator:            "kaimahi@example.org",
		FeatureDescription: "Prominent peak in Hawke's Bay",
	}
}

func TestCreateCommitsWholeSequence(t *testing.T) {
	tx := &fakeTx{}
	repo := feature.NewRepository(&fakeDB{tx: tx}, getTestLogger())

	err := repo.Create(context.Background(), addFeatureRequest(), pointParsed())
	require.NoError(t, err)

	assert.Equal(t, 1, tx.commits)
	assert.Equal(t, 0, tx.rollbacks)

	queries := tx.allQueries()
	assert.Contains(t, queries, "INSERT INTO feature ")
	assert.Contains(t, queries, "INSERT INTO featurename ")
	assert.Contains(t, queries, "INSERT INTO featuretype ")
	assert.Contains(t, queries, "spatialgeometryrepresentation_point")
	assert.NotContains(t, queries, "whakapapa")
}

func TestCreateInsertsWhakapapaWhenProvided(t *testing.T) {
	tx := &fakeTx{}
	repo := feature.NewRepository(&fakeDB{tx: tx}, getTestLogger())

	req := addFeatureRequest()
	req.Whakapapa = "Ko te kōrero tuku iho"

	require.NoError(t, repo.Create(context.Background(), req, pointParsed()))
	assert.Contains(t, tx.allQueries(), "INSERT INTO whakapapa ")
	assert.Contains(t, tx.allQueries(), "featurename_whakapapa")
}

func TestCreateRollsBackOnMidSequenceFailure(t *testing.T) {
	// The featuretype insert fails after feature and featurename succeeded:
	// nothing may commit and no later insert may run.
	tx := &fakeTx{failOn: "featuretype"}
	repo := feature.NewRepository(&fakeDB{tx: tx}, getTestLogger())

	err := repo.Create(context.Background(), addFeatureRequest(), pointParsed())
	require.Error(t, err)

	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
	assert.NotContains(t, tx.allQueries(), "spatialgeometryrepresentation_point")
}

func TestCreateRollsBackWhenGeometryInsertFails(t *testing.T) {
	tx := &fakeTx{failOn: "spatialgeometryrepresentation_point"}
	repo := feature.NewRepository(&fakeDB{tx: tx}, getTestLogger())

	err := repo.Create(context.Background(), addFeatureRequest(), pointParsed())
	require.Error(t, err)

	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
}
