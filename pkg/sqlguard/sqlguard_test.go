package sqlguard

import (
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantErr string
	}{
		{
			name: "plain select",
			sql:  "SELECT id, featurename FROM featurename",
		},
		{
			name: "select with where and joins",
			sql:  "select f.id from featurename f join feature ft on ft.id = f.feature_id where f.featurename ilike '%bay%'",
		},
		{
			name: "leading whitespace is tolerated",
			sql:  "   SELECT 1",
		},
		{
			name:    "empty",
			sql:     "",
			wantErr: "sql required",
		},
		{
			name:    "whitespace only",
			sql:     "   \n\t ",
			wantErr: "sql required",
		},
		{
			name:    "semicolon rejects even a single statement",
			sql:     "SELECT 1;",
			wantErr: "Only a single SELECT is allowed.",
		},
		{
			name:    "stacked statements",
			sql:     "SELECT 1; DROP TABLE featurename",
			wantErr: "Only a single SELECT is allowed.",
		},
		{
			name:    "non-select prefix",
			sql:     "WITH x AS (SELECT 1) SELECT * FROM x",
			wantErr: "Only a single SELECT is allowed.",
		},
		{
			name:    "update statement",
			sql:     "UPDATE featurename SET featurename = 'x'",
			wantErr: "Only a single SELECT is allowed.",
		},
		{
			name:    "forbidden keyword inside a select",
			sql:     "SELECT * FROM featurename WHERE featurename = 'a' OR delete_flag = true OR (SELECT count(*) FROM pg_tables) > 0 ORDER BY drop",
			wantErr: "Only SELECT queries are allowed.",
		},
		{
			name:    "forbidden keyword is case insensitive",
			sql:     "select * from featurename where Drop = 1",
			wantErr: "Only SELECT queries are allowed.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.sql)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, httperror.IsHTTPError(err))
			assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateAcceptsKeywordsAsSubstrings(t *testing.T) {
	// Whole-word matching only: column names containing a forbidden keyword
	// as a substring must pass.
	err := Validate("SELECT lastupdatedate, creator FROM featurename")
	assert.NoError(t, err)
}
