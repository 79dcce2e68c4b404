// Package sqlguard gates the ad-hoc query surface. It is a blunt denylist,
// not a SQL parser: single statement, leading SELECT, and no data-definition
// or data-modification keywords anywhere in the text. The database-level
// read-only transaction behind it is the second line of defense. This surface
// remains the riskiest part of the API and is kept deliberately restrictive.
package sqlguard

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
)

// forbiddenKeywords matches any write or DDL keyword as a whole word,
// case-insensitively.
var forbiddenKeywords = regexp.MustCompile(`(?i)\b(drop|delete|insert|update|alter|truncate|create|grant|revoke)\b`)

// Validate returns nil when the text is acceptable as a single read-only
// SELECT, or a 400 error describing the rejection. It never modifies the
// text; the accepted statement is executed verbatim.
func Validate(sqlText string) error {
	trimmed := strings.TrimSpace(sqlText)
	if trimmed == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "sql required")
	}

	if strings.Contains(trimmed, ";") {
		return httperror.NewHTTPError(http.StatusBadRequest, "Only a single SELECT is allowed.")
	}

	if !strings.HasPrefix(strings.ToLower(trimmed), "select") {
		return httperror.NewHTTPError(http.StatusBadRequest, "Only a single SELECT is allowed.")
	}

	if forbiddenKeywords.MatchString(trimmed) {
		return httperror.NewHTTPError(http.StatusBadRequest, "Only SELECT queries are allowed.")
	}

	return nil
}
