package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appctx "github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/context"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/middleware"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func newErrorContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/search", nil)
	req = req.WithContext(appctx.SetRequestID(req.Context(), "req-123"))
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestErrorHandlerWithHTTPError(t *testing.T) {
	handler := middleware.Error(getTestLogger())
	c, rec := newErrorContext(t)

	handler(httperror.NewHTTPError(http.StatusBadRequest, "No text provided"), c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{
		"message": "No text provided",
		"request_id": "req-123",
		"trace_id": "",
		"meta": {}
	}`, rec.Body.String())
}

func TestErrorHandlerWithEchoError(t *testing.T) {
	handler := middleware.Error(getTestLogger())
	c, rec := newErrorContext(t)

	handler(echo.NewHTTPError(http.StatusNotFound, "Not Found"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not Found")
}

func TestErrorHandlerMasksUnknownErrors(t *testing.T) {
	handler := middleware.Error(getTestLogger())
	c, rec := newErrorContext(t)

	handler(assert.AnError, c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal Server Error")
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestContextMiddlewarePopulatesRequestContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/search", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-456")
	req.Header.Set(middleware.HeaderUserID, "user-1")
	req.Header.Set("Referer", "https://gazetteer.example.org/map")
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.10")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotCtx = req.Context()
	next := func(c echo.Context) error {
		gotCtx = c.Request().Context()
		return nil
	}

	require.NoError(t, middleware.Context()(next)(c))
	assert.Equal(t, "req-456", appctx.GetRequestID(gotCtx))
	assert.Equal(t, "user-1", appctx.GetUserID(gotCtx))
	assert.Equal(t, http.MethodPost, appctx.GetMethod(gotCtx))
	assert.Equal(t, "/search", appctx.GetRoute(gotCtx))
	assert.Equal(t, "https://gazetteer.example.org/map", appctx.GetReferer(gotCtx))
	assert.Equal(t, "203.0.113.10", appctx.GetRemoteIP(gotCtx))
}

func TestContextMiddlewareGeneratesRequestID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/search", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotCtx = req.Context()
	next := func(c echo.Context) error {
		gotCtx = c.Request().Context()
		return nil
	}

	require.NoError(t, middleware.Context()(next)(c))
	assert.NotEmpty(t, appctx.GetRequestID(gotCtx))
}
