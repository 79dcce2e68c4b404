package middleware

import (
	"strconv"
	"time"

	appctx "github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/context"
	"github.com/masseygeoinformaticscollaboratory/BioWhere-DB/pkg/metrics"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
)

// Logger emits one structured line per request and records the request
// duration histogram. It runs after Context(), so the identity and origin
// fields are read from the request context rather than the headers.
func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()
			res := c.Response()
			start := time.Now()
			if err = next(c); err != nil {
				c.Error(err)
			}
			elapsed := time.Since(start)

			ctx := req.Context()
			status := strconv.Itoa(res.Status)
			metrics.RequestDuration.WithLabelValues(c.Path(), req.Method, status).Observe(elapsed.Seconds())

			logger.WithContext(ctx).WithFields(map[string]any{
				"request_id":    appctx.GetRequestID(ctx),
				"user_id":       appctx.GetUserID(ctx),
				"method":        req.Method,
				"uri":           req.RequestURI,
				"route":         c.Path(),
				"status":        res.Status,
				"remote_ip":     appctx.GetRemoteIP(ctx),
				"referer":       appctx.GetReferer(ctx),
				"user_agent":    req.UserAgent(),
				"response_time": elapsed,
				"response_size": res.Size,
			}).Info("Request")

			return nil
		}
	}
}
