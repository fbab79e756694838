package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/labstack/echo/v4"

	"github.com/atelier-numerique/agency-api/pkg/metrics"
)

// ContactRateLimit caps public contact submissions per client IP. It reuses
// go-chi/httprate through echo.WrapMiddleware; the limit response follows
// the API error envelope. With trustProxy the IP comes from the forwarding
// headers instead of the socket.
func ContactRateLimit(limit int, window time.Duration, trustProxy bool) echo.MiddlewareFunc {
	keyFunc := httprate.KeyByIP
	if trustProxy {
		keyFunc = httprate.KeyByRealIP
	}
	return echo.WrapMiddleware(httprate.Limit(limit, window,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			metrics.RateLimitedTotal.WithLabelValues("contact").Inc()
			w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":   "RateLimited",
				"message": "too many messages, please try again later",
			})
		}),
	))
}
