// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"

	portfoliousecase "stock_tracker/internal/feature/portfolio/usecase"
	"stock_tracker/internal/platform/config"
	"stock_tracker/internal/platform/externalapi/fmp"
	infrahttp "stock_tracker/internal/platform/http"
	"stock_tracker/internal/shared/ratelimiter"
)

// NewProfileClient creates a fully configured FMP client with HTTP client and rate limiter.
func NewProfileClient(cfg config.FMPConfig) *fmp.ProfileClient {
	c := fmp.FromAppConfig(cfg)
	httpClient := infrahttp.NewHTTPClient(infrahttp.ClientOptions{Timeout: c.Timeout})
	limiter := ratelimiter.NewRateLimiter(cfg.RateLimit, cfg.RateLimitEvery)
	return fmp.NewProfileClient(c, httpClient, limiter)
}

// NewProfileProvider returns nil when no API key is configured, so unknown
// portfolio symbols are reported as not found instead of fetched.
func NewProfileProvider(cfg config.FMPConfig) portfoliousecase.ProfileProvider {
	if !cfg.Enabled() {
		slog.Info("FMP_API_KEY is not set. Portfolio symbols must already exist.")
		return nil
	}
	return NewProfileClient(cfg)
}
