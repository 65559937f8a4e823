package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"stock_tracker/internal/feature/portfolio/usecase"
	stockentity "stock_tracker/internal/feature/stock/domain/entity"
	"stock_tracker/internal/platform/externalapi/fmp/dto"
	"stock_tracker/internal/shared/ratelimiter"
)

// maxErrorBody はエラー時にログへ残すレスポンスボディの最大バイト数です。
const maxErrorBody = 512

// ProfileClient はFMPの会社プロフィールから銘柄を組み立てるProfileProvider実装です。
type ProfileClient struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

// ProfileClientがProfileProviderを実装していることをコンパイル時に検証します。
var _ usecase.ProfileProvider = (*ProfileClient)(nil)

// NewProfileClient は指定された設定とHTTPクライアントでProfileClientを生成します。limiterはnilでも構いません。
func NewProfileClient(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *ProfileClient {
	return &ProfileClient{cfg: cfg, client: client, limiter: limiter}
}

// FetchProfile はシンボルの会社プロフィールを取得し、未保存の銘柄として返します。
// 該当する銘柄がない場合は usecase.ErrStockNotFound を返します。
func (p *ProfileClient) FetchProfile(ctx context.Context, symbol string) (*stockentity.Stock, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	q := url.Values{}
	q.Set("symbol", strings.ToUpper(symbol))
	q.Set("apikey", p.cfg.APIKey)
	u := fmt.Sprintf("%s/profile?%s", strings.TrimRight(p.cfg.BaseURL, "/"), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		var apiErr dto.ErrorResponse
		if json.Unmarshal(b, &apiErr) == nil && apiErr.ErrorMessage != "" {
			return nil, fmt.Errorf("fmp http %d: %s", res.StatusCode, apiErr.ErrorMessage)
		}
		return nil, fmt.Errorf("fmp http %d", res.StatusCode)
	}

	var body []dto.ProfileResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode fmp profile: %w", err)
	}
	if len(body) == 0 {
		return nil, usecase.ErrStockNotFound
	}

	pr := body[0]
	return &stockentity.Stock{
		Symbol:      pr.Symbol,
		CompanyName: pr.CompanyName,
		Purchase:    pr.Price.Round(2),
		LastDiv:     pr.LastDividend.Round(2),
		Industry:    pr.Industry,
		MarketCap:   pr.MarketCap.IntPart(),
	}, nil
}
