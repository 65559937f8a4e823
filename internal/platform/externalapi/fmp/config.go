// Package fmp は Financial Modeling Prep API のクライアントを提供します。
package fmp

import (
	"time"

	"stock_tracker/internal/platform/config"
)

// Config はFMP APIクライアントの設定を保持します。
type Config struct {
	APIKey  string        // 認証用APIキー
	BaseURL string        // APIのベースURL（例: "https://financialmodelingprep.com/stable"）
	Timeout time.Duration // HTTPリクエストタイムアウト
}

// FromAppConfig converts the application's FMP section.
func FromAppConfig(c config.FMPConfig) Config {
	return Config{APIKey: c.APIKey, BaseURL: c.BaseURL, Timeout: c.Timeout}
}
