// Package http は外部API呼び出し用のHTTPクライアントを提供します。
package http

import (
	"log/slog"
	"net"
	"net/http"
	"time"
)

// DefaultUserAgent は外部APIへ送るUser-Agentです。
const DefaultUserAgent = "stock-tracker/1.0"

// ClientOptions は外部API用クライアントの設定です。ゼロ値の項目は既定値になります。
type ClientOptions struct {
	// Timeout はリクエスト全体の上限です。0の場合は10秒。
	Timeout   time.Duration
	UserAgent string
	// MaxIdleConnsPerHost は同一ホストへの再利用接続数です。外部APIは1ホストなので既定の2より多めにします。
	MaxIdleConnsPerHost int
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.MaxIdleConnsPerHost <= 0 {
		o.MaxIdleConnsPerHost = 10
	}
	return o
}

// NewHTTPClient は外部API呼び出し用のクライアントを作成します。
// http.DefaultClientにはタイムアウトがないため使いません。
func NewHTTPClient(opts ClientOptions) *http.Client {
	opts = opts.withDefaults()
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: &loggingTransport{base: t, userAgent: opts.UserAgent},
	}
}

// loggingTransport はUser-Agentを付与し、呼び出し結果をdebugレベルで記録します。
// クエリ文字列にはAPIキーが含まれるためログにはホストとパスのみ残します。
type loggingTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTripperはリクエストを変更してはいけないので複製する
	r := req.Clone(req.Context())
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", t.userAgent)
	}

	start := time.Now()
	res, err := t.base.RoundTrip(r)
	attrs := []any{"host", r.URL.Host, "path", r.URL.Path, "latency", time.Since(start)}
	if err != nil {
		slog.Debug("external request failed", append(attrs, "error", err)...)
		return nil, err
	}
	slog.Debug("external request", append(attrs, "status", res.StatusCode)...)
	return res, nil
}
