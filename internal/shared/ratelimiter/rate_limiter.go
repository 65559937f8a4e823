// Package ratelimiter は外部API呼び出しの頻度を制限します。
package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Wait(ctx context.Context) error
}

// RateLimiter は interval ごとに最大 limit 回まで呼び出しを許可します。
// 複数のgoroutineから同時に使用できます。
type RateLimiter struct {
	mu          sync.Mutex
	limit       int           // interval あたりの上限
	interval    time.Duration // どの単位でリセットするか
	count       int
	windowStart time.Time
	now         func() time.Time
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。limit が0以下の場合は制限しません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:       limit,
		interval:    interval,
		windowStart: time.Now(),
		now:         time.Now,
	}
}

// Wait は枠を1つ確保し、確保した枠の時間窓が始まるまで待機します。
// ctx がキャンセルされた場合は待機を中断してctxのエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	d := rl.reserve()
	if d <= 0 {
		return nil
	}
	slog.Info("rate limit reached, waiting", "limit", rl.limit, "wait", d)

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// reserve は次に使える枠を予約し、その窓が始まるまでの待ち時間を返します。
func (rl *RateLimiter) reserve() time.Duration {
	if rl.limit <= 0 || rl.interval <= 0 {
		return 0
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.windowStart) >= rl.interval {
		rl.windowStart = now
		rl.count = 0
	}
	if rl.count >= rl.limit {
		// 上限に達した場合は次の窓の枠を予約する
		rl.windowStart = rl.windowStart.Add(rl.interval)
		rl.count = 0
	}
	rl.count++
	return rl.windowStart.Sub(now)
}
