package generator

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	// DefaultMaxAttempts は初回を含めた最大試行回数です。
	DefaultMaxAttempts = 3
	// DefaultInitialBackoff は1回目のリトライ前の待機時間です。以降は倍々で増えます。
	DefaultInitialBackoff = time.Second
)

// RetryPolicy は生成APIの呼び出しに適用するリトライ設定です。
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	// NewTimer はテストで待機を差し替えるためのフックです。nil なら実時間で待機します。
	NewTimer func() backoff.Timer
}

// DefaultRetryPolicy は 3 回試行・1s→2s の指数バックオフです。
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    DefaultMaxAttempts,
		InitialBackoff: DefaultInitialBackoff,
	}
}

func (p RetryPolicy) newBackOff(ctx context.Context) backoff.BackOffContext {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialBackoff
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxInterval = p.InitialBackoff << (max(p.MaxAttempts, 1) - 1)
	exp.MaxElapsedTime = 0

	retries := uint64(max(p.MaxAttempts, 1) - 1)
	return backoff.WithContext(backoff.WithMaxRetries(exp, retries), ctx)
}

// retry は op を実行し、恒久的なエラーでなければバックオフを挟んで再試行します。
// 恒久的なエラーは即座に返し、試行回数を使い切った場合は最後のエラーを返します。
func (p RetryPolicy) retry(ctx context.Context, logger *zap.Logger, op func(attempt int) error) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := op(attempt)
		if err == nil {
			return nil
		}
		if kind := ClassifyRemoteError(err); kind.Permanent() {
			logger.Warn("リトライ対象外のエラーのため中断します",
				zap.Int("attempt", attempt), zap.Stringer("kind", kind), zap.Error(err))
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("生成APIの呼び出しに失敗しました。リトライします",
			zap.Int("attempt", attempt), zap.Int("max_attempts", p.MaxAttempts),
			zap.Duration("backoff", wait), zap.Error(err))
	}

	var timer backoff.Timer
	if p.NewTimer != nil {
		timer = p.NewTimer()
	}
	err := backoff.RetryNotifyWithTimer(operation, p.newBackOff(ctx), notify, timer)
	if err != nil && attempt >= p.MaxAttempts {
		logger.Error("リトライ上限に達しました", zap.Int("attempts", attempt), zap.Error(err))
	}
	return err
}
