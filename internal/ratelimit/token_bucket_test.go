package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketAllow(t *testing.T) {
	// 容量2，速率极低，连续请求应在耗尽后被拒绝
	tb := NewTokenBucket(1, 2)

	assert.True(t, tb.Allow(), "第一个请求应该被允许")
	assert.True(t, tb.Allow(), "第二个请求应该被允许")
	assert.False(t, tb.Allow(), "令牌耗尽后请求应该被拒绝")
}

func TestTokenBucketDefaultCapacity(t *testing.T) {
	tb := NewTokenBucket(10, 0)
	assert.Equal(t, 5.0, tb.capacity, "未指定容量时应为QPM的一半")

	tb = NewTokenBucket(1, 0)
	assert.Equal(t, 1.0, tb.capacity, "容量最小为1")
}

func TestTokenBucketWaitCancelled(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	require.True(t, tb.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := tb.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "上下文超时应中断等待")
}

func TestRetryWithBackoffNonRetryable(t *testing.T) {
	tb := NewTokenBucket(600, 10).WithRetryPolicy(10*time.Millisecond, 3)

	calls := 0
	permanentErr := errors.New("invalid api key")
	err := tb.RetryWithBackoff(context.Background(), func() error {
		calls++
		return permanentErr
	})

	assert.ErrorIs(t, err, permanentErr)
	assert.Equal(t, 1, calls, "不可重试错误不应该触发重试")
}

func TestRetryWithBackoffRetryable(t *testing.T) {
	tb := NewTokenBucket(600, 10).WithRetryPolicy(time.Millisecond, 3)

	calls := 0
	err := tb.RetryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection reset by peer")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls, "可重试错误应重试到成功为止")
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, isRetryableError(nil))
	assert.True(t, isRetryableError(errors.New("429 Too Many Requests")))
	assert.True(t, isRetryableError(errors.New("dial tcp: i/o timeout")))
	assert.False(t, isRetryableError(errors.New("400 bad request")))
}
