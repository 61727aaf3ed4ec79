package ratelimit

import (
	"context"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// RateLimitedChatModel 对LLM模型的调用进行限流的代理。
// 上游API按QPM计费限额，超限后返回429，代理在客户端侧先行削峰。
type RateLimitedChatModel struct {
	original    model.ToolCallingChatModel
	rateLimiter *TokenBucket
}

// 确保代理实现了被代理的接口
var _ model.ToolCallingChatModel = (*RateLimitedChatModel)(nil)

// NewRateLimitedChatModel 创建一个新的限流LLM模型代理
func NewRateLimitedChatModel(original model.ToolCallingChatModel, qpm int) *RateLimitedChatModel {
	if qpm <= 0 {
		qpm = 30
	}
	return &RateLimitedChatModel{
		original:    original,
		rateLimiter: NewTokenBucket(qpm, qpm/2), // 容量设为QPM的一半，允许一定的突发流量
	}
}

// WithRetryPolicy 设置重试策略
func (rl *RateLimitedChatModel) WithRetryPolicy(waitTime time.Duration, maxRetries int) *RateLimitedChatModel {
	rl.rateLimiter.WithRetryPolicy(waitTime, maxRetries)
	return rl
}

// Generate 代理Generate方法，增加限流和重试逻辑
func (rl *RateLimitedChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	var response *schema.Message

	err := rl.rateLimiter.RetryWithBackoff(ctx, func() error {
		var genErr error
		response, genErr = rl.original.Generate(ctx, messages, options...)
		return genErr
	})

	return response, err
}

// Stream 代理Stream方法，增加限流和重试逻辑
func (rl *RateLimitedChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	var stream *schema.StreamReader[*schema.Message]

	err := rl.rateLimiter.RetryWithBackoff(ctx, func() error {
		var streamErr error
		stream, streamErr = rl.original.Stream(ctx, messages, options...)
		return streamErr
	})

	return stream, err
}

// WithTools 代理WithTools方法，新模型沿用同一个限流器
func (rl *RateLimitedChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	newModel, err := rl.original.WithTools(tools)
	if err != nil {
		return nil, err
	}

	return &RateLimitedChatModel{
		original:    newModel,
		rateLimiter: rl.rateLimiter,
	}, nil
}
