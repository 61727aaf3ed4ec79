package processor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
)

// callModel 向LLM发起一次系统提示+用户提示的调用并返回文本响应。
// 可重试错误（超时/连接中断等）最多重试2次，每次退避时间翻倍。
// 上游API的业务失败（鉴权/配额）不属于可重试错误，直接向上返回。
func callModel(ctx context.Context, llm model.ToolCallingChatModel, systemContent string, userContent string) (string, error) {
	return callModelMessages(ctx, llm, []*einoschema.Message{
		{Role: "system", Content: systemContent},
		{Role: "user", Content: userContent},
	})
}

// callModelMessages 同callModel，但由调用方自行组装多轮消息序列
func callModelMessages(ctx context.Context, llm model.ToolCallingChatModel, messages []*einoschema.Message) (string, error) {
	maxRetries := 2
	retryDelay := 2 * time.Second

	var response *einoschema.Message
	var err error

	for retry := 0; retry <= maxRetries; retry++ {
		if retry > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("上下文已取消: %w", ctx.Err())
			case <-time.After(retryDelay):
				retryDelay *= 2
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		response, err = llm.Generate(callCtx, messages)
		cancel()

		if err == nil {
			break
		}

		if !isRetryableError(err) || retry >= maxRetries {
			return "", fmt.Errorf("LLM Generate failed: %w", err)
		}
	}

	return response.Content, nil
}

// isRetryableError 判断错误是否应该重试
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host")
}
