package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-agent-go/internal/agent"
)

// TestTutorExplain 测试知识点讲解的结构化输出
func TestTutorExplain(t *testing.T) {
	mockResponse := `{
		"analogy": "goroutine就像餐厅里的服务员，一个厨房可以同时服务很多桌客人。",
		"technical_definition": "goroutine是Go运行时调度的轻量级线程，用go关键字启动。",
		"prerequisites": ["并发与并行的区别", "channel基础"]
	}`

	mockLLM := agent.NewMockChatClient(mockResponse, nil)
	tutor := NewLLMTutor(mockLLM)

	explanation, err := tutor.Explain(context.Background(), "goroutine")
	require.NoError(t, err)

	assert.Contains(t, explanation.Analogy, "服务员")
	assert.Contains(t, explanation.TechnicalDefinition, "轻量级线程")
	assert.Equal(t, []string{"并发与并行的区别", "channel基础"}, explanation.Prerequisites)
}

// TestTutorExplainEmptyTopic 测试空知识点直接报错，不触发模型调用
func TestTutorExplainEmptyTopic(t *testing.T) {
	mockLLM := agent.NewMockChatClient("{}", nil)
	tutor := NewLLMTutor(mockLLM)

	_, err := tutor.Explain(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyTopic)
}

// TestTutorExplainUnparseable 测试不可解析的输出返回错误
func TestTutorExplainUnparseable(t *testing.T) {
	mockLLM := agent.NewMockChatClient("这个概念很简单，听我慢慢讲。", nil)
	tutor := NewLLMTutor(mockLLM)

	_, err := tutor.Explain(context.Background(), "依赖注入")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "无法从LLM响应中提取")
}

// TestTutorExplainUpstreamError 测试模型调用失败时错误向上传递
func TestTutorExplainUpstreamError(t *testing.T) {
	mockLLM := agent.NewMockChatClient("", errors.New("API配额耗尽"))
	tutor := NewLLMTutor(mockLLM)

	_, err := tutor.Explain(context.Background(), "闭包")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "知识点讲解调用失败")
}
