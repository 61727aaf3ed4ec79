package processor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-agent-go/internal/agent"
	"career-agent-go/internal/types"
)

func samplePlan() *types.CareerPlan {
	return &types.CareerPlan{
		Domain:        "后端开发",
		JobMatchScore: 72,
		Timeline:      "6个月",
		Phases: []types.CareerPlanPhase{
			{Name: "打基础", Duration: "2个月", Goals: []string{"掌握Go语法"}, Skills: []string{"Go", "SQL"}},
			{Name: "做项目", Duration: "4个月", Goals: []string{"完成一个完整服务"}, Skills: []string{"gRPC", "Docker"}},
		},
		Projects: []string{"短链接服务"},
		Courses:  []string{"Go进阶训练营"},
	}
}

// TestPlanChat 测试基于规划上下文的问答
func TestPlanChat(t *testing.T) {
	mockLLM := agent.NewMockChatClient("  建议你先完成打基础阶段的Go语法学习。  ", nil)
	chat := NewLLMPlanChat(mockLLM)

	answer, err := chat.Chat(context.Background(), "我下一步该学什么？", nil, samplePlan())
	require.NoError(t, err)
	assert.Equal(t, "建议你先完成打基础阶段的Go语法学习。", answer, "回答应去除首尾空白")
}

// TestPlanChatEmptyQuery 测试空提问直接报错
func TestPlanChatEmptyQuery(t *testing.T) {
	mockLLM := agent.NewMockChatClient("好的", nil)
	chat := NewLLMPlanChat(mockLLM)

	_, err := chat.Chat(context.Background(), "  ", nil, samplePlan())
	require.Error(t, err)
}

// TestPlanChatNilPlan 测试规划缺失时按无规划上下文处理，不报错
func TestPlanChatNilPlan(t *testing.T) {
	mockLLM := agent.NewMockChatClient("你还没有生成职业规划，先告诉我你的目标岗位吧。", nil)
	chat := NewLLMPlanChat(mockLLM)

	answer, err := chat.Chat(context.Background(), "帮我看看规划", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, answer, "还没有生成")
}

// TestPlanChatHistoryTruncated 测试超长历史只保留最近的消息
func TestPlanChatHistoryTruncated(t *testing.T) {
	history := make([]types.ChatMessage, 0, maxChatHistoryTurns+5)
	for i := 0; i < maxChatHistoryTurns+5; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		history = append(history, types.ChatMessage{Role: role, Content: "消息"})
	}

	mockLLM := agent.NewMockChatClient("收到", nil)
	chat := NewLLMPlanChat(mockLLM)

	_, err := chat.Chat(context.Background(), "继续", history, samplePlan())
	require.NoError(t, err)
}

// TestSummarizePlan 测试规划摘要包含问答需要的关键信息
func TestSummarizePlan(t *testing.T) {
	summary := summarizePlan(samplePlan())

	assert.Contains(t, summary, "后端开发")
	assert.Contains(t, summary, "72")
	assert.Contains(t, summary, "打基础")
	assert.Contains(t, summary, "短链接服务")
	assert.Contains(t, summary, "Go进阶训练营")
	assert.Equal(t, 2, strings.Count(summary, "阶段"), "每个阶段各出现一次")
}
