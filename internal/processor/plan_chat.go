package processor

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"

	"career-agent-go/internal/types"
)

// maxChatHistoryTurns 携带的历史消息上限，超出部分只保留最近的
const maxChatHistoryTurns = 20

// LLMPlanChat 围绕已生成的职业规划做多轮问答。
// 回答严格限定在规划范围内，范围外的问题礼貌拒答。
type LLMPlanChat struct {
	llm    model.ToolCallingChatModel
	logger *log.Logger
}

// PlanChatOption 规划问答组件的配置选项
type PlanChatOption func(*LLMPlanChat)

// WithPlanChatLogger 设置自定义日志记录器
func WithPlanChatLogger(logger *log.Logger) PlanChatOption {
	return func(c *LLMPlanChat) {
		c.logger = logger
	}
}

// NewLLMPlanChat 创建规划问答组件
func NewLLMPlanChat(llm model.ToolCallingChatModel, options ...PlanChatOption) *LLMPlanChat {
	c := &LLMPlanChat{
		llm:    llm,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Chat 基于职业规划上下文回答用户提问。plan为nil时按无规划处理，
// 模型会引导用户先生成规划。
func (c *LLMPlanChat) Chat(ctx context.Context, query string, history []types.ChatMessage, plan *types.CareerPlan) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("提问内容不能为空")
	}

	systemPrompt := fmt.Sprintf(`你是一个职业规划助手。你的职责是基于下面的职业规划，为用户提供简明、分点、适合初学者的指导。

职业规划详情：
%s

回答要求：
- 回答要简短、直接、适合初学者。
- 可以回答与规划相关的问题，包括匹配度评分、待补技能、时间线、阶段目标、项目和课程。
- 用户的问题超出规划范围时，礼貌拒答并把话题引回规划本身。`, summarizePlan(plan))

	messages := make([]*einoschema.Message, 0, len(history)+2)
	messages = append(messages, &einoschema.Message{Role: "system", Content: systemPrompt})

	if len(history) > maxChatHistoryTurns {
		history = history[len(history)-maxChatHistoryTurns:]
	}
	for _, msg := range history {
		role := "user"
		if msg.Role == "assistant" || msg.Role == "model" {
			role = "assistant"
		}
		messages = append(messages, &einoschema.Message{Role: einoschema.RoleType(role), Content: msg.Content})
	}
	messages = append(messages, &einoschema.Message{Role: "user", Content: query})

	response, err := callModelMessages(ctx, c.llm, messages)
	if err != nil {
		return "", fmt.Errorf("规划问答调用失败: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// summarizePlan 把规划压缩成问答的上下文文本
func summarizePlan(plan *types.CareerPlan) string {
	if plan == nil {
		return "用户还没有生成职业规划。引导用户先调用规划生成接口。"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "领域: %s\n", plan.Domain)
	fmt.Fprintf(&sb, "匹配度评分: %d\n", plan.JobMatchScore)
	if plan.Timeline != "" {
		fmt.Fprintf(&sb, "总时间线: %s\n", plan.Timeline)
	}
	for i, phase := range plan.Phases {
		fmt.Fprintf(&sb, "阶段%d: %s（%s）", i+1, phase.Name, phase.Duration)
		if len(phase.Skills) > 0 {
			fmt.Fprintf(&sb, " 技能: %s", strings.Join(phase.Skills, ", "))
		}
		if len(phase.Goals) > 0 {
			fmt.Fprintf(&sb, " 目标: %s", strings.Join(phase.Goals, "; "))
		}
		sb.WriteString("\n")
	}
	if len(plan.Projects) > 0 {
		fmt.Fprintf(&sb, "建议项目: %s\n", strings.Join(plan.Projects, "; "))
	}
	if len(plan.Courses) > 0 {
		fmt.Fprintf(&sb, "建议课程: %s\n", strings.Join(plan.Courses, "; "))
	}
	return sb.String()
}

var _ PlanChatter = (*LLMPlanChat)(nil)
