package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"

	"career-agent-go/internal/parser"
	"career-agent-go/internal/types"
)

// ErrEmptyTopic 辅导讲解的知识点为空
var ErrEmptyTopic = fmt.Errorf("知识点不能为空")

// LLMTutor 对规划里的知识点做结构化讲解，用户学习卡住时调用
type LLMTutor struct {
	llm    model.ToolCallingChatModel
	logger *log.Logger
}

// TutorOption 辅导组件的配置选项
type TutorOption func(*LLMTutor)

// WithTutorLogger 设置自定义日志记录器
func WithTutorLogger(logger *log.Logger) TutorOption {
	return func(t *LLMTutor) {
		t.logger = logger
	}
}

// NewLLMTutor 创建学习辅导组件
func NewLLMTutor(llm model.ToolCallingChatModel, options ...TutorOption) *LLMTutor {
	t := &LLMTutor{
		llm:    llm,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// Explain 对单个知识点给出类比、技术定义和前置概念
func (t *LLMTutor) Explain(ctx context.Context, topic string) (*types.TutorExplanation, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	systemPrompt := `你是一个友好耐心的技术导师。用户在学习计划中卡在了某个知识点上，你需要给出结构化的讲解。

JSON输出格式规范：
{
  "analogy": "string",
  "technical_definition": "string",
  "prerequisites": ["string"]
}

重要指令：
- analogy用一个贴近生活的类比帮用户直觉理解核心概念。
- technical_definition给出准确简洁的技术定义，涉及代码的知识点附一小段带注释的代码。
- prerequisites列出1-3个建议先补的前置概念，帮用户定位基础缺口。
- 请严格按照JSON格式输出，不要包含任何解释性文字或Markdown标记。`

	response, err := callModel(ctx, t.llm, systemPrompt, fmt.Sprintf("知识点: %s", topic))
	if err != nil {
		return nil, fmt.Errorf("知识点讲解调用失败: %w", err)
	}

	parsed := parser.ExtractJSONObject(response, nil)
	if parsed == nil {
		t.logger.Printf("[Tutor] 输出不可解析。原始响应: %.200s", response)
		return nil, fmt.Errorf("无法从LLM响应中提取讲解JSON")
	}

	data, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("讲解内容序列化失败: %w", err)
	}
	var explanation types.TutorExplanation
	if err := json.Unmarshal(data, &explanation); err != nil {
		return nil, fmt.Errorf("讲解内容反序列化失败: %w", err)
	}

	return &explanation, nil
}

var _ Tutor = (*LLMTutor)(nil)
