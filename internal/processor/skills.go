package processor

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/cloudwego/eino/components/model"

	"career-agent-go/internal/parser"
)

// 技能分类的固定类别集合
var skillCategories = []string{
	"Languages",
	"Frameworks & Libraries",
	"Tools & Platforms",
	"Databases",
	"Soft Skills",
	"Other",
}

// LLMSkillCategorizer 使用LLM从简历文本中按类别提取技能
type LLMSkillCategorizer struct {
	llm            model.ToolCallingChatModel
	promptTemplate string
	logger         *log.Logger
}

// SkillCategorizerOption 技能分类器的配置选项
type SkillCategorizerOption func(*LLMSkillCategorizer)

// WithSkillLogger 设置自定义日志记录器
func WithSkillLogger(logger *log.Logger) SkillCategorizerOption {
	return func(c *LLMSkillCategorizer) {
		c.logger = logger
	}
}

// NewLLMSkillCategorizer 创建技能分类器
func NewLLMSkillCategorizer(llm model.ToolCallingChatModel, options ...SkillCategorizerOption) *LLMSkillCategorizer {
	c := &LLMSkillCategorizer{
		llm:    llm,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.promptTemplate == "" {
		c.generatePromptTemplate()
	}
	return c
}

func (c *LLMSkillCategorizer) generatePromptTemplate() {
	c.promptTemplate = `你是一个技能提取专家。从简历文本中提取所有技能并按类别归类。

类别固定为以下六个，无内容的类别直接省略：
Languages, Frameworks & Libraries, Tools & Platforms, Databases, Soft Skills, Other

重要指令：
- 只提取简历中明确出现的技能，请勿推断或编造。
- 每个技能只归入一个最合适的类别。
- 技能名称保持原文写法（如 "Go"、"Spring Boot"）。

JSON输出格式规范：
{ "Languages": ["string"], "Databases": ["string"] }

请严格按照上述JSON格式输出，不要包含任何解释性文字或Markdown标记。`
}

// Categorize 按类别提取技能。
// 技能分类是可选的增强步骤，调用方在失败时应继续主流程（技能留空）。
func (c *LLMSkillCategorizer) Categorize(ctx context.Context, resumeText string) (map[string][]string, error) {
	response, err := callModel(ctx, c.llm, c.promptTemplate, resumeText)
	if err != nil {
		return nil, fmt.Errorf("技能分类调用失败: %w", err)
	}

	raw := parser.ExtractJSONObject(response, nil)
	if raw == nil {
		c.logger.Printf("无法从LLM响应中提取技能JSON。原始响应: %.200s", response)
		return nil, fmt.Errorf("无法从LLM响应中提取有效的技能JSON")
	}

	// 只保留固定类别，值强制转换为字符串数组
	result := make(map[string][]string)
	for _, category := range skillCategories {
		val, ok := raw[category]
		if !ok {
			continue
		}
		items, ok := val.([]any)
		if !ok {
			continue
		}
		var skills []string
		for _, item := range items {
			if s, isStr := item.(string); isStr && s != "" {
				skills = append(skills, s)
			}
		}
		if len(skills) > 0 {
			result[category] = skills
		}
	}

	c.logger.Printf("[SkillCategorizer] 提取到 %d 个类别", len(result))
	return result, nil
}

var _ SkillCategorizer = (*LLMSkillCategorizer)(nil)
