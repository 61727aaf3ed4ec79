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

// LinkedInOptimizer 根据结构化记录生成领英标题、关于我和改写后的经历描述
type LinkedInOptimizer struct {
	llm    model.ToolCallingChatModel
	logger *log.Logger
}

// LinkedInOption 领英优化器的配置选项
type LinkedInOption func(*LinkedInOptimizer)

// WithLinkedInLogger 设置自定义日志记录器
func WithLinkedInLogger(logger *log.Logger) LinkedInOption {
	return func(l *LinkedInOptimizer) {
		l.logger = logger
	}
}

// NewLinkedInOptimizer 创建领英内容优化器
func NewLinkedInOptimizer(llm model.ToolCallingChatModel, options ...LinkedInOption) *LinkedInOptimizer {
	l := &LinkedInOptimizer{
		llm:    llm,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// buildResumeContext 将结构化记录压平为提示词用的上下文文本。
// 附加章节也一并纳入，它们往往包含对领英内容有价值的信息（获奖、开源等）。
func buildResumeContext(record types.ResumeRecord) string {
	var sb strings.Builder

	writeSection := func(key string) {
		val, ok := record[key]
		if !ok {
			return
		}
		sb.WriteString("## ")
		sb.WriteString(key)
		sb.WriteString("\n")
		switch v := val.(type) {
		case string:
			sb.WriteString(v)
		case []any:
			sb.WriteString(parser.StringifyListContent(v))
		case map[string]any:
			data, _ := json.Marshal(v)
			sb.WriteString(string(data))
		default:
			sb.WriteString(fmt.Sprint(v))
		}
		sb.WriteString("\n\n")
	}

	seen := make(map[string]bool)
	for _, key := range types.CanonicalSectionOrder {
		writeSection(key)
		seen[key] = true
	}
	for key := range record {
		if !seen[key] {
			writeSection(key)
		}
	}
	return sb.String()
}

// GenerateContent 生成领英内容
func (l *LinkedInOptimizer) GenerateContent(ctx context.Context, record types.ResumeRecord, userRequest string) (*types.LinkedInContent, error) {
	systemPrompt := `你是一个领英个人主页优化专家。根据简历内容生成适合领英的个人品牌内容。

核心任务：
1. "headlines": 生成3-5条候选标题，每条不超过220字符，突出核心定位和关键技能。
2. "about_section": 生成"关于我"段落，第一人称，3-5段，有吸引力且专业。
3. "optimized_experiences": 将工作/实习经历的描述改写为领英风格（成果导向、量化）。
4. "optimized_projects": 将项目经历的描述改写为领英风格。

重要指令：
- 不得编造简历中不存在的经历或数据。
- 职位名称、公司名称等身份信息保持原文。

JSON输出格式规范：
{
  "headlines": ["string"],
  "about_section": "string",
  "optimized_experiences": [ { "title": "string", "description": ["string"] } ],
  "optimized_projects": [ { "title": "string", "description": ["string"] } ]
}

请严格按照上述JSON格式输出，不要包含任何解释性文字或Markdown标记。`

	userPrompt := buildResumeContext(record)
	if strings.TrimSpace(userRequest) != "" {
		userPrompt = fmt.Sprintf("用户额外要求: %s\n\n%s", userRequest, userPrompt)
	}

	response, err := callModel(ctx, l.llm, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("领英内容生成调用失败: %w", err)
	}

	parsed := parser.ExtractJSONObject(response, nil)
	if parsed == nil {
		l.logger.Printf("[LinkedInOptimizer] 输出不可解析。原始响应: %.200s", response)
		return nil, fmt.Errorf("无法从LLM响应中提取领英内容JSON")
	}

	// 经过提取器后已是合法JSON，走一次序列化往返填充强类型结构
	data, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("领英内容序列化失败: %w", err)
	}
	var content types.LinkedInContent
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("领英内容反序列化失败: %w", err)
	}

	return &content, nil
}

var _ LinkedInGenerator = (*LinkedInOptimizer)(nil)
