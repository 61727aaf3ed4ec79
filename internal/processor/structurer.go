package processor

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/cloudwego/eino/components/model"

	"career-agent-go/internal/parser"
	"career-agent-go/internal/types"
)

// ResumeStructurer 使用LLM将简历纯文本提取为结构化记录
type ResumeStructurer struct {
	llm            model.ToolCallingChatModel
	promptTemplate string
	logger         *log.Logger
}

// StructurerOption 结构化提取器的配置选项
type StructurerOption func(*ResumeStructurer)

// WithStructurerLogger 设置自定义日志记录器
func WithStructurerLogger(logger *log.Logger) StructurerOption {
	return func(s *ResumeStructurer) {
		s.logger = logger
	}
}

// WithStructurerPrompt 覆盖默认提示词模板
func WithStructurerPrompt(prompt string) StructurerOption {
	return func(s *ResumeStructurer) {
		s.promptTemplate = prompt
	}
}

// NewResumeStructurer 创建简历结构化提取器
func NewResumeStructurer(llm model.ToolCallingChatModel, options ...StructurerOption) *ResumeStructurer {
	s := &ResumeStructurer{
		llm:    llm,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.promptTemplate == "" {
		s.generatePromptTemplate()
	}
	return s
}

func (s *ResumeStructurer) generatePromptTemplate() {
	s.promptTemplate = `你是一个专业的简历解析专家，负责从简历纯文本中提取结构化信息。

核心任务：
1. 提取个人信息：姓名、邮箱、电话、所在地、LinkedIn、GitHub，放入 "personal_info" 对象。
2. 提取个人摘要：如果简历包含摘要/自我评价/求职目标，放入 "summary" 字符串。
3. 提取经历章节：工作经历("work_experience")、实习经历("internships")、项目经历("projects")、教育经历("education")、证书("certifications")，每个章节为对象数组。
4. 每条经历保留身份字段（role/company/title/institution/degree/name、duration）和 "description"（字符串数组，每条一个要点）。
5. 无法归入上述章节的内容，以其语义化的英文snake_case键名原样保留为附加章节。

重要指令：
- 不要提取技能章节，技能由独立流程处理。
- 信息缺失时省略对应字段或章节，请勿编造信息。
- 身份字段必须与原文一致，不做任何改写。
- description 中的每条要点保持原文措辞，不做润色。

JSON输出格式规范：
{
  "personal_info": { "name": "string", "email": "string", "phone": "string", "location": "string", "linkedin": "string", "github": "string" },
  "summary": "string",
  "work_experience": [ { "role": "string", "company": "string", "duration": "string", "description": ["string"] } ],
  "internships": [ { "role": "string", "company": "string", "duration": "string", "description": ["string"] } ],
  "projects": [ { "title": "string", "duration": "string", "description": ["string"] } ],
  "education": [ { "institution": "string", "degree": "string", "duration": "string", "description": ["string"] } ],
  "certifications": [ { "name": "string", "issuer": "string", "date": "string" } ]
}

请严格按照上述JSON格式输出，不要包含任何解释性文字或Markdown标记。
接下来，你将收到一份简历文本，请对其进行分析。`
}

// Structure 提取结构化记录。
// 模型输出无法解析为JSON对象时返回错误：结构化提取是主流程，
// 没有记录就没有后续步骤可做。
func (s *ResumeStructurer) Structure(ctx context.Context, resumeText string) (types.ResumeRecord, error) {
	response, err := callModel(ctx, s.llm, s.promptTemplate, resumeText)
	if err != nil {
		return nil, fmt.Errorf("简历结构化调用失败: %w", err)
	}

	record := parser.ExtractJSONObject(response, nil)
	if record == nil {
		s.logger.Printf("无法从LLM响应中提取结构化记录。原始响应: %.200s", response)
		return nil, fmt.Errorf("无法从LLM响应中提取有效的JSON")
	}

	s.logger.Printf("[ResumeStructurer] 提取到 %d 个章节", len(record))
	return record, nil
}

var _ Structurer = (*ResumeStructurer)(nil)
