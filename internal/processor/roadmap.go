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

// LLMRoadmapGenerator 根据用户目标和简历背景生成职业发展规划
type LLMRoadmapGenerator struct {
	llm    model.ToolCallingChatModel
	logger *log.Logger
}

// RoadmapOption 规划生成器的配置选项
type RoadmapOption func(*LLMRoadmapGenerator)

// WithRoadmapLogger 设置自定义日志记录器
func WithRoadmapLogger(logger *log.Logger) RoadmapOption {
	return func(g *LLMRoadmapGenerator) {
		g.logger = logger
	}
}

// NewLLMRoadmapGenerator 创建职业规划生成器
func NewLLMRoadmapGenerator(llm model.ToolCallingChatModel, options ...RoadmapOption) *LLMRoadmapGenerator {
	g := &LLMRoadmapGenerator{
		llm:    llm,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// GeneratePlan 生成职业规划。记录可以为nil（用户尚未上传简历时只依据请求参数）。
func (g *LLMRoadmapGenerator) GeneratePlan(ctx context.Context, req types.CareerPlanRequest, record types.ResumeRecord) (*types.CareerPlan, error) {
	systemPrompt := `你是一个职业发展规划专家。根据用户的目标岗位和当前背景生成可执行的行动计划。

JSON输出格式规范：
{
  "domain": "string",
  "job_match_score": 0,
  "timeline": "string",
  "phases": [ { "name": "string", "duration": "string", "goals": ["string"], "skills": ["string"] } ],
  "projects": ["string"],
  "courses": ["string"]
}

重要指令：
- job_match_score为0-100的整数，表示当前背景与目标岗位的匹配度。
- phases按时间顺序排列，每个阶段有明确可验证的目标。
- projects和courses给出具体可操作的建议，不要空泛。
- 请严格按照JSON格式输出，不要包含任何解释性文字或Markdown标记。`

	var sb strings.Builder
	fmt.Fprintf(&sb, "目标岗位: %s\n", req.TargetRole)
	if req.PreferredDomain != "" {
		fmt.Fprintf(&sb, "意向领域: %s\n", req.PreferredDomain)
	}
	if req.TimelineMonths > 0 {
		fmt.Fprintf(&sb, "期望时间: %d个月\n", req.TimelineMonths)
	}
	if req.WeeklyHours > 0 {
		fmt.Fprintf(&sb, "每周可投入: %d小时\n", req.WeeklyHours)
	}
	if len(req.CurrentSkills) > 0 {
		fmt.Fprintf(&sb, "现有技能: %s\n", strings.Join(req.CurrentSkills, ", "))
	}
	if record != nil {
		sb.WriteString("\n候选人简历背景:\n")
		sb.WriteString(buildResumeContext(record))
	}

	response, err := callModel(ctx, g.llm, systemPrompt, sb.String())
	if err != nil {
		return nil, fmt.Errorf("职业规划生成调用失败: %w", err)
	}

	parsed := parser.ExtractJSONObject(response, nil)
	if parsed == nil {
		g.logger.Printf("[RoadmapGenerator] 输出不可解析。原始响应: %.200s", response)
		return nil, fmt.Errorf("无法从LLM响应中提取职业规划JSON")
	}

	data, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("职业规划序列化失败: %w", err)
	}
	var plan types.CareerPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("职业规划反序列化失败: %w", err)
	}

	return &plan, nil
}

var _ RoadmapGenerator = (*LLMRoadmapGenerator)(nil)
