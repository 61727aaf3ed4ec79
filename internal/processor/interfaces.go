package processor

import (
	"context"

	"career-agent-go/internal/types"
)

// TextExtractor 从上传的简历文件中提取纯文本
type TextExtractor interface {
	SupportsFileType(fileName string) bool
	ExtractText(ctx context.Context, data []byte, fileName string) (string, error)
}

// Structurer 将简历纯文本提取为结构化记录
type Structurer interface {
	Structure(ctx context.Context, resumeText string) (types.ResumeRecord, error)
}

// SkillCategorizer 从简历文本中按类别提取技能。
// 这是可选的增强步骤，失败不应中止上传主流程。
type SkillCategorizer interface {
	Categorize(ctx context.Context, resumeText string) (map[string][]string, error)
}

// Optimizer 根据用户指令优化结构化记录（定向章节或整份简历）
type Optimizer interface {
	Optimize(ctx context.Context, record types.ResumeRecord, userRequest string) (types.ResumeRecord, error)
}

// LinkedInGenerator 根据结构化记录生成领英内容
type LinkedInGenerator interface {
	GenerateContent(ctx context.Context, record types.ResumeRecord, userRequest string) (*types.LinkedInContent, error)
}

// JobRater 对一组岗位给出与简历的匹配评分
type JobRater interface {
	RateJobs(ctx context.Context, resumeText string, jobs []types.JobListing) []types.JobRating
}

// RoadmapGenerator 生成职业发展规划
type RoadmapGenerator interface {
	GeneratePlan(ctx context.Context, req types.CareerPlanRequest, record types.ResumeRecord) (*types.CareerPlan, error)
}

// Tutor 对规划里的知识点做结构化讲解
type Tutor interface {
	Explain(ctx context.Context, topic string) (*types.TutorExplanation, error)
}

// PlanChatter 围绕职业规划做多轮问答
type PlanChatter interface {
	Chat(ctx context.Context, query string, history []types.ChatMessage, plan *types.CareerPlan) (string, error)
}
