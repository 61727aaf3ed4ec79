package processor

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"

	"career-agent-go/internal/agent"
	"career-agent-go/internal/config"
	"career-agent-go/internal/parser"
	"career-agent-go/internal/ratelimit"
)

// LLM任务名，config.task_models里用这些键为单个任务指定专用模型
const (
	TaskStructure = "structure"
	TaskSkills    = "skills"
	TaskOptimize  = "optimize"
	TaskLinkedIn  = "linkedin"
	TaskJobRating = "job_rating"
	TaskRoadmap   = "roadmap"
	TaskTutor     = "tutor"
	TaskChat      = "chat"
)

// ResumeProcessor 简历处理组件聚合类。
// 不控制处理流程，仅提供组件集合，流程编排在API层完成。
type ResumeProcessor struct {
	TextExtractor     TextExtractor     // 文件文本提取
	Structurer        Structurer        // 文本结构化
	SkillCategorizer  SkillCategorizer  // 技能分类提取
	Optimizer         Optimizer         // 简历优化
	LinkedInGenerator LinkedInGenerator // 领英内容生成
	JobRater          JobRater          // 岗位匹配评分
	RoadmapGenerator  RoadmapGenerator  // 职业规划生成
	Tutor             Tutor             // 知识点讲解
	PlanChatter       PlanChatter       // 规划问答

	// 配置
	Config ComponentConfig
}

// ComponentConfig 组件配置
type ComponentConfig struct {
	Debug  bool        // 是否开启调试模式
	Logger *log.Logger // 日志记录器
}

// NewResumeProcessor 创建简历处理组件聚合实例，组件通过选项注入
func NewResumeProcessor(options ...ProcessorOption) *ResumeProcessor {
	p := &ResumeProcessor{
		Config: ComponentConfig{
			Debug:  false,
			Logger: log.New(log.Writer(), "[ResumeProcessor] ", log.LstdFlags),
		},
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// NewStandardProcessor 按配置构建全部标准组件。
// 未配置task_models的任务共用传入的默认聊天模型；
// 配置了专用模型的任务各自拿到独立客户端，同名模型复用同一个客户端。
func NewStandardProcessor(ctx context.Context, cfg *config.Config, llm model.ToolCallingChatModel, options ...ProcessorOption) (*ResumeProcessor, error) {
	if llm == nil {
		return nil, fmt.Errorf("聊天模型不能为空")
	}

	extractor, err := parser.NewTextExtractor(ctx)
	if err != nil {
		return nil, fmt.Errorf("初始化文本提取器失败: %w", err)
	}

	modelFor := taskModelResolver(cfg, llm)
	structureLLM, err := modelFor(TaskStructure)
	if err != nil {
		return nil, err
	}
	skillsLLM, err := modelFor(TaskSkills)
	if err != nil {
		return nil, err
	}
	optimizeLLM, err := modelFor(TaskOptimize)
	if err != nil {
		return nil, err
	}
	linkedinLLM, err := modelFor(TaskLinkedIn)
	if err != nil {
		return nil, err
	}
	jobRatingLLM, err := modelFor(TaskJobRating)
	if err != nil {
		return nil, err
	}
	roadmapLLM, err := modelFor(TaskRoadmap)
	if err != nil {
		return nil, err
	}
	tutorLLM, err := modelFor(TaskTutor)
	if err != nil {
		return nil, err
	}
	chatLLM, err := modelFor(TaskChat)
	if err != nil {
		return nil, err
	}

	base := []ProcessorOption{
		WithTextExtractor(extractor),
		WithStructurer(NewResumeStructurer(structureLLM)),
		WithSkillCategorizer(NewLLMSkillCategorizer(skillsLLM)),
		WithOptimizer(NewResumeOptimizer(optimizeLLM)),
		WithLinkedInGenerator(NewLinkedInOptimizer(linkedinLLM)),
		WithJobRater(NewLLMJobRater(jobRatingLLM)),
		WithRoadmapGenerator(NewLLMRoadmapGenerator(roadmapLLM)),
		WithTutor(NewLLMTutor(tutorLLM)),
		WithPlanChatter(NewLLMPlanChat(chatLLM)),
	}

	return NewResumeProcessor(append(base, options...)...), nil
}

// taskModelResolver 按任务名解析聊天模型。默认模型名映射到注入的实例，
// 专用模型名按需创建客户端并缓存，限流配置对专用客户端同样生效。
func taskModelResolver(cfg *config.Config, fallback model.ToolCallingChatModel) func(task string) (model.ToolCallingChatModel, error) {
	cache := map[string]model.ToolCallingChatModel{cfg.OpenAI.Model: fallback}
	return func(task string) (model.ToolCallingChatModel, error) {
		name := cfg.GetModelForTask(task)
		if cached, ok := cache[name]; ok {
			return cached, nil
		}
		client, err := agent.NewOpenAIChatModel(cfg.OpenAI.APIKey, name, cfg.OpenAI.APIURL)
		if err != nil {
			return nil, fmt.Errorf("初始化任务 %s 的专用模型 %s 失败: %w", task, name, err)
		}
		var resolved model.ToolCallingChatModel = client
		if cfg.OpenAI.QPM > 0 {
			resolved = ratelimit.NewRateLimitedChatModel(client, cfg.OpenAI.QPM)
		}
		cache[name] = resolved
		return resolved, nil
	}
}
