package processor

import (
	"io"
	"log"
)

// ProcessorOption 处理器选项函数类型
type ProcessorOption func(*ResumeProcessor)

// WithTextExtractor 设置文本提取组件
func WithTextExtractor(extractor TextExtractor) ProcessorOption {
	return func(p *ResumeProcessor) {
		p.TextExtractor = extractor
	}
}

// WithStructurer 设置简历结构化组件
func WithStructurer(structurer Structurer) ProcessorOption {
	return func(p *ResumeProcessor) {
		p.Structurer = structurer
	}
}

// WithSkillCategorizer 设置技能分类组件
func WithSkillCategorizer(categorizer SkillCategorizer) ProcessorOption {
	return func(p *ResumeProcessor) {
		p.SkillCategorizer = categorizer
	}
}

// WithOptimizer 设置简历优化组件
func WithOptimizer(optimizer Optimizer) ProcessorOption {
	return func(p *ResumeProcessor) {
		p.Optimizer = optimizer
	}
}

// WithLinkedInGenerator 设置领英内容生成组件
func WithLinkedInGenerator(generator LinkedInGenerator) ProcessorOption {
	return func(p *ResumeProcessor) {
		p.LinkedInGenerator = generator
	}
}

// WithJobRater 设置岗位评分组件
func WithJobRater(rater JobRater) ProcessorOption {
	return func(p *ResumeProcessor) {
		p.JobRater = rater
	}
}

// WithRoadmapGenerator 设置职业规划组件
func WithRoadmapGenerator(generator RoadmapGenerator) ProcessorOption {
	return func(p *ResumeProcessor) {
		p.RoadmapGenerator = generator
	}
}

// WithTutor 设置学习辅导组件
func WithTutor(tutor Tutor) ProcessorOption {
	return func(p *ResumeProcessor) {
		p.Tutor = tutor
	}
}

// WithPlanChatter 设置规划问答组件
func WithPlanChatter(chatter PlanChatter) ProcessorOption {
	return func(p *ResumeProcessor) {
		p.PlanChatter = chatter
	}
}

// WithDebug 开启调试模式
func WithDebug(debug bool) ProcessorOption {
	return func(p *ResumeProcessor) {
		p.Config.Debug = debug
	}
}

// WithProcessorLogger 设置日志记录器
func WithProcessorLogger(logger *log.Logger) ProcessorOption {
	return func(p *ResumeProcessor) {
		p.Config.Logger = logger
	}
}

// WithSilentLogger 静默日志输出，测试时使用
func WithSilentLogger() ProcessorOption {
	return func(p *ResumeProcessor) {
		p.Config.Logger = log.New(io.Discard, "", 0)
	}
}
