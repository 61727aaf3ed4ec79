package processor

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"

	"career-agent-go/internal/parser"
	"career-agent-go/internal/types"
)

// LLMJobRater 在单次LLM调用中对一批岗位给出与简历的匹配评分。
// 逐岗位调用成本过高，这里把所有岗位编号后一次性送入模型。
type LLMJobRater struct {
	llm    model.ToolCallingChatModel
	logger *log.Logger
}

// maxJobDescRunes 送入评分提示词的单个岗位描述长度上限
const maxJobDescRunes = 600

// truncateRunes 按字符数截断字符串，保证多字节字符不被截成半个
func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// JobRaterOption 岗位评分器的配置选项
type JobRaterOption func(*LLMJobRater)

// WithJobRaterLogger 设置自定义日志记录器
func WithJobRaterLogger(logger *log.Logger) JobRaterOption {
	return func(r *LLMJobRater) {
		r.logger = logger
	}
}

// NewLLMJobRater 创建岗位评分器
func NewLLMJobRater(llm model.ToolCallingChatModel, options ...JobRaterOption) *LLMJobRater {
	r := &LLMJobRater{
		llm:    llm,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// defaultRatings 评分不可用时的兜底结果：每个岗位0分并注明原因
func defaultRatings(jobs []types.JobListing, reason string) []types.JobRating {
	ratings := make([]types.JobRating, len(jobs))
	for i, job := range jobs {
		ratings[i] = types.JobRating{
			JobID:  job.ID,
			Rating: 0,
			Reason: reason,
		}
	}
	return ratings
}

// RateJobs 对岗位列表评分。
// 评分是增强信息而非主流程：任何失败都降级为兜底评分，永不返回错误。
func (r *LLMJobRater) RateJobs(ctx context.Context, resumeText string, jobs []types.JobListing) []types.JobRating {
	if len(jobs) == 0 {
		return nil
	}

	var jobsBlock strings.Builder
	for i, job := range jobs {
		desc := truncateRunes(job.Description, maxJobDescRunes)
		fmt.Fprintf(&jobsBlock, "岗位 %d:\n标题: %s\n公司: %s\n描述: %s\n\n", i, job.Title, job.Company, desc)
	}

	systemPrompt := `你是一个职业匹配顾问。根据候选人简历对每个岗位给出1-10的匹配分数和一句话理由。

JSON输出格式规范：
[ { "id": 0, "rating": 8, "reason": "string" } ]

重要指令：
- 必须对每个岗位都输出一条评分，id与岗位编号一致。
- rating为1-10的整数，10表示高度匹配。
- 请严格按照JSON数组格式输出，不要包含任何解释性文字或Markdown标记。`

	userPrompt := fmt.Sprintf("候选人简历:\n%s\n\n待评分岗位列表:\n%s", resumeText, jobsBlock.String())

	response, err := callModel(ctx, r.llm, systemPrompt, userPrompt)
	if err != nil {
		r.logger.Printf("[JobRater] 评分调用失败: %v", err)
		return defaultRatings(jobs, "评分服务暂时不可用")
	}

	parsed := parser.ExtractJSONArray(response, nil)
	if parsed == nil {
		r.logger.Printf("[JobRater] 评分输出不可解析。原始响应: %.200s", response)
		return defaultRatings(jobs, "评分结果无法解析")
	}

	// 先填兜底值，再用模型返回的条目覆盖，缺失的岗位保持兜底
	ratings := defaultRatings(jobs, "模型未返回该岗位的评分")
	for _, item := range parsed {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		idx, ok := entry["id"].(float64)
		if !ok || int(idx) < 0 || int(idx) >= len(jobs) {
			continue
		}
		rating := ratings[int(idx)]
		if score, ok := entry["rating"].(float64); ok {
			rating.Rating = int(score)
		}
		if reason, ok := entry["reason"].(string); ok && reason != "" {
			rating.Reason = reason
		}
		ratings[int(idx)] = rating
	}

	return ratings
}

var _ JobRater = (*LLMJobRater)(nil)
