package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sort"

	"github.com/cloudwego/eino/components/model"

	"career-agent-go/internal/parser"
	"career-agent-go/internal/types"
)

// ResumeOptimizer 根据用户指令优化结构化记录。
// 指令形如 "projects: quantify impact" 时只优化定向章节，
// 否则将整份简历交给模型按指令改写。
type ResumeOptimizer struct {
	llm    model.ToolCallingChatModel
	logger *log.Logger
}

// OptimizerOption 优化器的配置选项
type OptimizerOption func(*ResumeOptimizer)

// WithOptimizerLogger 设置自定义日志记录器
func WithOptimizerLogger(logger *log.Logger) OptimizerOption {
	return func(o *ResumeOptimizer) {
		o.logger = logger
	}
}

// NewResumeOptimizer 创建简历优化器
func NewResumeOptimizer(llm model.ToolCallingChatModel, options ...OptimizerOption) *ResumeOptimizer {
	o := &ResumeOptimizer{
		llm:    llm,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// availableSectionKeys 返回记录的章节键，规范章节在前、其余按字典序。
// 模糊匹配器按迭代顺序取第一个命中，顺序必须稳定。
func availableSectionKeys(record types.ResumeRecord) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, k := range types.CanonicalSectionOrder {
		if _, ok := record[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var extras []string
	for k := range record {
		if !seen[k] {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	return append(keys, extras...)
}

// Optimize 执行一次优化。
// 模型输出无法解析时返回原记录（"无变化"即fallback），只有上游调用失败才返回错误。
func (o *ResumeOptimizer) Optimize(ctx context.Context, record types.ResumeRecord, userRequest string) (types.ResumeRecord, error) {
	if record == nil {
		record = make(types.ResumeRecord)
	}

	sectionHint, instruction := parser.ParseEditRequest(userRequest)

	if sectionHint != "" {
		sectionKey := parser.ResolveSectionKey(sectionHint, availableSectionKeys(record))
		if sectionKey != "" {
			return o.optimizeSection(ctx, record, sectionKey, instruction)
		}
		// 章节提示未命中任何已有章节，退化为整份简历优化
		o.logger.Printf("[ResumeOptimizer] 章节提示 %q 未命中，按整份简历优化处理", sectionHint)
		instruction = userRequest
	}

	return o.optimizeWholeRecord(ctx, record, instruction)
}

// optimizeSection 定向优化单个章节：模型只返回该章节的新内容，整体替换。
func (o *ResumeOptimizer) optimizeSection(ctx context.Context, record types.ResumeRecord, sectionKey string, instruction string) (types.ResumeRecord, error) {
	if instruction == "" {
		instruction = "改进该章节的表达，使其更专业、更有说服力"
	}

	sectionJSON, err := json.Marshal(map[string]any{sectionKey: record[sectionKey]})
	if err != nil {
		return record, fmt.Errorf("序列化章节内容失败: %w", err)
	}

	systemPrompt := fmt.Sprintf(`你是一个专业的简历优化专家。用户希望优化简历的 "%s" 章节。

重要指令：
- 只改写描述性文字（description、summary等），不得改动任何身份字段（role、company、title、institution、degree、name、duration）。
- 保持条目数量和顺序不变。
- 量化成果，使用有力的动词开头。

JSON输出格式规范：返回一个只包含 "%s" 键的JSON对象，值为优化后的完整章节内容，结构与输入一致。
请严格按照JSON格式输出，不要包含任何解释性文字或Markdown标记。`, sectionKey, sectionKey)

	userPrompt := fmt.Sprintf("优化指令: %s\n\n当前章节内容:\n%s", instruction, string(sectionJSON))

	response, err := callModel(ctx, o.llm, systemPrompt, userPrompt)
	if err != nil {
		return record, fmt.Errorf("章节优化调用失败: %w", err)
	}

	parsed := parser.ExtractJSONObject(response, nil)
	if parsed == nil {
		o.logger.Printf("[ResumeOptimizer] 章节优化输出不可解析，保持原记录不变。原始响应: %.200s", response)
		return record, nil
	}

	// 模型应返回 {"<sectionKey>": <content>}，容忍键名写法偏差
	newContent, ok := parsed[sectionKey]
	if !ok {
		if matched := parser.ResolveSectionKey(sectionKey, mapKeys(parsed)); matched != "" {
			newContent, ok = parsed[matched]
		}
	}
	if !ok {
		o.logger.Printf("[ResumeOptimizer] 优化输出中找不到章节 %q，保持原记录不变", sectionKey)
		return record, nil
	}

	return parser.MergeOptimizedSection(record, sectionKey, newContent), nil
}

// optimizeWholeRecord 整份简历优化：模型返回完整记录，按逐键规则合并。
func (o *ResumeOptimizer) optimizeWholeRecord(ctx context.Context, record types.ResumeRecord, instruction string) (types.ResumeRecord, error) {
	if instruction == "" {
		instruction = "全面优化这份简历的表达，使其更专业、更有竞争力"
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return record, fmt.Errorf("序列化简历记录失败: %w", err)
	}

	systemPrompt := `你是一个专业的简历优化专家。用户希望整体优化简历内容。

重要指令：
- 只改写描述性文字（description、summary等），不得改动任何身份字段（name、email、phone、role、company、title、institution、degree、duration）。
- 保持章节结构和条目数量不变，可以省略无需改动的章节。
- 量化成果，使用有力的动词开头，删除冗余表达。

JSON输出格式规范：返回与输入结构一致的JSON对象，只包含你改动过的章节。
请严格按照JSON格式输出，不要包含任何解释性文字或Markdown标记。`

	userPrompt := fmt.Sprintf("优化指令: %s\n\n当前简历记录:\n%s", instruction, string(recordJSON))

	response, err := callModel(ctx, o.llm, systemPrompt, userPrompt)
	if err != nil {
		return record, fmt.Errorf("整份简历优化调用失败: %w", err)
	}

	newRecord := parser.ExtractJSONObject(response, nil)
	if newRecord == nil {
		o.logger.Printf("[ResumeOptimizer] 整份优化输出不可解析，保持原记录不变。原始响应: %.200s", response)
		return record, nil
	}

	return parser.MergeOptimizedRecord(record, newRecord), nil
}

func mapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var _ Optimizer = (*ResumeOptimizer)(nil)
