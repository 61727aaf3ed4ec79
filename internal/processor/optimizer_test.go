package processor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-agent-go/internal/agent"
	"career-agent-go/internal/types"
)

// TestOptimizeTargetedSection 测试定向章节优化：指令命中章节，只替换该章节
func TestOptimizeTargetedSection(t *testing.T) {
	record := types.ResumeRecord{
		"summary": "资深工程师",
		"projects": []any{
			map[string]any{"title": "X", "description": "built a tool"},
		},
	}

	mockResponse := `{"projects": [{"title": "X", "description": "Built a tool reducing manual effort by 30%"}]}`
	mockLLM := agent.NewMockChatClient(mockResponse, nil)
	optimizer := NewResumeOptimizer(mockLLM)

	result, err := optimizer.Optimize(context.Background(), record, "projects: quantify impact")
	require.NoError(t, err)

	projects := result["projects"].([]any)
	require.Len(t, projects, 1)
	item := projects[0].(map[string]any)
	assert.Equal(t, "X", item["title"], "身份字段不应改变")
	assert.Equal(t, "Built a tool reducing manual effort by 30%", item["description"])

	// 其他章节保持不变
	assert.Equal(t, "资深工程师", result["summary"])
}

// TestOptimizeFuzzySectionHint 测试缩写章节提示通过模糊匹配命中
func TestOptimizeFuzzySectionHint(t *testing.T) {
	record := types.ResumeRecord{
		"work_experience": []any{
			map[string]any{"role": "工程师", "company": "A公司", "description": "写代码"},
		},
	}

	mockResponse := `{"work_experience": [{"role": "工程师", "company": "A公司", "description": "主导核心模块开发"}]}`
	mockLLM := agent.NewMockChatClient(mockResponse, nil)
	optimizer := NewResumeOptimizer(mockLLM)

	result, err := optimizer.Optimize(context.Background(), record, "work exp: 更专业一些")
	require.NoError(t, err)

	exp := result["work_experience"].([]any)[0].(map[string]any)
	assert.Equal(t, "主导核心模块开发", exp["description"])
}

// TestOptimizeWholeRecord 测试无章节提示时的整份简历优化
func TestOptimizeWholeRecord(t *testing.T) {
	record := types.ResumeRecord{
		"personal_info": map[string]any{"name": "张三", "email": "zhangsan@example.com"},
		"summary":       "旧摘要",
		"skills":        map[string]any{"Languages": []any{"Go"}},
	}

	// 模型只返回改动过的章节
	mockResponse := `{"summary": "新摘要", "personal_info": {"email": "zhangsan@example.com"}}`
	mockLLM := agent.NewMockChatClient(mockResponse, nil)
	optimizer := NewResumeOptimizer(mockLLM)

	result, err := optimizer.Optimize(context.Background(), record, "make it more professional")
	require.NoError(t, err)

	assert.Equal(t, "新摘要", result["summary"])
	// 对象逐键合并：未返回的旧键保留
	info := result["personal_info"].(map[string]any)
	assert.Equal(t, "张三", info["name"])
	// 未提及的章节原样保留
	assert.Contains(t, result, "skills")
}

// TestOptimizeUnparseableOutputKeepsRecord 测试不可解析的输出时返回原记录（无变化即fallback）
func TestOptimizeUnparseableOutputKeepsRecord(t *testing.T) {
	record := types.ResumeRecord{"summary": "原始摘要"}

	mockLLM := agent.NewMockChatClient("模型这次没有输出JSON", nil)
	optimizer := NewResumeOptimizer(mockLLM)

	result, err := optimizer.Optimize(context.Background(), record, "summary: 改进一下")
	require.NoError(t, err, "不可解析的输出应被吸收而非报错")
	assert.Equal(t, "原始摘要", result["summary"], "记录应保持不变")
}

// TestOptimizeUnknownSectionFallsBackToWholeRecord 测试章节提示未命中时退化为整份优化
func TestOptimizeUnknownSectionFallsBackToWholeRecord(t *testing.T) {
	record := types.ResumeRecord{"summary": "摘要"}

	mockResponse := `{"summary": "优化后的摘要"}`
	mockLLM := agent.NewMockChatClient(mockResponse, nil)
	optimizer := NewResumeOptimizer(mockLLM)

	result, err := optimizer.Optimize(context.Background(), record, "nonexistent: do something")
	require.NoError(t, err)
	assert.Equal(t, "优化后的摘要", result["summary"])
}

// TestAvailableSectionKeysOrder 测试章节键顺序：规范章节在前，附加章节按字典序
func TestAvailableSectionKeysOrder(t *testing.T) {
	record := types.ResumeRecord{
		"zeta_section":    "z",
		"education":       []any{},
		"personal_info":   map[string]any{},
		"awards":          "获奖",
		"work_experience": []any{},
	}

	keys := availableSectionKeys(record)
	assert.Equal(t, []string{"personal_info", "work_experience", "education", "awards", "zeta_section"}, keys)
}
