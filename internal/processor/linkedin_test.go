package processor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-agent-go/internal/agent"
	"career-agent-go/internal/types"
)

// TestLinkedInGenerateContent 测试领英内容生成
func TestLinkedInGenerateContent(t *testing.T) {
	mockResponse := "```json\n" + `{
		"headlines": ["Go后端工程师 | 微服务与高并发", "三年经验的服务端开发者"],
		"about_section": "我是一名专注于后端的工程师……",
		"optimized_experiences": [
			{"title": "后端工程师 @ A公司", "description": ["主导订单系统重构", "QPS提升50%"]}
		],
		"optimized_projects": []
	}` + "\n```"

	mockLLM := agent.NewMockChatClient(mockResponse, nil)
	generator := NewLinkedInOptimizer(mockLLM)

	record := types.ResumeRecord{
		"personal_info": map[string]any{"name": "张三"},
		"work_experience": []any{
			map[string]any{"role": "后端工程师", "company": "A公司", "description": []any{"负责订单系统"}},
		},
		"awards": "年度优秀员工",
	}

	content, err := generator.GenerateContent(context.Background(), record, "")
	require.NoError(t, err)
	require.NotNil(t, content)

	assert.Len(t, content.Headlines, 2)
	assert.NotEmpty(t, content.AboutSection)
	require.Len(t, content.OptimizedExperiences, 1)
	assert.Equal(t, []string{"主导订单系统重构", "QPS提升50%"}, content.OptimizedExperiences[0].Description)
}

// TestBuildResumeContextIncludesAdditionalSections 测试上下文包含附加章节
func TestBuildResumeContextIncludesAdditionalSections(t *testing.T) {
	record := types.ResumeRecord{
		"summary": "摘要文本",
		"awards":  "2023年黑客马拉松冠军",
	}

	context := buildResumeContext(record)
	assert.Contains(t, context, "摘要文本")
	assert.Contains(t, context, "黑客马拉松冠军")
	assert.Contains(t, context, "## awards")
}

// TestLinkedInUnparseableOutput 测试不可解析输出返回错误
func TestLinkedInUnparseableOutput(t *testing.T) {
	mockLLM := agent.NewMockChatClient("不是JSON的回答", nil)
	generator := NewLinkedInOptimizer(mockLLM)

	_, err := generator.GenerateContent(context.Background(), types.ResumeRecord{}, "")
	assert.Error(t, err)
}
