package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-agent-go/internal/agent"
)

// TestResumeStructurer 测试结构化提取的基本流程
func TestResumeStructurer(t *testing.T) {
	mockResponse := `{
		"personal_info": {
			"name": "张三",
			"email": "zhangsan@example.com",
			"phone": "13800138000"
		},
		"summary": "三年经验的后端工程师",
		"work_experience": [
			{
				"role": "后端工程师",
				"company": "某科技公司",
				"duration": "2021-至今",
				"description": ["负责订单系统开发", "优化查询性能提升30%"]
			}
		],
		"education": [
			{ "institution": "某大学", "degree": "本科", "duration": "2017-2021" }
		],
		"awards": "2022年公司年度优秀员工"
	}`

	mockLLM := agent.NewMockChatClient(mockResponse, nil)
	structurer := NewResumeStructurer(mockLLM)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	record, err := structurer.Structure(ctx, "张三 13800138000 后端工程师……")
	require.NoError(t, err, "结构化提取不应返回错误")
	require.NotNil(t, record)

	info, ok := record["personal_info"].(map[string]any)
	require.True(t, ok, "应包含personal_info对象")
	assert.Equal(t, "张三", info["name"])

	assert.Equal(t, "三年经验的后端工程师", record["summary"])
	assert.Len(t, record["work_experience"], 1)
	// 规范之外的章节键原样保留
	assert.Equal(t, "2022年公司年度优秀员工", record["awards"])
}

// TestResumeStructurerFencedOutput 测试围栏包裹的模型输出
func TestResumeStructurerFencedOutput(t *testing.T) {
	mockLLM := agent.NewMockChatClient("```json\n{\"summary\": \"测试摘要\"}\n```", nil)
	structurer := NewResumeStructurer(mockLLM)

	record, err := structurer.Structure(context.Background(), "简历文本")
	require.NoError(t, err)
	assert.Equal(t, "测试摘要", record["summary"])
}

// TestResumeStructurerUnparseable 测试不可解析的输出返回错误
func TestResumeStructurerUnparseable(t *testing.T) {
	mockLLM := agent.NewMockChatClient("抱歉，我无法处理这份简历。", nil)
	structurer := NewResumeStructurer(mockLLM)

	record, err := structurer.Structure(context.Background(), "简历文本")
	assert.Error(t, err, "没有结构化记录时后续步骤无法进行，应返回错误")
	assert.Nil(t, record)
}

// TestResumeStructurerUpstreamError 测试上游调用失败时错误向上传递
func TestResumeStructurerUpstreamError(t *testing.T) {
	mockLLM := agent.NewMockChatClient("", errors.New("quota exceeded"))
	structurer := NewResumeStructurer(mockLLM)

	_, err := structurer.Structure(context.Background(), "简历文本")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}
