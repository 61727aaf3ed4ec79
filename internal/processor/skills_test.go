package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-agent-go/internal/agent"
)

// TestSkillCategorizer 测试技能按类别提取
func TestSkillCategorizer(t *testing.T) {
	mockResponse := `{
		"Languages": ["Go", "Python"],
		"Databases": ["MySQL", "Redis"],
		"Soft Skills": ["团队协作"]
	}`

	mockLLM := agent.NewMockChatClient(mockResponse, nil)
	categorizer := NewLLMSkillCategorizer(mockLLM)

	skills, err := categorizer.Categorize(context.Background(), "精通Go和Python，熟悉MySQL与Redis……")
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "Python"}, skills["Languages"])
	assert.Equal(t, []string{"MySQL", "Redis"}, skills["Databases"])
	assert.Equal(t, []string{"团队协作"}, skills["Soft Skills"])
	assert.NotContains(t, skills, "Frameworks & Libraries", "无内容的类别应省略")
}

// TestSkillCategorizerDropsUnknownCategories 测试未知类别被丢弃
func TestSkillCategorizerDropsUnknownCategories(t *testing.T) {
	mockResponse := `{
		"Languages": ["Java"],
		"Hobbies": ["摄影"],
		"Soft Skills": [],
		"Tools & Platforms": ["Docker", 42, ""]
	}`

	mockLLM := agent.NewMockChatClient(mockResponse, nil)
	categorizer := NewLLMSkillCategorizer(mockLLM)

	skills, err := categorizer.Categorize(context.Background(), "简历文本")
	require.NoError(t, err)

	assert.NotContains(t, skills, "Hobbies", "固定类别之外的键应丢弃")
	assert.NotContains(t, skills, "Soft Skills", "空类别不保留")
	// 非字符串元素和空字符串被过滤
	assert.Equal(t, []string{"Docker"}, skills["Tools & Platforms"])
}

// TestSkillCategorizerUnparseable 测试不可解析的输出返回错误
func TestSkillCategorizerUnparseable(t *testing.T) {
	mockLLM := agent.NewMockChatClient("这份简历包含很多技能。", nil)
	categorizer := NewLLMSkillCategorizer(mockLLM)

	_, err := categorizer.Categorize(context.Background(), "简历文本")
	assert.Error(t, err)
}

// TestSkillCategorizerLLMError 测试模型调用失败透传错误
func TestSkillCategorizerLLMError(t *testing.T) {
	mockLLM := agent.NewMockChatClient("", errors.New("invalid api key"))
	categorizer := NewLLMSkillCategorizer(mockLLM)

	_, err := categorizer.Categorize(context.Background(), "简历文本")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "技能分类调用失败")
}
