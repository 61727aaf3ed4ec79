package processor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-agent-go/internal/agent"
	"career-agent-go/internal/types"
)

func sampleJobs() []types.JobListing {
	return []types.JobListing{
		{ID: "job-a", Title: "Go后端工程师", Company: "A公司", Description: "负责微服务开发"},
		{ID: "job-b", Title: "前端工程师", Company: "B公司", Description: "负责Web前端"},
	}
}

// TestRateJobs 测试正常评分流程
func TestRateJobs(t *testing.T) {
	mockResponse := `[
		{"id": 0, "rating": 9, "reason": "技术栈高度吻合"},
		{"id": 1, "rating": 3, "reason": "方向不匹配"}
	]`
	mockLLM := agent.NewMockChatClient(mockResponse, nil)
	rater := NewLLMJobRater(mockLLM)

	ratings := rater.RateJobs(context.Background(), "Go工程师简历……", sampleJobs())
	require.Len(t, ratings, 2)

	assert.Equal(t, "job-a", ratings[0].JobID)
	assert.Equal(t, 9, ratings[0].Rating)
	assert.Equal(t, "技术栈高度吻合", ratings[0].Reason)
	assert.Equal(t, 3, ratings[1].Rating)
}

// TestRateJobsMissingComma 测试缺失逗号的输出通过修复后仍能评分
func TestRateJobsMissingComma(t *testing.T) {
	mockResponse := `[{"id":0,"rating":8,"reason":"match"}{"id":1,"rating":3,"reason":"weak"}]`
	mockLLM := agent.NewMockChatClient(mockResponse, nil)
	rater := NewLLMJobRater(mockLLM)

	ratings := rater.RateJobs(context.Background(), "简历", sampleJobs())
	require.Len(t, ratings, 2)
	assert.Equal(t, 8, ratings[0].Rating)
	assert.Equal(t, 3, ratings[1].Rating)
}

// TestRateJobsDegradesOnError 测试调用失败时降级为兜底评分而非报错
func TestRateJobsDegradesOnError(t *testing.T) {
	mockLLM := agent.NewMockChatClient("", errors.New("quota exceeded"))
	rater := NewLLMJobRater(mockLLM)

	ratings := rater.RateJobs(context.Background(), "简历", sampleJobs())
	require.Len(t, ratings, 2, "失败时每个岗位都应有兜底评分")
	for _, rating := range ratings {
		assert.Equal(t, 0, rating.Rating)
		assert.NotEmpty(t, rating.Reason)
	}
}

// TestRateJobsPartialOutput 测试模型漏评部分岗位时缺失项保持兜底
func TestRateJobsPartialOutput(t *testing.T) {
	mockResponse := `[{"id": 1, "rating": 7, "reason": "尚可"}]`
	mockLLM := agent.NewMockChatClient(mockResponse, nil)
	rater := NewLLMJobRater(mockLLM)

	ratings := rater.RateJobs(context.Background(), "简历", sampleJobs())
	require.Len(t, ratings, 2)
	assert.Equal(t, 0, ratings[0].Rating, "漏评的岗位应保持兜底评分")
	assert.Equal(t, 7, ratings[1].Rating)
}

// TestRateJobsIgnoresOutOfRangeIDs 测试越界id被忽略
func TestRateJobsIgnoresOutOfRangeIDs(t *testing.T) {
	mockResponse := `[{"id": 99, "rating": 10, "reason": "无效"}, {"id": 0, "rating": 6, "reason": "还行"}]`
	mockLLM := agent.NewMockChatClient(mockResponse, nil)
	rater := NewLLMJobRater(mockLLM)

	ratings := rater.RateJobs(context.Background(), "简历", sampleJobs())
	require.Len(t, ratings, 2)
	assert.Equal(t, 6, ratings[0].Rating)
}

// TestRateJobsEmptyList 测试空岗位列表
func TestRateJobsEmptyList(t *testing.T) {
	mockLLM := agent.NewMockChatClient("[]", nil)
	rater := NewLLMJobRater(mockLLM)

	assert.Nil(t, rater.RateJobs(context.Background(), "简历", nil))
	assert.Equal(t, 0, mockLLM.CallCount, "空列表不应触发模型调用")
}

// TestTruncateRunes 超长描述按字符数截断，多字节字符不被截成半个
func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "短描述", truncateRunes("短描述", maxJobDescRunes), "不超限的字符串原样返回")

	long := strings.Repeat("岗", maxJobDescRunes+100)
	truncated := truncateRunes(long, maxJobDescRunes)
	assert.Equal(t, maxJobDescRunes, utf8.RuneCountInString(truncated))
	assert.True(t, utf8.ValidString(truncated), "截断结果必须是合法的UTF-8")
	assert.Equal(t, strings.Repeat("岗", maxJobDescRunes), truncated)

	// ASCII超限走字节快路径，行为一致
	ascii := strings.Repeat("a", maxJobDescRunes+50)
	assert.Equal(t, strings.Repeat("a", maxJobDescRunes), truncateRunes(ascii, maxJobDescRunes))
}

// TestRateJobsLongMultibyteDescription 带超长中文描述的岗位评分不应产生乱码提示词
func TestRateJobsLongMultibyteDescription(t *testing.T) {
	mockLLM := agent.NewMockChatClient(`[ { "id": 0, "rating": 7, "reason": "匹配" } ]`, nil)
	rater := NewLLMJobRater(mockLLM)

	jobs := []types.JobListing{
		{ID: "job-a", Title: "Go工程师", Company: "A公司", Description: strings.Repeat("中文描述", 500)},
	}

	ratings := rater.RateJobs(context.Background(), "简历", jobs)
	require.Len(t, ratings, 1)
	assert.Equal(t, 7, ratings[0].Rating)

	received := mockLLM.GetReceivedMessages()
	require.NotEmpty(t, received)
	userPrompt := received[len(received)-1].Content
	assert.True(t, utf8.ValidString(userPrompt), "提示词必须是合法的UTF-8")
}
