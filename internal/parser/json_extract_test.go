package parser

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractJSONObjectFenced 测试围栏包裹的JSON能否往返还原
func TestExtractJSONObjectFenced(t *testing.T) {
	doc := map[string]any{
		"name":   "张三",
		"email":  "zhangsan@example.com",
		"skills": []any{"Go", "MySQL"},
	}
	serialized, err := json.Marshal(doc)
	require.NoError(t, err)

	raw := "```json\n" + string(serialized) + "\n```"
	result := ExtractJSONObject(raw, nil)

	require.NotNil(t, result, "围栏包裹的合法JSON应被成功提取")
	assert.Equal(t, doc["name"], result["name"])
	assert.Equal(t, doc["email"], result["email"])
	assert.Equal(t, doc["skills"], result["skills"])
}

// TestExtractJSONObjectWithPreamble 测试带前后缀说明文字的响应
func TestExtractJSONObjectWithPreamble(t *testing.T) {
	raw := `我的分析结果如下：

{"summary": "资深后端工程师", "score": 85}

希望这个分析对您有帮助！`

	result := ExtractJSONObject(raw, nil)
	require.NotNil(t, result, "应从说明文字中截取出JSON对象")
	assert.Equal(t, "资深后端工程师", result["summary"])
	assert.Equal(t, float64(85), result["score"])
}

// TestExtractJSONObjectFallback 测试无JSON内容时返回fallback
func TestExtractJSONObjectFallback(t *testing.T) {
	fallback := map[string]any{"unchanged": true}

	cases := []string{
		"",
		"   ",
		"抱歉，我无法处理这份简历。",
		"{broken json",
		"}{",
		"```json\n不是JSON\n```",
	}
	for _, raw := range cases {
		result := ExtractJSONObject(raw, fallback)
		assert.Equal(t, fallback, result, "输入 %q 应返回fallback", raw)
	}

	// fallback为nil时返回nil
	assert.Nil(t, ExtractJSONObject("garbage", nil))
}

// TestExtractJSONObjectNeverPanics 测试各种畸形输入都不会panic
func TestExtractJSONObjectNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		string([]byte{0x00, 0xff, 0xfe, 0x01}),
		strings.Repeat("{", 10000),
		strings.Repeat("}", 10000),
		strings.Repeat("{}", 5000),
		"```json",
		"```",
		"{\"a\":" + strings.Repeat("[", 100) + strings.Repeat("]", 100) + "}",
	}
	for _, raw := range inputs {
		assert.NotPanics(t, func() {
			ExtractJSONObject(raw, nil)
			ExtractJSONArray(raw, nil)
		})
	}
}

// TestExtractJSONArray 测试数组提取的基本场景
func TestExtractJSONArray(t *testing.T) {
	raw := "```json\n[{\"id\":\"a\"},{\"id\":\"b\"}]\n```"
	result := ExtractJSONArray(raw, nil)
	require.Len(t, result, 2)

	// 无数组内容时返回fallback
	fallback := []any{"default"}
	assert.Equal(t, fallback, ExtractJSONArray("没有数组", fallback))
}

// TestExtractJSONArrayCommaRepair 测试相邻对象缺失逗号的修复
func TestExtractJSONArrayCommaRepair(t *testing.T) {
	raw := `[{"id":0,"rating":8,"reason":"match"}{"id":1,"rating":3,"reason":"weak"}]`

	result := ExtractJSONArray(raw, nil)
	require.Len(t, result, 2, "缺失逗号的数组应通过补逗号修复")

	first, ok := result[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(8), first["rating"])
	assert.Equal(t, "match", first["reason"])

	second, ok := result[1].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), second["rating"])
}

// TestExtractJSONArrayCommaRepairWithNewline 测试跨行缺失逗号的修复
func TestExtractJSONArrayCommaRepairWithNewline(t *testing.T) {
	raw := "[{\"id\":0,\"rating\":9,\"reason\":\"strong\"}\n{\"id\":1,\"rating\":2,\"reason\":\"junior\"}]"

	result := ExtractJSONArray(raw, nil)
	require.Len(t, result, 2)
}
