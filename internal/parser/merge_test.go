package parser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cloneRecord 深拷贝记录，用于断言合并前后的不变性
func cloneRecord(t *testing.T, record map[string]any) map[string]any {
	t.Helper()
	data, err := json.Marshal(record)
	require.NoError(t, err)
	var clone map[string]any
	require.NoError(t, json.Unmarshal(data, &clone))
	return clone
}

// TestMergeOptimizedSection 测试定向合并只替换目标章节
func TestMergeOptimizedSection(t *testing.T) {
	record := map[string]any{
		"summary": "资深工程师",
		"projects": []any{
			map[string]any{"title": "X", "description": "built a tool"},
		},
		"education": []any{
			map[string]any{"institution": "某大学", "degree": "本科"},
		},
	}
	siblingsBefore := cloneRecord(t, record)

	newContent := []any{
		map[string]any{"title": "X", "description": "Built a tool reducing manual effort by 30%"},
	}
	result := MergeOptimizedSection(record, "projects", newContent)

	// 目标章节整体替换
	assert.Equal(t, newContent, result["projects"])
	// 其余章节逐位一致
	assert.Equal(t, siblingsBefore["summary"], result["summary"])
	assert.Equal(t, siblingsBefore["education"], result["education"])
}

// TestMergeOptimizedRecordRules 测试整体合并的逐键规则
func TestMergeOptimizedRecordRules(t *testing.T) {
	record := map[string]any{
		"personal_info": map[string]any{
			"name":  "张三",
			"email": "zhangsan@example.com",
			"phone": "13800138000",
		},
		"summary": "旧的摘要",
		"work_experience": []any{
			map[string]any{"role": "工程师", "company": "A公司"},
			map[string]any{"role": "实习生", "company": "B公司"},
		},
	}

	newRecord := map[string]any{
		// 对象与对象：逐键合并，新值覆盖，旧键保留
		"personal_info": map[string]any{
			"email": "new@example.com",
		},
		// 标量：直接替换
		"summary": "新的摘要",
		// 列表与列表：整体替换
		"work_experience": []any{
			map[string]any{"role": "高级工程师", "company": "A公司"},
		},
		// 新增键直接写入
		"certifications": []any{
			map[string]any{"name": "AWS认证"},
		},
	}

	result := MergeOptimizedRecord(record, newRecord)

	info := result["personal_info"].(map[string]any)
	assert.Equal(t, "new@example.com", info["email"], "新值应覆盖旧值")
	assert.Equal(t, "张三", info["name"], "新记录中缺失的旧键应保留")
	assert.Equal(t, "13800138000", info["phone"])

	assert.Equal(t, "新的摘要", result["summary"])
	assert.Len(t, result["work_experience"], 1, "列表应整体替换而非追加")
	assert.Contains(t, result, "certifications")
}

// TestMergeOptimizedRecordIdempotent 测试记录与自身合并是幂等的
func TestMergeOptimizedRecordIdempotent(t *testing.T) {
	record := map[string]any{
		"personal_info": map[string]any{"name": "李四"},
		"summary":       "摘要文本",
		"skills": map[string]any{
			"Languages": []any{"Go", "Python"},
		},
		"projects": []any{
			map[string]any{"title": "项目A", "description": []any{"一行", "两行"}},
		},
	}
	expected := cloneRecord(t, record)

	result := MergeOptimizedRecord(record, cloneRecord(t, record))
	assert.Equal(t, expected, result, "自合并不应改变记录内容")
}

// TestTargetedOptimizeEndToEnd 模拟一次完整的定向优化：
// 解析指令 -> 模糊匹配章节 -> 容错提取模型输出 -> 定向合并
func TestTargetedOptimizeEndToEnd(t *testing.T) {
	record := map[string]any{
		"projects": []any{
			map[string]any{"title": "X", "description": "built a tool"},
		},
	}

	sectionHint, instruction := ParseEditRequest("projects: quantify impact")
	require.Equal(t, "projects", sectionHint)
	require.Equal(t, "quantify impact", instruction)

	availableKeys := make([]string, 0, len(record))
	for k := range record {
		availableKeys = append(availableKeys, k)
	}
	sectionKey := ResolveSectionKey(sectionHint, availableKeys)
	require.Equal(t, "projects", sectionKey)

	// 模型针对该章节的返回（带围栏）
	modelOutput := "```json\n[{\"title\":\"X\",\"description\":\"Built a tool reducing manual effort by 30%\"}]\n```"
	newContent := ExtractJSONArray(modelOutput, nil)
	require.NotNil(t, newContent)

	result := MergeOptimizedSection(record, sectionKey, newContent)

	projects := result["projects"].([]any)
	require.Len(t, projects, 1)
	item := projects[0].(map[string]any)
	assert.Equal(t, "X", item["title"], "身份字段不应改变")
	assert.Equal(t, "Built a tool reducing manual effort by 30%", item["description"])
}
