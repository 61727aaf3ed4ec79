package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalize 测试字符串清理
func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   \t\n"))
	assert.Equal(t, "hello", Normalize("  hello  "))
	assert.Equal(t, "张 三", Normalize("\n张 三\t"))
}

// TestStringifyListContent 测试混合列表压平为多行文本
func TestStringifyListContent(t *testing.T) {
	content := []any{
		"第一行纯文本",
		map[string]any{"job_title": "后端工程师", "company": "某科技公司"},
		42,
	}

	result := StringifyListContent(content)
	lines := SplitDescription(result)

	assert.Len(t, lines, 3)
	assert.Equal(t, "第一行纯文本", lines[0])
	// 对象键按字典序排列，下划线替换为空格并首字母大写
	assert.Equal(t, "Company: 某科技公司, Job Title: 后端工程师", lines[1])
	assert.Equal(t, "42", lines[2])
}

// TestStringifyListContentNonList 测试非列表输入的降级行为
func TestStringifyListContentNonList(t *testing.T) {
	assert.Equal(t, "", StringifyListContent(nil))
	assert.Equal(t, "already a string", StringifyListContent("already a string"))
	assert.Equal(t, "3.5", StringifyListContent(3.5))
}

// TestFlattenAndSplitDescription 测试描述字段的存储/读取往返
func TestFlattenAndSplitDescription(t *testing.T) {
	// 列表形式写入
	flat := FlattenDescription([]any{"负责订单系统", "优化查询性能提升30%"})
	assert.Equal(t, "负责订单系统\n优化查询性能提升30%", flat)

	// 读取时重新拆分为有序行，跳过空行
	lines := SplitDescription("第一行\n\n  第二行  \n")
	assert.Equal(t, []string{"第一行", "第二行"}, lines)

	// 单字符串写入保持原样
	assert.Equal(t, "单行描述", FlattenDescription("  单行描述  "))

	// 空输入
	assert.Equal(t, "", FlattenDescription(nil))
	assert.Nil(t, SplitDescription("   "))
}
