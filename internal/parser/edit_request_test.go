package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseEditRequest 测试优化指令的解析规则
func TestParseEditRequest(t *testing.T) {
	// 冒号分隔：左边章节提示，右边指令
	section, instruction := ParseEditRequest("projects: add more detail")
	assert.Equal(t, "projects", section)
	assert.Equal(t, "add more detail", instruction)

	// 全角冒号同样支持
	section, instruction = ParseEditRequest("项目经历：补充量化指标")
	assert.Equal(t, "项目经历", section)
	assert.Equal(t, "补充量化指标", instruction)

	// 空输入
	section, instruction = ParseEditRequest("")
	assert.Equal(t, "", section)
	assert.Equal(t, "", instruction)

	section, instruction = ParseEditRequest("   ")
	assert.Equal(t, "", section)
	assert.Equal(t, "", instruction)

	// 单个词视为裸章节名
	section, instruction = ParseEditRequest("summary")
	assert.Equal(t, "summary", section)
	assert.Equal(t, "", instruction)

	// 多个词无冒号视为自由指令，不定位章节
	section, instruction = ParseEditRequest("fix formatting")
	assert.Equal(t, "", section)
	assert.Equal(t, "fix formatting", instruction)

	// 只按第一个冒号切分
	section, instruction = ParseEditRequest("skills: add: Go, Rust")
	assert.Equal(t, "skills", section)
	assert.Equal(t, "add: Go, Rust", instruction)
}
