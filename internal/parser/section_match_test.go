package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestResolveSectionKey 测试模糊章节名解析
func TestResolveSectionKey(t *testing.T) {
	available := []string{"work_experience", "education", "projects", "skills"}

	// 缩写通过子串匹配命中
	assert.Equal(t, "work_experience", ResolveSectionKey("work exp", available))
	// 精确匹配
	assert.Equal(t, "education", ResolveSectionKey("education", available))
	// 大小写和连字符不敏感
	assert.Equal(t, "work_experience", ResolveSectionKey("Work-Experience", available))
	// 目标比候选更长时反向子串也命中
	assert.Equal(t, "skills", ResolveSectionKey("technical skills", available))
	// 未命中返回空
	assert.Equal(t, "", ResolveSectionKey("zzz", available))
	// 空目标返回空
	assert.Equal(t, "", ResolveSectionKey("", available))
	assert.Equal(t, "", ResolveSectionKey("   ", available))
}

// TestResolveSectionKeyFirstMatchWins 测试多个候选可接受时按迭代顺序取第一个
func TestResolveSectionKeyFirstMatchWins(t *testing.T) {
	// "experience" 同时是 work_experience 和 internship_experience 的子串，
	// 调用方按规范顺序传入，第一个命中的获胜
	available := []string{"work_experience", "internship_experience"}
	assert.Equal(t, "work_experience", ResolveSectionKey("experience", available))

	reversed := []string{"internship_experience", "work_experience"}
	assert.Equal(t, "internship_experience", ResolveSectionKey("experience", reversed))
}
