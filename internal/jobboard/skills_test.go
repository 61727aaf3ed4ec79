package jobboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSkills(t *testing.T) {
	text := `熟练使用 Python 和 Go 开发后端服务，
使用 Docker 和 Kubernetes 部署，数据库为 PostgreSQL 和 Redis。`

	skills := ExtractSkills(text)

	assert.Contains(t, skills, "Python", "应提取到Python")
	assert.Contains(t, skills, "Go", "应提取到Go")
	assert.Contains(t, skills, "Docker", "应提取到Docker")
	assert.Contains(t, skills, "Kubernetes", "应提取到Kubernetes")
	assert.Contains(t, skills, "PostgreSQL", "应提取到PostgreSQL")
	assert.Contains(t, skills, "Redis", "应提取到Redis")
	assert.NotContains(t, skills, "Java", "未出现的技能不应被提取")
}

func TestExtractSkillsWholeWordOnly(t *testing.T) {
	// JavaScript 中包含子串 java，整词匹配不应误报 Java
	skills := ExtractSkills("Experienced JavaScript developer")

	assert.Contains(t, skills, "JavaScript", "应提取到JavaScript")
	assert.NotContains(t, skills, "Java", "子串不应触发整词匹配")
}

func TestExtractSkillsCaseInsensitive(t *testing.T) {
	skills := ExtractSkills("proficient in PYTHON and docker")

	assert.Contains(t, skills, "Python", "匹配应忽略大小写")
	assert.Contains(t, skills, "Docker", "匹配应忽略大小写")
}

func TestExtractSkillsStableOrder(t *testing.T) {
	// 无论技能在文本中出现的顺序如何，返回顺序应与技能清单一致
	first := ExtractSkills("Redis Python Docker")
	second := ExtractSkills("Docker 在前，然后 Redis，最后 Python")

	assert.Equal(t, first, second, "相同技能集合的返回顺序应稳定")
}

func TestExtractSkillsEmptyText(t *testing.T) {
	assert.Empty(t, ExtractSkills(""), "空文本应返回空结果")
}
