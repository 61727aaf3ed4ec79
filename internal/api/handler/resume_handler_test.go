package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"career-agent-go/internal/processor"
	"career-agent-go/internal/types"
)

// fakeCategorizer SkillCategorizer测试替身
type fakeCategorizer struct {
	result map[string][]string
	err    error
	calls  int
}

func (f *fakeCategorizer) Categorize(ctx context.Context, resumeText string) (map[string][]string, error) {
	f.calls++
	return f.result, f.err
}

func newHandlerWithCategorizer(c processor.SkillCategorizer) *ResumeHandler {
	return &ResumeHandler{
		processorModule: processor.NewResumeProcessor(
			processor.WithSkillCategorizer(c),
			processor.WithSilentLogger(),
		),
	}
}

func TestEnrichSkillsFillsMissingSection(t *testing.T) {
	categorizer := &fakeCategorizer{
		result: map[string][]string{
			"Languages": {"Go", "Python"},
		},
	}
	h := newHandlerWithCategorizer(categorizer)

	record := types.ResumeRecord{}
	h.enrichSkills(context.Background(), "简历全文", record)

	skills, ok := record[types.SectionSkills].(map[string]any)
	assert.True(t, ok, "应补充技能章节")
	assert.Equal(t, []any{"Go", "Python"}, skills["Languages"], "技能清单应完整转换")
}

func TestEnrichSkillsKeepsExistingSection(t *testing.T) {
	categorizer := &fakeCategorizer{
		result: map[string][]string{"Languages": {"Java"}},
	}
	h := newHandlerWithCategorizer(categorizer)

	record := types.ResumeRecord{
		types.SectionSkills: map[string]any{"Languages": []any{"Go"}},
	}
	h.enrichSkills(context.Background(), "简历全文", record)

	skills := record[types.SectionSkills].(map[string]any)
	assert.Equal(t, []any{"Go"}, skills["Languages"], "已有技能章节不应被覆盖")
	assert.Equal(t, 0, categorizer.calls, "已有技能时不应触发分类调用")
}

func TestEnrichSkillsIgnoresFailure(t *testing.T) {
	categorizer := &fakeCategorizer{err: errors.New("模型超时")}
	h := newHandlerWithCategorizer(categorizer)

	record := types.ResumeRecord{}
	h.enrichSkills(context.Background(), "简历全文", record)

	_, ok := record[types.SectionSkills]
	assert.False(t, ok, "分类失败时不应写入技能章节")
}

func TestEnrichSkillsNilCategorizer(t *testing.T) {
	h := &ResumeHandler{processorModule: processor.NewResumeProcessor(processor.WithSilentLogger())}

	record := types.ResumeRecord{}
	h.enrichSkills(context.Background(), "简历全文", record)

	_, ok := record[types.SectionSkills]
	assert.False(t, ok, "未配置分类器时应跳过补充")
}
