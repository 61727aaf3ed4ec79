package router

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/stretchr/testify/assert"

	"career-agent-go/internal/api/handler"
	"career-agent-go/internal/processor"
	"career-agent-go/internal/storage"
)

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"不支持的文件类型映射为400", fmt.Errorf("a.docx: %w", processor.ErrUnsupportedFileType), consts.StatusBadRequest},
		{"空文件映射为400", processor.ErrEmptyFile, consts.StatusBadRequest},
		{"未识别技能映射为400", processor.ErrNoSkillsFound, consts.StatusBadRequest},
		{"用户不存在映射为404", fmt.Errorf("user_id=u1: %w", storage.ErrUserNotFound), consts.StatusNotFound},
		{"规划不存在映射为404", storage.ErrPlanNotFound, consts.StatusNotFound},
		{"规划生成中映射为409", handler.ErrPlanGenerationBusy, consts.StatusConflict},
		{"提取失败映射为500", processor.NewExtractionError("u1", "坏文件"), consts.StatusInternalServerError},
		{"未知错误映射为500", errors.New("boom"), consts.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFromError(tc.err))
		})
	}
}
