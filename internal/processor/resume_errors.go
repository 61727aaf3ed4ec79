package processor

import (
	"errors"
	"fmt"
)

// 定义基础错误类型。API层用 errors.Is 把这些错误映射为HTTP状态码。
var (
	ErrEmptyFile            = errors.New("上传文件为空")
	ErrUnsupportedFileType  = errors.New("不支持的文件类型")
	ErrTextExtractionFailed = errors.New("提取简历文本失败")
	ErrStructuringFailed    = errors.New("简历结构化失败")
	ErrNoSkillsFound        = errors.New("未能从简历中识别出技能关键词")
)

// ProcessError 包含详细错误信息的自定义错误
type ProcessError struct {
	UserID  string
	Op      string
	BaseErr error
	Detail  string
}

func (e *ProcessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, 用户:%s): %s", e.BaseErr, e.Op, e.UserID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, 用户:%s)", e.BaseErr, e.Op, e.UserID)
}

func (e *ProcessError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *ProcessError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数
func NewExtractionError(userID, detail string) error {
	return &ProcessError{
		UserID:  userID,
		Op:      "extract",
		BaseErr: ErrTextExtractionFailed,
		Detail:  detail,
	}
}

func NewStructuringError(userID, detail string) error {
	return &ProcessError{
		UserID:  userID,
		Op:      "structure",
		BaseErr: ErrStructuringFailed,
		Detail:  detail,
	}
}
