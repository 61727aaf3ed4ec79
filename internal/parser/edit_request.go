package parser

import (
	"strings"
	"unicode/utf8"
)

// ParseEditRequest 解析用户的优化指令，判断是针对单个章节还是整份简历。
// 规则按顺序:
//  1. 空输入 -> ("", "")
//  2. 含冒号 -> 按第一个冒号切分，左边是章节提示，右边是指令
//  3. 单个词 -> 视为裸章节名，指令为空
//  4. 其他 -> 整段输入视为自由指令，不定位章节
//
// 这是启发式规则而非严格语法："fix formatting" 这类两词无冒号的输入
// 会被归为自由指令。同时接受半角和全角冒号。
func ParseEditRequest(input string) (sectionHint string, instruction string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ""
	}

	if idx := strings.IndexAny(input, ":："); idx != -1 {
		sectionHint = strings.TrimSpace(input[:idx])
		_, width := utf8.DecodeRuneInString(input[idx:])
		instruction = strings.TrimSpace(input[idx+width:])
		return sectionHint, instruction
	}

	if len(strings.Fields(input)) == 1 {
		return input, ""
	}

	return "", input
}
