package parser

import (
	"encoding/json"
	"regexp"
	"strings"
)

// 本文件是模型输出进入结构化数据前的唯一关卡。
// 所有调用LLM的处理器必须通过这里解析响应，不允许各自手写解析逻辑。
// 这些函数永不返回error：解析失败时返回调用方提供的fallback。

// jsonFenceRe 匹配 ```json ... ``` 代码块
var jsonFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// missingCommaRe 匹配相邻对象之间缺失的逗号 (`}` 后直接跟 `{`)
var missingCommaRe = regexp.MustCompile(`\}\s*\{`)

// stripFence 剥离Markdown代码围栏并清理首尾空白
func stripFence(raw string) string {
	text := strings.TrimSpace(raw)
	if matches := jsonFenceRe.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	// 有些模型只输出开头的围栏标记而不闭合
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// ExtractJSONObject 从模型原始响应中容错提取一个JSON对象。
// 依次尝试: 剥离代码围栏后严格解析 -> 贪婪截取首个"{"到末个"}"的子串再解析。
// 全部失败时返回fallback，永不panic。
func ExtractJSONObject(raw string, fallback map[string]any) map[string]any {
	text := stripFence(raw)
	if text == "" {
		return fallback
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(text), &result); err == nil {
		return result
	}

	// 回退：响应里可能混有前后缀说明文字，截取大括号包裹的部分
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return fallback
	}

	result = nil
	if err := json.Unmarshal([]byte(text[start:end+1]), &result); err == nil {
		return result
	}
	return fallback
}

// ExtractJSONArray 从模型原始响应中容错提取一个JSON数组。
// 在对象提取的基础上增加一次修复重试：模型批量输出对象数组时
// 偶尔会漏掉相邻对象之间的逗号，补上后再严格解析一次。
func ExtractJSONArray(raw string, fallback []any) []any {
	text := stripFence(raw)
	if text == "" {
		return fallback
	}

	var result []any
	if err := json.Unmarshal([]byte(text), &result); err == nil {
		return result
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end <= start {
		return fallback
	}
	candidate := text[start : end+1]

	result = nil
	if err := json.Unmarshal([]byte(candidate), &result); err == nil {
		return result
	}

	// 修复重试：在 "}{"处补逗号，只尝试一次
	repaired := missingCommaRe.ReplaceAllString(candidate, "},{")
	result = nil
	if err := json.Unmarshal([]byte(repaired), &result); err == nil {
		return result
	}
	return fallback
}
