package parser

import "strings"

// ResolveSectionKey 将用户输入的章节名（可能是缩写或口语化写法）
// 解析为记录中的规范章节键。
// 归一化规则: 去空白、小写、空格和连字符替换为下划线。
// 匹配规则: 精确匹配，或归一化后互为子串（"work exp" 命中 "work_experience"）。
// 返回availableKeys迭代顺序中第一个命中的键，未命中或target为空时返回""。
// 调用方应按规范章节顺序传入availableKeys，匹配器本身不做排序。
func ResolveSectionKey(target string, availableKeys []string) string {
	normalizedTarget := normalizeSectionKey(target)
	if normalizedTarget == "" {
		return ""
	}

	for _, key := range availableKeys {
		candidate := normalizeSectionKey(key)
		if candidate == "" {
			continue
		}
		if candidate == normalizedTarget ||
			strings.Contains(candidate, normalizedTarget) ||
			strings.Contains(normalizedTarget, candidate) {
			return key
		}
	}
	return ""
}

// normalizeSectionKey 章节键归一化：小写，空格/连字符统一为下划线
func normalizeSectionKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	return key
}
