package parser

import (
	"fmt"
	"sort"
	"strings"
)

// Normalize 清理可选字符串：nil/空值返回""，否则去除首尾空白
func Normalize(s string) string {
	return strings.TrimSpace(s)
}

// StringifyListContent 将混合类型的列表内容压平为多行文本。
// 字符串元素原样保留；对象元素渲染为 "Key: value" 对并用", "连接
// （键中的下划线替换为空格并首字母大写）；其他类型直接字符串化。
// 非列表输入降级为其字符串形式，nil返回""。永不失败。
func StringifyListContent(content any) string {
	if content == nil {
		return ""
	}

	list, ok := content.([]any)
	if !ok {
		// 非列表输入直接字符串化
		if s, isStr := content.(string); isStr {
			return s
		}
		return fmt.Sprint(content)
	}

	lines := make([]string, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case string:
			lines = append(lines, v)
		case map[string]any:
			lines = append(lines, stringifyMapEntry(v))
		default:
			lines = append(lines, fmt.Sprint(v))
		}
	}
	return strings.Join(lines, "\n")
}

// stringifyMapEntry 将一个对象渲染为 "Key: value, Other Key: value" 形式。
// map遍历顺序不稳定，这里按键排序保证输出可复现。
func stringifyMapEntry(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s: %v", titleizeKey(k), m[k]))
	}
	return strings.Join(pairs, ", ")
}

// titleizeKey 将 "job_title" 转换为 "Job Title"
func titleizeKey(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// FlattenDescription 将描述字段（字符串或字符串列表）压平为换行连接的存储形式
func FlattenDescription(desc any) string {
	switch v := desc.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []any:
		return StringifyListContent(v)
	case []string:
		return strings.Join(v, "\n")
	default:
		return fmt.Sprint(v)
	}
}

// SplitDescription 将存储的平面文本重新拆分为有序的描述行，跳过空行
func SplitDescription(stored string) []string {
	if strings.TrimSpace(stored) == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(stored, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
