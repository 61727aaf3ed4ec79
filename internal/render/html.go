// Package render 把结构化简历渲染成可下载的HTML文档。
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"career-agent-go/internal/parser"
	"career-agent-go/internal/types"
)

// documentView 模板渲染用的文档视图
type documentView struct {
	Name     string
	Contact  string
	Sections []sectionView
}

// sectionView 单个章节的视图。
// Paragraph、SkillLines、Items 互斥，按章节内容类型二选一填充。
type sectionView struct {
	Title      string
	Paragraph  string
	SkillLines []skillLine
	Items      []itemView
}

type skillLine struct {
	Category string
	Skills   string
}

// itemView 经历类章节的单条条目
type itemView struct {
	Header    string
	SubHeader string
	Bullets   []string
}

var documentTemplate = template.Must(template.New("resume").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Name}}</title>
<style>
body { font-family: Georgia, "Times New Roman", serif; max-width: 800px; margin: 40px auto; color: #222; line-height: 1.5; }
h1 { margin-bottom: 4px; font-size: 28px; }
h2 { border-bottom: 1px solid #999; padding-bottom: 2px; font-size: 18px; margin-top: 24px; }
.contact { color: #555; margin-top: 0; }
.item-header { font-weight: bold; margin-bottom: 0; }
.item-sub { color: #555; margin-top: 0; margin-bottom: 4px; }
ul { margin-top: 4px; }
.skill-category { font-weight: bold; }
</style>
</head>
<body>
{{if .Name}}<h1>{{.Name}}</h1>{{end}}
{{if .Contact}}<p class="contact">{{.Contact}}</p>{{end}}
{{range .Sections}}<h2>{{.Title}}</h2>
{{if .Paragraph}}<p>{{.Paragraph}}</p>
{{end}}{{range .SkillLines}}<p><span class="skill-category">{{.Category}}:</span> {{.Skills}}</p>
{{end}}{{range .Items}}{{if .Header}}<p class="item-header">{{.Header}}</p>
{{end}}{{if .SubHeader}}<p class="item-sub">{{.SubHeader}}</p>
{{end}}{{if .Bullets}}<ul>
{{range .Bullets}}<li>{{.}}</li>
{{end}}</ul>
{{end}}{{end}}{{end}}</body>
</html>
`))

// smartJoin 用分隔符连接非空片段
func smartJoin(parts []string, sep string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return strings.Join(cleaned, sep)
}

// titleize 章节键转显示标题：work_experience -> Work Experience
func titleize(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

func mapField(m map[string]any, key string) string {
	return asString(m[key])
}

// buildItemView 拼装经历条目：标题行、副标题行、描述列表。
// 标题取 title/name/role/degree/institution 中存在的字段，
// 副标题取 company/duration。
func buildItemView(entry map[string]any) itemView {
	item := itemView{
		Header: smartJoin([]string{
			mapField(entry, "title"),
			mapField(entry, "name"),
			mapField(entry, "role"),
			mapField(entry, "degree"),
			mapField(entry, "institution"),
		}, " | "),
		SubHeader: smartJoin([]string{
			mapField(entry, "company"),
			mapField(entry, "duration"),
		}, " | "),
	}

	switch desc := entry["description"].(type) {
	case []any:
		for _, line := range desc {
			if s := asString(line); s != "" {
				item.Bullets = append(item.Bullets, s)
			}
		}
	case []string:
		for _, line := range desc {
			if s := strings.TrimSpace(line); s != "" {
				item.Bullets = append(item.Bullets, s)
			}
		}
	default:
		if s := asString(entry["description"]); s != "" {
			item.Bullets = append(item.Bullets, s)
		}
	}
	return item
}

// buildListSection 构建经历类章节视图；没有任何可渲染条目时返回false
func buildListSection(title string, content any) (sectionView, bool) {
	section := sectionView{Title: title}

	switch v := content.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			section.Paragraph = s
			return section, true
		}
		return section, false
	case []any:
		for _, raw := range v {
			switch entry := raw.(type) {
			case map[string]any:
				item := buildItemView(entry)
				// 标题和描述都缺失的条目没有可渲染内容
				if item.Header == "" && item.SubHeader == "" && len(item.Bullets) == 0 {
					continue
				}
				section.Items = append(section.Items, item)
			default:
				if s := asString(raw); s != "" {
					section.Items = append(section.Items, itemView{Bullets: []string{s}})
				}
			}
		}
		return section, len(section.Items) > 0
	default:
		if s := asString(content); s != "" {
			section.Paragraph = s
			return section, true
		}
		return section, false
	}
}

// buildSkillsSection 技能章节按分类渲染成 "分类: a, b, c" 行，分类排序保证输出稳定
func buildSkillsSection(content any) (sectionView, bool) {
	section := sectionView{Title: "Skills"}
	skillMap, ok := content.(map[string]any)
	if !ok {
		return buildListSection("Skills", content)
	}

	categories := make([]string, 0, len(skillMap))
	for category := range skillMap {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		var names []string
		switch list := skillMap[category].(type) {
		case []any:
			for _, s := range list {
				if name := asString(s); name != "" {
					names = append(names, name)
				}
			}
		case []string:
			for _, s := range list {
				if name := strings.TrimSpace(s); name != "" {
					names = append(names, name)
				}
			}
		default:
			if name := asString(list); name != "" {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			continue
		}
		section.SkillLines = append(section.SkillLines, skillLine{
			Category: titleize(category),
			Skills:   strings.Join(names, ", "),
		})
	}
	return section, len(section.SkillLines) > 0
}

// buildView 按固定章节顺序组装视图，规范之外的章节追加在末尾
func buildView(record types.ResumeRecord) documentView {
	view := documentView{}

	if personal, ok := record[types.SectionPersonalInfo].(map[string]any); ok {
		view.Name = mapField(personal, "name")
		if view.Name == "" {
			view.Name = mapField(personal, "full_name")
		}
		view.Contact = smartJoin([]string{
			mapField(personal, "email"),
			mapField(personal, "phone"),
			mapField(personal, "linkedin"),
			mapField(personal, "github"),
		}, " | ")
	}

	canonical := make(map[string]bool, len(types.CanonicalSectionOrder))
	for _, key := range types.CanonicalSectionOrder {
		canonical[key] = true
	}

	for _, key := range types.CanonicalSectionOrder {
		if key == types.SectionPersonalInfo {
			continue
		}
		content, ok := record[key]
		if !ok {
			continue
		}
		var section sectionView
		var renderable bool
		if key == types.SectionSkills {
			section, renderable = buildSkillsSection(content)
		} else {
			section, renderable = buildListSection(titleize(key), content)
		}
		if renderable {
			view.Sections = append(view.Sections, section)
		}
	}

	// 附加章节排序后追加，避免map遍历顺序抖动
	var extraKeys []string
	for key := range record {
		if !canonical[key] {
			extraKeys = append(extraKeys, key)
		}
	}
	sort.Strings(extraKeys)
	for _, key := range extraKeys {
		content := record[key]
		if text := parser.StringifyListContent(content); text != "" {
			section, renderable := buildListSection(titleize(key), content)
			if renderable {
				view.Sections = append(view.Sections, section)
			}
		}
	}

	return view
}

// RenderHTML 把结构化简历渲染为完整的HTML文档
func RenderHTML(record types.ResumeRecord) ([]byte, error) {
	if len(record) == 0 {
		return nil, fmt.Errorf("简历数据为空，无法渲染文档")
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, buildView(record)); err != nil {
		return nil, fmt.Errorf("渲染简历文档失败: %w", err)
	}
	return buf.Bytes(), nil
}

// DocumentFileName 生成下载文件名：Optimized_<原文件名去后缀>.html
func DocumentFileName(originalFileName string) string {
	base := strings.TrimSpace(originalFileName)
	if base == "" {
		base = "Resume"
	}
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return fmt.Sprintf("Optimized_%s.html", base)
}
