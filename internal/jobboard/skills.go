package jobboard

import (
	"regexp"
	"strings"
	"sync"
)

// knownSkills 关键词匹配用的技能清单。
// 简历全文扫描只做整词匹配，语义抽取走LLM技能分类器。
var knownSkills = []string{
	"Python", "Java", "C++", "JavaScript", "TypeScript", "Go", "Rust", "C#",
	"SQL", "NoSQL", "MongoDB", "PostgreSQL", "MySQL", "Redis", "Elasticsearch",
	"React", "Angular", "Vue.js", "Node.js", "Express.js", "Django", "Flask", "Spring Boot",
	"AWS", "Azure", "Google Cloud", "GCP", "Docker", "Kubernetes", "Git", "Jenkins", "Terraform",
	"Machine Learning", "Deep Learning", "NLP", "Computer Vision", "Data Analysis", "Data Science",
	"Cloud Computing", "DevOps", "Cybersecurity", "Blockchain", "Agile", "Scrum",
	"Communication", "Teamwork", "Leadership", "Problem Solving", "Critical Thinking", "Adaptability",
	"Project Management", "UI/UX Design", "Frontend", "Backend", "Fullstack",
}

var (
	skillPatterns     map[string]*regexp.Regexp
	skillPatternsOnce sync.Once
)

// compileSkillPatterns 预编译全部技能的整词匹配正则
func compileSkillPatterns() {
	skillPatterns = make(map[string]*regexp.Regexp, len(knownSkills))
	for _, skill := range knownSkills {
		// C++、Node.js 等含正则元字符的技能名需要转义
		pattern := `(?i)\b` + regexp.QuoteMeta(strings.ToLower(skill)) + `\b`
		skillPatterns[skill] = regexp.MustCompile(pattern)
	}
}

// ExtractSkills 从简历全文中按整词匹配提取技能关键词。
// 返回顺序与清单顺序一致，保证结果稳定。
func ExtractSkills(text string) []string {
	if text == "" {
		return nil
	}

	skillPatternsOnce.Do(compileSkillPatterns)

	lowered := strings.ToLower(text)
	var found []string
	for _, skill := range knownSkills {
		if skillPatterns[skill].MatchString(lowered) {
			found = append(found, skill)
		}
	}
	return found
}
