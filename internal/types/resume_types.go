package types

// ResumeRecord 结构化简历记录。
// 顶层键为章节键（personal_info、work_experience 等），值为章节内容：
// personal_info 为对象，经历类章节为对象数组，summary 为字符串。
// 模型偶尔会产出规范之外的章节键，这些键原样保留，落库时进入附加章节表。
type ResumeRecord = map[string]any

// 规范章节键。所有内部处理统一使用这些键，模型输出中的别名
// （见 SectionAliases）在落库前被归一化。
const (
	SectionPersonalInfo   = "personal_info"
	SectionSummary        = "summary"
	SectionSkills         = "skills"
	SectionWorkExperience = "work_experience"
	SectionInternships    = "internships"
	SectionProjects       = "projects"
	SectionEducation      = "education"
	SectionCertifications = "certifications"
)

// CanonicalSectionOrder 文档渲染和整表重建时的固定章节顺序，
// 附加章节始终排在这些章节之后。
var CanonicalSectionOrder = []string{
	SectionPersonalInfo,
	SectionSummary,
	SectionSkills,
	SectionWorkExperience,
	SectionInternships,
	SectionProjects,
	SectionEducation,
	SectionCertifications,
}

// SectionAliases 模型输出章节键到规范键的映射。
// 大模型对同一章节的命名并不稳定，这里逐一收口。
var SectionAliases = map[string]string{
	"professional_experience": SectionWorkExperience,
	"employment_history":      SectionWorkExperience,
	"experience":              SectionWorkExperience,
	"internship_experience":   SectionInternships,
	"academic_background":     SectionEducation,
	"educational_background":  SectionEducation,
	"professional_summary":    SectionSummary,
	"profile_summary":         SectionSummary,
	"objective":               SectionSummary,
	"contact_information":     SectionPersonalInfo,
	"licenses_certifications": SectionCertifications,
	"personal_projects":       SectionProjects,
}

// CanonicalSectionKey 将模型输出的章节键归一化为规范键；
// 无别名映射时原样返回。
func CanonicalSectionKey(key string) string {
	if canonical, ok := SectionAliases[key]; ok {
		return canonical
	}
	return key
}

// PersonalInfo 个人信息章节（含身份字段，优化流程不允许改写）
type PersonalInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// LinkedInContent 领英内容优化结果
type LinkedInContent struct {
	// Headlines 候选标题（多条备选）
	Headlines []string `json:"headlines"`
	// AboutSection 关于我
	AboutSection string `json:"about_section"`
	// OptimizedExperiences 按经历改写后的描述
	OptimizedExperiences []OptimizedEntry `json:"optimized_experiences"`
	// OptimizedProjects 按项目改写后的描述
	OptimizedProjects []OptimizedEntry `json:"optimized_projects"`
}

// OptimizedEntry 领英优化中单条经历/项目的改写结果
type OptimizedEntry struct {
	Title       string   `json:"title"`
	Description []string `json:"description"`
}

// JobListing 岗位列表条目（来自招聘平台API）
type JobListing struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	SalaryMin   float64 `json:"salary_min,omitempty"`
	SalaryMax   float64 `json:"salary_max,omitempty"`
	// MatchedSkill 触发本条岗位检索的技能关键词
	MatchedSkill string `json:"matched_skill"`
}

// JobRating 单个岗位的匹配评分
type JobRating struct {
	// JobID 对应 JobListing.ID
	JobID string `json:"job_id"`
	// Rating 匹配分数 (1-10，0表示评分不可用)
	Rating int `json:"rating"`
	// Reason 评分理由
	Reason string `json:"reason"`
}

// RatedJob 岗位与评分的聚合结果
type RatedJob struct {
	Job    JobListing `json:"job"`
	Rating JobRating  `json:"rating"`
}

// CareerPlanRequest 职业规划生成请求
type CareerPlanRequest struct {
	UserID          string   `json:"user_id"`
	TargetRole      string   `json:"target_role"`
	CurrentSkills   []string `json:"current_skills,omitempty"`
	TimelineMonths  int      `json:"timeline_months,omitempty"`
	WeeklyHours     int      `json:"weekly_hours,omitempty"`
	PreferredDomain string   `json:"preferred_domain,omitempty"`
}

// CareerPlan 职业规划结果
type CareerPlan struct {
	Domain        string            `json:"domain"`
	JobMatchScore int               `json:"job_match_score"`
	Timeline      string            `json:"timeline"`
	Phases        []CareerPlanPhase `json:"phases"`
	Projects      []string          `json:"projects"`
	Courses       []string          `json:"courses"`
}

// CareerPlanPhase 职业规划中的单个阶段
type CareerPlanPhase struct {
	Name     string   `json:"name"`
	Duration string   `json:"duration"`
	Goals    []string `json:"goals"`
	Skills   []string `json:"skills"`
}

// TutorExplanation 学习辅导的知识点讲解
type TutorExplanation struct {
	Analogy             string   `json:"analogy"`              // 生活化类比
	TechnicalDefinition string   `json:"technical_definition"` // 技术定义，可带代码片段
	Prerequisites       []string `json:"prerequisites"`        // 建议先补的前置概念
}

// ChatMessage 规划问答的单轮对话消息
type ChatMessage struct {
	Role    string `json:"role"` // user 或 assistant
	Content string `json:"content"`
}
