package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// UserProfile 用户主表，保存身份信息与简历概要
type UserProfile struct {
	UserID           string         `gorm:"type:varchar(64);primaryKey"`
	Name             string         `gorm:"type:varchar(255)"`
	Email            string         `gorm:"type:varchar(255);index:idx_user_profiles_email"`
	Phone            string         `gorm:"type:varchar(50)"`
	Location         string         `gorm:"type:varchar(255)"`
	ExtraInfoJSON    datatypes.JSON `gorm:"type:json"` // personal_info中未映射到独立列的键
	Summary          string         `gorm:"type:text"`
	OptimizedSummary *string        `gorm:"type:text"`
	ResumeFileName   string         `gorm:"type:varchar(255)"`
	CreatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// WorkExperience 工作经历表
// Description 按换行拼接为扁平文本存储，读取时再拆分为条目
type WorkExperience struct {
	ID                   uint64    `gorm:"primaryKey;autoIncrement"`
	UserID               string    `gorm:"type:varchar(64);not null;index:idx_we_user_id"`
	Role                 string    `gorm:"type:varchar(255)"`
	Company              string    `gorm:"type:varchar(255)"`
	Duration             string    `gorm:"type:varchar(100)"`
	Description          string    `gorm:"type:text"`
	OptimizedDescription *string   `gorm:"type:text"`
	CreatedAt            time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt            time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (WorkExperience) TableName() string {
	return "work_experiences"
}

// Internship 实习经历表，结构与工作经历一致但独立存储
type Internship struct {
	ID                   uint64    `gorm:"primaryKey;autoIncrement"`
	UserID               string    `gorm:"type:varchar(64);not null;index:idx_in_user_id"`
	Role                 string    `gorm:"type:varchar(255)"`
	Company              string    `gorm:"type:varchar(255)"`
	Duration             string    `gorm:"type:varchar(100)"`
	Description          string    `gorm:"type:text"`
	OptimizedDescription *string   `gorm:"type:text"`
	CreatedAt            time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt            time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Internship) TableName() string {
	return "internships"
}

// EducationEntry 教育经历表
type EducationEntry struct {
	ID                   uint64    `gorm:"primaryKey;autoIncrement"`
	UserID               string    `gorm:"type:varchar(64);not null;index:idx_ed_user_id"`
	Institution          string    `gorm:"type:varchar(255)"`
	Degree               string    `gorm:"type:varchar(255)"`
	Duration             string    `gorm:"type:varchar(100)"`
	Description          string    `gorm:"type:text"`
	OptimizedDescription *string   `gorm:"type:text"`
	CreatedAt            time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt            time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (EducationEntry) TableName() string {
	return "education_entries"
}

// Project 项目经历表
type Project struct {
	ID                   uint64    `gorm:"primaryKey;autoIncrement"`
	UserID               string    `gorm:"type:varchar(64);not null;index:idx_pr_user_id"`
	Title                string    `gorm:"type:varchar(255)"`
	TechStack            string    `gorm:"type:varchar(512)"`
	Description          string    `gorm:"type:text"`
	OptimizedDescription *string   `gorm:"type:text"`
	CreatedAt            time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt            time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}

// Certification 证书表
type Certification struct {
	ID                   uint64    `gorm:"primaryKey;autoIncrement"`
	UserID               string    `gorm:"type:varchar(64);not null;index:idx_ce_user_id"`
	Name                 string    `gorm:"type:varchar(255)"`
	Issuer               string    `gorm:"type:varchar(255)"`
	Year                 string    `gorm:"type:varchar(50)"`
	Description          string    `gorm:"type:text"`
	OptimizedDescription *string   `gorm:"type:text"`
	CreatedAt            time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt            time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Certification) TableName() string {
	return "certifications"
}

// SkillEntry 技能表，一行一个技能，按类别分组
type SkillEntry struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"type:varchar(64);not null;index:idx_sk_user_id"`
	Category  string    `gorm:"type:varchar(100);not null"`
	SkillName string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
}

func (SkillEntry) TableName() string {
	return "skill_entries"
}

// AdditionalSection 未映射到标准分区的简历内容，按原始分区名存储
type AdditionalSection struct {
	ID                   uint64    `gorm:"primaryKey;autoIncrement"`
	UserID               string    `gorm:"type:varchar(64);not null;index:idx_as_user_id"`
	SectionName          string    `gorm:"type:varchar(255);not null"`
	Description          string    `gorm:"type:text"`
	OptimizedDescription *string   `gorm:"type:text"`
	CreatedAt            time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt            time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (AdditionalSection) TableName() string {
	return "additional_sections"
}

// CareerPlanRecord 职业规划持久化表，完整规划以JSON形式存储
type CareerPlanRecord struct {
	ID         uint64         `gorm:"primaryKey;autoIncrement"`
	UserID     string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_cp_user_id_unique"`
	TargetRole string         `gorm:"type:varchar(255)"`
	PlanJSON   datatypes.JSON `gorm:"type:json"`
	CreatedAt  time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt  time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (CareerPlanRecord) TableName() string {
	return "career_plans"
}

// JobSearchLog 岗位检索日志表，记录每次检索的关键词与结果规模
type JobSearchLog struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement"`
	UserID       *string        `gorm:"type:varchar(64);index:idx_jsl_user_id"`
	Location     string         `gorm:"type:varchar(255)"`
	SkillsJSON   datatypes.JSON `gorm:"type:json"`
	ResultsCount int            `gorm:"type:int"`
	CreatedAt    time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
}

func (JobSearchLog) TableName() string {
	return "job_search_logs"
}

// MapToJSON Helper function to convert map[string]interface{} to datatypes.JSON
func MapToJSON(m map[string]interface{}) (datatypes.JSON, error) {
	bytes, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}
