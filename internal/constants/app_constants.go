package constants

import "time"

const (
	// CareerPlanTTL 职业规划缓存过期时间
	CareerPlanTTL = 24 * time.Hour
	// DocumentURLTTL 渲染文档预签名下载链接有效期
	DocumentURLTTL = 24 * time.Hour

	// MaxJobResults 岗位检索聚合结果上限
	MaxJobResults = 7
	// JobFetchPoolSize 岗位检索总预算，平摊到每个技能关键词
	JobFetchPoolSize = 50
	// MaxResultsPerSkill 单个技能关键词的岗位检索上限
	MaxResultsPerSkill = 20
)
