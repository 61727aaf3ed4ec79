package jobboard

import (
	"fmt"
	"sort"
	"strings"

	"career-agent-go/internal/constants"
	"career-agent-go/internal/types"
)

// PerSkillBudget 把总检索预算平摊到每个技能关键词，至少为1
func PerSkillBudget(skillCount int) int {
	if skillCount <= 0 {
		return 0
	}
	budget := constants.JobFetchPoolSize / skillCount
	if budget < 1 {
		budget = 1
	}
	if budget > constants.MaxResultsPerSkill {
		budget = constants.MaxResultsPerSkill
	}
	return budget
}

// jobIdentity 去重键：标题+公司+地点
func jobIdentity(job types.JobListing) string {
	return strings.ToLower(fmt.Sprintf("%s|%s|%s", job.Title, job.Company, job.Location))
}

// DedupeJobs 按(标题、公司、地点)去重，保留先到的岗位
func DedupeJobs(jobs []types.JobListing) []types.JobListing {
	seen := make(map[string]bool, len(jobs))
	unique := make([]types.JobListing, 0, len(jobs))
	for _, job := range jobs {
		key := jobIdentity(job)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, job)
	}
	return unique
}

// SelectTopJobs 选出最终返回的岗位列表。
// 先按技能顺序为每个技能取评分最高的一条，再用全局评分最高的岗位补足limit条。
func SelectTopJobs(rated []types.RatedJob, skills []string, limit int) []types.RatedJob {
	if limit <= 0 {
		limit = constants.MaxJobResults
	}

	bySkill := make(map[string][]types.RatedJob, len(skills))
	for _, rj := range rated {
		if rj.Job.MatchedSkill == "" {
			continue
		}
		bySkill[rj.Job.MatchedSkill] = append(bySkill[rj.Job.MatchedSkill], rj)
	}

	var selected []types.RatedJob
	seen := make(map[string]bool)

	// 每个技能先保证一条评分最高的岗位
	for _, skill := range skills {
		candidates := bySkill[skill]
		if len(candidates) == 0 {
			continue
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Rating.Rating > candidates[j].Rating.Rating
		})
		top := candidates[0]
		key := jobIdentity(top.Job)
		if seen[key] {
			continue
		}
		seen[key] = true
		selected = append(selected, top)
	}

	// 用全局评分最高的岗位补足剩余名额
	overall := make([]types.RatedJob, len(rated))
	copy(overall, rated)
	sort.SliceStable(overall, func(i, j int) bool {
		return overall[i].Rating.Rating > overall[j].Rating.Rating
	})
	for _, rj := range overall {
		if len(selected) >= limit {
			break
		}
		key := jobIdentity(rj.Job)
		if seen[key] {
			continue
		}
		seen[key] = true
		selected = append(selected, rj)
	}

	if len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}
