package jobboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"career-agent-go/internal/types"
)

func makeJob(id, title, company, location, skill string) types.JobListing {
	return types.JobListing{
		ID:           id,
		Title:        title,
		Company:      company,
		Location:     location,
		MatchedSkill: skill,
	}
}

func TestPerSkillBudget(t *testing.T) {
	assert.Equal(t, 0, PerSkillBudget(0), "没有技能时预算应为0")
	assert.Equal(t, 10, PerSkillBudget(5), "预算应为总额除以技能数")
	assert.Equal(t, 1, PerSkillBudget(100), "技能过多时每个技能至少保留1条")
	assert.Equal(t, 20, PerSkillBudget(1), "单技能预算不应超过单技能上限")
}

func TestDedupeJobs(t *testing.T) {
	jobs := []types.JobListing{
		makeJob("1", "Backend Engineer", "Acme", "Bangalore", "Go"),
		makeJob("2", "Backend Engineer", "Acme", "Bangalore", "Python"),
		makeJob("3", "Backend Engineer", "Acme", "Mumbai", "Go"),
		makeJob("4", "backend engineer", "acme", "bangalore", "Docker"),
	}

	unique := DedupeJobs(jobs)

	assert.Len(t, unique, 2, "相同标题+公司+地点的岗位应去重")
	assert.Equal(t, "1", unique[0].ID, "去重应保留先出现的岗位")
	assert.Equal(t, "Go", unique[0].MatchedSkill, "保留岗位的技能标记不应改变")
	assert.Equal(t, "3", unique[1].ID, "不同地点的岗位不应被去重")
}

func TestSelectTopJobsPerSkillFirst(t *testing.T) {
	rated := []types.RatedJob{
		{Job: makeJob("1", "Go Dev", "Acme", "Bangalore", "Go"), Rating: types.JobRating{JobID: "1", Rating: 5}},
		{Job: makeJob("2", "Go Lead", "Beta", "Bangalore", "Go"), Rating: types.JobRating{JobID: "2", Rating: 9}},
		{Job: makeJob("3", "Python Dev", "Acme", "Mumbai", "Python"), Rating: types.JobRating{JobID: "3", Rating: 3}},
	}

	selected := SelectTopJobs(rated, []string{"Go", "Python"}, 2)

	assert.Len(t, selected, 2, "应返回limit条岗位")
	assert.Equal(t, "2", selected[0].Job.ID, "每个技能应先选评分最高的岗位")
	assert.Equal(t, "3", selected[1].Job.ID, "技能顺序决定入选顺序")
}

func TestSelectTopJobsFillsRemainder(t *testing.T) {
	rated := []types.RatedJob{
		{Job: makeJob("1", "Go Dev", "Acme", "Bangalore", "Go"), Rating: types.JobRating{JobID: "1", Rating: 4}},
		{Job: makeJob("2", "Go Lead", "Beta", "Bangalore", "Go"), Rating: types.JobRating{JobID: "2", Rating: 9}},
		{Job: makeJob("3", "Go SRE", "Gamma", "Delhi", "Go"), Rating: types.JobRating{JobID: "3", Rating: 7}},
		{Job: makeJob("4", "Go Intern", "Delta", "Pune", "Go"), Rating: types.JobRating{JobID: "4", Rating: 2}},
	}

	selected := SelectTopJobs(rated, []string{"Go"}, 3)

	assert.Len(t, selected, 3, "名额未满时应用全局高分岗位补足")
	assert.Equal(t, "2", selected[0].Job.ID, "技能最高分岗位优先")
	assert.Equal(t, "3", selected[1].Job.ID, "剩余名额按全局评分降序补足")
	assert.Equal(t, "1", selected[2].Job.ID, "剩余名额按全局评分降序补足")
}

func TestSelectTopJobsSkipsDuplicates(t *testing.T) {
	// 同一岗位被多个技能命中时只能入选一次
	shared := makeJob("1", "Fullstack Dev", "Acme", "Bangalore", "Go")
	sharedPy := shared
	sharedPy.ID = "2"
	sharedPy.MatchedSkill = "Python"

	rated := []types.RatedJob{
		{Job: shared, Rating: types.JobRating{JobID: "1", Rating: 8}},
		{Job: sharedPy, Rating: types.JobRating{JobID: "2", Rating: 7}},
	}

	selected := SelectTopJobs(rated, []string{"Go", "Python"}, 5)

	assert.Len(t, selected, 1, "重复岗位不应重复入选")
	assert.Equal(t, "1", selected[0].Job.ID)
}

func TestSelectTopJobsEmptyInput(t *testing.T) {
	assert.Empty(t, SelectTopJobs(nil, []string{"Go"}, 7), "没有岗位时应返回空结果")
}
