package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-agent-go/internal/config"
	"career-agent-go/internal/jobboard"
)

func TestFetchJobsBySkills(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		skill := r.URL.Query().Get("what")
		if skill == "Docker" {
			// 单个技能的检索失败不应影响其他技能的结果
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"results": [{
			"id": "%s-1",
			"title": "%s Engineer",
			"company": {"display_name": "Acme"},
			"location": {"display_name": "Bangalore"}
		}]}`, skill, skill)
	}))
	t.Cleanup(server.Close)

	cfg := &config.AdzunaConfig{
		AppID:   "id",
		AppKey:  "key",
		BaseURL: server.URL,
		Country: "in",
	}
	client, err := jobboard.NewAdzunaClient(cfg, jobboard.WithHTTPClient(server.Client()))
	require.NoError(t, err)

	h := &JobSearchHandler{adzuna: client}
	jobs := h.fetchJobsBySkills(context.Background(), []string{"Go", "Python", "Docker"}, "Bangalore")

	require.Len(t, jobs, 2, "失败的技能应被跳过，其余结果照常返回")

	bySkill := make(map[string]string, len(jobs))
	for _, job := range jobs {
		bySkill[job.MatchedSkill] = job.Title
	}
	assert.Equal(t, "Go Engineer", bySkill["Go"], "每条岗位应携带触发检索的技能")
	assert.Equal(t, "Python Engineer", bySkill["Python"])
	assert.NotContains(t, bySkill, "Docker", "检索失败的技能不应产生结果")
}

// TestFetchJobsBySkillsStableOrder 并发检索的聚合结果应按技能输入顺序拼接，
// 去重时"先到先留"才可复现
func TestFetchJobsBySkillsStableOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		skill := r.URL.Query().Get("what")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"results": [{
			"id": "%s-1",
			"title": "%s Engineer",
			"company": {"display_name": "Acme"},
			"location": {"display_name": "Bangalore"}
		}]}`, skill, skill)
	}))
	t.Cleanup(server.Close)

	cfg := &config.AdzunaConfig{
		AppID:   "id",
		AppKey:  "key",
		BaseURL: server.URL,
		Country: "in",
	}
	client, err := jobboard.NewAdzunaClient(cfg, jobboard.WithHTTPClient(server.Client()))
	require.NoError(t, err)

	h := &JobSearchHandler{adzuna: client}
	skills := []string{"Go", "Python", "Kubernetes", "Redis", "MySQL"}

	for run := 0; run < 5; run++ {
		jobs := h.fetchJobsBySkills(context.Background(), skills, "Bangalore")
		require.Len(t, jobs, len(skills))
		for i, skill := range skills {
			assert.Equal(t, skill, jobs[i].MatchedSkill, "第%d条结果应来自第%d个技能", i, i)
		}
	}
}
