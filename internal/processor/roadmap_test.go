package processor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-agent-go/internal/agent"
	"career-agent-go/internal/types"
)

// TestRoadmapGeneratePlan 测试职业规划生成的基本流程
func TestRoadmapGeneratePlan(t *testing.T) {
	mockResponse := `{
		"domain": "云原生后端开发",
		"job_match_score": 65,
		"timeline": "6个月",
		"phases": [
			{
				"name": "基础巩固",
				"duration": "前2个月",
				"goals": ["掌握Kubernetes核心概念"],
				"skills": ["Kubernetes", "Docker"]
			},
			{
				"name": "项目实战",
				"duration": "后4个月",
				"goals": ["完成一个可演示的微服务项目"],
				"skills": ["gRPC", "服务网格"]
			}
		],
		"projects": ["基于K8s的在线商城部署"],
		"courses": ["CNCF官方CKA认证课程"]
	}`

	mockLLM := agent.NewMockChatClient(mockResponse, nil)
	generator := NewLLMRoadmapGenerator(mockLLM)

	req := types.CareerPlanRequest{
		UserID:         "user-1",
		TargetRole:     "云原生后端工程师",
		TimelineMonths: 6,
		WeeklyHours:    10,
		CurrentSkills:  []string{"Go", "MySQL"},
	}

	plan, err := generator.GeneratePlan(context.Background(), req, nil)
	require.NoError(t, err)
	require.NotNil(t, plan)

	assert.Equal(t, "云原生后端开发", plan.Domain)
	assert.Equal(t, 65, plan.JobMatchScore)
	require.Len(t, plan.Phases, 2)
	assert.Equal(t, "基础巩固", plan.Phases[0].Name)
	assert.Contains(t, plan.Phases[0].Skills, "Kubernetes")
	assert.Len(t, plan.Projects, 1)
	assert.Len(t, plan.Courses, 1)
}

// TestRoadmapGeneratePlanWithResume 测试带简历背景时不报错
func TestRoadmapGeneratePlanWithResume(t *testing.T) {
	mockLLM := agent.NewMockChatClient(`{"domain": "后端", "job_match_score": 80, "timeline": "3个月", "phases": []}`, nil)
	generator := NewLLMRoadmapGenerator(mockLLM)

	record := types.ResumeRecord{
		"summary": "五年后端经验",
		"skills":  map[string]any{"Languages": []any{"Go"}},
	}

	plan, err := generator.GeneratePlan(context.Background(),
		types.CareerPlanRequest{UserID: "user-2", TargetRole: "架构师"}, record)
	require.NoError(t, err)
	assert.Equal(t, 80, plan.JobMatchScore)
}

// TestRoadmapGeneratePlanUnparseable 测试不可解析的输出返回错误
func TestRoadmapGeneratePlanUnparseable(t *testing.T) {
	mockLLM := agent.NewMockChatClient("作为AI助手，我建议你先学习基础知识。", nil)
	generator := NewLLMRoadmapGenerator(mockLLM)

	_, err := generator.GeneratePlan(context.Background(),
		types.CareerPlanRequest{UserID: "user-3", TargetRole: "工程师"}, nil)
	assert.Error(t, err)
}
