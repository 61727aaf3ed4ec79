package handler

import (
	"context"
	"fmt"
	"io"
	"sync"

	"career-agent-go/internal/config"
	"career-agent-go/internal/constants"
	"career-agent-go/internal/jobboard"
	"career-agent-go/internal/logger"
	"career-agent-go/internal/processor"
	"career-agent-go/internal/storage"
	"career-agent-go/internal/types"
	"career-agent-go/pkg/utils"
)

// JobSearchHandler 岗位推荐处理器。
// 流程：简历文件 -> 技能关键词 -> 按技能并发检索岗位 -> 去重 -> LLM批量评分 -> 聚合排序。
type JobSearchHandler struct {
	cfg             *config.Config
	storage         *storage.Storage
	adzuna          *jobboard.AdzunaClient
	processorModule *processor.ResumeProcessor
}

// NewJobSearchHandler 创建岗位推荐处理器
func NewJobSearchHandler(
	cfg *config.Config,
	storage *storage.Storage,
	adzuna *jobboard.AdzunaClient,
	processorModule *processor.ResumeProcessor,
) *JobSearchHandler {
	return &JobSearchHandler{
		cfg:             cfg,
		storage:         storage,
		adzuna:          adzuna,
		processorModule: processorModule,
	}
}

// JobSearchResponse 岗位推荐响应
type JobSearchResponse struct {
	ExtractedSkills []string         `json:"extracted_skills"`
	Jobs            []types.RatedJob `json:"jobs"`
	TotalFetched    int              `json:"total_fetched"`
}

// HandleFindJobs 根据上传的简历推荐岗位
func (h *JobSearchHandler) HandleFindJobs(ctx context.Context, reader io.Reader,
	filename string, location string, userID string) (*JobSearchResponse, error) {

	if !h.processorModule.TextExtractor.SupportsFileType(filename) {
		return nil, fmt.Errorf("%s: %w", filename, processor.ErrUnsupportedFileType)
	}

	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	if len(fileBytes) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, processor.ErrEmptyFile)
	}

	text, err := h.processorModule.TextExtractor.ExtractText(ctx, fileBytes, filename)
	if err != nil || text == "" {
		detail := "提取结果为空"
		if err != nil {
			detail = err.Error()
		}
		return nil, processor.NewExtractionError(userID, detail)
	}

	skills := jobboard.ExtractSkills(text)
	if len(skills) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, processor.ErrNoSkillsFound)
	}

	jobs := h.fetchJobsBySkills(ctx, skills, location)
	unique := jobboard.DedupeJobs(jobs)

	var selected []types.RatedJob
	if len(unique) > 0 {
		// 评分是一次性批量调用，失败时降级为0分兜底，不中止推荐
		ratings := h.processorModule.JobRater.RateJobs(ctx, text, unique)
		rated := make([]types.RatedJob, len(unique))
		for i := range unique {
			rated[i] = types.RatedJob{Job: unique[i], Rating: ratings[i]}
		}
		selected = jobboard.SelectTopJobs(rated, skills, constants.MaxJobResults)
	}

	// 检索日志仅用于分析，失败不影响响应
	var userIDPtr *string
	if userID != "" {
		userIDPtr = utils.StringPtr(userID)
	}
	if err := h.storage.MySQL.LogJobSearch(ctx, userIDPtr, location, skills, len(selected)); err != nil {
		logger.Warn().Err(err).Msg("记录岗位检索日志失败")
	}

	logger.Info().
		Int("skills", len(skills)).
		Int("fetched", len(jobs)).
		Int("unique", len(unique)).
		Int("selected", len(selected)).
		Msg("岗位推荐完成")

	return &JobSearchResponse{
		ExtractedSkills: skills,
		Jobs:            selected,
		TotalFetched:    len(unique),
	}, nil
}

// fetchJobsBySkills 按技能并发检索岗位。
// 单个技能的检索失败只记录日志，剩余技能的结果照常返回。
// 聚合结果按技能的输入顺序拼接，保证后续去重时"先到先留"的结果可复现。
func (h *JobSearchHandler) fetchJobsBySkills(ctx context.Context, skills []string, location string) []types.JobListing {
	budget := jobboard.PerSkillBudget(len(skills))

	var wg sync.WaitGroup
	perSkill := make([][]types.JobListing, len(skills))

	for i, skill := range skills {
		wg.Add(1)
		go func(i int, skill string) {
			defer wg.Done()
			jobs, err := h.adzuna.FetchJobs(ctx, skill, location, budget)
			if err != nil {
				logger.Warn().
					Err(err).
					Str("skill", skill).
					Msg("检索岗位失败，跳过该技能")
				return
			}
			perSkill[i] = jobs
		}(i, skill)
	}
	wg.Wait()

	var all []types.JobListing
	for _, jobs := range perSkill {
		all = append(all, jobs...)
	}
	return all
}
