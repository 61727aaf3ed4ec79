package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"career-agent-go/internal/config"
	"career-agent-go/internal/constants"
	"career-agent-go/internal/logger"
	"career-agent-go/internal/processor"
	"career-agent-go/internal/storage"
	"career-agent-go/internal/types"
)

// ErrPlanGenerationBusy 同一用户的规划生成已在进行中
var ErrPlanGenerationBusy = errors.New("职业规划正在生成中，请稍后重试")

// roadmapLockTTL 规划生成锁的过期时间，覆盖最慢的模型调用
const roadmapLockTTL = 2 * time.Minute

// RoadmapHandler 职业规划处理器
type RoadmapHandler struct {
	cfg             *config.Config
	storage         *storage.Storage
	processorModule *processor.ResumeProcessor
}

// NewRoadmapHandler 创建职业规划处理器
func NewRoadmapHandler(
	cfg *config.Config,
	storage *storage.Storage,
	processorModule *processor.ResumeProcessor,
) *RoadmapHandler {
	return &RoadmapHandler{
		cfg:             cfg,
		storage:         storage,
		processorModule: processorModule,
	}
}

// HandleGenerateRoadmap 根据用户简历和目标岗位生成职业规划。
// 生成开销大，用分布式锁挡住同一用户的并发重复请求。
func (h *RoadmapHandler) HandleGenerateRoadmap(ctx context.Context, req types.CareerPlanRequest) (*types.CareerPlan, error) {
	lockKey := fmt.Sprintf(constants.KeyRoadmapLock, req.UserID)
	lockValue, err := h.storage.Redis.AcquireLock(ctx, lockKey, roadmapLockTTL)
	if err != nil {
		// 拿不到锁状态时继续执行，最坏情况是重复调用一次模型
		logger.Warn().Err(err).Str("user_id", req.UserID).Msg("获取规划生成锁失败，继续执行")
	} else if lockValue == "" {
		return nil, fmt.Errorf("user_id=%s: %w", req.UserID, ErrPlanGenerationBusy)
	} else {
		defer func() {
			released, err := h.storage.Redis.ReleaseLock(ctx, lockKey, lockValue)
			if err != nil || !released {
				logger.Warn().
					Err(err).
					Str("user_id", req.UserID).
					Bool("released", released).
					Msg("释放规划生成锁失败")
			}
		}()
	}

	record, err := h.storage.MySQL.FetchResume(ctx, req.UserID, true)
	if err != nil {
		return nil, err
	}

	plan, err := h.processorModule.RoadmapGenerator.GeneratePlan(ctx, req, record)
	if err != nil {
		return nil, fmt.Errorf("生成职业规划失败: %w", err)
	}

	if err := h.storage.MySQL.SaveCareerPlan(ctx, req.UserID, req.TargetRole, plan); err != nil {
		return nil, fmt.Errorf("保存职业规划失败: %w", err)
	}

	// 老缓存立即失效，新结果回填。缓存只是加速，失败不影响响应。
	if err := h.storage.Redis.InvalidateCareerPlan(ctx, req.UserID); err != nil {
		logger.Warn().Err(err).Str("user_id", req.UserID).Msg("失效规划缓存失败")
	}
	if err := h.storage.Redis.CacheCareerPlan(ctx, req.UserID, plan); err != nil {
		logger.Warn().Err(err).Str("user_id", req.UserID).Msg("回填规划缓存失败")
	}

	logger.Info().
		Str("user_id", req.UserID).
		Str("target_role", req.TargetRole).
		Int("phases", len(plan.Phases)).
		Msg("职业规划生成完成")

	return plan, nil
}

// HandleGetRoadmap 查询已生成的职业规划，缓存优先，未命中回源MySQL并回填
func (h *RoadmapHandler) HandleGetRoadmap(ctx context.Context, userID string) (*types.CareerPlan, bool, error) {
	plan, err := h.storage.Redis.GetCachedCareerPlan(ctx, userID)
	if err == nil {
		return plan, true, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		logger.Warn().Err(err).Str("user_id", userID).Msg("查询规划缓存失败，回源MySQL")
	}

	plan, err = h.storage.MySQL.GetCareerPlan(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	if err := h.storage.Redis.CacheCareerPlan(ctx, userID, plan); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("回填规划缓存失败")
	}

	return plan, false, nil
}

// HandleTutorExplain 对规划里的单个知识点生成结构化讲解
func (h *RoadmapHandler) HandleTutorExplain(ctx context.Context, topic string) (*types.TutorExplanation, error) {
	explanation, err := h.processorModule.Tutor.Explain(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("生成知识点讲解失败: %w", err)
	}
	return explanation, nil
}

// HandleRoadmapChat 基于用户已生成的规划回答提问。
// 规划缺失时不报错，问答组件会引导用户先生成规划。
func (h *RoadmapHandler) HandleRoadmapChat(ctx context.Context, userID string, query string, history []types.ChatMessage) (string, error) {
	plan, _, err := h.HandleGetRoadmap(ctx, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrPlanNotFound) {
			logger.Warn().Err(err).Str("user_id", userID).Msg("查询用户规划失败，按无规划继续问答")
		}
		plan = nil
	}

	answer, err := h.processorModule.PlanChatter.Chat(ctx, query, history, plan)
	if err != nil {
		return "", fmt.Errorf("规划问答失败: %w", err)
	}
	return answer, nil
}
