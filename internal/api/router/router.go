package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"

	"career-agent-go/internal/api/handler"
	"career-agent-go/internal/config"
	"career-agent-go/internal/processor"
	"career-agent-go/internal/storage"
	"career-agent-go/internal/types"
)

// statusFromError 把业务错误映射为HTTP状态码
func statusFromError(err error) int {
	switch {
	case errors.Is(err, processor.ErrUnsupportedFileType),
		errors.Is(err, processor.ErrEmptyFile),
		errors.Is(err, processor.ErrNoSkillsFound):
		return consts.StatusBadRequest
	case errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, storage.ErrPlanNotFound):
		return consts.StatusNotFound
	case errors.Is(err, handler.ErrPlanGenerationBusy):
		return consts.StatusConflict
	default:
		return consts.StatusInternalServerError
	}
}

func abortWithError(ctx *app.RequestContext, err error) {
	ctx.JSON(statusFromError(err), utils.H{"error": err.Error()})
}

// apiKeyMiddleware 基于Bearer Token的接口鉴权，健康检查放行
func apiKeyMiddleware(cfg *config.Config) app.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.Server.APIKeys))
	for _, key := range cfg.Server.APIKeys {
		allowed[key] = true
	}

	return keyauth.New(
		keyauth.WithKeyLookUp("header:Authorization", "Bearer"),
		keyauth.WithFilter(func(c context.Context, ctx *app.RequestContext) bool {
			return string(ctx.Path()) == "/api/v1/health"
		}),
		keyauth.WithValidator(func(c context.Context, ctx *app.RequestContext, key string) (bool, error) {
			return allowed[key], nil
		}),
	)
}

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, cfg *config.Config,
	resumeHandler *handler.ResumeHandler,
	jobSearchHandler *handler.JobSearchHandler,
	roadmapHandler *handler.RoadmapHandler) {

	api := h.Group("/api/v1")

	// 未配置API Key时不启用鉴权，方便本地调试
	if len(cfg.Server.APIKeys) > 0 {
		api.Use(apiKeyMiddleware(cfg))
	}

	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	api.POST("/resume/upload", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		userID := ctx.PostForm("user_id")
		if userID == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "user_id 不能为空"})
			return
		}

		sourceChannel := ctx.PostForm("source_channel")
		if sourceChannel == "" {
			sourceChannel = "web_upload"
		}

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		resp, err := resumeHandler.HandleResumeUpload(c, file, fileHeader.Filename, userID, sourceChannel)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/resume/:user_id", func(c context.Context, ctx *app.RequestContext) {
		userID := ctx.Param("user_id")
		optimized := string(ctx.Query("optimized")) == "true"

		record, err := resumeHandler.HandleGetResume(c, userID, optimized)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		ctx.JSON(consts.StatusOK, record)
	})

	api.POST("/resume/optimize", func(c context.Context, ctx *app.RequestContext) {
		var req struct {
			UserID      string `json:"user_id"`
			UserRequest string `json:"user_request"`
		}
		if err := ctx.BindAndValidate(&req); err != nil || req.UserID == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体缺少 user_id"})
			return
		}

		resp, err := resumeHandler.HandleOptimizeResume(c, req.UserID, req.UserRequest)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.POST("/resume/linkedin-optimize", func(c context.Context, ctx *app.RequestContext) {
		var req struct {
			UserID      string `json:"user_id"`
			UserRequest string `json:"user_request"`
		}
		if err := ctx.BindAndValidate(&req); err != nil || req.UserID == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体缺少 user_id"})
			return
		}

		content, err := resumeHandler.HandleLinkedInOptimize(c, req.UserID, req.UserRequest)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		ctx.JSON(consts.StatusOK, content)
	})

	api.GET("/resume/download/:user_id", func(c context.Context, ctx *app.RequestContext) {
		userID := ctx.Param("user_id")

		fileName, content, err := resumeHandler.HandleDownload(c, userID)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
		ctx.Data(consts.StatusOK, "text/html; charset=utf-8", content)
	})

	api.POST("/jobs/find", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		location := ctx.PostForm("location")
		userID := ctx.PostForm("user_id")

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		resp, err := jobSearchHandler.HandleFindJobs(c, file, fileHeader.Filename, location, userID)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.POST("/roadmap/generate", func(c context.Context, ctx *app.RequestContext) {
		var req types.CareerPlanRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体解析失败"})
			return
		}
		if req.UserID == "" || req.TargetRole == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "user_id 和 target_role 不能为空"})
			return
		}

		plan, err := roadmapHandler.HandleGenerateRoadmap(c, req)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		ctx.JSON(consts.StatusOK, plan)
	})

	api.POST("/roadmap/tutor", func(c context.Context, ctx *app.RequestContext) {
		var req struct {
			Topic string `json:"topic"`
		}
		if err := ctx.BindAndValidate(&req); err != nil || req.Topic == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体缺少 topic"})
			return
		}

		explanation, err := roadmapHandler.HandleTutorExplain(c, req.Topic)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		ctx.JSON(consts.StatusOK, explanation)
	})

	api.POST("/roadmap/chat", func(c context.Context, ctx *app.RequestContext) {
		var req struct {
			UserID  string              `json:"user_id"`
			Query   string              `json:"query"`
			History []types.ChatMessage `json:"history"`
		}
		if err := ctx.BindAndValidate(&req); err != nil || req.UserID == "" || req.Query == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "user_id 和 query 不能为空"})
			return
		}

		answer, err := roadmapHandler.HandleRoadmapChat(c, req.UserID, req.Query, req.History)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		ctx.JSON(consts.StatusOK, utils.H{"response": answer})
	})

	api.GET("/roadmap/:user_id", func(c context.Context, ctx *app.RequestContext) {
		userID := ctx.Param("user_id")

		plan, fromCache, err := roadmapHandler.HandleGetRoadmap(c, userID)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		ctx.JSON(consts.StatusOK, utils.H{
			"plan":       plan,
			"from_cache": fromCache,
		})
	})
}
