package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid/v5"

	"career-agent-go/internal/config"
	"career-agent-go/internal/constants"
	"career-agent-go/internal/logger"
	"career-agent-go/internal/processor"
	"career-agent-go/internal/render"
	"career-agent-go/internal/storage"
	"career-agent-go/internal/types"
	"career-agent-go/pkg/utils"
)

// 上传处理结果状态
const (
	StatusProcessed            = "PROCESSED"
	StatusDuplicateFileSkipped = "DUPLICATE_FILE_SKIPPED"
)

// ResumeHandler 简历处理器，负责协调简历的处理流程
type ResumeHandler struct {
	cfg             *config.Config
	storage         *storage.Storage
	processorModule *processor.ResumeProcessor
}

// NewResumeHandler 创建一个新的简历处理器
func NewResumeHandler(
	cfg *config.Config,
	storage *storage.Storage,
	processorModule *processor.ResumeProcessor,
) *ResumeHandler {
	return &ResumeHandler{
		cfg:             cfg,
		storage:         storage,
		processorModule: processorModule,
	}
}

// ResumeUploadResponse 简历上传响应
type ResumeUploadResponse struct {
	SubmissionUUID string `json:"submission_uuid"`
	Status         string `json:"status"`
	SectionCount   int    `json:"section_count,omitempty"`
}

// OptimizeResponse 简历优化响应。ArchiveURL是MinIO归档副本的预签名直链，
// 归档不可用时为空，客户端回退到DownloadURL由服务端现场渲染。
type OptimizeResponse struct {
	Message     string `json:"message"`
	DownloadURL string `json:"download_url"`
	ArchiveURL  string `json:"archive_url,omitempty"`
}

// HandleResumeUpload 处理简历上传请求：
// 校验文件 -> MD5去重 -> 文本提取 -> LLM结构化 -> 整表落库 -> 归档原件 -> 发布事件。
// 同一文件重复上传时直接短路返回首次提交的UUID，不再触发模型调用。
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, reader io.Reader,
	filename string, userID string, sourceChannel string) (*ResumeUploadResponse, error) {

	// 文件类型校验要在任何模型调用之前完成
	if !h.processorModule.TextExtractor.SupportsFileType(filename) {
		return nil, fmt.Errorf("%s: %w", filename, processor.ErrUnsupportedFileType)
	}

	// reader只能读一次，后续MD5计算、文本提取、MinIO上传共用这份字节
	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	if len(fileBytes) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, processor.ErrEmptyFile)
	}
	fileMD5Hex := utils.CalculateMD5(fileBytes)

	uuidV7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	submissionUUID := uuidV7.String()

	// 检查文件MD5是否已处理过。去重是重要逻辑，Redis查询失败时直接报错。
	exists, firstSubmissionUUID, err := h.storage.Redis.CheckAndSetFileMD5(ctx, fileMD5Hex, submissionUUID)
	if err != nil {
		logger.Error().
			Err(err).
			Str("md5", fileMD5Hex).
			Msg("查询Redis文件MD5记录失败")
		return nil, fmt.Errorf("检查文件MD5重复性时Redis查询失败: %w", err)
	}
	if exists {
		logger.Info().
			Str("md5", fileMD5Hex).
			Str("filename", filename).
			Str("first_submission", firstSubmissionUUID).
			Msg("检测到重复的文件MD5，跳过处理")
		return &ResumeUploadResponse{
			SubmissionUUID: firstSubmissionUUID,
			Status:         StatusDuplicateFileSkipped,
		}, nil
	}

	text, err := h.processorModule.TextExtractor.ExtractText(ctx, fileBytes, filename)
	if err != nil || text == "" {
		// 处理失败时回收MD5记录，让同一文件的重试不被当成重复提交
		h.rollbackFileMD5(ctx, fileMD5Hex)
		detail := "提取结果为空"
		if err != nil {
			detail = err.Error()
		}
		return nil, processor.NewExtractionError(userID, detail)
	}

	record, err := h.processorModule.Structurer.Structure(ctx, text)
	if err != nil {
		h.rollbackFileMD5(ctx, fileMD5Hex)
		return nil, processor.NewStructuringError(userID, err.Error())
	}

	h.enrichSkills(ctx, text, record)

	if err := h.storage.MySQL.ReplaceResumeData(ctx, userID, filename, record); err != nil {
		h.rollbackFileMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("保存结构化简历失败: %w", err)
	}

	// 原件归档和事件发布都不是主流程，失败只记录，简历数据已落库
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".pdf"
	}
	var objectKey string
	if h.storage.MinIO != nil {
		objectKey, err = h.storage.MinIO.UploadOriginalResume(ctx, submissionUUID, ext,
			bytes.NewReader(fileBytes), int64(len(fileBytes)))
		if err != nil {
			logger.Warn().
				Err(err).
				Str("submission_uuid", submissionUUID).
				Msg("归档原始简历到MinIO失败")
		}
	}

	event := &storage.ResumeUploadedEvent{
		SubmissionUUID:      submissionUUID,
		UserID:              userID,
		SubmissionTimestamp: time.Now(),
		OriginalFilename:    filename,
		OriginalFilePathOSS: objectKey,
		RawFileMD5:          fileMD5Hex,
		SectionCount:        len(record),
		SourceChannel:       sourceChannel,
	}
	if h.storage.RabbitMQ != nil {
		if err := h.storage.RabbitMQ.PublishResumeUploaded(ctx, event); err != nil {
			logger.Warn().
				Err(err).
				Str("submission_uuid", submissionUUID).
				Msg("发布简历上传事件失败")
		}
	}

	logger.Info().
		Str("submission_uuid", submissionUUID).
		Str("user_id", userID).
		Int("section_count", len(record)).
		Msg("简历上传处理完成")

	return &ResumeUploadResponse{
		SubmissionUUID: submissionUUID,
		Status:         StatusProcessed,
		SectionCount:   len(record),
	}, nil
}

// rollbackFileMD5 处理失败后回收MD5记录
func (h *ResumeHandler) rollbackFileMD5(ctx context.Context, md5Hex string) {
	if err := h.storage.Redis.RemoveRawFileMD5(ctx, md5Hex); err != nil {
		logger.Warn().
			Err(err).
			Str("md5", md5Hex).
			Msg("回收文件MD5记录失败，该文件的重试会被误判为重复")
	}
}

// enrichSkills 用LLM技能分类器补充技能章节。
// 这是可选的增强步骤，失败不中止上传流程；结构化结果里已有技能时不覆盖。
func (h *ResumeHandler) enrichSkills(ctx context.Context, text string, record types.ResumeRecord) {
	if h.processorModule.SkillCategorizer == nil {
		return
	}
	if existing, ok := record[types.SectionSkills].(map[string]any); ok && len(existing) > 0 {
		return
	}

	categorized, err := h.processorModule.SkillCategorizer.Categorize(ctx, text)
	if err != nil {
		logger.Warn().Err(err).Msg("技能分类提取失败，跳过技能补充")
		return
	}
	if len(categorized) == 0 {
		return
	}

	skills := make(map[string]any, len(categorized))
	for category, names := range categorized {
		list := make([]any, 0, len(names))
		for _, name := range names {
			list = append(list, name)
		}
		skills[category] = list
	}
	record[types.SectionSkills] = skills
}

// HandleGetResume 查询结构化简历。optimized为true时返回优化视图，
// 未优化的条目回退到原始描述。
func (h *ResumeHandler) HandleGetResume(ctx context.Context, userID string, optimized bool) (types.ResumeRecord, error) {
	return h.storage.MySQL.FetchResume(ctx, userID, optimized)
}

// HandleOptimizeResume 按用户指令优化简历并生成可下载的文档
func (h *ResumeHandler) HandleOptimizeResume(ctx context.Context, userID string, userRequest string) (*OptimizeResponse, error) {
	record, err := h.storage.MySQL.FetchResume(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	optimized, err := h.processorModule.Optimizer.Optimize(ctx, record, userRequest)
	if err != nil {
		return nil, fmt.Errorf("简历优化失败: %w", err)
	}

	if err := h.storage.MySQL.UpdateOptimizedResume(ctx, userID, optimized); err != nil {
		return nil, fmt.Errorf("保存优化结果失败: %w", err)
	}

	downloadURL := fmt.Sprintf("/api/v1/resume/download/%s", userID)

	// 渲染并归档优化后的文档。下载接口按需重新渲染，归档失败不影响响应。
	var archiveURL string
	if fileName, html, err := h.renderOptimizedDocument(ctx, userID); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("渲染优化文档失败")
	} else if h.storage.MinIO != nil {
		if _, err := h.storage.MinIO.UploadRenderedDocument(ctx, userID, fileName, html); err != nil {
			logger.Warn().Err(err).Str("user_id", userID).Msg("归档优化文档到MinIO失败")
		} else if url, err := h.storage.MinIO.GetDocumentPresignedURL(ctx, userID, fileName, constants.DocumentURLTTL); err != nil {
			logger.Warn().Err(err).Str("user_id", userID).Msg("生成归档文档预签名URL失败")
		} else {
			archiveURL = url
		}
	}

	if h.storage.RabbitMQ != nil {
		event := &storage.ResumeOptimizedEvent{
			UserID:      userID,
			UserRequest: userRequest,
			DownloadURL: downloadURL,
		}
		if err := h.storage.RabbitMQ.PublishResumeOptimized(ctx, event); err != nil {
			logger.Warn().Err(err).Str("user_id", userID).Msg("发布简历优化事件失败")
		}
	}

	return &OptimizeResponse{
		Message:     "优化完成",
		DownloadURL: downloadURL,
		ArchiveURL:  archiveURL,
	}, nil
}

// HandleLinkedInOptimize 根据简历生成领英内容
func (h *ResumeHandler) HandleLinkedInOptimize(ctx context.Context, userID string, userRequest string) (*types.LinkedInContent, error) {
	record, err := h.storage.MySQL.FetchResume(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	content, err := h.processorModule.LinkedInGenerator.GenerateContent(ctx, record, userRequest)
	if err != nil {
		return nil, fmt.Errorf("生成领英内容失败: %w", err)
	}
	return content, nil
}

// HandleDownload 渲染优化后的简历文档供下载
func (h *ResumeHandler) HandleDownload(ctx context.Context, userID string) (string, []byte, error) {
	fileName, html, err := h.renderOptimizedDocument(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	// 顺手刷新MinIO里的归档副本
	if h.storage.MinIO != nil {
		if _, err := h.storage.MinIO.UploadRenderedDocument(ctx, userID, fileName, html); err != nil {
			logger.Warn().Err(err).Str("user_id", userID).Msg("刷新优化文档归档失败")
		}
	}

	return fileName, html, nil
}

// renderOptimizedDocument 取优化视图渲染HTML文档，返回下载文件名和内容
func (h *ResumeHandler) renderOptimizedDocument(ctx context.Context, userID string) (string, []byte, error) {
	record, err := h.storage.MySQL.FetchResume(ctx, userID, true)
	if err != nil {
		return "", nil, err
	}

	html, err := render.RenderHTML(record)
	if err != nil {
		return "", nil, err
	}

	originalName, err := h.storage.MySQL.GetResumeFileName(ctx, userID)
	if err != nil {
		originalName = ""
	}
	return render.DocumentFileName(originalName), html, nil
}
