package storage

import (
	"bytes"
	"career-agent-go/internal/config"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"career-agent-go/internal/tracing"
)

var minioTracer = otel.Tracer("career-agent-go/storage/minio")

// ObjectStorage 对象存储接口
type ObjectStorage interface {
	// UploadFile 上传文件到指定桶
	UploadFile(ctx context.Context, bucketName, objectName string, reader io.Reader, fileSize int64, contentType string) (string, error)

	// GetPresignedURL 获取预签名URL
	GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error)

	// 简历领域操作
	UploadOriginalResume(ctx context.Context, submissionUUID, fileExt string, reader io.Reader, fileSize int64) (string, error)
	UploadRenderedDocument(ctx context.Context, userID, fileName string, content []byte) (string, error)
	GetDocumentPresignedURL(ctx context.Context, userID, fileName string, expiry time.Duration) (string, error)
}

// 确保MinIO实现了ObjectStorage接口
var _ ObjectStorage = (*MinIO)(nil)

// MinIO 提供对象存储功能
type MinIO struct {
	client          *minio.Client
	cfg             *config.MinIOConfig
	originalsBucket string
	documentsBucket string
	logger          *log.Logger
}

// NewMinIO 创建MinIO客户端
func NewMinIO(cfg *config.MinIOConfig, logger *log.Logger) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	logger.Printf("[MinIO] Initializing MinIO client with endpoint: %s, originalsBucket: %s, documentsBucket: %s",
		cfg.Endpoint, cfg.OriginalsBucket, cfg.DocumentsBucket)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		logger.Printf("[MinIO] Initialization failed: %v", err)
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	originalsBucket := cfg.OriginalsBucket
	if originalsBucket == "" {
		originalsBucket = "resume-originals"
	}
	documentsBucket := cfg.DocumentsBucket
	if documentsBucket == "" {
		documentsBucket = "resume-documents"
	}

	m := &MinIO{
		client:          client,
		cfg:             cfg,
		originalsBucket: originalsBucket,
		documentsBucket: documentsBucket,
		logger:          logger,
	}

	// 确保存储桶存在
	if err := m.ensureBucketExists(originalsBucket, cfg.Location); err != nil {
		logger.Printf("[MinIO] Failed to ensure originals bucket %s exists: %v", originalsBucket, err)
		return nil, fmt.Errorf("确保原始简历存储桶 %s 存在失败: %w", originalsBucket, err)
	}
	if err := m.ensureBucketExists(documentsBucket, cfg.Location); err != nil {
		logger.Printf("[MinIO] Failed to ensure documents bucket %s exists: %v", documentsBucket, err)
		return nil, fmt.Errorf("确保渲染文档存储桶 %s 存在失败: %w", documentsBucket, err)
	}

	// 设置生命周期规则
	if cfg.OriginalFileExpireDays > 0 || cfg.DocumentExpireDays > 0 {
		if err := m.setupLifecycleRules(context.Background()); err != nil {
			logger.Printf("[MinIO] Warning: Failed to set up lifecycle rules: %v", err)
		}
	}

	logger.Printf("[MinIO] Client initialized successfully for endpoint: %s", cfg.Endpoint)
	return m, nil
}

// ensureBucketExists 确保存储桶存在
func (m *MinIO) ensureBucketExists(bucketName, location string) error {
	exists, err := m.client.BucketExists(context.Background(), bucketName)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 是否存在时出错: %w", bucketName, err)
	}
	if !exists {
		m.logger.Printf("[MinIO] Bucket %s does not exist, attempting to create...", bucketName)
		err = m.client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{Region: location})
		if err != nil {
			return fmt.Errorf("创建存储桶 %s 失败: %w", bucketName, err)
		}
		m.logger.Printf("[MinIO] Bucket %s created successfully.", bucketName)
	}
	return nil
}

// setupLifecycleRules 设置对象生命周期规则
func (m *MinIO) setupLifecycleRules(ctx context.Context) error {
	if m.cfg.OriginalFileExpireDays > 0 {
		if err := m.setupBucketLifecycle(ctx, m.originalsBucket, "expire-originals", m.cfg.OriginalFileExpireDays); err != nil {
			return fmt.Errorf("为原始文件存储桶 %s 设置生命周期失败: %w", m.originalsBucket, err)
		}
	}
	if m.cfg.DocumentExpireDays > 0 {
		if err := m.setupBucketLifecycle(ctx, m.documentsBucket, "expire-documents", m.cfg.DocumentExpireDays); err != nil {
			return fmt.Errorf("为渲染文档存储桶 %s 设置生命周期失败: %w", m.documentsBucket, err)
		}
	}
	return nil
}

// setupBucketLifecycle 为指定存储桶设置生命周期规则
func (m *MinIO) setupBucketLifecycle(ctx context.Context, bucketName, ruleID string, expiryDays int) error {
	lc := lifecycle.NewConfiguration()
	lc.Rules = []lifecycle.Rule{
		{
			ID:     ruleID,
			Status: "Enabled",
			Expiration: lifecycle.Expiration{
				Days: lifecycle.ExpirationDays(expiryDays),
			},
		},
	}

	if err := m.client.SetBucketLifecycle(ctx, bucketName, lc); err != nil {
		return err
	}
	m.logger.Printf("[MinIO] Successfully set lifecycle for bucket %s (rule=%s, days=%d).", bucketName, ruleID, expiryDays)
	return nil
}

// UploadFile 上传文件到指定桶
func (m *MinIO) UploadFile(ctx context.Context, bucketName, objectName string, reader io.Reader, fileSize int64, contentType string) (string, error) {
	ctx, span := minioTracer.Start(ctx, "minio.put_object",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("storage.bucket", bucketName),
			attribute.String("storage.object_key", tracing.SafeObjectKey(objectName)),
			attribute.Int64("storage.object_size_bytes", fileSize),
		))
	defer span.End()

	uploadInfo, err := m.client.PutObject(ctx, bucketName, objectName, reader, fileSize,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		err = fmt.Errorf("上传对象 %s/%s 失败: %w", bucketName, objectName, err)
		tracing.RecordError(span, err, tracing.ErrorTypeObjectStorage)
		return "", err
	}
	m.logger.Printf("[MinIO] Uploaded %s/%s, ETag: %s, Size: %d", bucketName, objectName, uploadInfo.ETag, uploadInfo.Size)
	return objectName, nil
}

// GetPresignedURL 获取预签名下载URL
func (m *MinIO) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	ctx, span := minioTracer.Start(ctx, "minio.presign_get_object",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("storage.bucket", bucketName),
			attribute.String("storage.object_key", tracing.SafeObjectKey(objectName)),
		))
	defer span.End()

	presignedURL, err := m.client.PresignedGetObject(ctx, bucketName, objectName, expiry, nil)
	if err != nil {
		err = fmt.Errorf("生成预签名URL失败: %w", err)
		tracing.RecordError(span, err, tracing.ErrorTypeObjectStorage)
		return "", err
	}
	return presignedURL.String(), nil
}

// UploadOriginalResume 上传原始简历文件，对象名以提交UUID为键
func (m *MinIO) UploadOriginalResume(ctx context.Context, submissionUUID, fileExt string, reader io.Reader, fileSize int64) (string, error) {
	ext := strings.TrimPrefix(fileExt, ".")
	objectName := fmt.Sprintf("%s.%s", submissionUUID, ext)

	contentType := "application/octet-stream"
	switch strings.ToLower(ext) {
	case "pdf":
		contentType = "application/pdf"
	case "txt":
		contentType = "text/plain"
	}

	return m.UploadFile(ctx, m.originalsBucket, objectName, reader, fileSize, contentType)
}

// UploadRenderedDocument 上传渲染后的简历文档
func (m *MinIO) UploadRenderedDocument(ctx context.Context, userID, fileName string, content []byte) (string, error) {
	objectName := fmt.Sprintf("%s/%s", userID, fileName)
	return m.UploadFile(ctx, m.documentsBucket, objectName, bytes.NewReader(content), int64(len(content)), "text/html; charset=utf-8")
}

// GetDocumentPresignedURL 获取渲染文档的预签名下载URL
func (m *MinIO) GetDocumentPresignedURL(ctx context.Context, userID, fileName string, expiry time.Duration) (string, error) {
	objectName := fmt.Sprintf("%s/%s", userID, fileName)
	return m.GetPresignedURL(ctx, m.documentsBucket, objectName, expiry)
}
