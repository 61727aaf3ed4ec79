package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
)

// ErrUnsupportedFileType 文件类型不支持。
// 必须在任何模型调用之前返回，避免为无法处理的输入浪费一次付费调用。
var ErrUnsupportedFileType = errors.New("不支持的文件类型")

// TextExtractor 从上传的简历文件中提取纯文本。
// 支持 .pdf（通过 Eino PDF Parser）和 .txt（直接读取）。
type TextExtractor struct {
	pdfParser *pdf.PDFParser
	logger    *log.Logger
}

// TextExtractorOption 提取器的配置选项
type TextExtractorOption func(*TextExtractor)

// WithExtractorLogger 配置自定义日志记录器
func WithExtractorLogger(logger *log.Logger) TextExtractorOption {
	return func(e *TextExtractor) {
		e.logger = logger
	}
}

// NewTextExtractor 初始化文本提取器。
// PDF解析配置为不按页面分割，以获取整个文档的连续文本。
func NewTextExtractor(ctx context.Context, options ...TextExtractorOption) (*TextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false, // 整个PDF的文本作为单个字符串返回
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Eino PDF parser: %w", err)
	}

	extractor := &TextExtractor{
		pdfParser: p,
		logger:    log.New(io.Discard, "", 0),
	}

	for _, option := range options {
		option(extractor)
	}

	return extractor, nil
}

// SupportsFileType 判断文件扩展名是否受支持
func (e *TextExtractor) SupportsFileType(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf", ".txt":
		return true
	default:
		return false
	}
}

// ExtractText 根据文件名的扩展名选择解析方式，从字节内容中提取纯文本。
// 不支持的扩展名返回 ErrUnsupportedFileType，此时不应再发起模型调用。
func (e *TextExtractor) ExtractText(ctx context.Context, data []byte, fileName string) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return e.extractFromPDF(ctx, data, fileName)
	case ".txt":
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Ext(fileName))
	}
}

// extractFromPDF 通过Eino PDF Parser提取文本
func (e *TextExtractor) extractFromPDF(ctx context.Context, data []byte, fileName string) (string, error) {
	startTime := time.Now()
	e.logger.Printf("开始提取PDF文本: %s (%.2f MB)", fileName, float64(len(data))/1024/1024)

	// 创建带超时的上下文
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	docs, err := e.pdfParser.Parse(ctx, bytes.NewReader(data),
		einoParser.WithURI(fileName),
	)

	duration := time.Since(startTime)
	if err != nil {
		e.logger.Printf("PDF提取失败: %s (用时 %.2f秒)", err, duration.Seconds())
		return "", fmt.Errorf("eino PDF parser failed for %s: %w", fileName, err)
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("eino PDF parser returned no documents for %s", fileName)
	}

	// 合并所有文档的内容（以防万一返回了多个）
	var sb strings.Builder
	for i, doc := range docs {
		sb.WriteString(doc.Content)
		if i < len(docs)-1 {
			sb.WriteString("\n\n")
		}
	}

	text := sb.String()
	e.logger.Printf("PDF提取完成: 提取了 %d 个字符 (用时 %.2f秒)", len(text), duration.Seconds())
	return text, nil
}
