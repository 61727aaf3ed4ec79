package storage

import "time"

// ResumeUploadedEvent 简历上传完成事件
type ResumeUploadedEvent struct {
	SubmissionUUID      string    `json:"submission_uuid"`          // 本次提交的UUID
	UserID              string    `json:"user_id"`                  // 用户ID
	SubmissionTimestamp time.Time `json:"submission_timestamp"`     // 提交时间戳
	OriginalFilename    string    `json:"original_filename"`        // 原始文件名
	OriginalFilePathOSS string    `json:"original_file_path_oss"`   // MinIO中的对象路径
	RawFileMD5          string    `json:"raw_file_md5,omitempty"`   // 原始文件的MD5
	SectionCount        int       `json:"section_count,omitempty"`  // 结构化后的章节数
	SourceChannel       string    `json:"source_channel,omitempty"` // 来源渠道
}

// ResumeOptimizedEvent 简历优化完成事件
type ResumeOptimizedEvent struct {
	UserID      string    `json:"user_id"`                // 用户ID
	UserRequest string    `json:"user_request,omitempty"` // 用户的优化指令
	OptimizedAt time.Time `json:"optimized_at"`           // 优化完成时间
	DownloadURL string    `json:"download_url,omitempty"` // 优化简历的下载地址
}
