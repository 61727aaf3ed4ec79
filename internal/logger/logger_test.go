package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "app.log")

	err := Init(Config{
		Level:    "debug",
		Format:   "json",
		FilePath: logPath,
	})
	require.NoError(t, err, "初始化日志不应失败")

	Info().Str("component", "logger_test").Msg("服务启动")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"服务启动"`, "日志文件应收到JSON行")
	assert.Contains(t, string(content), `"component":"logger_test"`)
}

func TestInitInvalidLevelFallsBackToInfo(t *testing.T) {
	err := Init(Config{Level: "verbose", Format: "json"})
	require.NoError(t, err)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel(), "非法级别应回退到info")
}
