package logger

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger 全局日志实例。Init之前写stderr，启动早期的日志不会丢。
var Logger = log.Logger

// Config 日志配置
type Config struct {
	Level        string // debug, info, warn, error
	Format       string // json 或 pretty
	TimeFormat   string // 时间戳格式，空则RFC3339
	ReportCaller bool   // 是否记录调用位置
	FilePath     string // 日志文件路径，空则只写控制台
}

// Init 按配置重建全局日志实例。
// pretty格式写控制台彩色输出，json格式写标准输出；
// 配置了FilePath时同时追加写文件，文件里始终是JSON行。
// 服务启动时先用默认配置调用一次，配置加载完成后再按配置调用一次。
func Init(config Config) error {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	timeFormat := config.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}
	zerolog.TimeFieldFormat = timeFormat

	var console io.Writer = os.Stdout
	if config.Format == "pretty" {
		console = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: timeFormat,
			NoColor:    false,
		}
	}

	writer := console
	if config.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return err
		}
		file, err := os.OpenFile(config.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		writer = zerolog.MultiLevelWriter(console, file)
	}

	contextLogger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp()
	if config.ReportCaller {
		contextLogger = contextLogger.Caller()
	}

	Logger = contextLogger.Logger()
	log.Logger = Logger
	return nil
}

// Debug 开始一条调试级别的日志事件
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Info 开始一条信息级别的日志事件
func Info() *zerolog.Event {
	return Logger.Info()
}

// Warn 开始一条警告级别的日志事件
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Error 开始一条错误级别的日志事件
func Error() *zerolog.Event {
	return Logger.Error()
}

// Fatal 开始一条致命错误级别的日志事件，记录后程序将退出
func Fatal() *zerolog.Event {
	return Logger.Fatal()
}

// Ctx 从上下文中取日志记录器
func Ctx(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext 把全局日志记录器塞进上下文
func WithContext(ctx context.Context) context.Context {
	return Logger.WithContext(ctx)
}
