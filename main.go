package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"career-agent-go/internal/agent"
	"career-agent-go/internal/api/handler"
	"career-agent-go/internal/api/router"
	"career-agent-go/internal/config"
	"career-agent-go/internal/jobboard"
	"career-agent-go/internal/processor"
	"career-agent-go/internal/ratelimit"
	"career-agent-go/internal/storage"
	"career-agent-go/internal/tracing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/pflag"

	appCoreLogger "career-agent-go/internal/logger"

	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
)

func main() {
	initLogger()

	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		glog.Fatalf("加载配置失败: %v", err)
	}
	glog.Info("配置加载成功")

	// 配置加载后按配置重建日志实例，并同步hertz的日志适配器
	if err := appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
		FilePath:     cfg.Logger.FilePath,
	}); err != nil {
		glog.Fatalf("初始化日志失败: %v", err)
	}
	glog.SetLogger(hertzadapter.From(appCoreLogger.Logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.InitTracerProvider(ctx, &cfg.Tracing)
	if err != nil {
		glog.Fatalf("初始化链路追踪失败: %v", err)
	}
	defer func() {
		flushCtx, cancelFlush := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelFlush()
		if err := shutdownTracing(flushCtx); err != nil {
			glog.Warnf("关闭TracerProvider失败: %v", err)
		}
	}()
	glog.Info("链路追踪初始化成功")

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	openAIModel, err := agent.NewOpenAIChatModel(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.APIURL)
	if err != nil {
		glog.Fatalf("初始化LLM客户端失败: %v", err)
	}
	var llmChatModel model.ToolCallingChatModel = openAIModel
	if cfg.OpenAI.QPM > 0 {
		llmChatModel = ratelimit.NewRateLimitedChatModel(openAIModel, cfg.OpenAI.QPM)
		glog.Infof("LLM客户端启用限流，QPM: %d", cfg.OpenAI.QPM)
	}
	glog.Info("LLM客户端初始化成功")

	processorLogger := log.New(appCoreLogger.Logger, "[ProcessorMain] ", log.LstdFlags|log.Lshortfile)
	resumeProcessor, err := processor.NewStandardProcessor(ctx, cfg, llmChatModel,
		processor.WithDebug(cfg.Logger.Level == "debug"),
		processor.WithProcessorLogger(processorLogger),
	)
	if err != nil {
		glog.Fatalf("初始化ResumeProcessor失败: %v", err)
	}
	glog.Info("ResumeProcessor初始化成功")

	adzunaClient, err := jobboard.NewAdzunaClient(&cfg.Adzuna)
	if err != nil {
		glog.Fatalf("初始化Adzuna客户端失败: %v", err)
	}
	glog.Info("Adzuna客户端初始化成功")

	resumeHandler := handler.NewResumeHandler(cfg, storageManager, resumeProcessor)
	jobSearchHandler := handler.NewJobSearchHandler(cfg, storageManager, adzunaClient, resumeProcessor)
	roadmapHandler := handler.NewRoadmapHandler(cfg, storageManager, resumeProcessor)
	glog.Info("API处理器初始化成功")

	tracer, tracerCfg := hertztracing.NewServerTracer()
	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		tracer,
	)
	h.Use(hertztracing.ServerMiddleware(tracerCfg))
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, cfg, resumeHandler, jobSearchHandler, roadmapHandler)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)

	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// initLogger 配置尚未加载时的启动期日志，配置加载后会按配置重建
func initLogger() {
	if err := appCoreLogger.Init(appCoreLogger.Config{
		Level:        "info",
		Format:       "pretty",
		TimeFormat:   "15:04:05",
		ReportCaller: true,
		FilePath:     "logs/app.log",
	}); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}

	glog.SetLogger(hertzadapter.From(appCoreLogger.Logger))
	glog.SetLevel(glog.LevelInfo)
}
