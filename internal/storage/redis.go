package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"career-agent-go/internal/config"
	"career-agent-go/internal/constants"
	"career-agent-go/internal/types"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotFound is returned when a key is not found in Redis.
// It wraps the underlying redis.Nil error for abstraction.
var ErrNotFound = redis.Nil

// 为Redis操作定义专用tracer
var redisTracer = otel.Tracer("career-agent-go/storage/redis")

// Redis wraps the Redis client
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter creates a new Redis client connection
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	// 使用扩展的配置选项
	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		// 连接池设置
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// 超时设置
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		// 重试设置
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: time.Duration(cfg.MinRetryBackoffMS) * time.Millisecond,
		MaxRetryBackoff: time.Duration(cfg.MaxRetryBackoffMS) * time.Millisecond,

		// 连接生命周期
		ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute,
		ConnMaxIdleTime: time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute,
	}

	client := redis.NewClient(opt)

	// 添加OpenTelemetry钩子, 记录所有Redis操作
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	// Ping to check connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return &Redis{
		Client: client,
		config: cfg,
	}, nil
}

// Close closes the Redis client connection
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping checks the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Ping(ctx).Err()
}

// GetMD5ExpireDuration 返回配置的MD5记录过期时间
func (r *Redis) GetMD5ExpireDuration() time.Duration {
	days := r.config.MD5RecordExpireDays
	if days <= 0 {
		days = 365 // 默认1年
	}
	return time.Duration(days) * 24 * time.Hour
}

// RemoveRawFileMD5 从集合中移除原始文件MD5，用于上传失败后的回滚
func (r *Redis) RemoveRawFileMD5(ctx context.Context, md5Hex string) error {
	ctx, span := redisTracer.Start(ctx, "Redis.RemoveRawFileMD5",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		semconv.DBSystemRedis,
		attribute.String("db.redis.database", fmt.Sprintf("%d", r.config.DB)),
		attribute.String("net.peer.name", r.config.Address),
		attribute.String("db.operation", "SREM"),
		attribute.String("db.redis.key", constants.KeyFileMD5Set),
		attribute.String("db.redis.member", md5Hex),
	)

	result, err := r.Client.SRem(ctx, constants.KeyFileMD5Set, md5Hex).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("从集合中移除MD5失败: %w", err)
	}

	span.SetAttributes(attribute.Int64("removed_count", result))
	span.SetStatus(codes.Ok, "")

	return nil
}

// CheckAndSetFileMD5 检查文件MD5是否已存在；不存在时原子地记录MD5与提交UUID的映射。
// 已存在时返回首次提交的UUID，用于去重短路响应。
func (r *Redis) CheckAndSetFileMD5(ctx context.Context, md5Hex string, submissionUUID string) (bool, string, error) {
	ctx, span := redisTracer.Start(ctx, "Redis.CheckAndSetFileMD5",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		semconv.DBSystemRedis,
		attribute.String("db.redis.database", fmt.Sprintf("%d", r.config.DB)),
		attribute.String("net.peer.name", r.config.Address),
		attribute.String("db.redis.key", constants.KeyFileMD5Set),
		attribute.String("db.redis.member", md5Hex),
	)

	if r.Client == nil {
		err := fmt.Errorf("redis client is not initialized")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, "", err
	}

	// 检查MD5是否存在
	exists, err := r.Client.SIsMember(ctx, constants.KeyFileMD5Set, md5Hex).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, "", fmt.Errorf("检查MD5是否存在失败: %w", err)
	}
	span.SetAttributes(attribute.Bool("already_exists", exists))
	mapKey := fmt.Sprintf(constants.KeyFileMD5ToSubmissionUUID, md5Hex)
	if exists {
		// MD5已存在，获取关联的submission_uuid
		existingUUID, err := r.Client.Get(ctx, mapKey).Result()
		if err != nil && err != redis.Nil {
			return true, "", fmt.Errorf("获取已存在的submission_uuid失败: %w", err)
		}
		return true, existingUUID, nil
	}

	// MD5不存在，原子地添加
	pipe := r.Client.Pipeline()
	setCmd := pipe.SAdd(ctx, constants.KeyFileMD5Set, md5Hex)
	setNXCmd := pipe.SetNX(ctx, mapKey, submissionUUID, r.GetMD5ExpireDuration())
	// 确保集合本身也有过期时间
	pipe.ExpireNX(ctx, constants.KeyFileMD5Set, r.GetMD5ExpireDuration())
	if _, err = pipe.Exec(ctx); err != nil {
		return false, "", fmt.Errorf("执行原子添加MD5操作失败: %w", err)
	}

	if setCmd.Val() > 0 && setNXCmd.Val() {
		return false, "", nil // 成功设置了新的MD5
	}

	// 在极小的并发窗口中，另一个进程设置了它，重新获取
	existingUUID, err := r.Client.Get(ctx, mapKey).Result()
	if err != nil {
		return true, "", fmt.Errorf("获取已存在的submission_uuid失败: %w", err)
	}
	return true, existingUUID, nil
}

// CacheCareerPlan 将职业规划以JSON形式写入缓存
func (r *Redis) CacheCareerPlan(ctx context.Context, userID string, plan *types.CareerPlan) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("序列化职业规划失败: %w", err)
	}

	key := fmt.Sprintf(constants.KeyCareerPlan, userID)
	return r.Client.Set(ctx, key, planJSON, constants.CareerPlanTTL).Err()
}

// GetCachedCareerPlan 读取缓存的职业规划；未命中返回 ErrNotFound
func (r *Redis) GetCachedCareerPlan(ctx context.Context, userID string) (*types.CareerPlan, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("redis client is not initialized")
	}

	key := fmt.Sprintf(constants.KeyCareerPlan, userID)
	val, err := r.Client.Get(ctx, key).Result()
	if err != nil {
		return nil, err // 包括 redis.Nil
	}

	var plan types.CareerPlan
	if err := json.Unmarshal([]byte(val), &plan); err != nil {
		return nil, fmt.Errorf("反序列化缓存的职业规划失败: %w", err)
	}
	return &plan, nil
}

// InvalidateCareerPlan 删除缓存的职业规划，重新生成时调用
func (r *Redis) InvalidateCareerPlan(ctx context.Context, userID string) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	key := fmt.Sprintf(constants.KeyCareerPlan, userID)
	return r.Client.Del(ctx, key).Err()
}

// AcquireLock 尝试获取一个分布式锁
func (r *Redis) AcquireLock(ctx context.Context, lockKey string, expiration time.Duration) (string, error) {
	if r.Client == nil {
		return "", fmt.Errorf("redis client is not initialized")
	}
	// 生成一个随机值作为锁的持有者标识
	lockValue := fmt.Sprintf("%d", time.Now().UnixNano())
	// 尝试设置一个带过期时间的key，NX保证了原子性
	ok, err := r.Client.SetNX(ctx, lockKey, lockValue, expiration).Result()
	if err != nil {
		return "", err
	}
	if ok {
		return lockValue, nil
	}
	// 未能获取锁
	return "", nil
}

// ReleaseLock 释放一个分布式锁，使用Lua脚本保证原子性
func (r *Redis) ReleaseLock(ctx context.Context, lockKey string, lockValue string) (bool, error) {
	if r.Client == nil {
		return false, fmt.Errorf("redis client is not initialized")
	}
	// Lua脚本: 如果key存在且值匹配，则删除key
	script := `
        if redis.call("get", KEYS[1]) == ARGV[1] then
            return redis.call("del", KEYS[1])
        else
            return 0
        end
    `
	res, err := r.Client.Eval(ctx, script, []string{lockKey}, lockValue).Result()
	if err != nil {
		return false, err
	}

	if released, ok := res.(int64); ok && released == 1 {
		return true, nil
	}

	return false, nil // 锁不存在或不属于当前持有者
}
