package storage

import (
	"career-agent-go/internal/config"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"career-agent-go/internal/tracing"
)

var rabbitTracer = otel.Tracer("career-agent-go/storage/rabbitmq")

// EventPublisher 领域事件发布接口。
// 事件为尽力而为的通知，发布失败只记录日志，不阻塞主流程。
type EventPublisher interface {
	// PublishJSON 发布JSON格式消息
	PublishJSON(ctx context.Context, exchangeName, routingKey string, data interface{}, persistent bool) error

	// PublishResumeUploaded 发布简历上传完成事件
	PublishResumeUploaded(ctx context.Context, event *ResumeUploadedEvent) error

	// PublishResumeOptimized 发布简历优化完成事件
	PublishResumeOptimized(ctx context.Context, event *ResumeOptimizedEvent) error

	// 关闭连接
	Close() error
}

// 确保RabbitMQ实现了EventPublisher接口
var _ EventPublisher = (*RabbitMQ)(nil)

// RabbitMQ 提供消息队列发布功能
type RabbitMQ struct {
	conn         *amqp.Connection
	channelPool  sync.Pool
	exchangeMap  map[string]bool // 记录已声明的exchange
	queueMap     map[string]bool // 记录已声明的queue
	bindingMap   map[string]bool // 记录已创建的binding (key格式: "exchange:queue:routingKey")
	publishMutex sync.Mutex      // 保护发布操作
	cfg          *config.RabbitMQConfig
}

// NewRabbitMQ 创建RabbitMQ客户端并声明简历事件拓扑
func NewRabbitMQ(cfg *config.RabbitMQConfig) (*RabbitMQ, error) {
	if cfg == nil {
		return nil, fmt.Errorf("RabbitMQ配置不能为空")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("RabbitMQ URL配置不能为空")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("无法连接到RabbitMQ服务器 (%s): %w", cfg.URL, err)
	}

	mq := &RabbitMQ{
		conn:        conn,
		exchangeMap: make(map[string]bool),
		queueMap:    make(map[string]bool),
		bindingMap:  make(map[string]bool),
		cfg:         cfg,
	}

	// 初始化channel池
	mq.channelPool = sync.Pool{
		New: func() interface{} {
			ch, errPool := conn.Channel()
			if errPool != nil {
				log.Printf("创建RabbitMQ通道失败: %v", errPool)
				return nil
			}
			return ch
		},
	}

	// 测试连接和通道
	testCh := mq.getChannel()
	if testCh == nil {
		conn.Close()
		return nil, fmt.Errorf("无法创建RabbitMQ通道")
	}
	mq.putChannel(testCh)

	// 声明简历事件的交换机、队列和绑定
	if err := mq.declareResumeEventTopology(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("声明简历事件拓扑失败: %w", err)
	}

	log.Printf("成功连接到RabbitMQ服务器: %s", cfg.URL)
	return mq, nil
}

// declareResumeEventTopology 声明简历事件的exchange/queue/binding
func (r *RabbitMQ) declareResumeEventTopology() error {
	if err := r.ensureExchange(r.cfg.ResumeEventsExchange, "topic", true); err != nil {
		return err
	}
	if err := r.ensureQueue(r.cfg.ResumeEventsQueue, true); err != nil {
		return err
	}
	// 该队列接收全部简历事件，resume.* 覆盖 uploaded/optimized 两个路由键
	return r.bindQueue(r.cfg.ResumeEventsQueue, r.cfg.ResumeEventsExchange, "resume.*")
}

// 获取可用通道
func (r *RabbitMQ) getChannel() *amqp.Channel {
	ch := r.channelPool.Get()
	if ch == nil {
		newCh, err := r.conn.Channel()
		if err != nil {
			log.Printf("创建新RabbitMQ通道失败: %v", err)
			return nil
		}
		return newCh
	}
	return ch.(*amqp.Channel)
}

// 归还通道到池
func (r *RabbitMQ) putChannel(ch *amqp.Channel) {
	if ch != nil {
		r.channelPool.Put(ch)
	}
}

// Close 关闭连接
func (r *RabbitMQ) Close() error {
	return r.conn.Close()
}

// ensureExchange 确保exchange存在
func (r *RabbitMQ) ensureExchange(exchangeName, exchangeType string, durable bool) error {
	if exchangeName == "" {
		return fmt.Errorf("exchange名称不能为空")
	}

	if _, exists := r.exchangeMap[exchangeName]; exists {
		return nil
	}

	ch := r.getChannel()
	if ch == nil {
		return fmt.Errorf("无法获取RabbitMQ通道")
	}
	defer r.putChannel(ch)

	err := ch.ExchangeDeclare(
		exchangeName, // exchange名称
		exchangeType, // exchange类型
		durable,      // 持久化
		false,        // 自动删除
		false,        // 内部专用
		false,        // 非阻塞
		nil,          // 参数
	)
	if err != nil {
		return fmt.Errorf("声明exchange失败: %w", err)
	}

	r.exchangeMap[exchangeName] = true
	log.Printf("已确保exchange存在: '%s'", exchangeName)
	return nil
}

// ensureQueue 确保队列存在
func (r *RabbitMQ) ensureQueue(queueName string, durable bool) error {
	if _, exists := r.queueMap[queueName]; exists {
		return nil
	}

	ch := r.getChannel()
	if ch == nil {
		return fmt.Errorf("无法获取RabbitMQ通道")
	}
	defer r.putChannel(ch)

	_, err := ch.QueueDeclare(
		queueName, // 队列名称
		durable,   // 持久化
		false,     // 自动删除
		false,     // 独占
		false,     // 非阻塞
		nil,       // 参数
	)
	if err != nil {
		return fmt.Errorf("声明队列失败: %w", err)
	}

	r.queueMap[queueName] = true
	log.Printf("已确保队列存在: %s", queueName)
	return nil
}

// bindQueue 绑定队列到exchange
func (r *RabbitMQ) bindQueue(queueName, exchangeName, routingKey string) error {
	bindingKey := fmt.Sprintf("%s:%s:%s", exchangeName, queueName, routingKey)
	if _, exists := r.bindingMap[bindingKey]; exists {
		return nil
	}

	ch := r.getChannel()
	if ch == nil {
		return fmt.Errorf("无法获取RabbitMQ通道")
	}
	defer r.putChannel(ch)

	err := ch.QueueBind(
		queueName,    // 队列名
		routingKey,   // 路由键
		exchangeName, // exchange名
		false,        // 非阻塞
		nil,          // 参数
	)
	if err != nil {
		return fmt.Errorf("绑定队列到exchange失败: %w", err)
	}

	r.bindingMap[bindingKey] = true
	log.Printf("已绑定队列 %s 到exchange %s，路由键: %s", queueName, exchangeName, routingKey)
	return nil
}

// publishMessage 发布消息到exchange
func (r *RabbitMQ) publishMessage(ctx context.Context, exchangeName, routingKey string, message []byte, persistent bool) error {
	messageID := uuid.NewString()

	ctx, span := rabbitTracer.Start(ctx, "rabbitmq.publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination", exchangeName),
			attribute.String("messaging.rabbitmq.routing_key", routingKey),
			attribute.String("messaging.message_id", messageID),
			attribute.Int("messaging.message_payload_size_bytes", len(message)),
		))
	defer span.End()

	r.publishMutex.Lock()
	defer r.publishMutex.Unlock()

	ch := r.getChannel()
	if ch == nil {
		err := fmt.Errorf("无法获取RabbitMQ通道")
		tracing.RecordError(span, err, tracing.ErrorTypeRabbitMQ)
		return err
	}
	defer r.putChannel(ch)

	var deliveryMode uint8 = 1 // 非持久化
	if persistent {
		deliveryMode = 2 // 持久化
	}

	// 使用context控制超时
	err := ch.PublishWithContext(
		ctx,
		exchangeName, // exchange名
		routingKey,   // 路由键
		false,        // 强制
		false,        // 立即
		amqp.Publishing{
			MessageId:    messageID,
			DeliveryMode: deliveryMode,
			ContentType:  "application/json",
			Body:         message,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRabbitMQ)
	}
	return err
}

// PublishJSON 发布JSON格式的消息
func (r *RabbitMQ) PublishJSON(ctx context.Context, exchangeName, routingKey string, data interface{}, persistent bool) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("JSON序列化失败: %w", err)
	}

	return r.publishMessage(ctx, exchangeName, routingKey, jsonData, persistent)
}

// PublishResumeUploaded 发布简历上传完成事件
func (r *RabbitMQ) PublishResumeUploaded(ctx context.Context, event *ResumeUploadedEvent) error {
	if event.SubmissionTimestamp.IsZero() {
		event.SubmissionTimestamp = time.Now()
	}
	return r.PublishJSON(ctx, r.cfg.ResumeEventsExchange, r.cfg.UploadedRoutingKey, event, true)
}

// PublishResumeOptimized 发布简历优化完成事件
func (r *RabbitMQ) PublishResumeOptimized(ctx context.Context, event *ResumeOptimizedEvent) error {
	if event.OptimizedAt.IsZero() {
		event.OptimizedAt = time.Now()
	}
	return r.PublishJSON(ctx, r.cfg.ResumeEventsExchange, r.cfg.OptimizedRoutingKey, event, true)
}
