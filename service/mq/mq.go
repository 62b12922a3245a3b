package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"meditation-assistant-backend/config"

	"github.com/apache/rocketmq-client-go/v2"
	c "github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"github.com/avast/retry-go/v4"
)

const (
	TopicMaterialLibrary = "topic_material_library"
	TagIndex             = "tag_index"
	TagDelete            = "tag_delete"

	consumeGroupMaterialLibrary = "cg_material_library"

	sendMessageAttempts  = 3
	maxReconsumeTimes    = 5
	consumeGoroutineNums = 10
)

type MessageHandler func(context.Context, *primitive.MessageExt) error

type Message struct {
	Topic   string
	Tag     string
	Payload any
}

// Publisher 供handler注入，测试时用假实现替换
type Publisher interface {
	SendMessage(ctx context.Context, message *Message) error
}

// Broker 封装RocketMQ的生产者和素材库消费者
type Broker struct {
	producer rocketmq.Producer
	consumer rocketmq.PushConsumer

	// 消息处理器表，按 topic/tag 索引
	handlers map[string]MessageHandler
}

var _ Publisher = &Broker{}

func NewBroker() (*Broker, error) {
	// 设置RocketMQ客户端（使用rlog）的日志级别
	rlog.SetLogLevel("warn")

	consumer, err := rocketmq.NewPushConsumer(
		c.WithNameServer(config.Cfg.MQ.NameServer),
		c.WithGroupName(consumeGroupMaterialLibrary),
		c.WithConsumerModel(c.Clustering),
		c.WithConsumeFromWhere(c.ConsumeFromLastOffset),
		c.WithMaxReconsumeTimes(maxReconsumeTimes),
		c.WithConsumeGoroutineNums(consumeGoroutineNums),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %v", err)
	}

	producerInstance, err := rocketmq.NewProducer(
		producer.WithNameServer(config.Cfg.MQ.NameServer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %v", err)
	}

	return &Broker{
		producer: producerInstance,
		consumer: consumer,
		handlers: make(map[string]MessageHandler),
	}, nil
}

// RegisterHandler 注册消息处理器，索引和删除任务共用素材库topic，用tag区分
func (b *Broker) RegisterHandler(topic, tag string, handler MessageHandler) error {
	b.handlers[handlerKey(topic, tag)] = handler

	selector := c.MessageSelector{}
	if tag != "" {
		selector = c.MessageSelector{
			Type:       c.TAG,
			Expression: tag,
		}
	}

	err := b.consumer.Subscribe(topic, selector, func(ctx context.Context, messages ...*primitive.MessageExt) (c.ConsumeResult, error) {
		for _, msg := range messages {
			h := b.handlers[handlerKey(msg.Topic, msg.GetTags())]
			if h == nil {
				slog.Warn("No message handler found",
					"topic", msg.Topic,
					"tag", msg.GetTags(),
				)
				continue
			}

			if err := h(ctx, msg); err != nil {
				slog.Error("Failed to process message",
					"topic", msg.Topic,
					"tag", msg.GetTags(),
					"msg_id", msg.MsgId,
					"error", err)
				return c.ConsumeRetryLater, err
			}
		}
		return c.ConsumeSuccess, nil
	})

	if err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %v", topic, err)
	}

	return nil
}

// Run 启动生产者和消费者，须在所有处理器注册完成之后调用
func (b *Broker) Run() error {
	if err := b.producer.Start(); err != nil {
		return fmt.Errorf("failed to start producer: %v", err)
	}

	if err := b.consumer.Start(); err != nil {
		return fmt.Errorf("failed to start consumer: %v", err)
	}
	return nil
}

// SendMessage 向MQ发送消息
func (b *Broker) SendMessage(ctx context.Context, message *Message) error {
	payloadJSON, err := json.Marshal(message.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	msg := primitive.NewMessage(message.Topic, payloadJSON)
	if message.Tag != "" {
		msg = msg.WithTag(message.Tag)
	}

	err = retry.Do(
		func() error {
			_, err := b.producer.SendSync(ctx, msg)
			return err
		},
		retry.Attempts(sendMessageAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("Retrying to send message",
				"attempt", n+1,
				"topic", msg.Topic,
				"err", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to send message to topic %s after retries: %v", msg.Topic, err)
	}

	return nil
}

// Shutdown 关闭MQ服务
func (b *Broker) Shutdown() {
	if b.producer != nil {
		b.producer.Shutdown()
	}
	if b.consumer != nil {
		b.consumer.Shutdown()
	}
}

func handlerKey(topic, tag string) string {
	return topic + "/" + tag
}
