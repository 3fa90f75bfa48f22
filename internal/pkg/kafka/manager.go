package kafka

import (
	"Murmur/internal/api/config"
	"Murmur/internal/pkg/es"
	"Murmur/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者。
// 四个消费组各自独立提交位移：同一个 user_follows 主题被
// 计数对账和奖励发放两个组分别消费，进度互不影响
type ConsumerManager struct {
	followCounterConsumer sarama.ConsumerGroup
	followCounterHandler  sarama.ConsumerGroupHandler

	rewardConsumer sarama.ConsumerGroup
	rewardHandler  sarama.ConsumerGroupHandler

	messageNotifyConsumer sarama.ConsumerGroup
	messageNotifyHandler  sarama.ConsumerGroupHandler

	userSearchConsumer sarama.ConsumerGroup
	userSearchHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	userFollowService service.UserFollowService,
	rewardService service.RewardService,
	notifyService service.NotifyService,
	userESRepo es.UserRepo,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	followCounterConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaFollowCounter.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	rewardConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaRewardIssuer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	messageNotifyConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaMessageNotify.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	userSearchConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaUserSearchSync.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		followCounterConsumer: followCounterConsumer,
		followCounterHandler:  NewFollowCounterHandler(userFollowService),
		rewardConsumer:        rewardConsumer,
		rewardHandler:         NewRewardHandler(rewardService),
		messageNotifyConsumer: messageNotifyConsumer,
		messageNotifyHandler:  NewMessageNotifyHandler(notifyService),
		userSearchConsumer:    userSearchConsumer,
		userSearchHandler:     NewUserSearchHandler(userESRepo),
	}, nil
}

// Start 启动所有消费者，阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	run := func(name string, topic string, group sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler) {
		go func() {
			log.Info("consumer started", "name", name, "topic", topic)
			for {
				if err := group.Consume(ctx, []string{topic}, handler); err != nil {
					log.Error("Error from consumer", "name", name, "err", err)
				}
				if ctx.Err() != nil {
					return
				}
			}
		}()
	}

	run("follow-counter", cfg.KafkaFollowCounter.Topic, m.followCounterConsumer, m.followCounterHandler)
	run("reward-issuer", cfg.KafkaRewardIssuer.Topic, m.rewardConsumer, m.rewardHandler)
	run("message-notify", cfg.KafkaMessageNotify.Topic, m.messageNotifyConsumer, m.messageNotifyHandler)
	run("user-search-sync", cfg.KafkaUserSearchSync.Topic, m.userSearchConsumer, m.userSearchHandler)

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	for _, group := range []sarama.ConsumerGroup{
		m.followCounterConsumer,
		m.rewardConsumer,
		m.messageNotifyConsumer,
		m.userSearchConsumer,
	} {
		if err := group.Close(); err != nil {
			log.Error("Failed to close consumer", "err", err)
		}
	}

	return nil
}
