package kafka

import (
	"os"
	"sync/atomic"

	"spendsense/api/logger"
	"spendsense/api/worker"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.uber.org/zap"
)

var (
	MessageProducer  *kafka.Producer
	ResponseConsumer *kafka.Consumer
	consumerClosing  atomic.Bool

	MessageTopic  string = "user_message"
	ResponseTopic string = "ai_response"
	GroupID       string = "advisor-response-consumer"
)

func InitProducer() error {
	config := &kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BOOTSTRAP_SERVERS"),
		"sasl.username":     os.Getenv("KAFKA_API_KEY"),
		"sasl.password":     os.Getenv("KAFKA_API_SECRET"),
		"security.protocol": "SASL_SSL",
		"sasl.mechanism":    "PLAIN",
	}

	var err error
	MessageProducer, err = kafka.NewProducer(config)
	if err != nil {
		logger.Get().Error("failed to initialize Kafka producer",
			zap.String("bootstrap_servers", os.Getenv("KAFKA_BOOTSTRAP_SERVERS")),
			zap.Error(err))
		return err
	}

	logger.Get().Info("Kafka producer initialized successfully",
		zap.String("bootstrap_servers", os.Getenv("KAFKA_BOOTSTRAP_SERVERS")))
	return nil
}

func CloseProducer() {
	if MessageProducer != nil {
		MessageProducer.Flush(5000)
		MessageProducer.Close()
	}
}

// CloseConsumer stops the response read loop. Must run before the worker
// pool is stopped so no job is submitted to a stopping pool.
func CloseConsumer() {
	if ResponseConsumer != nil {
		consumerClosing.Store(true)
		if err := ResponseConsumer.Close(); err != nil {
			logger.Get().Error("failed to close Kafka consumer", zap.Error(err))
		}
	}
}

func ProduceMessage(topic string, message []byte) error {
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          message,
	}

	err := MessageProducer.Produce(msg, nil)
	if err != nil {
		logger.Get().Error("failed to produce message",
			zap.String("topic", topic),
			zap.Error(err))
		return err
	}

	logger.Get().Debug("message produced successfully",
		zap.String("topic", topic))
	return nil
}

// StartConsumer subscribes to the advisor response topic and hands each
// record to the worker pool, preserving Kafka's partition so chunks for one
// conversation stay ordered.
func StartConsumer(pool *worker.Pool) error {
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  os.Getenv("KAFKA_BOOTSTRAP_SERVERS"),
		"security.protocol":  "SASL_SSL",
		"sasl.mechanisms":    "PLAIN",
		"sasl.username":      os.Getenv("KAFKA_API_KEY"),
		"sasl.password":      os.Getenv("KAFKA_API_SECRET"),
		"session.timeout.ms": "45000",
		"group.id":           GroupID,
		"auto.offset.reset":  "latest",
	})
	if err != nil {
		logger.Get().Error("failed to create consumer",
			zap.String("bootstrap_servers", os.Getenv("KAFKA_BOOTSTRAP_SERVERS")),
			zap.Error(err))
		return err
	}

	err = consumer.Subscribe(ResponseTopic, nil)
	if err != nil {
		logger.Get().Error("failed to subscribe to topic",
			zap.String("topic", ResponseTopic),
			zap.Error(err))
		return err
	}

	ResponseConsumer = consumer
	logger.Get().Info("Kafka consumer started successfully",
		zap.String("topic", ResponseTopic),
		zap.String("group_id", GroupID))

	go func() {
		for {
			msg, err := consumer.ReadMessage(-1)
			if err != nil {
				// Closing the consumer makes ReadMessage fail; that is the
				// loop's exit signal.
				if consumerClosing.Load() {
					logger.Get().Info("Kafka consumer stopped",
						zap.String("topic", ResponseTopic))
					return
				}
				logger.Get().Error("consumer error",
					zap.String("topic", ResponseTopic),
					zap.Error(err))
				continue
			}

			logger.Get().Debug("received advisor response",
				zap.String("topic", ResponseTopic),
				zap.Int32("partition", msg.TopicPartition.Partition))
			pool.Submit(msg.Value, msg.TopicPartition.Partition)
		}
	}()
	return nil
}
