package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

const deliveryCountHeader = "x-delivery-count"

type KafkaQueue struct {
	brokers []string
	writer  *kafka.Writer
	reader  *kafka.Reader
}

func NewKafkaQueue(brokers []string, topic, groupID string) *KafkaQueue {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     time.Second,
		StartOffset: kafka.FirstOffset,
	})
	return &KafkaQueue{brokers: brokers, writer: writer, reader: reader}
}

func (q *KafkaQueue) Send(ctx context.Context, key string, body []byte) error {
	return q.publish(ctx, key, body, 0)
}

func (q *KafkaQueue) publish(ctx context.Context, key string, body []byte, delivered int) error {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Headers: []kafka.Header{
			{Key: deliveryCountHeader, Value: []byte(strconv.Itoa(delivered))},
		},
	}
	if err := q.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write: %w", err)
	}
	return nil
}

func (q *KafkaQueue) Receive(ctx context.Context) (*Delivery, error) {
	m, err := q.reader.FetchMessage(ctx)
	if err != nil {
		return nil, fmt.Errorf("kafka: fetch: %w", err)
	}
	return &Delivery{
		Key:     string(m.Key),
		Body:    m.Value,
		Attempt: deliveredBefore(m.Headers) + 1,
		ref:     m,
	}, nil
}

func (q *KafkaQueue) Complete(ctx context.Context, d *Delivery) error {
	m, ok := d.ref.(kafka.Message)
	if !ok {
		return errors.New("kafka: delivery not received from this queue")
	}
	if err := q.reader.CommitMessages(ctx, m); err != nil {
		return fmt.Errorf("kafka: commit: %w", err)
	}
	return nil
}

// Abandon puts the message back at the end of the topic with its delivery count
// raised, then commits the fetched offset.
func (q *KafkaQueue) Abandon(ctx context.Context, d *Delivery) error {
	if err := q.publish(ctx, d.Key, d.Body, d.Attempt); err != nil {
		return err
	}
	return q.Complete(ctx, d)
}

func (q *KafkaQueue) Ping(ctx context.Context) error {
	if len(q.brokers) == 0 {
		return errors.New("kafka: no brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", q.brokers[0])
	if err != nil {
		return fmt.Errorf("kafka: dial: %w", err)
	}
	return conn.Close()
}

func (q *KafkaQueue) Close() error {
	return errors.Join(q.writer.Close(), q.reader.Close())
}

func deliveredBefore(headers []kafka.Header) int {
	for _, h := range headers {
		if h.Key != deliveryCountHeader {
			continue
		}
		n, err := strconv.Atoi(string(h.Value))
		if err != nil || n < 0 {
			return 0
		}
		return n
	}
	return 0
}
