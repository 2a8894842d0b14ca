package notify

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveredBefore(t *testing.T) {
	assert.Equal(t, 0, deliveredBefore(nil))
	assert.Equal(t, 3, deliveredBefore([]kafka.Header{{Key: deliveryCountHeader, Value: []byte("3")}}))
	assert.Equal(t, 0, deliveredBefore([]kafka.Header{{Key: deliveryCountHeader, Value: []byte("x")}}))
}

func TestKafkaQueue_Integration(t *testing.T) {
	brokers := os.Getenv("KAFKA_TEST_BROKERS")
	if brokers == "" {
		t.Skip("KAFKA_TEST_BROKERS not set")
	}

	topic := "bookly-test-" + uuid.NewString()
	q := NewKafkaQueue(strings.Split(brokers, ","), topic, "bookly-test-"+uuid.NewString())
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	require.NoError(t, q.Ping(ctx))

	require.NoError(t, NewProducer(q).Enqueue(ctx, Notification{BookUID: "b-1", BookTitle: "Dune", ReviewText: "Great book"}))

	d, err := q.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Attempt)
	assert.Equal(t, "Dune|Great book", string(d.Body))
	require.NoError(t, q.Abandon(ctx, d))

	d, err = q.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Attempt)
	assert.Equal(t, "b-1", d.Key)
	require.NoError(t, q.Complete(ctx, d))
}
