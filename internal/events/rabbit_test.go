package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabinets/internal/domain/models"
)

// Runs against a live broker; skipped unless AMQP_URL is set
func TestRabbitPublisherRoutesByType(t *testing.T) {
	url := os.Getenv("AMQP_URL")
	if url == "" {
		t.Skip("AMQP_URL not set")
	}

	exchange := "cabinets.events.test"
	publisher, err := NewRabbitPublisher(url, exchange)
	require.NoError(t, err)

	conn, err := amqp.Dial(url)
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, "mailing.#", exchange, false, nil))
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, publisher.Publish(ctx, &models.Event{
		ID: "evt-skip", Namespace: "cabinets", Name: "cabinet_created",
		TargetType: models.ObjectTypeCabinet, TargetID: "cab-1",
	}))
	require.NoError(t, publisher.Publish(ctx, &models.Event{
		ID: "evt-1", Namespace: "mailing", Name: "email_send",
		TargetType: models.ObjectTypeDocument, TargetID: "doc-1",
	}))

	select {
	case d := <-deliveries:
		assert.Equal(t, "mailing.email_send", d.RoutingKey)
		assert.Equal(t, "evt-1", d.MessageId)
		assert.Equal(t, uint8(amqp.Persistent), d.DeliveryMode)

		var msg Message
		require.NoError(t, json.Unmarshal(d.Body, &msg))
		assert.Equal(t, "doc-1", msg.TargetID)
	case <-ctx.Done():
		t.Fatal("no delivery for mailing.email_send")
	}

	require.NoError(t, publisher.Close())
	assert.Error(t, publisher.Publish(context.Background(), &models.Event{Namespace: "mailing", Name: "email_send"}))
}
