package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabinets/internal/domain/models"
)

func TestNewMessage(t *testing.T) {
	docType := "document"
	docID := "doc-1"
	event := &models.Event{
		ID:               "evt-1",
		Namespace:        "cabinets",
		Name:             "cabinet_document_added",
		ActorID:          "alice",
		TargetType:       models.ObjectTypeCabinet,
		TargetID:         "cab-1",
		ActionObjectType: &docType,
		ActionObjectID:   &docID,
		CreatedAt:        time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	body, err := json.Marshal(NewMessage(event))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "cabinets.cabinet_document_added", decoded["type"])
	assert.Equal(t, "cabinet", decoded["target_type"])
	assert.Equal(t, "doc-1", decoded["action_object_id"])
	assert.Equal(t, "2024-01-02T03:04:05Z", decoded["created_at"])
}

func TestNewMessageOmitsEmptyActionObject(t *testing.T) {
	body, err := json.Marshal(NewMessage(&models.Event{Namespace: "mailing", Name: "email_send"}))
	require.NoError(t, err)
	assert.NotContains(t, string(body), "action_object")
	assert.Contains(t, string(body), `"type":"mailing.email_send"`)
}

func TestMemoryPublisher(t *testing.T) {
	p := &MemoryPublisher{}
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, &models.Event{ID: "1"}))
	p.FailWith(errors.New("broker down"))
	assert.Error(t, p.Publish(ctx, &models.Event{ID: "2"}))

	events := p.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "1", events[0].ID)

	var nop NopPublisher
	assert.NoError(t, nop.Publish(ctx, &models.Event{}))
	assert.NoError(t, nop.Close())
}
