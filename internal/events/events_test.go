package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/application-tracker/internal/events"
	"jobmate/application-tracker/internal/testutil"
)

func TestEvent_JSONShape(t *testing.T) {
	userID := uuid.New()
	appID := uuid.New()
	e := events.Event{
		Type:          events.TypeApplicationCreated,
		UserID:        userID,
		ApplicationID: &appID,
		At:            time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC),
	}

	b, err := json.Marshal(e)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "EVENT_APPLICATION_CREATED", m["type"])
	assert.Equal(t, userID.String(), m["userId"])
	assert.Equal(t, appID.String(), m["applicationId"])
	assert.Equal(t, "2024-03-13T08:00:00Z", m["at"])
	assert.NotContains(t, m, "data")
}

func TestEvent_OmitsApplicationIDForDigest(t *testing.T) {
	b, err := json.Marshal(events.Event{
		Type:   events.TypeFollowUpDue,
		UserID: uuid.New(),
		Data:   map[string]any{"due": 2},
	})
	require.NoError(t, err)

	assert.NotContains(t, string(b), "applicationId")
	assert.Contains(t, string(b), `"data":{"due":2}`)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "jobmate.tracker.EVENT_FOLLOW_UP_DUE", events.Subject(events.TypeFollowUpDue))
}

func TestNop(t *testing.T) {
	var p events.Publisher = events.Nop{}
	assert.NoError(t, p.Publish(context.Background(), events.Event{Type: events.TypeApplicationDeleted}))
}

func TestRedisPublisher_DeliversOnTypeChannel(t *testing.T) {
	rdb := testutil.Redis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sub := rdb.Subscribe(ctx, events.TypeApplicationUpdated)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	userID := uuid.New()
	p := events.NewRedisPublisher(rdb)
	require.NoError(t, p.Publish(ctx, events.Event{Type: events.TypeApplicationUpdated, UserID: userID}))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got events.Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, events.TypeApplicationUpdated, got.Type)
	assert.Equal(t, userID, got.UserID)
}
