package queue

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisOpt(t *testing.T) {
	opt, err := RedisOpt("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, asynq.RedisClientOpt{Addr: "localhost:6379"}, opt)

	opt, err = RedisOpt("redis://:secret@cache:6380/2")
	require.NoError(t, err)
	client, ok := opt.(asynq.RedisClientOpt)
	require.True(t, ok)
	assert.Equal(t, "cache:6380", client.Addr)
	assert.Equal(t, 2, client.DB)

	_, err = RedisOpt("redis://%zz")
	assert.Error(t, err)
}

func TestPushHandler_Delivers(t *testing.T) {
	var got PushPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	payload := PushPayload{NotificationID: uuid.New(), UserID: uuid.New(), Type: "content_approved", Title: "Approved"}
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	err = NewPushHandler(srv.URL).ProcessTask(context.Background(), asynq.NewTask(TypePushNotification, data))
	require.NoError(t, err)
	assert.Equal(t, payload.NotificationID, got.NotificationID)
}

func TestPushHandler_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	data, _ := json.Marshal(PushPayload{NotificationID: uuid.New()})
	err := NewPushHandler(srv.URL).ProcessTask(context.Background(), asynq.NewTask(TypePushNotification, data))
	assert.Error(t, err)

	err = NewPushHandler(srv.URL).ProcessTask(context.Background(), asynq.NewTask(TypePushNotification, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	assert.NoError(t, NewPushHandler("").ProcessTask(context.Background(), asynq.NewTask(TypePushNotification, data)))
}
