package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	published []published
	err       error
}

func (f *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func decode(t *testing.T, body []byte) (string, DeleteAttachment) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	var task DeleteAttachment
	require.NoError(t, json.Unmarshal(env.Props, &task))
	assert.False(t, env.EnqueuedAt.IsZero())
	return env.Name, task
}

func TestAMQPScheduler(t *testing.T) {
	t.Run("publishes to queue", func(t *testing.T) {
		ch := &fakeChannel{}
		s := &AMQPScheduler{ch: ch, queue: "tasks"}

		require.NoError(t, s.Schedule(context.Background(), DeleteAttachment{AttachmentID: "a1"}))

		require.Len(t, ch.published, 1)
		p := ch.published[0]
		assert.Equal(t, "", p.exchange)
		assert.Equal(t, "tasks", p.key)
		assert.Equal(t, "application/json", p.msg.ContentType)
		assert.Equal(t, amqp.Persistent, p.msg.DeliveryMode)

		name, task := decode(t, p.msg.Body)
		assert.Equal(t, "DeleteAttachmentTask", name)
		assert.Equal(t, "a1", task.AttachmentID)
	})

	t.Run("publish failure is a rejection", func(t *testing.T) {
		s := &AMQPScheduler{ch: &fakeChannel{err: errors.New("channel closed")}, queue: "tasks"}
		err := s.Schedule(context.Background(), DeleteAttachment{AttachmentID: "a1"})
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ch := &fakeChannel{}
		s := &AMQPScheduler{ch: ch, queue: "tasks"}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, s.Schedule(ctx, DeleteAttachment{AttachmentID: "a1"}), context.Canceled)
		assert.Empty(t, ch.published)
	})
}

func TestRedisScheduler(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	s := NewRedisScheduler(client, "tasks")
	require.NoError(t, s.Schedule(context.Background(), DeleteAttachment{AttachmentID: "a1"}))
	require.NoError(t, s.Schedule(context.Background(), DeleteAttachment{AttachmentID: "a2"}))

	items, err := mr.List("queue:tasks")
	require.NoError(t, err)
	require.Len(t, items, 2)

	// LPUSH puts the newest at the head
	_, newest := decode(t, []byte(items[0]))
	_, oldest := decode(t, []byte(items[1]))
	assert.Equal(t, "a2", newest.AttachmentID)
	assert.Equal(t, "a1", oldest.AttachmentID)

	mr.Close()
	assert.ErrorIs(t, s.Schedule(context.Background(), DeleteAttachment{AttachmentID: "a3"}), ErrRejected)
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := DialRedis(mr.Addr(), "", 0, "tasks")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Schedule(context.Background(), DeleteAttachment{AttachmentID: "a1"}))
	items, err := mr.List("queue:tasks")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
