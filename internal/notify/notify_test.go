package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/salawat/internal/model"
	"github.com/Nixie-Tech-LLC/salawat/internal/redis"
)

type doneToken struct {
	mqtt.Token
	err error
}

func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (t doneToken) Error() error { return t.err }

type fakeClient struct {
	mqtt.Client
	topic   string
	qos     byte
	payload []byte
	err     error
}

func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	c.topic = topic
	c.qos = qos
	c.payload = payload.([]byte)
	return doneToken{err: c.err}
}

func TestMQTT_PublishesJSON(t *testing.T) {
	client := &fakeClient{}
	m := NewMQTT(client, "")

	n := model.Notification{Kind: model.NotificationSalawat, Title: "t", Body: "b", At: time.Unix(0, 0).UTC()}
	require.NoError(t, m.Notify(context.Background(), n))

	assert.Equal(t, DefaultTopic, client.topic)
	assert.Equal(t, byte(1), client.qos)

	var got model.Notification
	require.NoError(t, json.Unmarshal(client.payload, &got))
	assert.Equal(t, n.Kind, got.Kind)
	assert.Equal(t, n.Title, got.Title)
	assert.Equal(t, n.Body, got.Body)
	assert.True(t, n.At.Equal(got.At))
}

func TestMQTT_PublishError(t *testing.T) {
	m := NewMQTT(&fakeClient{err: errors.New("not connected")}, "screens")
	err := m.Notify(context.Background(), model.Notification{})
	assert.ErrorContains(t, err, "not connected")
}

type memRecorder struct{ recs []model.NotificationRecord }

func (m *memRecorder) LogNotification(rec model.NotificationRecord) error {
	m.recs = append(m.recs, rec)
	return nil
}

func TestRecording(t *testing.T) {
	sentAt := time.Date(2026, 10, 14, 15, 25, 0, 0, time.UTC)
	now = func() time.Time { return sentAt }
	t.Cleanup(func() { now = time.Now })

	rec := &memRecorder{}
	ok := Recording(Nop{}, rec)
	prayerAt := time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)
	require.NoError(t, ok.Notify(context.Background(), model.Notification{Kind: model.NotificationPrePrayer, PrayerID: "asr", At: prayerAt}))
	require.Len(t, rec.recs, 1)
	assert.Equal(t, "asr", *rec.recs[0].PrayerID)
	assert.True(t, sentAt.Equal(rec.recs[0].SentAt), "history keeps the send time, not the prayer time")

	failing := Recording(Func(func(context.Context, model.Notification) error {
		return errors.New("down")
	}), rec)
	assert.Error(t, failing.Notify(context.Background(), model.Notification{}))
	assert.Len(t, rec.recs, 1, "failed deliveries are not logged")
}

func TestFanout(t *testing.T) {
	var calls int
	count := Func(func(context.Context, model.Notification) error { calls++; return nil })
	fail := Func(func(context.Context, model.Notification) error { return errors.New("x") })

	err := Fanout(count, fail, count).Notify(context.Background(), model.Notification{})
	assert.NoError(t, err, "a failed leg does not undo the others")
	assert.Equal(t, 2, calls)

	err = Fanout(fail, fail).Notify(context.Background(), model.Notification{})
	assert.Error(t, err)

	assert.NoError(t, Fanout().Notify(context.Background(), model.Notification{}))
}

func TestRecording_PartialFanoutIsLogged(t *testing.T) {
	rec := &memRecorder{}
	var screens int
	brokerDown := Func(func(context.Context, model.Notification) error { return errors.New("broker down") })
	screen := Func(func(context.Context, model.Notification) error { screens++; return nil })

	n := Recording(Fanout(brokerDown, screen), rec)
	require.NoError(t, n.Notify(context.Background(), model.Notification{Kind: model.NotificationPrayerTime}))
	assert.Equal(t, 1, screens)
	assert.Len(t, rec.recs, 1)
}

func TestWithSounds(t *testing.T) {
	ctx := context.Background()
	kv := redis.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, SoundKey(model.SoundAdhan), "https://cdn.example/adhan.mp3"))

	var got model.Notification
	n := WithSounds(Func(func(_ context.Context, n model.Notification) error { got = n; return nil }), kv)

	require.NoError(t, n.Notify(ctx, model.Notification{Sound: model.SoundAdhan}))
	assert.Equal(t, "https://cdn.example/adhan.mp3", got.SoundURL)

	require.NoError(t, n.Notify(ctx, model.Notification{Sound: model.SoundNotification}))
	assert.Empty(t, got.SoundURL)

	require.NoError(t, n.Notify(ctx, model.Notification{}))
	assert.Empty(t, got.SoundURL)
}
