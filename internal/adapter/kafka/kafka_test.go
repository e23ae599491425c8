package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/bikeshare-dashboard/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	calls  int
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func newTestWriter(fw *fakeWriter) *Writer {
	return &Writer{writer: fw, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestSerializeToMessage(t *testing.T) {
	preparedAt := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	day := domain.DailyTraffic{
		Date:     time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC),
		Count:    985,
		Category: domain.TrafficLow,
	}

	msg, err := serializeToMessage(day, 3152, 5956, preparedAt)
	require.NoError(t, err)

	assert.Equal(t, []byte("2011-01-01"), msg.Key)
	assert.JSONEq(t, `{"date":"2011-01-01","count":985,"category":"Low","q1":3152,"q3":5956}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "category", msg.Headers[0].Key)
	assert.Equal(t, []byte("Low"), msg.Headers[0].Value)
	assert.Equal(t, "prepared_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(preparedAt.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestWriter_PublishDaily(t *testing.T) {
	fw := &fakeWriter{}
	w := newTestWriter(fw)

	clusters := domain.DailyClusters{
		Q1: 2.75,
		Q3: 6.25,
		Days: []domain.DailyTraffic{
			{Date: time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC), Count: 1, Category: domain.TrafficLow},
			{Date: time.Date(2011, 1, 2, 0, 0, 0, 0, time.UTC), Count: 8, Category: domain.TrafficHigh},
		},
	}

	require.NoError(t, w.PublishDaily(context.Background(), time.Now(), clusters))

	assert.Equal(t, 1, fw.calls, "all days go out in one write")
	require.Len(t, fw.msgs, 2)
	assert.Equal(t, []byte("2011-01-02"), fw.msgs[1].Key)
	assert.Equal(t, []byte("High"), fw.msgs[1].Headers[0].Value)

	require.NoError(t, w.Close())
	assert.True(t, fw.closed)
}

func TestWriter_PublishDaily_Empty(t *testing.T) {
	fw := &fakeWriter{}
	w := newTestWriter(fw)

	require.NoError(t, w.PublishDaily(context.Background(), time.Now(), domain.DailyClusters{Days: []domain.DailyTraffic{}}))
	assert.Zero(t, fw.calls)
}

func TestWriter_PublishDaily_NoRetry(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker unavailable")}
	w := newTestWriter(fw)

	clusters := domain.DailyClusters{Days: []domain.DailyTraffic{{Date: time.Now(), Count: 1}}}
	err := w.PublishDaily(context.Background(), time.Now(), clusters)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
	assert.Equal(t, 1, fw.calls)
}
