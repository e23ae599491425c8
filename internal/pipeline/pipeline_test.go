package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/bikeshare-dashboard/internal/domain"
	"github.com/couchcryptid/bikeshare-dashboard/internal/observability"
	"github.com/couchcryptid/bikeshare-dashboard/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	raws  []domain.RawRecord
	err   error
	calls atomic.Int64
}

func (m *mockExtractor) Extract(ctx context.Context) ([]domain.RawRecord, error) {
	m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.raws, nil
}

type mockPublisher struct {
	err        error
	calls      int
	preparedAt time.Time
	clusters   domain.DailyClusters
}

func (m *mockPublisher) PublishDaily(_ context.Context, preparedAt time.Time, clusters domain.DailyClusters) error {
	m.calls++
	m.preparedAt = preparedAt
	m.clusters = clusters
	return m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// rawRecord builds a valid raw row on day n of 2011 with the given hour and total.
func rawRecord(line, n, hour, count int) domain.RawRecord {
	return domain.RawRecord{
		Line:       line,
		Date:       time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n),
		Season:     1,
		Year:       0,
		Month:      1,
		Hour:       hour,
		Holiday:    0,
		Weekday:    6,
		WorkingDay: 0,
		Weather:    1,
		Temp:       0.24,
		Humidity:   0.81,
		Casual:     count / 2,
		Registered: count - count/2,
		Count:      count,
	}
}

func newPipeline(ext pipeline.Extractor, pub pipeline.DailyPublisher, opts pipeline.Options) *pipeline.Pipeline {
	return pipeline.New(ext, pub, discardLogger(), observability.NewMetricsForTesting(), opts)
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() { domain.SetClock(nil) })

	ext := &mockExtractor{raws: []domain.RawRecord{
		rawRecord(2, 0, 0, 10),
		rawRecord(3, 0, 1, 20),
		rawRecord(4, 1, 0, 40),
	}}
	pub := &mockPublisher{}
	p := newPipeline(ext, pub, pipeline.Options{Source: "hour.csv"})

	require.Error(t, p.CheckReadiness(context.Background()))

	require.NoError(t, p.Run(context.Background()))

	assert.True(t, p.Ready())
	require.NoError(t, p.CheckReadiness(context.Background()))

	snap, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Table.Len())
	assert.Equal(t, "hour.csv", snap.Source)
	assert.Equal(t, fakeClock.Now(), snap.PreparedAt)

	require.Equal(t, 1, pub.calls)
	assert.Equal(t, snap.PreparedAt, pub.preparedAt)
	require.Len(t, pub.clusters.Days, 2)
	assert.Equal(t, 30, pub.clusters.Days[0].Count)
	assert.Equal(t, 40, pub.clusters.Days[1].Count)
}

func TestPipeline_Snapshot_Memoized(t *testing.T) {
	ext := &mockExtractor{raws: []domain.RawRecord{rawRecord(2, 0, 0, 10)}}
	p := newPipeline(ext, nil, pipeline.Options{})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := p.Snapshot(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 1, snap.Table.Len())
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), ext.calls.Load())
}

func TestPipeline_Run_WithoutPublisher(t *testing.T) {
	ext := &mockExtractor{raws: []domain.RawRecord{rawRecord(2, 0, 0, 10)}}
	p := newPipeline(ext, nil, pipeline.Options{})

	require.NoError(t, p.Run(context.Background()))
	assert.True(t, p.Ready())
}

func TestPipeline_Run_PrepareErrors(t *testing.T) {
	unknownSeason := rawRecord(7, 0, 0, 10)
	unknownSeason.Season = 5

	tests := []struct {
		name   string
		ext    *mockExtractor
		opts   pipeline.Options
		target any
	}{
		{
			name:   "schema",
			ext:    &mockExtractor{err: &domain.SchemaError{Missing: []string{domain.ColCount}}},
			target: new(*domain.SchemaError),
		},
		{
			name:   "unknown category",
			ext:    &mockExtractor{raws: []domain.RawRecord{unknownSeason}},
			target: new(*domain.UnknownCategoryError),
		},
		{
			name:   "empty with rows required",
			ext:    &mockExtractor{},
			opts:   pipeline.Options{RequireRows: true, Source: "empty.csv"},
			target: new(*domain.EmptyDatasetError),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &mockPublisher{}
			p := newPipeline(tt.ext, pub, tt.opts)

			err := p.Run(context.Background())

			require.Error(t, err)
			assert.ErrorAs(t, err, tt.target)
			assert.False(t, p.Ready())
			assert.Zero(t, pub.calls)

			_, again := p.Snapshot(context.Background())
			assert.Equal(t, err, again, "failure is memoized")
		})
	}
}

func TestPipeline_Run_EmptyAllowedByDefault(t *testing.T) {
	pub := &mockPublisher{}
	p := newPipeline(&mockExtractor{}, pub, pipeline.Options{})

	require.NoError(t, p.Run(context.Background()))

	assert.True(t, p.Ready())
	assert.Equal(t, 1, pub.calls)
	assert.Empty(t, pub.clusters.Days)
}

func TestPipeline_Run_LenientKeepsRawCodes(t *testing.T) {
	odd := rawRecord(2, 0, 0, 10)
	odd.Weather = 9
	p := newPipeline(&mockExtractor{raws: []domain.RawRecord{odd}}, nil, pipeline.Options{Lenient: true})

	require.NoError(t, p.Run(context.Background()))

	snap, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "9", snap.Table.At(0).Weather)
}

func TestPipeline_Run_PublishFailureIsNotFatal(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker unavailable")}
	p := newPipeline(&mockExtractor{raws: []domain.RawRecord{rawRecord(2, 0, 0, 10)}}, pub, pipeline.Options{})

	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, 1, pub.calls, "no retry")
	assert.True(t, p.Ready())
}

func TestPipeline_Run_AuditFindingsDoNotFail(t *testing.T) {
	bad := rawRecord(2, 0, 0, 10)
	bad.Count = 99
	p := newPipeline(&mockExtractor{raws: []domain.RawRecord{bad}}, nil, pipeline.Options{})

	require.NoError(t, p.Run(context.Background()))

	snap, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 99, snap.Table.At(0).Count, "findings are reported, not fixed")
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newPipeline(&mockExtractor{}, nil, pipeline.Options{})

	err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, p.Ready())
}
