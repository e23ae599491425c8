package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/bikeshare-dashboard/internal/domain"
	"github.com/couchcryptid/bikeshare-dashboard/internal/observability"
)

// maxLoggedFindings caps how many individual audit findings are logged.
const maxLoggedFindings = 10

// Extractor reads every raw record from the dataset source.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.RawRecord, error)
}

// DailyPublisher ships the daily traffic classification downstream.
type DailyPublisher interface {
	PublishDaily(ctx context.Context, preparedAt time.Time, clusters domain.DailyClusters) error
}

// Options controls how the dataset is prepared.
type Options struct {
	Lenient     bool
	RequireRows bool
	// Source names the dataset in snapshots and logs.
	Source string
}

// Pipeline prepares the dataset once and hands the read-only snapshot to
// every caller.
type Pipeline struct {
	extractor Extractor
	publisher DailyPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	opts      Options

	once  sync.Once
	snap  domain.Snapshot
	err   error
	ready atomic.Bool
}

// New creates a Pipeline. publisher may be nil when publication is disabled.
func New(e Extractor, publisher DailyPublisher, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if publisher != nil {
		metrics.PublishEnabled.Set(1)
	} else {
		metrics.PublishEnabled.Set(0)
	}
	return &Pipeline{
		extractor: e,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		opts:      opts,
	}
}

// CheckReadiness returns nil once the dataset has been prepared,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("dataset has not been prepared yet")
	}
	return nil
}

// Ready reports whether the dataset has been prepared.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// Snapshot returns the prepared dataset, preparing it on first use. The
// result, including a failure, is memoized for the life of the process.
func (p *Pipeline) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	p.once.Do(func() {
		p.snap, p.err = p.prepare(ctx)
		if p.err != nil {
			p.metrics.PrepareErrors.WithLabelValues(errorKind(p.err)).Inc()
			return
		}
		p.ready.Store(true)
		p.metrics.DatasetReady.Set(1)
	})
	return p.snap, p.err
}

// Run prepares the dataset, audits it, and publishes the daily traffic
// classification when a publisher is configured. Only a preparation failure
// is returned; audit findings and publish failures are logged.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "source", p.opts.Source, "lenient", p.opts.Lenient)

	snap, err := p.Snapshot(ctx)
	if err != nil {
		return err
	}

	p.audit(snap.Table)

	if p.publisher == nil {
		return nil
	}
	clusters := domain.ClassifyDailyTraffic(snap.Table)
	if err := p.publisher.PublishDaily(ctx, snap.PreparedAt, clusters); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		p.logger.Error("publish daily traffic failed", "error", err, "days", len(clusters.Days))
		return nil
	}
	p.metrics.MessagesProduced.Add(float64(len(clusters.Days)))
	p.logger.Info("daily traffic published", "days", len(clusters.Days), "q1", clusters.Q1, "q3", clusters.Q3)
	return nil
}

func (p *Pipeline) prepare(ctx context.Context) (domain.Snapshot, error) {
	start := time.Now()

	raws, err := p.extractor.Extract(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("extract dataset: %w", err)
	}
	p.metrics.RowsRead.Add(float64(len(raws)))

	leftRaw := make(map[string]int)
	table, err := domain.Prepare(raws, domain.PrepareOptions{
		Lenient: p.opts.Lenient,
		OnUnknown: func(e *domain.UnknownCategoryError) {
			leftRaw[e.Column]++
			p.metrics.CategoriesLeftRaw.WithLabelValues(e.Column).Inc()
		},
	})
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("prepare dataset: %w", err)
	}
	for _, col := range sortedKeys(leftRaw) {
		p.logger.Warn("unknown category codes kept as raw values", "column", col, "rows", leftRaw[col])
	}

	if table.Len() == 0 && p.opts.RequireRows {
		return domain.Snapshot{}, &domain.EmptyDatasetError{Source: p.opts.Source}
	}

	p.metrics.RowsPrepared.Add(float64(table.Len()))
	p.metrics.PrepareDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("dataset prepared", "source", p.opts.Source, "rows", table.Len(), "duration", time.Since(start))

	return domain.NewSnapshot(table, p.opts.Source), nil
}

// audit logs data-quality findings on the prepared table. Nothing is fixed.
func (p *Pipeline) audit(t domain.Table) {
	findings := domain.Audit(t)
	if len(findings) == 0 {
		return
	}

	byCheck := make(map[string]int)
	for i, f := range findings {
		byCheck[f.Check]++
		p.metrics.AuditFindings.WithLabelValues(f.Check).Inc()
		if i < maxLoggedFindings {
			p.logger.Warn("data quality finding",
				"check", f.Check,
				"row", f.Row,
				"date", f.Date.Format(domain.DateLayout),
				"hour", f.Hour,
				"detail", f.Detail,
			)
		}
	}
	for _, check := range sortedKeys(byCheck) {
		p.logger.Warn("data quality summary", "check", check, "rows", byCheck[check])
	}
}

// errorKind classifies a preparation error for the prepare_errors_total metric.
func errorKind(err error) string {
	var (
		schemaErr   *domain.SchemaError
		categoryErr *domain.UnknownCategoryError
		parseErr    *domain.ParseError
		emptyErr    *domain.EmptyDatasetError
	)
	switch {
	case errors.As(err, &schemaErr):
		return "schema"
	case errors.As(err, &categoryErr):
		return "category"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &emptyErr):
		return "empty"
	default:
		return "io"
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
