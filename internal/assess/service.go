package assess

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/elharel648/CalmParentApp-sub000/pkg/config"
	"github.com/elharel648/CalmParentApp-sub000/pkg/growth"
)

// Service evaluates measurement batches.
type Service struct {
	config *config.Config
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock sets the time source used for report timestamps and for ages
// of records that only carry a birth date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a new assessment service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.DefaultConfig(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Options configures a single run.
type Options struct {
	// Locale overrides the configured label locale when set.
	Locale     growth.Locale
	OnProgress func()
}

// Assessment is the outcome for one input record, in input order.
type Assessment struct {
	Index      int               `json:"index"`
	ID         string            `json:"id"`
	ChildID    string            `json:"child_id"`
	Sex        growth.Sex        `json:"sex"`
	Metric     growth.Metric     `json:"metric"`
	Value      float64           `json:"value"`
	Unit       string            `json:"unit,omitempty"`
	AgeMonths  float64           `json:"age_months"`
	AgeUsed    int               `json:"age_used"`
	Percentile float64           `json:"percentile"`
	Status     *growth.Status    `json:"status,omitempty"`
	Anchors    *growth.AnchorSet `json:"anchors,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Accepted reports whether the record was assessed.
func (a Assessment) Accepted() bool {
	return a.Error == ""
}

// Assess evaluates every measurement. Invalid records do not stop the run;
// they are reported as rejected and their errors joined into the returned
// error alongside the report. A cancelled context aborts the run.
func (s *Service) Assess(ctx context.Context, ms []Measurement, opts Options) (*Report, error) {
	if len(ms) == 0 {
		return nil, ErrNoMeasurements
	}

	locale := opts.Locale
	if locale == "" {
		locale = growth.ParseLocale(s.config.Output.Locale)
	}
	now := s.now()

	workers := s.config.Assess.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]Assessment, len(ms))
	rejects := make([]error, len(ms))

	p := pool.New().WithContext(ctx).WithMaxGoroutines(workers)
	for i, m := range ms {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i], rejects[i] = assessOne(i, m, locale, now)
			if opts.OnProgress != nil {
				opts.OnProgress()
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("assessment cancelled: %w", err)
	}

	report := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: now.UTC(),
		Locale:      locale,
		Results:     results,
		Summary:     summarize(results),
		Trends:      computeTrends(results, s.config.Assess.MinTrendPoints, s.config.Assess.CrossingThreshold),
		Precision:   s.config.Output.Precision,
	}
	for _, t := range report.Trends {
		if t.Crossing {
			report.Summary.Crossings++
		}
	}

	s.logger.Debug("Batch assessed",
		zap.String("run_id", report.RunID),
		zap.Int("records", len(ms)),
		zap.Int("rejected", report.Summary.Rejected),
		zap.Int("trends", len(report.Trends)))

	err := errors.Join(rejects...)
	if err != nil {
		s.logger.Warn("Rejected measurements", zap.Int("count", report.Summary.Rejected), zap.Error(err))
	}
	return report, err
}

// Evaluate assesses a single measurement outside of a batch. now is the
// measurement date for records that only carry a birth date.
func Evaluate(m Measurement, locale growth.Locale, now time.Time) (Assessment, error) {
	return assessOne(0, m, locale, now)
}

func assessOne(i int, m Measurement, locale growth.Locale, now time.Time) (Assessment, error) {
	n, err := m.normalize(now)
	if err != nil {
		return Assessment{
			Index:   i,
			ID:      m.ID,
			ChildID: m.ChildID,
			Sex:     growth.Sex(m.Sex),
			Metric:  growth.Metric(m.Metric),
			Value:   finite(m.Value),
			Error:   err.Error(),
		}, fmt.Errorf("record %d: %w", i+1, err)
	}

	r := growth.Assess(n.value, n.ageMonths, n.metric, n.sex, locale)
	return Assessment{
		Index:      i,
		ID:         n.id,
		ChildID:    n.childID,
		Sex:        n.sex,
		Metric:     n.metric,
		Value:      r.Value,
		Unit:       r.Unit,
		AgeMonths:  r.AgeMonths,
		AgeUsed:    r.AgeUsed,
		Percentile: r.Percentile,
		Status:     &r.Status,
		Anchors:    &r.Anchors,
	}, nil
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
