package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/pkg/config"
	applogger "MarketLens/pkg/logger"
	"MarketLens/pkg/queue"
	"MarketLens/pkg/util"
)

// Refresh kinds carried on published events.
const (
	RefreshFundamentals = "fundamentals"
	RefreshWeekly       = "weekly"
)

// Scheduler keeps the fundamentals cache warm for the active watchlist.
// Symbols are refreshed in fixed-size batches with a pause between batches so
// the provider budgets survive a long watchlist. Runs never overlap: a
// request arriving while one is active is dropped.
type Scheduler struct {
	fundamentals *Fundamentals
	scorer       *Scorer
	watchlists   *Watchlists
	correlator   *Correlator
	publisher    drepo.EventPublisher
	history      drepo.ScoreHistory

	cron         *cron.Cron
	batchSize    int
	batchDelay   time.Duration
	startupDelay time.Duration
	interval     time.Duration
	weekly       bool

	inProgress atomic.Bool
	metrics    drepo.Metrics
	logger     *applogger.Logger
}

func NewScheduler(
	fundamentals *Fundamentals,
	scorer *Scorer,
	watchlists *Watchlists,
	correlator *Correlator,
	publisher drepo.EventPublisher,
	history drepo.ScoreHistory,
	cfg *config.Config,
	metrics drepo.Metrics,
	logger *applogger.Logger,
) *Scheduler {
	return &Scheduler{
		fundamentals: fundamentals,
		scorer:       scorer,
		watchlists:   watchlists,
		correlator:   correlator,
		publisher:    publisher,
		history:      history,
		cron:         cron.New(),
		batchSize:    cfg.Scheduler.BatchSize,
		batchDelay:   cfg.Scheduler.BatchDelay,
		startupDelay: cfg.Scheduler.StartupDelay,
		interval:     cfg.Scheduler.RefreshInterval,
		weekly:       cfg.Scheduler.WeeklyEnabled,
		metrics:      metrics,
		logger:       logger,
	}
}

// Start registers the triggers: a one-shot warm-up shortly after boot, the
// steady interval refresh, and the Monday-midnight weekly job.
func (s *Scheduler) Start(ctx context.Context) error {
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.startupDelay):
			s.Run(ctx, RefreshFundamentals)
		}
	}()

	if _, err := s.cron.AddFunc("@every "+s.interval.String(), func() {
		s.Run(ctx, RefreshFundamentals)
	}); err != nil {
		return err
	}

	if s.weekly {
		if _, err := s.cron.AddFunc("0 0 * * 1", func() {
			s.Run(ctx, RefreshWeekly)
		}); err != nil {
			return err
		}
		s.logger.Info("weekly refresh scheduled",
			applogger.String("next", util.NextMonday(time.Now()).Format(time.RFC3339)))
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron triggers. An in-flight run finishes on its own.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Run executes one refresh pass. Returns false when dropped because another
// run was already active.
func (s *Scheduler) Run(ctx context.Context, kind string) bool {
	if !s.inProgress.CompareAndSwap(false, true) {
		s.logger.Warn("refresh already in progress, dropping run", applogger.String("kind", kind))
		return false
	}
	defer s.inProgress.Store(false)

	symbols := s.watchlists.ActiveSymbols()
	if len(symbols) == 0 {
		s.logger.Info("no symbols on the active watchlist, skipping refresh")
		return true
	}

	start := time.Now()
	s.logger.Info("refresh starting",
		applogger.String("kind", kind),
		applogger.Int("symbols", len(symbols)))

	refreshed, failed := s.refreshBatches(ctx, symbols, kind)

	if len(symbols) > 1 {
		matrix := s.correlator.Matrix(ctx, symbols)
		for sym, row := range matrix {
			s.fundamentals.AttachCorrelations(ctx, sym, row)
		}
	}

	if err := s.fundamentals.SaveSnapshot(); err != nil {
		s.logger.Error("fundamentals snapshot save failed", applogger.Error(err))
	}

	elapsed := time.Since(start)
	s.metrics.RecordRefreshDuration("scheduler_"+kind, elapsed.Seconds())
	s.logger.Info("refresh finished",
		applogger.String("kind", kind),
		applogger.Int("refreshed", refreshed),
		applogger.Int("failed", failed),
		applogger.Duration("elapsed", elapsed))

	s.publish(ctx, models.RefreshEvent{
		Kind:       kind,
		Symbols:    symbols,
		Refreshed:  refreshed,
		Failed:     failed,
		DurationMS: elapsed.Milliseconds(),
		Timestamp:  time.Now(),
	})
	return true
}

// refreshBatches walks the symbol set in batchSize groups, settling each
// group before pausing. The weekly pass also recomputes scores and archives
// them.
func (s *Scheduler) refreshBatches(ctx context.Context, symbols []string, kind string) (refreshed, failed int) {
	var weeklyScores []models.FundamentalScore

	for offset := 0; offset < len(symbols); offset += s.batchSize {
		end := offset + s.batchSize
		if end > len(symbols) {
			end = len(symbols)
		}
		batch := symbols[offset:end]

		producers := make([]func(ctx context.Context) (models.CompanyFundamentals, error), len(batch))
		for i, sym := range batch {
			sym := sym
			producers[i] = func(ctx context.Context) (models.CompanyFundamentals, error) {
				return s.fundamentals.Refresh(ctx, sym)
			}
		}
		for i, r := range queue.Settle(ctx, s.batchSize, producers) {
			if r.Err != nil {
				failed++
				s.logger.Warn("symbol refresh failed",
					applogger.String("symbol", batch[i]), applogger.Error(r.Err))
				continue
			}
			refreshed++
			if kind == RefreshWeekly {
				weeklyScores = append(weeklyScores, s.scorer.Recompute(ctx, r.Value))
			}
		}

		if end < len(symbols) {
			select {
			case <-ctx.Done():
				return refreshed, failed
			case <-time.After(s.batchDelay):
			}
		}
	}

	if len(weeklyScores) > 0 {
		if err := s.history.AppendScores(ctx, weeklyScores); err != nil {
			s.logger.Error("score history append failed", applogger.Error(err))
		}
	}
	return refreshed, failed
}

func (s *Scheduler) publish(ctx context.Context, ev models.RefreshEvent) {
	if err := s.publisher.PublishRefresh(ctx, ev); err != nil {
		s.metrics.RecordError("publish")
		s.logger.Warn("refresh event publish failed", applogger.Error(err))
	}
}
