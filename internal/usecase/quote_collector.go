package usecase

import (
	"context"
	"time"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/pkg/cache"
	applogger "MarketLens/pkg/logger"
)

const (
	quoteTTL       = time.Minute
	quoteKeyPrefix = "quote:"
)

// QuoteCollector drains the broker's live feed into the quote cache so
// dashboard reads see near-real-time prices between scheduler refreshes.
type QuoteCollector struct {
	stream     drepo.QuoteStream
	watchlists *Watchlists
	store      cache.Service
	metrics    drepo.Metrics
	logger     *applogger.Logger
}

func NewQuoteCollector(
	stream drepo.QuoteStream,
	watchlists *Watchlists,
	store cache.Service,
	metrics drepo.Metrics,
	logger *applogger.Logger,
) *QuoteCollector {
	return &QuoteCollector{
		stream:     stream,
		watchlists: watchlists,
		store:      store,
		metrics:    metrics,
		logger:     logger,
	}
}

func (c *QuoteCollector) IsConnected() bool { return c.stream.IsConnected() }

// Start connects, subscribes the active watchlist, and consumes in the
// background until ctx is done.
func (c *QuoteCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx, c.watchlists.ActiveSymbols()); err != nil {
		return err
	}
	quotes, errs := c.stream.Read(ctx)
	go c.consume(ctx, quotes, errs)
	return nil
}

func (c *QuoteCollector) consume(ctx context.Context, quotes <-chan *models.Quote, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			if err != nil {
				c.metrics.RecordError("stream")
				c.logger.Warn("quote stream error, reconnecting", applogger.Error(err))
				if rerr := c.stream.Reconnect(ctx); rerr != nil {
					c.logger.Error("quote stream reconnect failed", applogger.Error(rerr))
					return
				}
				quotes, errs = c.stream.Read(ctx)
			}
		case q := <-quotes:
			if q == nil {
				continue
			}
			if err := c.store.Set(ctx, quoteKeyPrefix+q.Symbol, q, quoteTTL); err != nil {
				c.metrics.RecordError("quote_cache")
			}
		}
	}
}

// Stop closes the stream.
func (c *QuoteCollector) Stop() error { return c.stream.Close() }
