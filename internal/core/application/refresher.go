package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// refresh queries every collaborator a session depends on. Queries are
// independent: each result is applied as soon as it arrives and a failing
// query leaves the corresponding data in its loading state.
func (t *placeLimitService) refresh(ctx context.Context, s *session) error {
	s.mu.Lock()
	market := s.market
	account := s.account
	s.mu.Unlock()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	run := func(name string, query func() (func(*session), error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()

			apply, err := query()
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				return
			}

			s.mu.Lock()
			defer s.mu.Unlock()
			// the session moved to another venue while querying
			if s.market != market {
				return
			}
			apply(s)
			s.notify()
		}()
	}

	run("orderbook", func() (func(*session), error) {
		snapshot, err := t.orderbook.GetOrderbookState(ctx, market)
		if err != nil {
			return nil, err
		}
		return func(s *session) { s.price.SetSnapshot(snapshot) }, nil
	})

	run("maker fee", func() (func(*session), error) {
		fee, err := t.orderbook.GetMakerFee(ctx, market)
		if err != nil {
			return nil, err
		}
		return func(s *session) {
			s.makerFee = fee
			s.makerFeeLoaded = true
		}, nil
	})

	run("quote price", func() (func(*session), error) {
		price, err := t.prices.GetQuotePrice(ctx, market.QuoteAsset)
		if err != nil {
			return nil, err
		}
		return func(s *session) { s.quotePrice = price }, nil
	})

	run("balances", func() (func(*session), error) {
		balances, err := t.balances.GetBalances(ctx, account)
		if err != nil {
			return nil, err
		}
		return func(s *session) { s.applyBalances(balances) }, nil
	})

	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		log.WithError(err).WithField("session", s.id).Warn("unable to refresh session")
		return err
	}
	return nil
}

func (t *placeLimitService) Run(ctx context.Context) {
	ticker := time.NewTicker(t.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.evictInactiveSessions(time.Now())
			t.refreshAll(ctx)
		}
	}
}

func (t *placeLimitService) refreshAll(ctx context.Context) {
	t.lock.RLock()
	sessions := make([]*session, 0, len(t.sessions))
	for _, s := range t.sessions {
		sessions = append(sessions, s)
	}
	t.lock.RUnlock()

	for _, s := range sessions {
		if ctx.Err() != nil {
			return
		}
		t.refresh(ctx, s)
	}
}

func (t *placeLimitService) evictInactiveSessions(now time.Time) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for id, s := range t.sessions {
		s.mu.Lock()
		expired := !s.submitting && now.Sub(s.lastActivity) > t.sessionTTL
		if expired {
			s.closeSubscribers()
		}
		s.mu.Unlock()

		if expired {
			delete(t.sessions, id)
			log.WithField("session", id).Debug("session expired")
		}
	}
}
