package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/tiero/limitd/internal/core/domain"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrOrderInFlight    = errors.New("an order is already being submitted")
	ErrSubmissionFailed = errors.New("order submission failed")
)

// PlaceLimitService manages order entry sessions. Each session owns its own
// price state and valuation: calls on different sessions never share mutable
// state.
type PlaceLimitService interface {
	GetTradableMarkets(ctx context.Context) ([]Market, error)

	OpenSession(ctx context.Context, opts SessionOpts) (*OrderPreview, error)
	GetPreview(ctx context.Context, sessionID string) (*OrderPreview, error)
	CloseSession(ctx context.Context, sessionID string) error

	SetDirection(ctx context.Context, sessionID string, direction domain.OrderDirection) (*OrderPreview, error)
	SetOrderType(ctx context.Context, sessionID string, orderType domain.OrderType) (*OrderPreview, error)
	SetMarket(ctx context.Context, sessionID, baseDenom, quoteDenom string) (*OrderPreview, error)
	SetPrice(ctx context.Context, sessionID, price string) (*OrderPreview, error)
	SetPercent(ctx context.Context, sessionID, percent string) (*OrderPreview, error)
	SetAmount(ctx context.Context, sessionID, amount string) (*OrderPreview, error)
	ResetPrice(ctx context.Context, sessionID string) (*OrderPreview, error)

	// Refresh reloads the orderbook snapshot, maker fee, quote price and
	// balances of a session.
	Refresh(ctx context.Context, sessionID string) (*OrderPreview, error)
	PlaceOrder(ctx context.Context, sessionID string) (*PlaceOrderResult, error)

	// Subscribe returns a channel signaled every time the preview of the
	// session may have changed, and a func to stop the subscription.
	Subscribe(sessionID string) (<-chan struct{}, func(), error)
	// Run refreshes open sessions and evicts inactive ones until ctx is done.
	Run(ctx context.Context)
}

type PlaceLimitServiceOpts struct {
	Markets   []Market
	Orderbook OrderbookService
	Balances  BalanceService
	Prices    PriceService
	Swaps     SwapService
	Contracts ContractExecutor

	RefreshInterval time.Duration
	SessionTTL      time.Duration
}

type placeLimitService struct {
	markets []Market

	orderbook OrderbookService
	balances  BalanceService
	prices    PriceService
	swaps     SwapService
	contracts ContractExecutor

	refreshInterval time.Duration
	sessionTTL      time.Duration

	lock     sync.RWMutex
	sessions map[string]*session
}

func NewPlaceLimitService(opts PlaceLimitServiceOpts) (PlaceLimitService, error) {
	return newPlaceLimitService(opts)
}

func newPlaceLimitService(opts PlaceLimitServiceOpts) (*placeLimitService, error) {
	if len(opts.Markets) == 0 {
		return nil, errors.New("at least one market is required")
	}
	for _, mkt := range opts.Markets {
		if err := validateMarket(mkt); err != nil {
			return nil, err
		}
	}
	if opts.Orderbook == nil || opts.Balances == nil || opts.Prices == nil ||
		opts.Swaps == nil || opts.Contracts == nil {
		return nil, errors.New("all collaborator services are required")
	}

	refreshInterval := opts.RefreshInterval
	if refreshInterval <= 0 {
		refreshInterval = 5 * time.Second
	}
	sessionTTL := opts.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}

	return &placeLimitService{
		markets:         opts.Markets,
		orderbook:       opts.Orderbook,
		balances:        opts.Balances,
		prices:          opts.Prices,
		swaps:           opts.Swaps,
		contracts:       opts.Contracts,
		refreshInterval: refreshInterval,
		sessionTTL:      sessionTTL,
		sessions:        make(map[string]*session),
	}, nil
}

func (t *placeLimitService) OpenSession(ctx context.Context, opts SessionOpts) (*OrderPreview, error) {
	if !validateAddress(opts.Account) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAccount, opts.Account)
	}
	market, err := t.findMarket(opts.BaseDenom, opts.QuoteDenom)
	if err != nil {
		return nil, err
	}
	direction, err := domain.ParseOrderDirection(string(opts.Direction))
	if err != nil {
		return nil, err
	}
	orderType := opts.OrderType
	if orderType == "" {
		orderType = domain.Limit
	}
	if orderType, err = domain.ParseOrderType(string(orderType)); err != nil {
		return nil, err
	}

	s := newSession(uuid.New().String(), opts.Account, market, direction, orderType)

	t.lock.Lock()
	t.sessions[s.id] = s
	t.lock.Unlock()

	log.WithFields(log.Fields{
		"session":   s.id,
		"market":    market.ContractAddress,
		"direction": direction,
	}).Debug("session opened")

	// failures are logged, the session shows the data as loading until the
	// next refresh
	t.refresh(ctx, s)
	return t.preview(s), nil
}

func (t *placeLimitService) GetPreview(ctx context.Context, sessionID string) (*OrderPreview, error) {
	s, err := t.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return t.preview(s), nil
}

func (t *placeLimitService) CloseSession(ctx context.Context, sessionID string) error {
	t.lock.Lock()
	s, ok := t.sessions[sessionID]
	delete(t.sessions, sessionID)
	t.lock.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	s.closeSubscribers()
	s.mu.Unlock()

	log.WithField("session", sessionID).Debug("session closed")
	return nil
}

func (t *placeLimitService) SetDirection(
	ctx context.Context,
	sessionID string,
	direction domain.OrderDirection,
) (*OrderPreview, error) {
	direction, err := domain.ParseOrderDirection(string(direction))
	if err != nil {
		return nil, err
	}
	return t.update(sessionID, func(s *session) {
		s.setDirection(direction)
	})
}

func (t *placeLimitService) SetOrderType(
	ctx context.Context,
	sessionID string,
	orderType domain.OrderType,
) (*OrderPreview, error) {
	orderType, err := domain.ParseOrderType(string(orderType))
	if err != nil {
		return nil, err
	}
	return t.update(sessionID, func(s *session) {
		s.orderType = orderType
	})
}

func (t *placeLimitService) SetMarket(
	ctx context.Context,
	sessionID, baseDenom, quoteDenom string,
) (*OrderPreview, error) {
	market, err := t.findMarket(baseDenom, quoteDenom)
	if err != nil {
		return nil, err
	}

	s, err := t.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrOrderInFlight
	}
	s.setMarket(market)
	s.touch()
	s.notify()
	s.mu.Unlock()

	// failures are logged, the session shows the data as loading until the
	// next refresh
	t.refresh(ctx, s)
	return t.preview(s), nil
}

func (t *placeLimitService) SetPrice(ctx context.Context, sessionID, price string) (*OrderPreview, error) {
	return t.update(sessionID, func(s *session) {
		s.price.SetPrice(price)
	})
}

func (t *placeLimitService) SetPercent(ctx context.Context, sessionID, percent string) (*OrderPreview, error) {
	return t.update(sessionID, func(s *session) {
		s.price.SetPercent(percent)
	})
}

func (t *placeLimitService) SetAmount(ctx context.Context, sessionID, amount string) (*OrderPreview, error) {
	return t.update(sessionID, func(s *session) {
		s.amount = amount
	})
}

func (t *placeLimitService) ResetPrice(ctx context.Context, sessionID string) (*OrderPreview, error) {
	return t.update(sessionID, func(s *session) {
		s.price.Reset()
	})
}

func (t *placeLimitService) Refresh(ctx context.Context, sessionID string) (*OrderPreview, error) {
	s, err := t.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	if err := t.refresh(ctx, s); err != nil {
		return nil, err
	}
	return t.preview(s), nil
}

func (t *placeLimitService) Subscribe(sessionID string) (<-chan struct{}, func(), error) {
	s, err := t.getSession(sessionID)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ch, id := s.subscribe()
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			s.unsubscribe(id)
			s.mu.Unlock()
		})
	}
	return ch, cancel, nil
}

func (t *placeLimitService) getSession(sessionID string) (*session, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	s, ok := t.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// update applies a user input to a session. Inputs are rejected while an
// order is in flight so that the result always matches what was submitted.
func (t *placeLimitService) update(sessionID string, fn func(s *session)) (*OrderPreview, error) {
	s, err := t.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return nil, ErrOrderInFlight
	}
	fn(s)
	s.touch()
	s.notify()
	return s.preview(), nil
}

func (t *placeLimitService) preview(s *session) *OrderPreview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview()
}
