package application

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiero/limitd/internal/core/domain"
)

// session is the state of one order entry flow. Only raw inputs and the last
// data received from collaborators are stored, everything shown to the user
// is derived from them in preview.
type session struct {
	mu sync.Mutex

	id        string
	account   string
	market    Market
	orderType domain.OrderType
	price     *domain.PriceState
	amount    string

	makerFee       decimal.Decimal
	makerFeeLoaded bool
	quotePrice     decimal.Decimal
	balances       domain.Balances

	submitting bool
	lastError  string
	lastResult *PlaceOrderResult

	lastActivity time.Time

	subscribers map[uint64]chan struct{}
	nextSubID   uint64
}

func newSession(id, account string, market Market, direction domain.OrderDirection, orderType domain.OrderType) *session {
	return &session{
		id:           id,
		account:      account,
		market:       market,
		orderType:    orderType,
		price:        domain.NewPriceState(direction),
		quotePrice:   decimal.NewFromInt(1),
		lastActivity: time.Now(),
		subscribers:  make(map[uint64]chan struct{}),
	}
}

// The methods below expect s.mu to be held.

func (s *session) touch() {
	s.lastActivity = time.Now()
}

// clearOrder drops the order inputs, bringing the session back to idle.
func (s *session) clearOrder() {
	s.amount = ""
	s.price.Reset()
}

func (s *session) setDirection(direction domain.OrderDirection) {
	if direction == s.price.Direction() {
		return
	}
	s.price.SetDirection(direction)
	s.amount = ""
	s.lastError = ""
}

// setMarket switches venue. Market data of the previous venue is discarded.
func (s *session) setMarket(market Market) {
	if market.ContractAddress == s.market.ContractAddress &&
		market.BaseAsset == s.market.BaseAsset &&
		market.QuoteAsset == s.market.QuoteAsset {
		return
	}
	s.market = market
	s.price = domain.NewPriceState(s.price.Direction())
	s.amount = ""
	s.makerFee = decimal.Zero
	s.makerFeeLoaded = false
	s.quotePrice = decimal.NewFromInt(1)
	s.balances = domain.Balances{}
	s.lastError = ""
	s.lastResult = nil
}

func (s *session) isMarket() bool {
	return domain.IsMarket(s.orderType, s.price)
}

func (s *session) valuationInput() domain.ValuationInput {
	return domain.ValuationInput{
		Direction:  s.price.Direction(),
		BaseAsset:  s.market.BaseAsset,
		QuoteAsset: s.market.QuoteAsset,
		Amount:     domain.ParseAmount(s.market.BaseAsset, s.amount).Amount,
		IsMarket:   s.isMarket(),
		Price:      s.price.Price(),
		Snapshot:   s.price.Snapshot(),
		QuotePrice: s.quotePrice,
		MakerFee:   s.makerFee,
	}
}

func (s *session) isLoaded() bool {
	return s.price.Snapshot() != nil && s.makerFeeLoaded && s.balances.IsFetched()
}

func (s *session) status(quantity string) SessionStatus {
	switch {
	case s.submitting:
		return StatusSubmitting
	case quantity == "0":
		return StatusIdle
	case !s.isLoaded():
		return StatusValuating
	default:
		return StatusReady
	}
}

func (s *session) preview() *OrderPreview {
	valuation := domain.Valuate(s.valuationInput())
	quantity := domain.Quantity(valuation.PaymentAmount)
	direction := s.price.Direction()
	isMarket := s.isMarket()

	var tickID *int64
	if !isMarket {
		if tick, err := domain.LimitTick(s.price.Price(), s.quotePrice); err == nil {
			tickID = &tick
		}
	}

	return &OrderPreview{
		SessionID:         s.id,
		Account:           s.account,
		Market:            s.market,
		Direction:         direction,
		OrderType:         s.orderType,
		IsMarket:          isMarket,
		Amount:            s.amount,
		Price:             s.price.View(),
		Valuation:         valuation,
		Quantity:          quantity,
		TickID:            tickID,
		MakerFee:          s.makerFee,
		IsMakerFeeLoading: !s.makerFeeLoaded,
		QuotePrice:        s.quotePrice,
		Balances:          s.balances,
		IsBalancesFetched: s.balances.IsFetched(),
		InsufficientFunds: domain.InsufficientFunds(direction, valuation.PaymentAmount, s.balances),
		Status:            s.status(quantity),
		LastError:         s.lastError,
		LastResult:        s.lastResult,
	}
}

func (s *session) applyBalances(balances map[string]decimal.Decimal) {
	s.balances = domain.Balances{BaseFetched: true, QuoteFetched: true}
	if amount, ok := balances[s.market.BaseAsset.Denom]; ok {
		base := domain.AssetAmountFromMinimal(s.market.BaseAsset, amount)
		s.balances.Base = &base
	}
	if amount, ok := balances[s.market.QuoteAsset.Denom]; ok {
		quote := domain.AssetAmountFromMinimal(s.market.QuoteAsset, amount)
		s.balances.Quote = &quote
	}
}

func (s *session) subscribe() (<-chan struct{}, uint64) {
	ch := make(chan struct{}, 1)
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	return ch, id
}

func (s *session) unsubscribe(id uint64) {
	if ch, ok := s.subscribers[id]; ok {
		delete(s.subscribers, id)
		close(ch)
	}
}

// notify signals every subscriber without blocking. Signals coalesce: a
// subscriber that is behind only sees one.
func (s *session) notify() {
	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *session) closeSubscribers() {
	for id := range s.subscribers {
		s.unsubscribe(id)
	}
}
