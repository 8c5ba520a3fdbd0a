package application_test

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tiero/limitd/internal/core/application"
	"github.com/tiero/limitd/internal/core/domain"
)

var (
	account  = "osmo1" + strings.Repeat("q", 38)
	contract = "osmo1" + strings.Repeat("z", 58)

	osmo = domain.Asset{Denom: "uosmo", Symbol: "OSMO", Decimals: 6}
	usdc = domain.Asset{Denom: "ibc/usdc", Symbol: "USDC", Decimals: 6}

	market = application.Market{
		BaseAsset:       osmo,
		QuoteAsset:      usdc,
		ContractAddress: contract,
		PoolID:          1904,
	}

	errBroadcast = errors.New("connection refused")
)

type fakeOrderbook struct {
	mu       sync.Mutex
	snapshot *domain.OrderbookPriceSnapshot
	makerFee decimal.Decimal
	err      error
}

func (f *fakeOrderbook) GetOrderbookState(context.Context, application.Market) (*domain.OrderbookPriceSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s := *f.snapshot
	return &s, nil
}

func (f *fakeOrderbook) GetMakerFee(context.Context, application.Market) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.makerFee, nil
}

type fakeBalances struct {
	balances map[string]decimal.Decimal
}

func (f *fakeBalances) GetBalances(context.Context, string) (map[string]decimal.Decimal, error) {
	return f.balances, nil
}

type fakePrices struct{}

func (fakePrices) GetQuotePrice(context.Context, domain.Asset) (decimal.Decimal, error) {
	return decimal.NewFromInt(1), nil
}

type fakeSwaps struct {
	mu        sync.Mutex
	opts      []application.MarketExecutorOpts
	amounts   []string
	executed  int
	returnErr error
}

func (f *fakeSwaps) NewMarketExecutor(opts application.MarketExecutorOpts) application.MarketExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opts = append(f.opts, opts)
	return &fakeExecutor{swaps: f}
}

type fakeExecutor struct {
	swaps  *fakeSwaps
	amount string
}

func (e *fakeExecutor) SetAmount(amount string) {
	e.amount = amount
}

func (e *fakeExecutor) ExecuteMarketOrder(context.Context) (string, error) {
	e.swaps.mu.Lock()
	defer e.swaps.mu.Unlock()
	e.swaps.amounts = append(e.swaps.amounts, e.amount)
	e.swaps.executed++
	if e.swaps.returnErr != nil {
		return "", e.swaps.returnErr
	}
	return "SWAPTX", nil
}

type fakeContracts struct {
	mu        sync.Mutex
	calls     []application.ExecuteContractOpts
	returnErr error
	// when set, ExecuteContract signals started and waits for release
	started chan struct{}
	release chan struct{}
}

func (f *fakeContracts) ExecuteContract(ctx context.Context, opts application.ExecuteContractOpts) (string, error) {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, opts)
	if f.returnErr != nil {
		return "", f.returnErr
	}
	return "LIMITTX", nil
}

func (f *fakeContracts) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fixture struct {
	svc       application.PlaceLimitService
	orderbook *fakeOrderbook
	swaps     *fakeSwaps
	contracts *fakeContracts
}

func newFixture() (*fixture, error) {
	f := &fixture{
		orderbook: &fakeOrderbook{
			snapshot: &domain.OrderbookPriceSnapshot{
				BidSpotPrice: decimal.RequireFromString("1.00"),
				AskSpotPrice: decimal.RequireFromString("1.02"),
			},
			makerFee: decimal.RequireFromString("0.002"),
		},
		swaps:     &fakeSwaps{},
		contracts: &fakeContracts{},
	}

	svc, err := application.NewPlaceLimitService(application.PlaceLimitServiceOpts{
		Markets:   []application.Market{market},
		Orderbook: f.orderbook,
		Balances: &fakeBalances{balances: map[string]decimal.Decimal{
			"uosmo":    decimal.NewFromInt(100_000_000),
			"ibc/usdc": decimal.NewFromInt(50_000_000),
		}},
		Prices:    fakePrices{},
		Swaps:     f.swaps,
		Contracts: f.contracts,
	})
	if err != nil {
		return nil, err
	}
	f.svc = svc
	return f, nil
}

var (
	atom = domain.Asset{Denom: "uatom", Symbol: "ATOM", Decimals: 6}

	atomMarket = application.Market{
		BaseAsset:       atom,
		QuoteAsset:      usdc,
		ContractAddress: "osmo1" + strings.Repeat("y", 58),
		PoolID:          1905,
	}
)

// venueOrderbook serves a different book per market. Queries for the gated
// market block on release once it is set.
type venueOrderbook struct {
	mu        sync.Mutex
	snapshots map[string]*domain.OrderbookPriceSnapshot
	fees      map[string]decimal.Decimal
	gated     string
	entered   chan struct{}
	release   chan struct{}
}

func (v *venueOrderbook) wait(mkt application.Market) {
	v.mu.Lock()
	gated := v.gated == mkt.ContractAddress
	entered, release := v.entered, v.release
	v.mu.Unlock()

	if gated {
		entered <- struct{}{}
		<-release
	}
}

func (v *venueOrderbook) GetOrderbookState(_ context.Context, mkt application.Market) (*domain.OrderbookPriceSnapshot, error) {
	v.wait(mkt)

	v.mu.Lock()
	defer v.mu.Unlock()
	snapshot, ok := v.snapshots[mkt.ContractAddress]
	if !ok {
		return nil, errors.New("orderbook unavailable")
	}
	s := *snapshot
	return &s, nil
}

func (v *venueOrderbook) GetMakerFee(_ context.Context, mkt application.Market) (decimal.Decimal, error) {
	v.wait(mkt)

	v.mu.Lock()
	defer v.mu.Unlock()
	fee, ok := v.fees[mkt.ContractAddress]
	if !ok {
		return decimal.Zero, errors.New("orderbook unavailable")
	}
	return fee, nil
}

func (v *venueOrderbook) gate(mkt application.Market) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gated = mkt.ContractAddress
	v.entered = make(chan struct{}, 2)
	v.release = make(chan struct{})
}

func newVenueService(orderbook *venueOrderbook) (application.PlaceLimitService, error) {
	return application.NewPlaceLimitService(application.PlaceLimitServiceOpts{
		Markets:   []application.Market{market, atomMarket},
		Orderbook: orderbook,
		Balances: &fakeBalances{balances: map[string]decimal.Decimal{
			"uosmo":    decimal.NewFromInt(100_000_000),
			"ibc/usdc": decimal.NewFromInt(50_000_000),
		}},
		Prices:    fakePrices{},
		Swaps:     &fakeSwaps{},
		Contracts: &fakeContracts{},
	})
}
