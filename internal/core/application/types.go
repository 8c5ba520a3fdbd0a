package application

import (
	"github.com/shopspring/decimal"

	"github.com/tiero/limitd/internal/core/domain"
)

// Market is an orderbook venue trading BaseAsset against QuoteAsset.
type Market struct {
	BaseAsset  domain.Asset
	QuoteAsset domain.Asset
	// address of the orderbook contract
	ContractAddress string
	// pool the swap router uses for market orders
	PoolID uint64
}

type SessionOpts struct {
	Account    string
	BaseDenom  string
	QuoteDenom string
	Direction  domain.OrderDirection
	OrderType  domain.OrderType
}

// SessionStatus is the stage of an order entry session:
// 	- idle -> nothing to submit
//	- valuating -> an amount is set but market data is still loading
//	- ready -> the order can be submitted
//	- submitting -> an order is in flight
type SessionStatus string

const (
	StatusIdle       SessionStatus = "idle"
	StatusValuating  SessionStatus = "valuating"
	StatusReady      SessionStatus = "ready"
	StatusSubmitting SessionStatus = "submitting"
)

// OrderPreview is everything a client needs to render an order before
// placing it.
type OrderPreview struct {
	SessionID string
	Account   string
	Market    Market
	Direction domain.OrderDirection
	OrderType domain.OrderType
	IsMarket  bool
	Amount    string

	Price     domain.PriceView
	Valuation domain.ValuationResult
	Quantity  string
	// set only for limit orders whose price maps to a valid tick
	TickID *int64

	MakerFee          decimal.Decimal
	IsMakerFeeLoading bool
	QuotePrice        decimal.Decimal

	Balances          domain.Balances
	IsBalancesFetched bool
	InsufficientFunds bool

	Status     SessionStatus
	LastError  string
	LastResult *PlaceOrderResult
}

type PlaceOrderOutcome string

const (
	// the quantity to send was zero, nothing was submitted
	OutcomeSkipped PlaceOrderOutcome = "skipped"
	// the order was handed over to the swap router
	OutcomeMarket PlaceOrderOutcome = "market"
	// a place_limit message was broadcast to the orderbook contract
	OutcomeLimit PlaceOrderOutcome = "limit"
)

type PlaceOrderResult struct {
	Outcome       PlaceOrderOutcome
	TxHash        string
	ClientOrderID string
	Quantity      string
	Msg           *domain.PlaceLimitMsg
	Funds         []domain.Coin
}
