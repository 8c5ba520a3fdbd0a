package resthandler

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tiero/limitd/internal/core/application"
	"github.com/tiero/limitd/internal/core/domain"
)

type OpenSessionRequest struct {
	Account    string `json:"account"`
	BaseDenom  string `json:"baseDenom"`
	QuoteDenom string `json:"quoteDenom"`
	Direction  string `json:"direction"`
	Type       string `json:"type"`
}

// ValueRequest carries a single user input, ie. PUT /sessions/:id/price
type ValueRequest struct {
	Value string `json:"value"`
}

type SetMarketRequest struct {
	BaseDenom  string `json:"baseDenom"`
	QuoteDenom string `json:"quoteDenom"`
}

type Asset struct {
	Denom    string `json:"denom"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

type Market struct {
	BaseAsset       Asset  `json:"baseAsset"`
	QuoteAsset      Asset  `json:"quoteAsset"`
	ContractAddress string `json:"contractAddress"`
	PoolID          string `json:"poolId"`
}

type MarketsReply struct {
	Markets []Market `json:"markets"`
}

type Amount struct {
	Denom  string          `json:"denom"`
	Amount decimal.Decimal `json:"amount"`
}

type FiatAmount struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

type Price struct {
	OrderPrice           string           `json:"orderPrice"`
	ManualPercent        string           `json:"manualPercent"`
	Spot                 decimal.Decimal  `json:"spot"`
	Price                decimal.Decimal  `json:"price"`
	PercentAdjusted      decimal.Decimal  `json:"percentAdjusted"`
	IsValid              bool             `json:"isValid"`
	IsBeyondOppositeSide bool             `json:"isBeyondOppositeSide"`
	BidSpotPrice         *decimal.Decimal `json:"bidSpotPrice,omitempty"`
	AskSpotPrice         *decimal.Decimal `json:"askSpotPrice,omitempty"`
}

type Valuation struct {
	PaymentAmount           Amount     `json:"paymentAmount"`
	PaymentFiatValue        FiatAmount `json:"paymentFiatValue"`
	ExpectedOutputAmount    Amount     `json:"expectedOutputAmount"`
	ExpectedOutputFiatValue FiatAmount `json:"expectedOutputFiatValue"`
}

type Balances struct {
	Base  *Amount `json:"base"`
	Quote *Amount `json:"quote"`
}

type Order struct {
	Outcome       string        `json:"outcome"`
	TxHash        string        `json:"txHash,omitempty"`
	ClientOrderID string        `json:"clientOrderId,omitempty"`
	Quantity      string        `json:"quantity"`
	Msg           interface{}   `json:"msg,omitempty"`
	Funds         []domain.Coin `json:"funds,omitempty"`
}

type Preview struct {
	SessionID string `json:"sessionId"`
	Account   string `json:"account"`
	Market    Market `json:"market"`
	Direction string `json:"direction"`
	Type      string `json:"type"`
	IsMarket  bool   `json:"isMarket"`
	Amount    string `json:"amount"`

	Price     Price     `json:"price"`
	Valuation Valuation `json:"valuation"`
	Quantity  string    `json:"quantity"`
	TickID    *int64    `json:"tickId,omitempty"`

	MakerFee          decimal.Decimal `json:"makerFee"`
	IsMakerFeeLoading bool            `json:"isMakerFeeLoading"`
	QuotePrice        decimal.Decimal `json:"quotePrice"`

	Balances          Balances `json:"balances"`
	IsBalancesFetched bool     `json:"isBalancesFetched"`
	InsufficientFunds bool     `json:"insufficientFunds"`

	Status     string `json:"status"`
	LastError  string `json:"lastError,omitempty"`
	LastResult *Order `json:"lastResult,omitempty"`
}

func newAsset(a domain.Asset) Asset {
	return Asset{Denom: a.Denom, Symbol: a.Symbol, Decimals: a.Decimals}
}

func newMarket(m application.Market) Market {
	return Market{
		BaseAsset:       newAsset(m.BaseAsset),
		QuoteAsset:      newAsset(m.QuoteAsset),
		ContractAddress: m.ContractAddress,
		PoolID:          strconv.FormatUint(m.PoolID, 10),
	}
}

func newAmount(a domain.AssetAmount) Amount {
	return Amount{Denom: a.Asset.Denom, Amount: a.Amount}
}

func newOptionalAmount(a *domain.AssetAmount) *Amount {
	if a == nil {
		return nil
	}
	amount := newAmount(*a)
	return &amount
}

func newFiatAmount(f domain.FiatValue) FiatAmount {
	return FiatAmount{Currency: f.Currency, Amount: f.Amount}
}

func newOrder(res *application.PlaceOrderResult) *Order {
	if res == nil {
		return nil
	}
	order := &Order{
		Outcome:       string(res.Outcome),
		TxHash:        res.TxHash,
		ClientOrderID: res.ClientOrderID,
		Quantity:      res.Quantity,
		Funds:         res.Funds,
	}
	// avoid a typed nil behind the interface
	if res.Msg != nil {
		order.Msg = res.Msg
	}
	return order
}

func newPreview(p *application.OrderPreview) Preview {
	price := Price{
		OrderPrice:           p.Price.OrderPrice,
		ManualPercent:        p.Price.ManualPercent,
		Spot:                 p.Price.Spot,
		Price:                p.Price.Price,
		PercentAdjusted:      p.Price.PercentAdjusted,
		IsValid:              p.Price.IsValid,
		IsBeyondOppositeSide: p.Price.IsBeyondOppositeSide,
	}
	if snapshot := p.Price.Snapshot; snapshot != nil {
		price.BidSpotPrice = &snapshot.BidSpotPrice
		price.AskSpotPrice = &snapshot.AskSpotPrice
	}

	return Preview{
		SessionID: p.SessionID,
		Account:   p.Account,
		Market:    newMarket(p.Market),
		Direction: string(p.Direction),
		Type:      string(p.OrderType),
		IsMarket:  p.IsMarket,
		Amount:    p.Amount,
		Price:     price,
		Valuation: Valuation{
			PaymentAmount:           newAmount(p.Valuation.PaymentAmount),
			PaymentFiatValue:        newFiatAmount(p.Valuation.PaymentFiatValue),
			ExpectedOutputAmount:    newAmount(p.Valuation.ExpectedOutputAmount),
			ExpectedOutputFiatValue: newFiatAmount(p.Valuation.ExpectedOutputFiatValue),
		},
		Quantity:          p.Quantity,
		TickID:            p.TickID,
		MakerFee:          p.MakerFee,
		IsMakerFeeLoading: p.IsMakerFeeLoading,
		QuotePrice:        p.QuotePrice,
		Balances: Balances{
			Base:  newOptionalAmount(p.Balances.Base),
			Quote: newOptionalAmount(p.Balances.Quote),
		},
		IsBalancesFetched: p.IsBalancesFetched,
		InsufficientFunds: p.InsufficientFunds,
		Status:            string(p.Status),
		LastError:         p.LastError,
		LastResult:        newOrder(p.LastResult),
	}
}
