package domain

import "github.com/shopspring/decimal"

// ValuationInput gathers everything the valuation of an order depends on.
type ValuationInput struct {
	Direction  OrderDirection
	BaseAsset  Asset
	QuoteAsset Asset
	// Amount entered by the user, always in terms of the base asset
	Amount decimal.Decimal
	// Whether the order executes on the market path, see IsMarket
	IsMarket bool
	// Resolved limit price, see PriceState.Price
	Price    decimal.Decimal
	Snapshot *OrderbookPriceSnapshot
	// Price of one whole unit of the quote asset in the reference currency
	QuotePrice decimal.Decimal
	// Maker fee as a fraction in [0, 1)
	MakerFee decimal.Decimal
}

type ValuationResult struct {
	PaymentAmount           AssetAmount
	PaymentFiatValue        FiatValue
	ExpectedOutputAmount    AssetAmount
	ExpectedOutputFiatValue FiatValue
}

func Valuate(in ValuationInput) ValuationResult {
	payment := PaymentAmount(in)
	paymentFiat := PaymentFiatValue(in, payment)
	out := ExpectedOutputAmount(in, paymentFiat)

	return ValuationResult{
		PaymentAmount:           payment,
		PaymentFiatValue:        paymentFiat,
		ExpectedOutputAmount:    out,
		ExpectedOutputFiatValue: ExpectedOutputFiatValue(in, out),
	}
}

// PaymentAmount is the amount of tokens sent with the order: the base amount
// itself for an ask, the quote tokens needed to buy it for a bid.
func PaymentAmount(in ValuationInput) AssetAmount {
	amount := nonNegative(in.Amount)
	if in.Direction == Ask {
		return NewAssetAmount(in.BaseAsset, amount)
	}

	price := in.Price
	if in.IsMarket {
		price = OppositeSpotPrice(Bid, in.Snapshot)
	}
	outgoingFiat := MulPrice(NewAssetAmount(in.BaseAsset, amount), price)

	return NewAssetAmount(in.QuoteAsset, quo(outgoingFiat.Amount, quotePrice(in)))
}

func PaymentFiatValue(in ValuationInput, payment AssetAmount) FiatValue {
	if in.Direction == Ask {
		return MulPrice(payment, in.Price)
	}
	return MulPrice(payment, quotePrice(in))
}

// ExpectedOutputAmount is what the order yields once filled, net of the maker
// fee: quote tokens for an ask, base tokens for a bid.
func ExpectedOutputAmount(in ValuationInput, paymentFiat FiatValue) AssetAmount {
	net := one.Sub(in.MakerFee)
	if in.Direction == Ask {
		preFee := NewAssetAmount(in.QuoteAsset, quo(paymentFiat.Amount, quotePrice(in)))
		return preFee.Mul(net)
	}
	return NewAssetAmount(in.BaseAsset, nonNegative(in.Amount)).Mul(net)
}

func ExpectedOutputFiatValue(in ValuationInput, out AssetAmount) FiatValue {
	if in.Direction == Ask {
		return MulPrice(out, quotePrice(in))
	}
	return MulPrice(out, in.Price)
}

func quotePrice(in ValuationInput) decimal.Decimal {
	if !in.QuotePrice.IsPositive() {
		return one
	}
	return in.QuotePrice
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// divisionPrecision is far below the smallest asset unit and tick increment,
// so truncating a quotient there never changes what they truncate to.
const divisionPrecision = 36

// quo divides truncating toward zero. Decimal.Div rounds, which could push a
// quantity or a tick up by one.
func quo(d, d2 decimal.Decimal) decimal.Decimal {
	q, _ := d.QuoRem(d2, divisionPrecision)
	return q
}
