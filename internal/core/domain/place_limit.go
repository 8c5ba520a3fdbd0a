package domain

import (
	"github.com/shopspring/decimal"
)

// ClaimBounty is the share of a filled order offered to whoever claims it on
// behalf of the owner.
const ClaimBounty = "0.001"

// PlaceLimitMsg is the execute message understood by the orderbook contract.
type PlaceLimitMsg struct {
	PlaceLimit PlaceLimit `json:"place_limit"`
}

type PlaceLimit struct {
	TickID         int64          `json:"tick_id"`
	OrderDirection OrderDirection `json:"order_direction"`
	Quantity       string         `json:"quantity"`
	ClaimBounty    string         `json:"claim_bounty"`
}

// Quantity is the integer amount of minimal denom units sent with an order.
// Fractions are truncated, never rounded.
func Quantity(payment AssetAmount) string {
	return payment.Coin().Amount
}

// LimitTick converts a price quoted in the reference currency into the tick
// of the book. Dividing by the quote price accounts for quote assets that are
// not pegged to the reference currency.
func LimitTick(price, quotePrice decimal.Decimal) (int64, error) {
	if !quotePrice.IsPositive() {
		quotePrice = one
	}
	return PriceToTick(quo(price, quotePrice))
}

// NewPlaceLimitMsg builds the message for a limit order resting at price.
func NewPlaceLimitMsg(
	direction OrderDirection,
	price, quotePrice decimal.Decimal,
	quantity string,
) (*PlaceLimitMsg, error) {
	tickID, err := LimitTick(price, quotePrice)
	if err != nil {
		return nil, err
	}

	return &PlaceLimitMsg{
		PlaceLimit: PlaceLimit{
			TickID:         tickID,
			OrderDirection: direction,
			Quantity:       quantity,
			ClaimBounty:    ClaimBounty,
		},
	}, nil
}
