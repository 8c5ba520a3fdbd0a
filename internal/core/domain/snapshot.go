package domain

import "github.com/shopspring/decimal"

// OrderbookPriceSnapshot holds the best price on each side of the book as last
// queried from the orderbook contract.
type OrderbookPriceSnapshot struct {
	BidSpotPrice decimal.Decimal
	AskSpotPrice decimal.Decimal
}

// SpotPrice returns the spot price of the side the order rests on, or 1 while
// the snapshot is still loading.
func SpotPrice(direction OrderDirection, snapshot *OrderbookPriceSnapshot) decimal.Decimal {
	if snapshot == nil {
		return decimal.NewFromInt(1)
	}
	if direction == Ask {
		return snapshot.AskSpotPrice
	}
	return snapshot.BidSpotPrice
}

// OppositeSpotPrice returns the price an order would be filled at if it took
// liquidity right away, or 1 while the snapshot is still loading.
func OppositeSpotPrice(direction OrderDirection, snapshot *OrderbookPriceSnapshot) decimal.Decimal {
	return SpotPrice(direction.Opposite(), snapshot)
}

// IsBeyondOppositeSide reports whether price would immediately cross the best
// price on the opposite side of the book. Both bounds are inclusive.
func IsBeyondOppositeSide(direction OrderDirection, snapshot *OrderbookPriceSnapshot, price decimal.Decimal) bool {
	if snapshot == nil {
		return false
	}
	if direction == Ask {
		return snapshot.BidSpotPrice.GreaterThanOrEqual(price)
	}
	return snapshot.AskSpotPrice.LessThanOrEqual(price)
}
