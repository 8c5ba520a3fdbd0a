package domain

// IsMarket decides whether an order has to go through the market execution
// path. A limit order that would cross the book is executed as a market order
// instead of being rejected, so the execution price may differ from the typed
// limit price.
func IsMarket(requested OrderType, price *PriceState) bool {
	return requested == Market || price.IsBeyondOppositeSide()
}
