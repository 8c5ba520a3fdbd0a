package domain

// Balances are the holdings of the user for both assets of a market. A nil
// amount means the balance is unknown, either still loading or not held.
type Balances struct {
	Base         *AssetAmount
	Quote        *AssetAmount
	BaseFetched  bool
	QuoteFetched bool
}

func (b Balances) IsFetched() bool {
	return IsBalancesFetched(b.BaseFetched, b.QuoteFetched)
}

func IsBalancesFetched(baseFetched, quoteFetched bool) bool {
	return baseFetched && quoteFetched
}

// InsufficientFunds reports whether the balance on the spending side does not
// cover payment. Until both balances are known the answer is true.
func InsufficientFunds(direction OrderDirection, payment AssetAmount, balances Balances) bool {
	if !balances.IsFetched() {
		return true
	}

	held := balances.Base
	if direction == Bid {
		held = balances.Quote
	}
	if held == nil {
		return true
	}

	lt, err := held.LessThan(payment)
	if err != nil {
		return true
	}
	return lt
}
