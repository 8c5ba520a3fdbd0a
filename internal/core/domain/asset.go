package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ReferenceCurrency is the only fiat currency values are expressed in.
const ReferenceCurrency = "usd"

var ErrAssetMismatch = errors.New("amounts refer to different assets")

type Asset struct {
	// Minimal denomination as known by the chain, ie. uosmo or an ibc/ hash
	Denom string
	// Ticker shown to the user
	Symbol string
	// Number of decimal places between the minimal denom and one whole unit
	Decimals int32
}

// AssetAmount is a quantity of an asset expressed in whole units. The on-chain
// amount is obtained with Minimal.
type AssetAmount struct {
	Asset  Asset
	Amount decimal.Decimal
}

func NewAssetAmount(asset Asset, amount decimal.Decimal) AssetAmount {
	return AssetAmount{Asset: asset, Amount: amount}
}

func ZeroAmount(asset Asset) AssetAmount {
	return AssetAmount{Asset: asset, Amount: decimal.Zero}
}

// AssetAmountFromMinimal converts an amount of minimal denom units into whole
// units of the asset.
func AssetAmountFromMinimal(asset Asset, minimal decimal.Decimal) AssetAmount {
	return AssetAmount{Asset: asset, Amount: minimal.Shift(-asset.Decimals)}
}

// ParseAmount parses a user entered amount. Empty, malformed and negative
// inputs all resolve to zero.
func ParseAmount(asset Asset, raw string) AssetAmount {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || amount.IsNegative() {
		return ZeroAmount(asset)
	}
	return NewAssetAmount(asset, amount)
}

// Minimal returns the amount in minimal denom units truncated toward zero.
func (a AssetAmount) Minimal() decimal.Decimal {
	return a.Amount.Shift(a.Asset.Decimals).Truncate(0)
}

func (a AssetAmount) Coin() Coin {
	minimal := a.Minimal()
	if minimal.IsNegative() {
		minimal = decimal.Zero
	}
	return Coin{Amount: minimal.String(), Denom: a.Asset.Denom}
}

func (a AssetAmount) Mul(d decimal.Decimal) AssetAmount {
	return AssetAmount{Asset: a.Asset, Amount: a.Amount.Mul(d)}
}

func (a AssetAmount) Add(b AssetAmount) (AssetAmount, error) {
	if a.Asset.Denom != b.Asset.Denom {
		return AssetAmount{}, ErrAssetMismatch
	}
	return AssetAmount{Asset: a.Asset, Amount: a.Amount.Add(b.Amount)}, nil
}

func (a AssetAmount) LessThan(b AssetAmount) (bool, error) {
	if a.Asset.Denom != b.Asset.Denom {
		return false, ErrAssetMismatch
	}
	return a.Amount.LessThan(b.Amount), nil
}

func (a AssetAmount) IsZero() bool {
	return a.Minimal().IsZero()
}

// Coin is the wire representation of an amount of minimal denom units.
type Coin struct {
	Amount string `json:"amount"`
	Denom  string `json:"denom"`
}

type FiatValue struct {
	Currency string
	Amount   decimal.Decimal
}

func NewFiatValue(amount decimal.Decimal) FiatValue {
	return FiatValue{Currency: ReferenceCurrency, Amount: amount}
}

// MulPrice values an amount of tokens at the given per-unit price.
func MulPrice(amount AssetAmount, price decimal.Decimal) FiatValue {
	return NewFiatValue(amount.Amount.Mul(price))
}
