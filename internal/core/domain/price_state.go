package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// PriceState tracks the price a user wants to trade at against the live spot
// price of the book. Only the raw inputs and the latest snapshot are stored,
// every other value is derived on read so it can never go stale.
//
// Invalid input never fails: the price falls back to the spot price.
type PriceState struct {
	direction     OrderDirection
	snapshot      *OrderbookPriceSnapshot
	orderPrice    string
	manualPercent string
}

func NewPriceState(direction OrderDirection) *PriceState {
	return &PriceState{direction: direction}
}

// PriceView is a read-only copy of a PriceState with all derived values.
type PriceView struct {
	Direction            OrderDirection
	OrderPrice           string
	ManualPercent        string
	Spot                 decimal.Decimal
	Price                decimal.Decimal
	PercentAdjusted      decimal.Decimal
	IsValid              bool
	IsBeyondOppositeSide bool
	Snapshot             *OrderbookPriceSnapshot
}

func (p *PriceState) Direction() OrderDirection {
	return p.direction
}

// SetDirection switches side. Manual inputs are meaningless on the other side
// of the book so they are discarded.
func (p *PriceState) SetDirection(direction OrderDirection) {
	if direction == p.direction {
		return
	}
	p.direction = direction
	p.Reset()
}

func (p *PriceState) SetSnapshot(snapshot *OrderbookPriceSnapshot) {
	if snapshot == nil {
		p.snapshot = nil
		return
	}
	s := *snapshot
	p.snapshot = &s
}

func (p *PriceState) Snapshot() *OrderbookPriceSnapshot {
	if p.snapshot == nil {
		return nil
	}
	s := *p.snapshot
	return &s
}

// SetPrice sets the limit price verbatim. The percent adjustment is derived
// from it from now on.
func (p *PriceState) SetPrice(raw string) {
	p.orderPrice = strings.TrimSpace(raw)
	p.manualPercent = ""
}

// SetPercent moves the limit price away from spot by the given percentage:
// up for an ask, down for a bid. Negative percentages are clamped to zero.
// The price follows spot as new snapshots come in.
func (p *PriceState) SetPercent(raw string) {
	raw = strings.TrimSpace(raw)
	p.orderPrice = ""

	if percent, err := decimal.NewFromString(raw); err == nil && percent.IsNegative() {
		raw = "0"
	}
	p.manualPercent = raw
}

// Reset drops every manual input.
func (p *PriceState) Reset() {
	p.orderPrice = ""
	p.manualPercent = ""
}

// OrderPrice is the limit price as typed, or as derived from the manual
// percent against the current spot.
func (p *PriceState) OrderPrice() string {
	if p.manualPercent == "" {
		return p.orderPrice
	}
	percent, err := decimal.NewFromString(p.manualPercent)
	if err != nil {
		return ""
	}
	return AdjustByPercent(p.direction, p.Spot(), percent).String()
}

func (p *PriceState) ManualPercent() string {
	return p.manualPercent
}

func (p *PriceState) Spot() decimal.Decimal {
	return SpotPrice(p.direction, p.snapshot)
}

func (p *PriceState) IsValid() bool {
	_, ok := ParsePositivePrice(p.OrderPrice())
	return ok
}

// Price is the price the order is going to be placed at.
func (p *PriceState) Price() decimal.Decimal {
	return ResolvePrice(p.OrderPrice(), p.Spot())
}

// PercentAdjusted is the fraction the price is away from spot, positive when
// moving away from being filled.
func (p *PriceState) PercentAdjusted() decimal.Decimal {
	price, ok := ParsePositivePrice(p.OrderPrice())
	if !ok {
		return decimal.Zero
	}
	return PercentFromPrice(p.direction, p.Spot(), price)
}

func (p *PriceState) IsBeyondOppositeSide() bool {
	return IsBeyondOppositeSide(p.direction, p.snapshot, p.Price())
}

func (p *PriceState) View() PriceView {
	return PriceView{
		Direction:            p.direction,
		OrderPrice:           p.OrderPrice(),
		ManualPercent:        p.manualPercent,
		Spot:                 p.Spot(),
		Price:                p.Price(),
		PercentAdjusted:      p.PercentAdjusted(),
		IsValid:              p.IsValid(),
		IsBeyondOppositeSide: p.IsBeyondOppositeSide(),
		Snapshot:             p.Snapshot(),
	}
}

// ParsePositivePrice accepts only non-empty, numeric, strictly positive input.
func ParsePositivePrice(raw string) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Zero, false
	}
	price, err := decimal.NewFromString(raw)
	if err != nil || !price.IsPositive() {
		return decimal.Zero, false
	}
	return price, true
}

// ResolvePrice returns the manual price when valid, fallback otherwise.
func ResolvePrice(raw string, fallback decimal.Decimal) decimal.Decimal {
	if price, ok := ParsePositivePrice(raw); ok {
		return price
	}
	return fallback
}

// AdjustByPercent applies percent (in hundredths) to spot on the side of the
// book that is further from being filled.
func AdjustByPercent(direction OrderDirection, spot, percent decimal.Decimal) decimal.Decimal {
	adjustment := percent.Shift(-2)
	if direction == Bid {
		adjustment = adjustment.Neg()
	}
	return spot.Mul(one.Add(adjustment))
}

// PercentFromPrice is the inverse of AdjustByPercent expressed as a fraction.
func PercentFromPrice(direction OrderDirection, spot, price decimal.Decimal) decimal.Decimal {
	if spot.IsZero() {
		return decimal.Zero
	}
	percent := price.Div(spot).Sub(one)
	if direction == Bid {
		return percent.Neg()
	}
	return percent
}
