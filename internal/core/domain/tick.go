package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Ticks are spaced geometrically: between two consecutive powers of ten there
// are always the same number of ticks, each one adding a fixed increment. At
// price one the increment is 10^ExponentAtPriceOne.
const (
	ExponentAtPriceOne                        int32 = -6
	GeometricExponentIncrementDistanceInTicks int64 = 9_000_000

	MinTick int64 = -108_000_000
	MaxTick int64 = 342_000_000
)

var (
	MinSpotPrice = decimal.New(1, -12)
	MaxSpotPrice = decimal.New(1, 38)

	ErrPriceOutOfRange = errors.New("price is outside of the supported spot price range")
	ErrTickOutOfRange  = errors.New("tick is outside of the supported range")
)

// PriceToTick returns the largest tick whose price is lower or equal to price.
func PriceToTick(price decimal.Decimal) (int64, error) {
	if !price.IsPositive() || price.LessThan(MinSpotPrice) || price.GreaterThan(MaxSpotPrice) {
		return 0, fmt.Errorf("%w: %s", ErrPriceOutOfRange, price)
	}
	if price.Equal(one) {
		return 0, nil
	}

	// find the power of ten bucket [10^exp, 10^(exp+1)) holding the price
	exp := int32(0)
	if price.LessThan(one) {
		for decimal.New(1, exp).GreaterThan(price) {
			exp--
		}
	} else {
		for decimal.New(1, exp+1).LessThanOrEqual(price) {
			exp++
		}
	}

	initialTick := GeometricExponentIncrementDistanceInTicks * int64(exp)
	ticksInBucket := price.Sub(decimal.New(1, exp)).Shift(-(ExponentAtPriceOne + exp)).Truncate(0)

	return initialTick + ticksInBucket.IntPart(), nil
}

// TickToPrice returns the exact price a tick stands for.
func TickToPrice(tick int64) (decimal.Decimal, error) {
	if tick < MinTick || tick > MaxTick {
		return decimal.Zero, fmt.Errorf("%w: %d", ErrTickOutOfRange, tick)
	}

	exp := tick / GeometricExponentIncrementDistanceInTicks
	if tick%GeometricExponentIncrementDistanceInTicks < 0 {
		exp--
	}
	ticksInBucket := tick - exp*GeometricExponentIncrementDistanceInTicks
	increment := decimal.New(1, ExponentAtPriceOne+int32(exp))

	return decimal.New(1, int32(exp)).Add(decimal.NewFromInt(ticksInBucket).Mul(increment)), nil
}
