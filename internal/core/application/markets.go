package application

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrMarketNotFound = errors.New("market not found")
	ErrInvalidDenom   = errors.New("invalid denom")
	ErrInvalidAccount = errors.New("invalid account address")
)

func (t *placeLimitService) GetTradableMarkets(ctx context.Context) ([]Market, error) {
	mkts := make([]Market, 0, len(t.markets))
	for _, mkt := range t.markets {
		mkt.BaseAsset.Denom = strings.TrimSpace(mkt.BaseAsset.Denom)
		mkt.QuoteAsset.Denom = strings.TrimSpace(mkt.QuoteAsset.Denom)
		mkts = append(mkts, mkt)
	}
	return mkts, nil
}

func (t *placeLimitService) findMarket(baseDenom, quoteDenom string) (Market, error) {
	if !validateDenom(baseDenom) {
		return Market{}, fmt.Errorf("%w: base %q", ErrInvalidDenom, baseDenom)
	}
	if !validateDenom(quoteDenom) {
		return Market{}, fmt.Errorf("%w: quote %q", ErrInvalidDenom, quoteDenom)
	}

	for _, mkt := range t.markets {
		if mkt.BaseAsset.Denom == baseDenom && mkt.QuoteAsset.Denom == quoteDenom {
			return mkt, nil
		}
	}
	return Market{}, fmt.Errorf("%w: %s/%s", ErrMarketNotFound, baseDenom, quoteDenom)
}

func validateMarket(mkt Market) error {
	if !validateDenom(mkt.BaseAsset.Denom) || !validateDenom(mkt.QuoteAsset.Denom) {
		return fmt.Errorf("%w: %s/%s", ErrInvalidDenom, mkt.BaseAsset.Denom, mkt.QuoteAsset.Denom)
	}
	if mkt.BaseAsset.Denom == mkt.QuoteAsset.Denom {
		return errors.New("base and quote asset must differ")
	}
	if mkt.BaseAsset.Decimals < 0 || mkt.QuoteAsset.Decimals < 0 {
		return errors.New("asset decimals must not be negative")
	}
	if !validateAddress(mkt.ContractAddress) {
		return fmt.Errorf("invalid orderbook contract address %q", mkt.ContractAddress)
	}
	return nil
}

var (
	denomRegexp   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9/:._-]{2,127}$`)
	addressRegexp = regexp.MustCompile(`^[a-z0-9]{1,83}1[02-9ac-hj-np-z]{38,58}$`)
)

func validateDenom(denom string) bool {
	return denomRegexp.MatchString(denom)
}

func validateAddress(address string) bool {
	return addressRegexp.MatchString(address)
}
