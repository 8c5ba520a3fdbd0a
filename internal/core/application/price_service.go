package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiero/limitd/internal/core/domain"
	"github.com/tiero/limitd/internal/core/ports"
)

// PriceService returns the price of one whole unit of an asset in the
// reference currency.
type PriceService interface {
	GetQuotePrice(ctx context.Context, asset domain.Asset) (decimal.Decimal, error)
}

type fixedPriceService struct {
	price decimal.Decimal
}

// NewFixedPriceService prices every asset at the same value. Orderbooks
// currently only list stablecoin quoted pairs, so 1 is what is used in
// practice.
func NewFixedPriceService(price decimal.Decimal) (PriceService, error) {
	if !price.IsPositive() {
		return nil, errors.New("reference price must be positive")
	}
	return &fixedPriceService{price}, nil
}

func (f *fixedPriceService) GetQuotePrice(context.Context, domain.Asset) (decimal.Decimal, error) {
	return f.price, nil
}

type endpointPriceService struct {
	endpoint string
	client   *httpClient
}

// NewEndpointPriceService fetches prices from an HTTP endpoint serving
// GET {endpoint}/{symbol}/usd with a ports.PriceResponse body.
func NewEndpointPriceService(endpoint string, timeout time.Duration) PriceService {
	return &endpointPriceService{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   newHTTPClient(timeout),
	}
}

func (e *endpointPriceService) GetQuotePrice(ctx context.Context, asset domain.Asset) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf(
		"%s/%s/%s",
		e.endpoint, url.PathEscape(strings.ToLower(asset.Symbol)), domain.ReferenceCurrency,
	)

	var priceResponse ports.PriceResponse
	if err := e.client.getJSON(ctx, endpoint, &priceResponse); err != nil {
		return decimal.Zero, fmt.Errorf("price unavailable: %w", err)
	}

	quotePrice, err := decimal.NewFromString(priceResponse.QuotePrice)
	if err != nil {
		return decimal.Zero, err
	}
	if !quotePrice.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid price %s for %s", quotePrice, asset.Symbol)
	}
	return quotePrice, nil
}
