package application

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiero/limitd/internal/core/domain"
	"github.com/tiero/limitd/internal/core/ports"
)

// OrderbookService reads the state of an orderbook contract.
type OrderbookService interface {
	GetOrderbookState(ctx context.Context, market Market) (*domain.OrderbookPriceSnapshot, error)
	GetMakerFee(ctx context.Context, market Market) (decimal.Decimal, error)
}

type orderbookService struct {
	// LCD endpoint of a node of the chain the contract lives on
	endpoint string
	client   *httpClient
}

func NewOrderbookService(lcdEndpoint string, timeout time.Duration) OrderbookService {
	return &orderbookService{
		endpoint: strings.TrimRight(lcdEndpoint, "/"),
		client:   newHTTPClient(timeout),
	}
}

// GetOrderbookState returns the best price on both sides of the book. The
// contract quotes the bid side in terms of the base asset, so it is inverted.
func (o *orderbookService) GetOrderbookState(
	ctx context.Context,
	market Market,
) (*domain.OrderbookPriceSnapshot, error) {
	askSpotPrice, err := o.spotPrice(ctx, market.ContractAddress, market.QuoteAsset.Denom, market.BaseAsset.Denom)
	if err != nil {
		return nil, fmt.Errorf("ask spot price: %w", err)
	}

	inverseBidSpotPrice, err := o.spotPrice(ctx, market.ContractAddress, market.BaseAsset.Denom, market.QuoteAsset.Denom)
	if err != nil {
		return nil, fmt.Errorf("bid spot price: %w", err)
	}
	if !inverseBidSpotPrice.IsPositive() {
		return nil, fmt.Errorf("bid spot price: invalid price %s", inverseBidSpotPrice)
	}

	return &domain.OrderbookPriceSnapshot{
		BidSpotPrice: decimal.NewFromInt(1).DivRound(inverseBidSpotPrice, 18),
		AskSpotPrice: askSpotPrice,
	}, nil
}

func (o *orderbookService) GetMakerFee(ctx context.Context, market Market) (decimal.Decimal, error) {
	var resp ports.MakerFeeResponse
	if err := o.smartQuery(ctx, market.ContractAddress, ports.MakerFeeQuery{}, &resp); err != nil {
		return decimal.Zero, fmt.Errorf("maker fee: %w", err)
	}

	fee, err := decimal.NewFromString(resp.MakerFee)
	if err != nil {
		return decimal.Zero, fmt.Errorf("maker fee: %w", err)
	}
	if fee.IsNegative() || fee.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("maker fee: %s is out of range", fee)
	}
	return fee, nil
}

func (o *orderbookService) spotPrice(
	ctx context.Context,
	contract, quoteDenom, baseDenom string,
) (decimal.Decimal, error) {
	query := ports.SpotPriceQuery{
		SpotPrice: ports.SpotPriceArgs{
			QuoteAssetDenom: quoteDenom,
			BaseAssetDenom:  baseDenom,
		},
	}

	var resp ports.SpotPriceResponse
	if err := o.smartQuery(ctx, contract, query, &resp); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(resp.SpotPrice)
}

func (o *orderbookService) smartQuery(ctx context.Context, contract string, query, out interface{}) error {
	rawQuery, err := json.Marshal(query)
	if err != nil {
		return err
	}

	url := fmt.Sprintf(
		"%s/cosmwasm/wasm/v1/contract/%s/smart/%s",
		o.endpoint, contract, base64.URLEncoding.EncodeToString(rawQuery),
	)

	var resp ports.SmartQueryResponse
	if err := o.client.getJSON(ctx, url, &resp); err != nil {
		return err
	}
	return json.Unmarshal(resp.Data, out)
}
