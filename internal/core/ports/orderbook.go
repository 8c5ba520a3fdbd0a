package ports

import (
	"encoding/json"

	"github.com/tiero/limitd/internal/core/domain"
)

// SmartQueryResponse wraps the result of a CosmWasm smart query served by the
// LCD at /cosmwasm/wasm/v1/contract/{address}/smart/{base64 query}
type SmartQueryResponse struct {
	Data json.RawMessage `json:"data"`
}

type SpotPriceQuery struct {
	SpotPrice SpotPriceArgs `json:"spot_price"`
}

type SpotPriceArgs struct {
	QuoteAssetDenom string `json:"quote_asset_denom"`
	BaseAssetDenom  string `json:"base_asset_denom"`
}

type SpotPriceResponse struct {
	SpotPrice string `json:"spot_price"`
}

type MakerFeeQuery struct {
	GetMakerFee struct{} `json:"get_maker_fee"`
}

type MakerFeeResponse struct {
	MakerFee string `json:"maker_fee"`
}

// BalancesResponse is returned by /cosmos/bank/v1beta1/balances/{address}
type BalancesResponse struct {
	Balances []domain.Coin `json:"balances"`
}
