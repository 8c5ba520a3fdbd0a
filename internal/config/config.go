package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// ListeningPortKey is the port where the REST interface will listen on
	ListeningPortKey = "LISTENING_PORT"
	// RequestTimeoutKey bounds every call made to an external service
	RequestTimeoutKey = "REQUEST_TIMEOUT"

	// LCDEndpointKey is the REST (LCD) endpoint of a node, used for contract
	// smart queries and bank balances
	LCDEndpointKey = "LCD_ENDPOINT"
	// SignerEndpointKey is the relay that signs and broadcasts contract executions
	SignerEndpointKey = "SIGNER_ENDPOINT"
	// SwapRouterEndpointKey is the router market orders are handed over to
	SwapRouterEndpointKey = "SWAP_ROUTER_ENDPOINT"
	// MaxSlippageKey is the slippage tolerated on market orders, as a fraction
	MaxSlippageKey = "MAX_SLIPPAGE"

	// PriceEndpointKey is the GET HTTP endpoint to call to fetch the reference
	// price of the quote asset. When empty QuoteReferencePriceKey is used.
	// example response: { basePrice: "1", quotePrice: "1"}
	PriceEndpointKey = "PRICE_ENDPOINT"
	// QuoteReferencePriceKey is the fixed reference price of the quote asset
	QuoteReferencePriceKey = "QUOTE_REFERENCE_PRICE"

	// OrderbookContractKey is the address of the orderbook contract of the market
	OrderbookContractKey = "ORDERBOOK_CONTRACT"
	// PoolIDKey is the pool the swap router uses for market orders
	PoolIDKey = "POOL_ID"
	// BaseDenomKey is the denom of the base asset for the single market
	BaseDenomKey    = "BASE_DENOM"
	BaseSymbolKey   = "BASE_SYMBOL"
	BaseDecimalsKey = "BASE_DECIMALS"
	// QuoteDenomKey is the denom of the quote asset for the single market
	QuoteDenomKey    = "QUOTE_DENOM"
	QuoteSymbolKey   = "QUOTE_SYMBOL"
	QuoteDecimalsKey = "QUOTE_DECIMALS"

	// RefreshIntervalKey is how often market data of open sessions is reloaded
	RefreshIntervalKey = "REFRESH_INTERVAL"
	// SessionTTLKey is how long an untouched session is kept around
	SessionTTLKey = "SESSION_TTL"
)

var vip *viper.Viper

func init() {
	// .env is optional, variables already set take precedence
	_ = godotenv.Load()

	vip = viper.New()
	vip.SetEnvPrefix("LIMITD")
	vip.AutomaticEnv()

	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(ListeningPortKey, 9945)
	vip.SetDefault(RequestTimeoutKey, "10s")

	vip.SetDefault(LCDEndpointKey, "http://localhost:1317")
	vip.SetDefault(SignerEndpointKey, "http://localhost:9946")
	vip.SetDefault(SwapRouterEndpointKey, "http://localhost:9947")
	vip.SetDefault(MaxSlippageKey, "0.1")

	vip.SetDefault(QuoteReferencePriceKey, "1")

	vip.SetDefault(BaseDenomKey, "uosmo")
	vip.SetDefault(BaseSymbolKey, "OSMO")
	vip.SetDefault(BaseDecimalsKey, 6)
	vip.SetDefault(QuoteDecimalsKey, 6)
	vip.SetDefault(QuoteSymbolKey, "USDC")

	vip.SetDefault(RefreshIntervalKey, "5s")
	vip.SetDefault(SessionTTLKey, "30m")
}

//GetString ...
func GetString(key string) string {
	return vip.GetString(key)
}

//GetInt ...
func GetInt(key string) int {
	return vip.GetInt(key)
}

//GetUint64 ...
func GetUint64(key string) uint64 {
	return vip.GetUint64(key)
}

//GetDuration ...
func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

// GetDecimal parses the value of key as a decimal number.
func GetDecimal(key string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(vip.GetString(key))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

var ErrMissingKey = errors.New("missing required configuration")

// Validate checks that every key has a non empty value.
func Validate(keys ...string) error {
	for _, key := range keys {
		if strings.TrimSpace(vip.GetString(key)) == "" {
			return fmt.Errorf("%w: LIMITD_%s", ErrMissingKey, key)
		}
	}
	return nil
}

// Set overrides the value of key, mostly useful in tests.
func Set(key string, value interface{}) {
	vip.Set(key, value)
}
