package application

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiero/limitd/internal/core/domain"
	"github.com/tiero/limitd/internal/core/ports"
)

// BalanceService returns the holdings of an account as minimal denom amounts
// indexed by denom.
type BalanceService interface {
	GetBalances(ctx context.Context, address string) (map[string]decimal.Decimal, error)
}

type balanceService struct {
	endpoint string
	client   *httpClient
}

func NewBalanceService(lcdEndpoint string, timeout time.Duration) BalanceService {
	return &balanceService{
		endpoint: strings.TrimRight(lcdEndpoint, "/"),
		client:   newHTTPClient(timeout),
	}
}

func (b *balanceService) GetBalances(ctx context.Context, address string) (map[string]decimal.Decimal, error) {
	var resp ports.BalancesResponse
	endpoint := fmt.Sprintf("%s/cosmos/bank/v1beta1/balances/%s", b.endpoint, url.PathEscape(address))
	if err := b.client.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("balances: %w", err)
	}

	return getBalancesByDenom(resp.Balances)
}

func getBalancesByDenom(coins []domain.Coin) (map[string]decimal.Decimal, error) {
	balances := make(map[string]decimal.Decimal, len(coins))

	for _, coin := range coins {
		amount, err := decimal.NewFromString(coin.Amount)
		if err != nil {
			return nil, fmt.Errorf("balance of %s: %w", coin.Denom, err)
		}
		balances[coin.Denom] = balances[coin.Denom].Add(amount)
	}
	return balances, nil
}
