package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/thanhpk/randstr"

	"github.com/tiero/limitd/internal/core/domain"
	"github.com/tiero/limitd/internal/core/ports"
)

// SwapService hands market orders over to the swap router.
type SwapService interface {
	NewMarketExecutor(opts MarketExecutorOpts) MarketExecutor
}

// MarketExecutor executes a single market order for the amount last set.
type MarketExecutor interface {
	// SetAmount takes a decimal amount of whole units of the token sent.
	SetAmount(amount string)
	ExecuteMarketOrder(ctx context.Context) (string, error)
}

type MarketExecutorOpts struct {
	Sender   string
	PoolID   uint64
	TokenIn  domain.Asset
	TokenOut domain.Asset
}

var ErrInvalidSwapAmount = errors.New("swap amount must be a positive decimal")

type swapService struct {
	endpoint    string
	maxSlippage decimal.Decimal
	client      *httpClient
	cb          *gobreaker.CircuitBreaker
}

func NewSwapService(routerEndpoint string, maxSlippage decimal.Decimal, timeout time.Duration) SwapService {
	return &swapService{
		endpoint:    strings.TrimRight(routerEndpoint, "/"),
		maxSlippage: maxSlippage,
		client:      newHTTPClient(timeout),
		cb:          newCircuitBreaker("swap-router"),
	}
}

func (s *swapService) NewMarketExecutor(opts MarketExecutorOpts) MarketExecutor {
	return &marketExecutor{svc: s, opts: opts}
}

type marketExecutor struct {
	svc    *swapService
	opts   MarketExecutorOpts
	amount string
}

func (m *marketExecutor) SetAmount(amount string) {
	m.amount = amount
}

func (m *marketExecutor) ExecuteMarketOrder(ctx context.Context) (string, error) {
	amount, err := decimal.NewFromString(m.amount)
	if err != nil || !amount.IsPositive() {
		return "", ErrInvalidSwapAmount
	}

	tokenIn := domain.NewAssetAmount(m.opts.TokenIn, amount).Coin()
	if tokenIn.Amount == "0" {
		return "", ErrInvalidSwapAmount
	}

	req := ports.SwapExactAmountInRequest{
		Sender:        m.opts.Sender,
		PoolID:        m.opts.PoolID,
		TokenIn:       tokenIn,
		TokenOutDenom: m.opts.TokenOut.Denom,
		MaxSlippage:   m.svc.maxSlippage.String(),
		Memo:          randstr.Hex(8),
	}

	iTxid, err := m.svc.cb.Execute(func() (interface{}, error) {
		var resp ports.TxResponse
		if err := m.svc.client.postJSON(ctx, m.svc.endpoint+"/swap", req, &resp); err != nil {
			return nil, err
		}
		return checkTxResponse(resp)
	})
	if err != nil {
		return "", fmt.Errorf("market order: %w", err)
	}
	return iTxid.(string), nil
}
