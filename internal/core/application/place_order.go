package application

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/thanhpk/randstr"

	"github.com/tiero/limitd/internal/core/domain"
)

// PlaceOrder submits the order of a session. A zero quantity is a no-op
// reported as OutcomeSkipped. Limit orders crossing the book are handed over
// to the swap router like market orders.
func (t *placeLimitService) PlaceOrder(ctx context.Context, sessionID string) (*PlaceOrderResult, error) {
	s, err := t.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrOrderInFlight
	}
	s.touch()

	valuation := domain.Valuate(s.valuationInput())
	payment := valuation.PaymentAmount
	quantity := domain.Quantity(payment)
	if quantity == "0" {
		s.mu.Unlock()
		return &PlaceOrderResult{Outcome: OutcomeSkipped, Quantity: quantity}, nil
	}

	var (
		account   = s.account
		market    = s.market
		direction = s.price.Direction()
		isMarket  = s.isMarket()
		msg       *domain.PlaceLimitMsg
	)
	if !isMarket {
		msg, err = domain.NewPlaceLimitMsg(direction, s.price.Price(), s.quotePrice, quantity)
		if err != nil {
			s.mu.Unlock()
			return nil, fmt.Errorf("place limit: %w", err)
		}
	}

	s.submitting = true
	s.lastError = ""
	s.notify()
	s.mu.Unlock()

	logger := log.WithFields(log.Fields{
		"session":   sessionID,
		"account":   account,
		"direction": direction,
		"quantity":  quantity,
		"denom":     payment.Asset.Denom,
	})

	var result *PlaceOrderResult
	if isMarket {
		result, err = t.placeMarketOrder(ctx, account, market, direction, payment)
	} else {
		result, err = t.placeLimitOrder(ctx, account, market, msg, payment)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notify()

	s.submitting = false
	if err != nil {
		logger.WithError(err).Warn("unable to broadcast place limit tx")
		s.lastError = err.Error()
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	logger.WithField("tx", result.TxHash).Infof("%s order placed", result.Outcome)
	s.lastResult = result
	s.clearOrder()
	return result, nil
}

func (t *placeLimitService) placeMarketOrder(
	ctx context.Context,
	account string,
	market Market,
	direction domain.OrderDirection,
	payment domain.AssetAmount,
) (*PlaceOrderResult, error) {
	tokenOut := market.QuoteAsset
	if direction == domain.Bid {
		tokenOut = market.BaseAsset
	}

	executor := t.swaps.NewMarketExecutor(MarketExecutorOpts{
		Sender:   account,
		PoolID:   market.PoolID,
		TokenIn:  payment.Asset,
		TokenOut: tokenOut,
	})
	executor.SetAmount(payment.Amount.String())

	txID, err := executor.ExecuteMarketOrder(ctx)
	if err != nil {
		return nil, err
	}

	return &PlaceOrderResult{
		Outcome:  OutcomeMarket,
		TxHash:   txID,
		Quantity: domain.Quantity(payment),
		Funds:    []domain.Coin{payment.Coin()},
	}, nil
}

func (t *placeLimitService) placeLimitOrder(
	ctx context.Context,
	account string,
	market Market,
	msg *domain.PlaceLimitMsg,
	payment domain.AssetAmount,
) (*PlaceOrderResult, error) {
	funds := []domain.Coin{{
		Amount: msg.PlaceLimit.Quantity,
		Denom:  payment.Asset.Denom,
	}}
	clientOrderID := randstr.Hex(8)

	txID, err := t.contracts.ExecuteContract(ctx, ExecuteContractOpts{
		Sender:          account,
		ContractAddress: market.ContractAddress,
		Msg:             msg,
		Funds:           funds,
		Memo:            clientOrderID,
	})
	if err != nil {
		return nil, err
	}

	return &PlaceOrderResult{
		Outcome:       OutcomeLimit,
		TxHash:        txID,
		ClientOrderID: clientOrderID,
		Quantity:      msg.PlaceLimit.Quantity,
		Msg:           msg,
		Funds:         funds,
	}, nil
}
