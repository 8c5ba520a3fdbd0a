package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiero/limitd/internal/core/domain"
)

var (
	osmo = domain.Asset{Denom: "uosmo", Symbol: "OSMO", Decimals: 6}
	usdc = domain.Asset{Denom: "ibc/usdc", Symbol: "USDC", Decimals: 6}
)

func valuationInput(direction domain.OrderDirection, amount, price string) domain.ValuationInput {
	return domain.ValuationInput{
		Direction:  direction,
		BaseAsset:  osmo,
		QuoteAsset: usdc,
		Amount:     dec(amount),
		Price:      dec(price),
		Snapshot:   snapshot("1.00", "1.02"),
		QuotePrice: dec("1"),
		MakerFee:   dec("0"),
	}
}

func TestValuateAsk(t *testing.T) {
	t.Run("scenario C: ask pays the entered base amount", func(t *testing.T) {
		res := domain.Valuate(valuationInput(domain.Ask, "10", "1.02"))

		require.Equal(t, osmo, res.PaymentAmount.Asset)
		requireDecEqual(t, "10", res.PaymentAmount.Amount)
		require.Equal(t, "10000000", domain.Quantity(res.PaymentAmount))
		require.Equal(t, domain.ReferenceCurrency, res.PaymentFiatValue.Currency)
		requireDecEqual(t, "10.2", res.PaymentFiatValue.Amount)
	})

	t.Run("proceeds are net of maker fee", func(t *testing.T) {
		in := valuationInput(domain.Ask, "10", "1.02")
		in.MakerFee = dec("0.002")
		res := domain.Valuate(in)

		require.Equal(t, usdc, res.ExpectedOutputAmount.Asset)
		requireDecEqual(t, "10.1796", res.ExpectedOutputAmount.Amount)
		requireDecEqual(t, "10.1796", res.ExpectedOutputFiatValue.Amount)
	})

	t.Run("non pegged quote asset", func(t *testing.T) {
		in := valuationInput(domain.Ask, "10", "1.02")
		in.QuotePrice = dec("2")
		res := domain.Valuate(in)

		requireDecEqual(t, "10.2", res.PaymentFiatValue.Amount)
		requireDecEqual(t, "5.1", res.ExpectedOutputAmount.Amount)
		requireDecEqual(t, "10.2", res.ExpectedOutputFiatValue.Amount)
	})
}

func TestValuateBid(t *testing.T) {
	t.Run("scenario E: bid receives base amount net of fee", func(t *testing.T) {
		in := valuationInput(domain.Bid, "5", "2")
		in.MakerFee = dec("0.002")
		res := domain.Valuate(in)

		require.Equal(t, osmo, res.ExpectedOutputAmount.Asset)
		requireDecEqual(t, "4.99", res.ExpectedOutputAmount.Amount)
		requireDecEqual(t, "9.98", res.ExpectedOutputFiatValue.Amount)
	})

	t.Run("limit bid pays in quote at the limit price", func(t *testing.T) {
		res := domain.Valuate(valuationInput(domain.Bid, "5", "2"))

		require.Equal(t, usdc, res.PaymentAmount.Asset)
		requireDecEqual(t, "10", res.PaymentAmount.Amount)
		require.Equal(t, "10000000", domain.Quantity(res.PaymentAmount))
		requireDecEqual(t, "10", res.PaymentFiatValue.Amount)
	})

	t.Run("market bid pays at the best ask", func(t *testing.T) {
		in := valuationInput(domain.Bid, "5", "2")
		in.IsMarket = true
		res := domain.Valuate(in)

		requireDecEqual(t, "5.1", res.PaymentAmount.Amount)
	})

	t.Run("market bid without snapshot prices at one", func(t *testing.T) {
		in := valuationInput(domain.Bid, "5", "2")
		in.IsMarket = true
		in.Snapshot = nil
		res := domain.Valuate(in)

		requireDecEqual(t, "5", res.PaymentAmount.Amount)
	})

	t.Run("non pegged quote asset", func(t *testing.T) {
		in := valuationInput(domain.Bid, "5", "2")
		in.QuotePrice = dec("2")
		res := domain.Valuate(in)

		requireDecEqual(t, "5", res.PaymentAmount.Amount)
		requireDecEqual(t, "10", res.PaymentFiatValue.Amount)
	})

	t.Run("quote amount is truncated, never rounded up", func(t *testing.T) {
		in := valuationInput(domain.Bid, "5.999999999999999999", "1")
		in.QuotePrice = dec("3")
		res := domain.Valuate(in)

		require.True(t, res.PaymentAmount.Amount.LessThan(dec("2")))
		require.Equal(t, "1999999", domain.Quantity(res.PaymentAmount))
	})
}

func TestValuateZeroAmount(t *testing.T) {
	for _, direction := range []domain.OrderDirection{domain.Ask, domain.Bid} {
		for _, amount := range []string{"0", "-3"} {
			res := domain.Valuate(valuationInput(direction, amount, "1.02"))

			expectedAsset := osmo
			if direction == domain.Bid {
				expectedAsset = usdc
			}
			require.Equal(t, expectedAsset, res.PaymentAmount.Asset)
			require.True(t, res.PaymentAmount.IsZero())
			require.Equal(t, "0", domain.Quantity(res.PaymentAmount))
			requireDecEqual(t, "0", res.ExpectedOutputAmount.Amount)
		}
	}
}
