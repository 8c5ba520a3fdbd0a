package resthandler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tiero/limitd/internal/core/application"
	"github.com/tiero/limitd/internal/core/domain"
	resthandler "github.com/tiero/limitd/internal/interface/rest/handler"
)

var (
	account  = "osmo1" + strings.Repeat("q", 38)
	contract = "osmo1" + strings.Repeat("z", 58)

	market = application.Market{
		BaseAsset:       domain.Asset{Denom: "uosmo", Symbol: "OSMO", Decimals: 6},
		QuoteAsset:      domain.Asset{Denom: "ibc/usdc", Symbol: "USDC", Decimals: 6},
		ContractAddress: contract,
		PoolID:          1904,
	}
)

type orderbook struct{}

func (orderbook) GetOrderbookState(context.Context, application.Market) (*domain.OrderbookPriceSnapshot, error) {
	return &domain.OrderbookPriceSnapshot{
		BidSpotPrice: decimal.RequireFromString("1.00"),
		AskSpotPrice: decimal.RequireFromString("1.02"),
	}, nil
}

func (orderbook) GetMakerFee(context.Context, application.Market) (decimal.Decimal, error) {
	return decimal.RequireFromString("0.002"), nil
}

type balances struct{}

func (balances) GetBalances(context.Context, string) (map[string]decimal.Decimal, error) {
	return map[string]decimal.Decimal{"uosmo": decimal.NewFromInt(100_000_000)}, nil
}

type swaps struct{}

func (swaps) NewMarketExecutor(application.MarketExecutorOpts) application.MarketExecutor {
	return &executor{}
}

type executor struct{}

func (*executor) SetAmount(string) {}

func (*executor) ExecuteMarketOrder(context.Context) (string, error) {
	return "SWAPTX", nil
}

type contracts struct{}

func (contracts) ExecuteContract(context.Context, application.ExecuteContractOpts) (string, error) {
	return "LIMITTX", nil
}

func newServer(t *testing.T) *echo.Echo {
	prices, err := application.NewFixedPriceService(decimal.NewFromInt(1))
	require.NoError(t, err)

	svc, err := application.NewPlaceLimitService(application.PlaceLimitServiceOpts{
		Markets:   []application.Market{market},
		Orderbook: orderbook{},
		Balances:  balances{},
		Prices:    prices,
		Swaps:     swaps{},
		Contracts: contracts{},
	})
	require.NoError(t, err)

	e := echo.New()
	resthandler.NewPlaceLimitHandler(svc).Register(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string, out interface{}) int {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func openSession(t *testing.T, e *echo.Echo, direction string) resthandler.Preview {
	t.Helper()

	var preview resthandler.Preview
	body := `{"account":"` + account + `","baseDenom":"uosmo","quoteDenom":"ibc/usdc","direction":"` + direction + `"}`
	require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, "/sessions", body, &preview))
	return preview
}

func TestMarkets(t *testing.T) {
	e := newServer(t)

	var reply resthandler.MarketsReply
	require.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/markets", "", &reply))
	require.Len(t, reply.Markets, 1)
	require.Equal(t, "uosmo", reply.Markets[0].BaseAsset.Denom)
	require.Equal(t, "1904", reply.Markets[0].PoolID)
	require.Equal(t, contract, reply.Markets[0].ContractAddress)
}

func TestSessionLifecycle(t *testing.T) {
	e := newServer(t)
	preview := openSession(t, e, "ask")
	path := "/sessions/" + preview.SessionID

	require.Equal(t, "idle", preview.Status)
	require.Equal(t, "limit", preview.Type)
	require.True(t, preview.Price.Spot.Equal(decimal.RequireFromString("1.02")))

	require.Equal(t, http.StatusOK, do(t, e, http.MethodPut, path+"/amount", `{"value":"10"}`, &preview))
	require.Equal(t, "ready", preview.Status)
	require.Equal(t, "10000000", preview.Quantity)
	require.NotNil(t, preview.TickID)
	require.Equal(t, int64(20000), *preview.TickID)
	require.True(t, preview.Valuation.ExpectedOutputAmount.Amount.Equal(decimal.RequireFromString("10.1796")))

	require.Equal(t, http.StatusOK, do(t, e, http.MethodPut, path+"/percent", `{"value":"5"}`, &preview))
	require.Equal(t, "5", preview.Price.ManualPercent)
	require.True(t, preview.Price.Price.Equal(decimal.RequireFromString("1.071")))

	require.Equal(t, http.StatusOK, do(t, e, http.MethodPost, path+"/reset", "", &preview))
	require.Empty(t, preview.Price.ManualPercent)

	var order resthandler.Order
	require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, path+"/orders", "", &order))
	require.Equal(t, "limit", order.Outcome)
	require.Equal(t, "LIMITTX", order.TxHash)
	require.Equal(t, "10000000", order.Quantity)

	// the order inputs are cleared once submitted
	require.Equal(t, http.StatusOK, do(t, e, http.MethodPost, path+"/orders", "", &order))
	require.Equal(t, "skipped", order.Outcome)

	require.Equal(t, http.StatusOK, do(t, e, http.MethodGet, path, "", &preview))
	require.Equal(t, "idle", preview.Status)
	require.NotNil(t, preview.LastResult)
	require.Equal(t, "LIMITTX", preview.LastResult.TxHash)

	require.Equal(t, http.StatusNoContent, do(t, e, http.MethodDelete, path, "", nil))
	require.Equal(t, http.StatusNotFound, do(t, e, http.MethodGet, path, "", nil))
}

func TestMarketOrder(t *testing.T) {
	e := newServer(t)
	path := "/sessions/" + openSession(t, e, "bid").SessionID

	var preview resthandler.Preview
	require.Equal(t, http.StatusOK, do(t, e, http.MethodPut, path+"/type", `{"value":"market"}`, &preview))
	require.True(t, preview.IsMarket)
	require.Nil(t, preview.TickID)

	require.Equal(t, http.StatusOK, do(t, e, http.MethodPut, path+"/amount", `{"value":"5"}`, &preview))
	require.True(t, preview.Valuation.PaymentAmount.Amount.Equal(decimal.RequireFromString("5.1")))
	require.Equal(t, "ibc/usdc", preview.Valuation.PaymentAmount.Denom)
	require.True(t, preview.InsufficientFunds)

	var order resthandler.Order
	require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, path+"/orders", "", &order))
	require.Equal(t, "market", order.Outcome)
	require.Equal(t, "SWAPTX", order.TxHash)
	require.Nil(t, order.Msg)
}

func TestErrors(t *testing.T) {
	e := newServer(t)
	path := "/sessions/" + openSession(t, e, "ask").SessionID

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"malformed session request", http.MethodPost, "/sessions", `{"account":""}`, http.StatusBadRequest},
		{
			"invalid account",
			http.MethodPost, "/sessions",
			`{"account":"alice","baseDenom":"uosmo","quoteDenom":"ibc/usdc","direction":"ask"}`,
			http.StatusBadRequest,
		},
		{
			"unknown market",
			http.MethodPost, "/sessions",
			`{"account":"` + account + `","baseDenom":"uatom","quoteDenom":"ibc/usdc","direction":"ask"}`,
			http.StatusNotFound,
		},
		{"unknown session", http.MethodGet, "/sessions/nope", "", http.StatusNotFound},
		{"invalid direction", http.MethodPut, path + "/direction", `{"value":"long"}`, http.StatusBadRequest},
		{"invalid order type", http.MethodPut, path + "/type", `{"value":"stop"}`, http.StatusBadRequest},
		{"unknown field", http.MethodPut, path + "/leverage", `{"value":"10"}`, http.StatusNotFound},
		{"unknown market switch", http.MethodPut, path + "/market", `{"baseDenom":"uatom","quoteDenom":"uosmo"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.status, do(t, e, tt.method, tt.path, tt.body, nil))
		})
	}
}

func TestStream(t *testing.T) {
	e := newServer(t)
	srv := httptest.NewServer(e)
	defer srv.Close()

	preview := openSession(t, e, "ask")
	path := "/sessions/" + preview.SessionID

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var got resthandler.Preview
	require.NoError(t, conn.ReadJSON(&got))
	require.Equal(t, preview.SessionID, got.SessionID)
	require.Empty(t, got.Amount)

	require.Equal(t, http.StatusOK, do(t, e, http.MethodPut, path+"/amount", `{"value":"3"}`, nil))
	require.NoError(t, conn.ReadJSON(&got))
	require.Equal(t, "3", got.Amount)

	require.Equal(t, http.StatusNoContent, do(t, e, http.MethodDelete, path, "", nil))
	_, _, err = conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
