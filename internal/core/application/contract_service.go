package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/tiero/limitd/internal/core/domain"
	"github.com/tiero/limitd/internal/core/ports"
)

// ContractExecutor signs and broadcasts contract execution messages.
type ContractExecutor interface {
	ExecuteContract(ctx context.Context, opts ExecuteContractOpts) (string, error)
}

type ExecuteContractOpts struct {
	Sender          string
	ContractAddress string
	Msg             interface{}
	Funds           []domain.Coin
	Memo            string
}

type contractExecutor struct {
	endpoint string
	client   *httpClient
	cb       *gobreaker.CircuitBreaker
}

// NewContractExecutor returns an executor backed by a signer relay. Repeated
// broadcast failures open the circuit so that a down relay fails fast.
func NewContractExecutor(signerEndpoint string, timeout time.Duration) ContractExecutor {
	return &contractExecutor{
		endpoint: strings.TrimRight(signerEndpoint, "/"),
		client:   newHTTPClient(timeout),
		cb:       newCircuitBreaker("signer"),
	}
}

func (c *contractExecutor) ExecuteContract(ctx context.Context, opts ExecuteContractOpts) (string, error) {
	msg, err := json.Marshal(opts.Msg)
	if err != nil {
		return "", fmt.Errorf("marshal msg: %w", err)
	}

	req := ports.ExecuteContractRequest{
		Sender:   opts.Sender,
		Contract: opts.ContractAddress,
		Msg:      msg,
		Funds:    opts.Funds,
		Memo:     opts.Memo,
	}

	iTxid, err := c.cb.Execute(func() (interface{}, error) {
		var resp ports.TxResponse
		if err := c.client.postJSON(ctx, c.endpoint+"/execute", req, &resp); err != nil {
			return nil, err
		}
		return checkTxResponse(resp)
	})
	if err != nil {
		return "", err
	}
	return iTxid.(string), nil
}

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
	})
}

var ErrTxRejected = errors.New("transaction rejected")

func checkTxResponse(resp ports.TxResponse) (string, error) {
	if resp.Code != 0 {
		return "", fmt.Errorf("%w with code %d: %s", ErrTxRejected, resp.Code, resp.RawLog)
	}
	if resp.TxHash == "" {
		return "", fmt.Errorf("%w: missing tx hash", ErrTxRejected)
	}
	return resp.TxHash, nil
}
