package ports

import (
	"encoding/json"

	"github.com/tiero/limitd/internal/core/domain"
)

// ExecuteContractRequest asks the signer relay to sign and broadcast a
// MsgExecuteContract on behalf of Sender.
type ExecuteContractRequest struct {
	Sender   string          `json:"sender"`
	Contract string          `json:"contract"`
	Msg      json.RawMessage `json:"msg"`
	Funds    []domain.Coin   `json:"funds"`
	Memo     string          `json:"memo,omitempty"`
}

// SwapExactAmountInRequest asks the swap router to route a market order
// through the given pool.
type SwapExactAmountInRequest struct {
	Sender        string      `json:"sender"`
	PoolID        uint64      `json:"pool_id,string"`
	TokenIn       domain.Coin `json:"token_in"`
	TokenOutDenom string      `json:"token_out_denom"`
	MaxSlippage   string      `json:"max_slippage"`
	Memo          string      `json:"memo,omitempty"`
}

// TxResponse is the broadcast result returned by both the signer relay and
// the swap router.
type TxResponse struct {
	TxHash string `json:"txhash"`
	Code   uint32 `json:"code"`
	RawLog string `json:"raw_log"`
}
