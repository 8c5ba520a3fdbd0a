package resthandler

import (
	"errors"
	"strings"
)

func validateOpenSessionRequest(req *OpenSessionRequest) error {
	if req == nil {
		return errors.New("open session request is null")
	}
	if len(strings.TrimSpace(req.Account)) <= 0 ||
		len(strings.TrimSpace(req.BaseDenom)) <= 0 ||
		len(strings.TrimSpace(req.QuoteDenom)) <= 0 ||
		len(strings.TrimSpace(req.Direction)) <= 0 {
		return errors.New("open session request is malformed")
	}
	return nil
}
