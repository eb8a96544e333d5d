package faucet

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// donateResponse is the public testnet faucet's reply. Paydate zero means the
// request was declined, usually rate limiting; Message carries the reason.
type donateResponse struct {
	Paydate int64       `json:"paydate"`
	Amount  json.Number `json:"amount"`
	Message string      `json:"message"`
}

// Donate asks a public testnet faucet to fund addr via
// GET <baseURL>/donate/<hexaddr>. It reports whether the faucet granted the
// request; a declined grant is logged, not an error. Transport failures are
// retried a few times before giving up.
func Donate(ctx context.Context, log *zap.Logger, baseURL string, addr common.Address) (bool, error) {
	url := fmt.Sprintf("%s/donate/%x", baseURL, addr)

	var resp donateResponse
	var status int
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			res, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer res.Body.Close()

			status = res.StatusCode
			if status != http.StatusOK {
				return nil
			}
			if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode faucet response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return false, fmt.Errorf("faucet request: %w", err)
	}

	if status != http.StatusOK {
		log.Error("faucet returned error status", zap.Int("status", status))
		return false, nil
	}
	if resp.Paydate == 0 {
		log.Warn("faucet declined request", zap.String("message", resp.Message))
		return false, nil
	}

	wei, ok := new(big.Int).SetString(resp.Amount.String(), 10)
	if !ok {
		wei = big.NewInt(0)
	}
	// The paydate is not very reliable, often some day in the past.
	log.Info("faucet granted funds",
		zap.String("eth", weiToEtherString(wei)),
		zap.Time("paydate", time.Unix(resp.Paydate, 0)))
	return true, nil
}
