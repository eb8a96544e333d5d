// Package faucet is thin transaction glue over go-ethereum: it funds
// addresses on the supervised private chain from a single well-known account
// and can deploy contracts from it. The account key is injected
// configuration, never a compile-time constant, so tests can substitute a
// throwaway key.
package faucet

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/params"
	"go.uber.org/zap"
)

const (
	transferGasLimit = 21000
	deployGasLimit   = 3141592
)

// Account is a funded account on the private chain identified by an injected
// private key.
type Account struct {
	key  *ecdsa.PrivateKey
	addr common.Address
	log  *zap.Logger
}

// NewAccount parses a hex-encoded private key (with or without 0x) and
// derives its address.
func NewAccount(hexKey string, log *zap.Logger) (*Account, error) {
	if len(hexKey) > 1 && (hexKey[:2] == "0x" || hexKey[:2] == "0X") {
		hexKey = hexKey[2:]
	}
	bz, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode hex key: %w", err)
	}
	key, err := crypto.ToECDSA(bz)
	if err != nil {
		return nil, fmt.Errorf("to ecdsa: %w", err)
	}
	return &Account{
		key:  key,
		addr: crypto.PubkeyToAddress(key.PublicKey),
		log:  log.With(zap.String("component", "faucet")),
	}, nil
}

// TestKey returns a hex-encoded throwaway key for tests and local
// development. It must never hold real funds.
func TestKey() string {
	return hex.EncodeToString([]byte(fmt.Sprintf("%-32s", "gethsup faucet")))
}

// Address returns the account's address.
func (a *Account) Address() common.Address {
	return a.addr
}

// Key returns the account's private key, e.g. for use as a fixed node
// identity.
func (a *Account) Key() *ecdsa.PrivateKey {
	return a.key
}

// SendEther transfers wei to the given address on a zero-gas-price private
// chain and returns the transaction hash.
func (a *Account) SendEther(ctx context.Context, rpcURL string, to common.Address, wei *big.Int) (common.Hash, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return common.Hash{}, fmt.Errorf("dial eth rpc: %w", err)
	}
	defer client.Close()

	nonce, err := client.PendingNonceAt(ctx, a.addr)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pending nonce: %w", err)
	}

	tx := types.NewTransaction(nonce, to, wei, transferGasLimit, big.NewInt(1), nil)
	signed, err := types.SignTx(tx, types.HomesteadSigner{}, a.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign tx: %w", err)
	}
	if err := client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("send tx: %w", err)
	}

	a.log.Info("sent ether",
		zap.String("eth", weiToEtherString(wei)),
		zap.String("to", to.Hex()),
		zap.String("tx", signed.Hash().Hex()))
	return signed.Hash(), nil
}

// DeployContract sends a contract-creation transaction with the given init
// code and returns the address the contract will be created at.
func (a *Account) DeployContract(ctx context.Context, rpcURL string, initCode []byte) (common.Address, common.Hash, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return common.Address{}, common.Hash{}, fmt.Errorf("dial eth rpc: %w", err)
	}
	defer client.Close()

	nonce, err := client.PendingNonceAt(ctx, a.addr)
	if err != nil {
		return common.Address{}, common.Hash{}, fmt.Errorf("pending nonce: %w", err)
	}

	tx := types.NewContractCreation(nonce, big.NewInt(0), deployGasLimit, big.NewInt(0), initCode)
	signed, err := types.SignTx(tx, types.HomesteadSigner{}, a.key)
	if err != nil {
		return common.Address{}, common.Hash{}, fmt.Errorf("sign tx: %w", err)
	}
	if err := client.SendTransaction(ctx, signed); err != nil {
		return common.Address{}, common.Hash{}, fmt.Errorf("send tx: %w", err)
	}

	created := crypto.CreateAddress(a.addr, nonce)
	a.log.Info("deployed contract",
		zap.String("address", created.Hex()),
		zap.String("tx", signed.Hash().Hex()))
	return created, signed.Hash(), nil
}

func weiToEtherString(wei *big.Int) string {
	return new(big.Rat).SetFrac(wei, big.NewInt(params.Ether)).FloatString(6)
}
