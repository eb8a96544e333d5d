package faucet

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewAccountDerivesAddress(t *testing.T) {
	a, err := NewAccount(TestKey(), zaptest.NewLogger(t))
	require.NoError(t, err)

	bz, err := hex.DecodeString(TestKey())
	require.NoError(t, err)
	key, err := crypto.ToECDSA(bz)
	require.NoError(t, err)

	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), a.Address())
	require.Equal(t, key.D, a.Key().D)
}

func TestNewAccountAccepts0xPrefix(t *testing.T) {
	a1, err := NewAccount(TestKey(), zaptest.NewLogger(t))
	require.NoError(t, err)
	a2, err := NewAccount("0x"+TestKey(), zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Equal(t, a1.Address(), a2.Address())
}

func TestNewAccountRejectsGarbage(t *testing.T) {
	_, err := NewAccount("zz-not-hex", zaptest.NewLogger(t))
	require.Error(t, err)

	_, err = NewAccount("abcd", zaptest.NewLogger(t))
	require.Error(t, err, "a 2-byte scalar is not a valid key")
}

func TestTestKeyIsStable32Bytes(t *testing.T) {
	bz, err := hex.DecodeString(TestKey())
	require.NoError(t, err)
	require.Len(t, bz, 32)
	require.Equal(t, TestKey(), TestKey())
}
