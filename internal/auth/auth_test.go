package auth

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"liquidityEngine/internal/errcode"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/tick"
)

func TestVerifyPositionAuthority(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	delegate := solana.NewWallet().PublicKey()
	stranger := solana.NewWallet().PublicKey()

	cases := []struct {
		name      string
		account   model.TokenAccount
		authority solana.PublicKey
		signers   model.Signers
		want      error
	}{
		{"owner signs", model.TokenAccount{Owner: owner, Amount: 1}, owner, model.Signers{owner}, nil},
		{"owner missing signature", model.TokenAccount{Owner: owner, Amount: 1}, owner, nil, errcode.MissingOrInvalidDelegate},
		{"delegate approved for one", model.TokenAccount{Owner: owner, Amount: 1, Delegate: delegate, DelegatedAmount: 1}, delegate, model.Signers{delegate}, nil},
		{"delegate approved for zero", model.TokenAccount{Owner: owner, Amount: 1, Delegate: delegate}, delegate, model.Signers{delegate}, errcode.InvalidPositionTokenAmount},
		{"delegate not signing", model.TokenAccount{Owner: owner, Amount: 1, Delegate: delegate, DelegatedAmount: 1}, delegate, model.Signers{owner}, errcode.MissingOrInvalidDelegate},
		{"no delegate", model.TokenAccount{Owner: owner, Amount: 1}, stranger, model.Signers{stranger}, errcode.MissingOrInvalidDelegate},
		{"other delegate", model.TokenAccount{Owner: owner, Amount: 1, Delegate: delegate, DelegatedAmount: 1}, stranger, model.Signers{stranger}, errcode.MissingOrInvalidDelegate},
		{"owner self-delegated for zero", model.TokenAccount{Owner: owner, Amount: 1, Delegate: owner}, owner, model.Signers{owner}, errcode.InvalidPositionTokenAmount},
		{"owner self-delegated for one", model.TokenAccount{Owner: owner, Amount: 1, Delegate: owner, DelegatedAmount: 1}, owner, model.Signers{owner}, nil},
		{"owner of empty account", model.TokenAccount{Owner: owner}, owner, model.Signers{owner}, errcode.InvalidPositionTokenAmount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := VerifyPositionAuthority(&tc.account, tc.authority, tc.signers)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestVerifyRelationships(t *testing.T) {
	poolKey := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	pos := &model.Position{Whirlpool: poolKey, PositionMint: mint}

	require.NoError(t, VerifyPositionTokenAccount(&model.TokenAccount{Mint: mint, Amount: 1}, pos))
	require.ErrorIs(t, VerifyPositionTokenAccount(&model.TokenAccount{Mint: mint}, pos), errcode.ConstraintViolation)
	require.ErrorIs(t, VerifyPositionTokenAccount(&model.TokenAccount{Mint: poolKey, Amount: 1}, pos), errcode.ConstraintViolation)

	require.NoError(t, VerifyPositionPool(pos, poolKey))
	err := VerifyPositionPool(pos, mint)
	require.ErrorIs(t, err, errcode.PoolMismatch)
	require.Contains(t, err.Error(), "0x7d1")

	pool := &model.Pool{
		TokenMintA:  solana.NewWallet().PublicKey(),
		TokenMintB:  solana.NewWallet().PublicKey(),
		TokenVaultA: solana.NewWallet().PublicKey(),
		TokenVaultB: solana.NewWallet().PublicKey(),
	}
	require.NoError(t, VerifyVaults(pool, pool.TokenVaultA, pool.TokenVaultB))
	require.ErrorIs(t, VerifyVaults(pool, pool.TokenVaultB, pool.TokenVaultA), errcode.ConstraintViolation)

	a := &model.TokenAccount{Mint: pool.TokenMintA}
	b := &model.TokenAccount{Mint: pool.TokenMintB}
	require.NoError(t, VerifyOwnerTokenAccounts(pool, a, b))
	require.ErrorIs(t, VerifyOwnerTokenAccounts(pool, b, a), errcode.ConstraintViolation)
}

func TestVerifyTickArray(t *testing.T) {
	poolKey := solana.NewWallet().PublicKey()
	arr := tick.NewFixed(poolKey, -11264)

	require.NoError(t, VerifyTickArray(arr, poolKey, -1280, 128))
	require.ErrorIs(t, VerifyTickArray(arr, poolKey, 1280, 128), errcode.TickNotFound)

	err := VerifyTickArray(arr, solana.NewWallet().PublicKey(), -1280, 128)
	require.ErrorIs(t, err, errcode.TickArrayMismatch)
	require.Contains(t, err.Error(), "0x17a8")
}
