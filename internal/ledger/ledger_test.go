package ledger

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/errcode"
	"liquidityEngine/internal/model"
)

func newKey() solana.PublicKey { return solana.NewWallet().PublicKey() }

type tokenFixture struct {
	store     *Store
	payer     solana.PublicKey
	mint      solana.PublicKey
	authority solana.PublicKey
	alice     solana.PublicKey
	aliceAcct solana.PublicKey
	bob       solana.PublicKey
	bobAcct   solana.PublicKey
}

func newTokenFixture(t *testing.T, fee *clmath.TransferFee) tokenFixture {
	t.Helper()
	f := tokenFixture{
		store:     NewStore(nil),
		payer:     newKey(),
		mint:      newKey(),
		authority: newKey(),
		alice:     newKey(),
		aliceAcct: newKey(),
		bob:       newKey(),
		bobAcct:   newKey(),
	}
	require.NoError(t, f.store.Update(func(tx *Tx) error {
		if err := tx.Fund(f.payer, 1_000_000_000); err != nil {
			return err
		}
		if err := tx.CreateMint(f.mint, 6, f.authority, fee, f.payer); err != nil {
			return err
		}
		if err := tx.CreateTokenAccount(f.aliceAcct, f.mint, f.alice, f.payer); err != nil {
			return err
		}
		if err := tx.CreateTokenAccount(f.bobAcct, f.mint, f.bob, f.payer); err != nil {
			return err
		}
		return tx.MintTo(f.mint, f.aliceAcct, f.authority, 1000)
	}))
	return f
}

func (f tokenFixture) balance(t *testing.T, key solana.PublicKey) model.TokenAccount {
	t.Helper()
	var out model.TokenAccount
	require.NoError(t, f.store.View(func(tx *Tx) error {
		acct, err := tx.TokenAccount(key)
		if err != nil {
			return err
		}
		out = *acct
		return nil
	}))
	return out
}

func TestUpdateRollsBackOnError(t *testing.T) {
	f := newTokenFixture(t, nil)
	boom := errors.New("boom")

	err := f.store.Update(func(tx *Tx) error {
		if _, err := tx.Transfer(f.aliceAcct, f.bobAcct, f.alice, 400); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, uint64(1000), f.balance(t, f.aliceAcct).Amount)
	require.Equal(t, uint64(0), f.balance(t, f.bobAcct).Amount)
}

func TestViewDiscardsWrites(t *testing.T) {
	f := newTokenFixture(t, nil)
	require.NoError(t, f.store.View(func(tx *Tx) error {
		acct, err := tx.TokenAccount(f.aliceAcct)
		if err != nil {
			return err
		}
		acct.Amount = 0
		return nil
	}))
	require.Equal(t, uint64(1000), f.balance(t, f.aliceAcct).Amount)
}

func TestTransferAuthority(t *testing.T) {
	f := newTokenFixture(t, nil)

	err := f.store.Update(func(tx *Tx) error {
		_, err := tx.Transfer(f.aliceAcct, f.bobAcct, f.bob, 1)
		return err
	})
	require.ErrorIs(t, err, errcode.OwnerMismatch)

	err = f.store.Update(func(tx *Tx) error {
		_, err := tx.Transfer(f.aliceAcct, f.bobAcct, f.alice, 1001)
		return err
	})
	require.ErrorIs(t, err, errcode.InsufficientFunds)
	require.Contains(t, err.Error(), "custom program error: 0x1")

	// delegate spends its allowance and is cleared at zero
	require.NoError(t, f.store.Update(func(tx *Tx) error {
		if err := tx.Approve(f.aliceAcct, f.bob, f.alice, 10); err != nil {
			return err
		}
		_, err := tx.Transfer(f.aliceAcct, f.bobAcct, f.bob, 10)
		return err
	}))
	alice := f.balance(t, f.aliceAcct)
	require.Equal(t, uint64(990), alice.Amount)
	require.False(t, alice.HasDelegate())
	require.Equal(t, uint64(10), f.balance(t, f.bobAcct).Amount)

	err = f.store.Update(func(tx *Tx) error {
		if err := tx.Approve(f.aliceAcct, f.bob, f.alice, 5); err != nil {
			return err
		}
		_, err := tx.Transfer(f.aliceAcct, f.bobAcct, f.bob, 6)
		return err
	})
	require.ErrorIs(t, err, errcode.OwnerMismatch)
}

func TestTransferWithholdsFee(t *testing.T) {
	f := newTokenFixture(t, &clmath.TransferFee{BasisPoints: 100, MaximumFee: 5})

	var receipt Transfer
	require.NoError(t, f.store.Update(func(tx *Tx) error {
		var err error
		receipt, err = tx.Transfer(f.aliceAcct, f.bobAcct, f.alice, 1000)
		return err
	}))
	require.Equal(t, uint64(5), receipt.Fee)
	bob := f.balance(t, f.bobAcct)
	require.Equal(t, uint64(995), bob.Amount)
	require.Equal(t, uint64(5), bob.WithheldAmount)
}

func TestMintMismatch(t *testing.T) {
	f := newTokenFixture(t, nil)
	other := newKey()
	otherAcct := newKey()
	err := f.store.Update(func(tx *Tx) error {
		if err := tx.CreateMint(other, 0, f.authority, nil, f.payer); err != nil {
			return err
		}
		if err := tx.CreateTokenAccount(otherAcct, other, f.bob, f.payer); err != nil {
			return err
		}
		_, err := tx.Transfer(f.aliceAcct, otherAcct, f.alice, 1)
		return err
	})
	require.ErrorIs(t, err, errcode.MintMismatch)
}

func TestBurnAndClose(t *testing.T) {
	f := newTokenFixture(t, nil)
	receiver := newKey()

	err := f.store.Update(func(tx *Tx) error {
		_, err := tx.CloseTokenAccount(f.aliceAcct, receiver, f.alice)
		return err
	})
	require.ErrorIs(t, err, errcode.NonNativeHasBalance)

	require.NoError(t, f.store.Update(func(tx *Tx) error {
		if err := tx.Burn(f.aliceAcct, f.alice, 1000); err != nil {
			return err
		}
		refund, err := tx.CloseTokenAccount(f.aliceAcct, receiver, f.alice)
		if err != nil {
			return err
		}
		require.Equal(t, RentExempt(TokenAccountLen), refund)
		refund, err = tx.CloseMint(f.mint, receiver, f.authority)
		if err != nil {
			return err
		}
		require.Equal(t, RentExempt(MintLen), refund)
		return nil
	}))

	require.NoError(t, f.store.View(func(tx *Tx) error {
		require.False(t, tx.Exists(f.aliceAcct))
		require.False(t, tx.Exists(f.mint))
		require.Equal(t, RentExempt(TokenAccountLen)+RentExempt(MintLen), tx.Lamports(receiver))
		return nil
	}))
}

func TestLamports(t *testing.T) {
	s := NewStore(nil)
	payer, acct := newKey(), newKey()

	require.Equal(t, uint64(1_586_880), RentExempt(100))
	require.Equal(t, uint64(779_520), RentForBytes(112))

	err := s.Update(func(tx *Tx) error {
		_, err := tx.Allocate(acct, 100, payer)
		return err
	})
	require.ErrorIs(t, err, errcode.ResultWithNegativeLamports)

	require.NoError(t, s.Update(func(tx *Tx) error {
		if err := tx.Fund(payer, 2_000_000); err != nil {
			return err
		}
		rent, err := tx.Allocate(acct, 100, payer)
		if err != nil {
			return err
		}
		require.Equal(t, RentExempt(100), rent)
		_, err = tx.Allocate(acct, 100, payer)
		require.ErrorIs(t, err, errcode.AccountAlreadyInUse)
		return tx.MoveLamports(acct, payer, 1)
	}))

	require.NoError(t, s.View(func(tx *Tx) error {
		require.Equal(t, uint64(2_000_000)-RentExempt(100)+1, tx.Lamports(payer))
		require.Equal(t, RentExempt(100)-1, tx.Lamports(acct))
		return nil
	}))
}

func TestAddressesAreDeterministic(t *testing.T) {
	pool := newKey()
	a, err := TickArrayAddress(pool, -11264)
	require.NoError(t, err)
	b, err := TickArrayAddress(pool, -11264)
	require.NoError(t, err)
	c, err := TickArrayAddress(pool, 0)
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)

	mint := newKey()
	p1, err := PositionAddress(mint)
	require.NoError(t, err)
	p2, err := PositionAddress(newKey())
	require.NoError(t, err)
	require.NotEqual(t, p1, p2)
}
