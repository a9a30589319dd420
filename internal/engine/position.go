package engine

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"liquidityEngine/internal/auth"
	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/dex"
	"liquidityEngine/internal/errcode"
	"liquidityEngine/internal/ledger"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/position"
)

type OpenPositionParams struct {
	Pool         solana.PublicKey
	Owner        solana.PublicKey
	PositionMint solana.PublicKey
	Funder       solana.PublicKey
	TickLower    int32
	TickUpper    int32
}

// OpenPosition mints a position token to Owner and creates an empty
// position over [TickLower, TickUpper). The funder pays the position rent
// plus the reserve for two dynamic tick slots.
func (e *Engine) OpenPosition(ctx context.Context, p OpenPositionParams) (*Result, error) {
	return e.run(ctx, "open_position", func(tx *ledger.Tx, now uint64, res *Result) error {
		pool, err := tx.Pool(p.Pool)
		if err != nil {
			return err
		}
		if err := position.ValidateRange(p.TickLower, p.TickUpper, pool.TickSpacing); err != nil {
			return err
		}

		key, err := ledger.PositionAddress(p.PositionMint)
		if err != nil {
			return err
		}
		if _, err := tx.Allocate(key, dex.PositionLen, p.Funder); err != nil {
			return err
		}
		if err := res.moveRent(tx, p.Funder, key, 2*TickRent, "position_reserve"); err != nil {
			return err
		}

		if err := tx.CreateMint(p.PositionMint, 0, key, nil, p.Funder); err != nil {
			return err
		}
		tokenAccount, err := ledger.PositionTokenAddress(p.Owner, p.PositionMint)
		if err != nil {
			return err
		}
		if err := tx.CreateTokenAccount(tokenAccount, p.PositionMint, p.Owner, p.Funder); err != nil {
			return err
		}
		if err := tx.MintTo(p.PositionMint, tokenAccount, key, 1); err != nil {
			return err
		}

		tx.PutPosition(key, &model.Position{
			Whirlpool:      p.Pool,
			PositionMint:   p.PositionMint,
			TickLowerIndex: p.TickLower,
			TickUpperIndex: p.TickUpper,
		})

		res.emit(&model.LiquidityEvent{
			Kind:        model.EventPositionOpened,
			Pool:        p.Pool.String(),
			Position:    key.String(),
			TickLower:   p.TickLower,
			TickUpper:   p.TickUpper,
			SqrtPrice:   pool.SqrtPrice.String(),
			TickCurrent: pool.TickCurrentIndex,
		})
		return nil
	})
}

type ClosePositionParams struct {
	Position             solana.PublicKey
	PositionTokenAccount solana.PublicKey
	Authority            solana.PublicKey
	Signers              model.Signers
	Receiver             solana.PublicKey
}

// ClosePosition burns the position token and reclaims every lamport held
// by the position, its mint and its token account. Only empty positions
// can be closed.
func (e *Engine) ClosePosition(ctx context.Context, p ClosePositionParams) (*Result, error) {
	return e.run(ctx, "close_position", func(tx *ledger.Tx, now uint64, res *Result) error {
		return e.closePosition(tx, p, res)
	})
}

func (e *Engine) closePosition(tx *ledger.Tx, p ClosePositionParams, res *Result) error {
	pos, err := tx.Position(p.Position)
	if err != nil {
		return err
	}
	tokenAccount, err := tx.TokenAccount(p.PositionTokenAccount)
	if err != nil {
		return err
	}
	if err := auth.VerifyPositionTokenAccount(tokenAccount, pos); err != nil {
		return err
	}
	if err := auth.VerifyPositionAuthority(tokenAccount, p.Authority, p.Signers); err != nil {
		return err
	}
	if !pos.IsEmpty() {
		return errcode.Wrap(errcode.ClosePositionNotEmpty, "position %s", p.Position)
	}

	if err := tx.Burn(p.PositionTokenAccount, p.Authority, 1); err != nil {
		return err
	}
	refund, err := tx.CloseTokenAccount(p.PositionTokenAccount, p.Receiver, p.Authority)
	if err != nil {
		return err
	}
	res.refunded(p.PositionTokenAccount, p.Receiver, refund)
	if refund, err = tx.CloseMint(pos.PositionMint, p.Receiver, p.Position); err != nil {
		return err
	}
	res.refunded(pos.PositionMint, p.Receiver, refund)
	if refund, err = tx.Close(p.Position, p.Receiver); err != nil {
		return err
	}
	res.refunded(p.Position, p.Receiver, refund)
	tx.DeletePosition(p.Position)

	res.emit(&model.LiquidityEvent{
		Kind:      model.EventPositionClosed,
		Pool:      pos.Whirlpool.String(),
		Position:  p.Position.String(),
		TickLower: pos.TickLowerIndex,
		TickUpper: pos.TickUpperIndex,
	})
	return nil
}

// refunded records lamports already moved by an account close.
func (r *Result) refunded(from, to solana.PublicKey, lamports uint64) {
	if lamports == 0 {
		return
	}
	r.RentMoves = append(r.RentMoves, RentMove{From: from, To: to, Lamports: lamports, Reason: "refund"})
}

type WithdrawAndCloseParams struct {
	PositionAccounts
	TokenMinA uint64
	TokenMinB uint64
	// RewardAccounts receive the reward of each initialized pool slot.
	RewardAccounts [clmath.NumRewards]solana.PublicKey
	Receiver       solana.PublicKey
}

// WithdrawAndClose removes all liquidity, collects fees and rewards and
// closes the position in one atomic step. Each stage emits its own event.
func (e *Engine) WithdrawAndClose(ctx context.Context, p WithdrawAndCloseParams) (*Result, error) {
	return e.run(ctx, "withdraw_and_close", func(tx *ledger.Tx, now uint64, res *Result) error {
		pos, err := tx.Position(p.Position)
		if err != nil {
			return err
		}
		if !pos.Liquidity.IsZero() {
			err := e.decreaseLiquidity(tx, now, DecreaseLiquidityParams{
				PositionAccounts: p.PositionAccounts,
				Liquidity:        pos.Liquidity,
				TokenMinA:        p.TokenMinA,
				TokenMinB:        p.TokenMinB,
			}, res)
			if err != nil {
				return err
			}
		}

		err = e.collectFees(tx, CollectFeesParams{
			Pool:                 p.Pool,
			Position:             p.Position,
			PositionTokenAccount: p.PositionTokenAccount,
			Authority:            p.Authority,
			Signers:              p.Signers,
			OwnerAccountA:        p.OwnerAccountA,
			OwnerAccountB:        p.OwnerAccountB,
			VaultA:               p.VaultA,
			VaultB:               p.VaultB,
		}, res)
		if err != nil {
			return err
		}

		pool, err := tx.Pool(p.Pool)
		if err != nil {
			return err
		}
		for i, info := range pool.RewardInfos {
			if !info.Initialized() {
				continue
			}
			if p.RewardAccounts[i].IsZero() {
				return errcode.Wrap(errcode.ConstraintViolation, "no account for reward %d", i)
			}
			err := e.collectReward(tx, CollectRewardParams{
				Pool:                 p.Pool,
				Position:             p.Position,
				PositionTokenAccount: p.PositionTokenAccount,
				Authority:            p.Authority,
				Signers:              p.Signers,
				Index:                i,
				OwnerAccount:         p.RewardAccounts[i],
				Vault:                info.Vault,
			}, res)
			if err != nil {
				return err
			}
		}

		return e.closePosition(tx, ClosePositionParams{
			Position:             p.Position,
			PositionTokenAccount: p.PositionTokenAccount,
			Authority:            p.Authority,
			Signers:              p.Signers,
			Receiver:             p.Receiver,
		}, res)
	})
}
