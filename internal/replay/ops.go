package replay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/engine"
	"liquidityEngine/internal/ledger"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/tick"
)

// Ops understood by the replay runner.
const (
	OpFund                 = "fund"
	OpCreateMint           = "create_mint"
	OpCreateTokenAccount   = "create_token_account"
	OpMintTo               = "mint_to"
	OpApprove              = "approve"
	OpRevoke               = "revoke"
	OpAdvanceClock         = "advance_clock"
	OpInitializePool       = "initialize_pool"
	OpInitializeTickArray  = "initialize_tick_array"
	OpInitializeReward     = "initialize_reward"
	OpSetRewardEmissions   = "set_reward_emissions"
	OpOpenPosition         = "open_position"
	OpIncreaseLiquidity    = "increase_liquidity"
	OpDecreaseLiquidity    = "decrease_liquidity"
	OpUpdateFeesAndRewards = "update_fees_and_rewards"
	OpCollectFees          = "collect_fees"
	OpCollectReward        = "collect_reward"
	OpClosePosition        = "close_position"
	OpWithdrawAndClose     = "withdraw_and_close"
	OpSwap                 = "swap"
)

type fundArgs struct {
	Account  string `json:"account"`
	Lamports u64    `json:"lamports"`
}

type createMintArgs struct {
	Mint           string `json:"mint"`
	Decimals       uint8  `json:"decimals"`
	Authority      string `json:"authority"`
	Funder         string `json:"funder"`
	TransferFeeBps uint16 `json:"transfer_fee_bps"`
	TransferFeeMax u64    `json:"transfer_fee_max"`
}

type createTokenAccountArgs struct {
	Account string `json:"account"`
	Mint    string `json:"mint"`
	Owner   string `json:"owner"`
	Funder  string `json:"funder"`
}

type mintToArgs struct {
	Mint      string `json:"mint"`
	Account   string `json:"account"`
	Authority string `json:"authority"`
	Amount    u64    `json:"amount"`
}

type approveArgs struct {
	Account  string `json:"account"`
	Delegate string `json:"delegate"`
	Owner    string `json:"owner"`
	Amount   u64    `json:"amount"`
}

type advanceClockArgs struct {
	Seconds u64 `json:"seconds"`
	To      u64 `json:"to"`
}

type initializePoolArgs struct {
	Name             string `json:"name"`
	Config           string `json:"config"`
	MintA            string `json:"mint_a"`
	MintB            string `json:"mint_b"`
	TickSpacing      uint16 `json:"tick_spacing"`
	FeeRate          uint16 `json:"fee_rate"`
	ProtocolFeeRate  uint16 `json:"protocol_fee_rate"`
	InitialSqrtPrice u128   `json:"initial_sqrt_price"`
	Funder           string `json:"funder"`
}

type initializeTickArrayArgs struct {
	Pool       string `json:"pool"`
	StartIndex int32  `json:"start_index"`
	Dynamic    bool   `json:"dynamic"`
	Funder     string `json:"funder"`
}

type initializeRewardArgs struct {
	Pool      string `json:"pool"`
	Index     int    `json:"index"`
	Mint      string `json:"mint"`
	Authority string `json:"authority"`
	Funder    string `json:"funder"`
}

type setRewardEmissionsArgs struct {
	Pool                  string   `json:"pool"`
	Index                 int      `json:"index"`
	EmissionsPerSecondX64 u128     `json:"emissions_per_second_x64"`
	Authority             string   `json:"authority"`
	Signers               []string `json:"signers"`
}

type openPositionArgs struct {
	Name         string `json:"name"`
	Pool         string `json:"pool"`
	Owner        string `json:"owner"`
	PositionMint string `json:"position_mint"`
	Funder       string `json:"funder"`
	TickLower    int32  `json:"tick_lower"`
	TickUpper    int32  `json:"tick_upper"`
}

// positionArgs names a position and the authority acting on it. The
// position token account defaults to "<position>.token".
type positionArgs struct {
	Position             string   `json:"position"`
	PositionTokenAccount string   `json:"position_token_account"`
	Authority            string   `json:"authority"`
	Signers              []string `json:"signers"`
	OwnerAccountA        string   `json:"owner_account_a"`
	OwnerAccountB        string   `json:"owner_account_b"`
}

type increaseLiquidityArgs struct {
	positionArgs
	Liquidity u128 `json:"liquidity"`
	TokenMaxA u64  `json:"token_max_a"`
	TokenMaxB u64  `json:"token_max_b"`
}

type decreaseLiquidityArgs struct {
	positionArgs
	Liquidity u128 `json:"liquidity"`
	TokenMinA u64  `json:"token_min_a"`
	TokenMinB u64  `json:"token_min_b"`
}

type collectRewardArgs struct {
	positionArgs
	Index        int    `json:"index"`
	OwnerAccount string `json:"owner_account"`
}

type closePositionArgs struct {
	positionArgs
	Receiver string `json:"receiver"`
}

type rewardDestinationArgs struct {
	Index        int    `json:"index"`
	OwnerAccount string `json:"owner_account"`
}

type withdrawAndCloseArgs struct {
	positionArgs
	TokenMinA u64                     `json:"token_min_a"`
	TokenMinB u64                     `json:"token_min_b"`
	Rewards   []rewardDestinationArgs `json:"rewards"`
	Receiver  string                  `json:"receiver"`
}

type swapArgs struct {
	Pool                   string  `json:"pool"`
	Authority              string  `json:"authority"`
	OwnerAccountA          string  `json:"owner_account_a"`
	OwnerAccountB          string  `json:"owner_account_b"`
	TickArrays             []int32 `json:"tick_arrays"`
	Amount                 u64     `json:"amount"`
	OtherAmountThreshold   u64     `json:"other_amount_threshold"`
	SqrtPriceLimit         u128    `json:"sqrt_price_limit"`
	AmountSpecifiedIsInput bool    `json:"amount_specified_is_input"`
	AToB                   bool    `json:"a_to_b"`
}

// applier turns instructions into engine and ledger calls.
type applier struct {
	eng   *engine.Engine
	keys  *KeyBook
	clock *engine.ManualClock
}

// resolver collects the first key resolution failure so argument mapping
// stays linear.
type resolver struct {
	keys *KeyBook
	err  error
}

func (r *resolver) key(name string) solana.PublicKey {
	if r.err != nil {
		return solana.PublicKey{}
	}
	key, err := r.keys.Key(name)
	if err != nil {
		r.err = err
	}
	return key
}

func (r *resolver) keyOr(name, fallback string) solana.PublicKey {
	if name == "" {
		name = fallback
	}
	return r.key(name)
}

// signers defaults to the authority alone when the script lists none. An
// explicit empty list means nobody signed.
func (r *resolver) signers(names []string, authority solana.PublicKey) model.Signers {
	if names == nil {
		return model.Signers{authority}
	}
	out := make(model.Signers, 0, len(names))
	for _, name := range names {
		out = append(out, r.key(name))
	}
	return out
}

func decodeArgs(ins model.Instruction, v any) error {
	if err := json.Unmarshal(ins.Args, v); err != nil {
		return fmt.Errorf("decode %s args: %w", ins.Op, err)
	}
	return nil
}

func (a *applier) resolver() *resolver { return &resolver{keys: a.keys} }

func (a *applier) apply(ctx context.Context, ins model.Instruction) ([]*model.LiquidityEvent, error) {
	switch ins.Op {
	case OpFund, OpCreateMint, OpCreateTokenAccount, OpMintTo, OpApprove, OpRevoke:
		return nil, a.applyLedger(ins)
	case OpAdvanceClock:
		return nil, a.advanceClock(ins)
	}

	res, err := a.applyEngine(ctx, ins)
	if err != nil {
		return nil, err
	}
	return res.Events, nil
}

func (a *applier) applyLedger(ins model.Instruction) error {
	r := a.resolver()
	var fn func(tx *ledger.Tx) error

	switch ins.Op {
	case OpFund:
		var args fundArgs
		if err := decodeArgs(ins, &args); err != nil {
			return err
		}
		account := r.key(args.Account)
		fn = func(tx *ledger.Tx) error { return tx.Fund(account, uint64(args.Lamports)) }
	case OpCreateMint:
		var args createMintArgs
		if err := decodeArgs(ins, &args); err != nil {
			return err
		}
		mint, authority, funder := r.key(args.Mint), r.key(args.Authority), r.key(args.Funder)
		var fee *clmath.TransferFee
		if args.TransferFeeBps > 0 {
			fee = &clmath.TransferFee{BasisPoints: args.TransferFeeBps, MaximumFee: uint64(args.TransferFeeMax)}
		}
		fn = func(tx *ledger.Tx) error { return tx.CreateMint(mint, args.Decimals, authority, fee, funder) }
	case OpCreateTokenAccount:
		var args createTokenAccountArgs
		if err := decodeArgs(ins, &args); err != nil {
			return err
		}
		account, mint, owner, funder := r.key(args.Account), r.key(args.Mint), r.key(args.Owner), r.key(args.Funder)
		fn = func(tx *ledger.Tx) error { return tx.CreateTokenAccount(account, mint, owner, funder) }
	case OpMintTo:
		var args mintToArgs
		if err := decodeArgs(ins, &args); err != nil {
			return err
		}
		mint, account, authority := r.key(args.Mint), r.key(args.Account), r.key(args.Authority)
		fn = func(tx *ledger.Tx) error { return tx.MintTo(mint, account, authority, uint64(args.Amount)) }
	case OpApprove:
		var args approveArgs
		if err := decodeArgs(ins, &args); err != nil {
			return err
		}
		account, delegate, owner := r.key(args.Account), r.key(args.Delegate), r.key(args.Owner)
		fn = func(tx *ledger.Tx) error { return tx.Approve(account, delegate, owner, uint64(args.Amount)) }
	case OpRevoke:
		var args approveArgs
		if err := decodeArgs(ins, &args); err != nil {
			return err
		}
		account, owner := r.key(args.Account), r.key(args.Owner)
		fn = func(tx *ledger.Tx) error { return tx.Revoke(account, owner) }
	}
	if r.err != nil {
		return r.err
	}
	return a.eng.Store().Update(fn)
}

func (a *applier) advanceClock(ins model.Instruction) error {
	if a.clock == nil {
		return fmt.Errorf("advance_clock needs a manual clock")
	}
	var args advanceClockArgs
	if err := decodeArgs(ins, &args); err != nil {
		return err
	}
	if args.To > 0 {
		if uint64(args.To) < a.clock.Now() {
			return fmt.Errorf("clock cannot move back to %d", args.To)
		}
		a.clock.Set(uint64(args.To))
		return nil
	}
	a.clock.Advance(uint64(args.Seconds))
	return nil
}

func (a *applier) applyEngine(ctx context.Context, ins model.Instruction) (*engine.Result, error) {
	r := a.resolver()

	switch ins.Op {
	case OpInitializePool:
		var args initializePoolArgs
		if err := decodeArgs(ins, &args); err != nil {
			return nil, err
		}
		p := engine.InitializePoolParams{
			Config:           r.key(args.Config),
			MintA:            r.key(args.MintA),
			MintB:            r.key(args.MintB),
			TickSpacing:      args.TickSpacing,
			FeeRate:          args.FeeRate,
			ProtocolFeeRate:  args.ProtocolFeeRate,
			InitialSqrtPrice: args.InitialSqrtPrice.Uint128,
			Funder:           r.key(args.Funder),
		}
		if r.err != nil {
			return nil, r.err
		}
		res, err := a.eng.InitializePool(ctx, p)
		if err != nil {
			return nil, err
		}
		return res, a.bindPool(args.Name, p)

	case OpInitializeTickArray:
		var args initializeTickArrayArgs
		if err := decodeArgs(ins, &args); err != nil {
			return nil, err
		}
		p := engine.InitializeTickArrayParams{
			Pool:       r.keyOr(args.Pool, "pool"),
			StartIndex: args.StartIndex,
			Dynamic:    args.Dynamic,
			Funder:     r.key(args.Funder),
		}
		if r.err != nil {
			return nil, r.err
		}
		return a.eng.InitializeTickArray(ctx, p)

	case OpInitializeReward:
		var args initializeRewardArgs
		if err := decodeArgs(ins, &args); err != nil {
			return nil, err
		}
		p := engine.InitializeRewardParams{
			Pool:      r.keyOr(args.Pool, "pool"),
			Index:     args.Index,
			Mint:      r.key(args.Mint),
			Authority: r.key(args.Authority),
			Funder:    r.key(args.Funder),
		}
		if r.err != nil {
			return nil, r.err
		}
		return a.eng.InitializeReward(ctx, p)

	case OpSetRewardEmissions:
		var args setRewardEmissionsArgs
		if err := decodeArgs(ins, &args); err != nil {
			return nil, err
		}
		authority := r.key(args.Authority)
		p := engine.SetRewardEmissionsParams{
			Pool:                  r.keyOr(args.Pool, "pool"),
			Index:                 args.Index,
			EmissionsPerSecondX64: args.EmissionsPerSecondX64.Uint128,
			Authority:             authority,
			Signers:               r.signers(args.Signers, authority),
		}
		if r.err != nil {
			return nil, r.err
		}
		return a.eng.SetRewardEmissions(ctx, p)

	case OpOpenPosition:
		var args openPositionArgs
		if err := decodeArgs(ins, &args); err != nil {
			return nil, err
		}
		if args.Name == "" {
			return nil, fmt.Errorf("open_position needs a name")
		}
		p := engine.OpenPositionParams{
			Pool:         r.keyOr(args.Pool, "pool"),
			Owner:        r.key(args.Owner),
			PositionMint: r.keyOr(args.PositionMint, args.Name+".mint"),
			Funder:       r.key(args.Funder),
			TickLower:    args.TickLower,
			TickUpper:    args.TickUpper,
		}
		if r.err != nil {
			return nil, r.err
		}
		res, err := a.eng.OpenPosition(ctx, p)
		if err != nil {
			return nil, err
		}
		return res, a.bindPosition(args.Name, p)

	case OpIncreaseLiquidity:
		var args increaseLiquidityArgs
		if err := decodeArgs(ins, &args); err != nil {
			return nil, err
		}
		accounts, err := a.positionAccounts(r, args.positionArgs)
		if err != nil {
			return nil, err
		}
		return a.eng.IncreaseLiquidity(ctx, engine.IncreaseLiquidityParams{
			PositionAccounts: accounts,
			Liquidity:        args.Liquidity.Uint128,
			TokenMaxA:        uint64(args.TokenMaxA),
			TokenMaxB:        uint64(args.TokenMaxB),
		})

	case OpDecreaseLiquidity:
		var args decreaseLiquidityArgs
		if err := decodeArgs(ins, &args); err != nil {
			return nil, err
		}
		accounts, err := a.positionAccounts(r, args.positionArgs)
		if err != nil {
			return nil, err
		}
		return a.eng.DecreaseLiquidity(ctx, engine.DecreaseLiquidityParams{
			PositionAccounts: accounts,
			Liquidity:        args.Liquidity.Uint128,
			TokenMinA:        uint64(args.TokenMinA),
			TokenMinB:        uint64(args.TokenMinB),
		})

	case OpUpdateFeesAndRewards:
		var args positionArgs
		if err := decodeArgs(ins, &args); err != nil {
			return nil, err
		}
		refs, err := a.lookupPosition(r.key(args.Position), r)
		if err != nil {
			return nil, err
		}
		return a.eng.UpdateFeesAndRewards(ctx, engine.UpdateFeesAndRewardsParams{
			Pool:           refs.pool,
			Position:       refs.position,
			TickArrayLower: refs.lowerArray,
			TickArrayUpper: refs.upperArray,
		})

	case OpCollectFees:
		var args positionArgs
		if err := decodeArgs(ins, &args); err != nil {
			return nil, err
		}
		accounts, err := a.positionAccounts(r, args)
		if err != nil {
			return nil, err
		}
		return a.eng.CollectFees(ctx, engine.CollectFeesParams{
			Pool:                 accounts.Pool,
			Position:             accounts.Position,
			PositionTokenAccount: accounts.PositionTokenAccount,
			Authority:            accounts.Authority,
			Signers:              accounts.Signers,
			OwnerAccountA:        accounts.OwnerAccountA,
			OwnerAccountB:        accounts.OwnerAccountB,
			VaultA:               accounts.VaultA,
			VaultB:               accounts.VaultB,
		})

	case OpCollectReward:
		var args collectRewardArgs
		if err := decodeArgs(ins, &args); err != nil {
			return nil, err
		}
		refs, err := a.lookupPosition(r.key(args.Position), r)
		if err != nil {
			return nil, err
		}
		if args.Index < 0 || args.Index >= clmath.NumRewards {
			return nil, fmt.Errorf("reward index %d out of range", args.Index)
		}
		authority := r.key(args.Authority)
		p := engine.CollectRewardParams{
			Pool:                 refs.pool,
			Position:             refs.position,
			PositionTokenAccount: r.keyOr(args.PositionTokenAccount, args.Position+".token"),
			Authority:            authority,
			Signers:              r.signers(args.Signers, authority),
			Index:                args.Index,
			OwnerAccount:         r.key(args.OwnerAccount),
			Vault:                refs.rewardVaults[args.Index],
		}
		if r.err != nil {
			return nil, r.err
		}
		return a.eng.CollectReward(ctx, p)

	case OpClosePosition:
		var args closePositionArgs
		if err := decodeArgs(ins, &args); err != nil {
			return nil, err
		}
		authority := r.key(args.Authority)
		p := engine.ClosePositionParams{
			Position:             r.key(args.Position),
			PositionTokenAccount: r.keyOr(args.PositionTokenAccount, args.Position+".token"),
			Authority:            authority,
			Signers:              r.signers(args.Signers, authority),
			Receiver:             r.keyOr(args.Receiver, args.Authority),
		}
		if r.err != nil {
			return nil, r.err
		}
		return a.eng.ClosePosition(ctx, p)

	case OpWithdrawAndClose:
		var args withdrawAndCloseArgs
		if err := decodeArgs(ins, &args); err != nil {
			return nil, err
		}
		accounts, err := a.positionAccounts(r, args.positionArgs)
		if err != nil {
			return nil, err
		}
		p := engine.WithdrawAndCloseParams{
			PositionAccounts: accounts,
			TokenMinA:        uint64(args.TokenMinA),
			TokenMinB:        uint64(args.TokenMinB),
			Receiver:         r.keyOr(args.Receiver, args.Authority),
		}
		for _, dst := range args.Rewards {
			if dst.Index < 0 || dst.Index >= clmath.NumRewards {
				return nil, fmt.Errorf("reward index %d out of range", dst.Index)
			}
			p.RewardAccounts[dst.Index] = r.key(dst.OwnerAccount)
		}
		if r.err != nil {
			return nil, r.err
		}
		return a.eng.WithdrawAndClose(ctx, p)

	case OpSwap:
		var args swapArgs
		if err := decodeArgs(ins, &args); err != nil {
			return nil, err
		}
		p := engine.SwapParams{
			Pool:                   r.keyOr(args.Pool, "pool"),
			Authority:              r.key(args.Authority),
			OwnerAccountA:          r.key(args.OwnerAccountA),
			OwnerAccountB:          r.key(args.OwnerAccountB),
			Amount:                 uint64(args.Amount),
			OtherAmountThreshold:   uint64(args.OtherAmountThreshold),
			SqrtPriceLimit:         args.SqrtPriceLimit.Uint128,
			AmountSpecifiedIsInput: args.AmountSpecifiedIsInput,
			AToB:                   args.AToB,
		}
		if r.err != nil {
			return nil, r.err
		}
		if err := a.swapAccounts(&p, args.TickArrays); err != nil {
			return nil, err
		}
		return a.eng.Swap(ctx, p)
	}

	return nil, fmt.Errorf("unknown op %q", ins.Op)
}

// bindPool names the derived pool and its vaults.
func (a *applier) bindPool(name string, p engine.InitializePoolParams) error {
	if name == "" {
		name = "pool"
	}
	key, err := ledger.WhirlpoolAddress(p.Config, p.MintA, p.MintB, p.TickSpacing)
	if err != nil {
		return err
	}
	vaultA, err := ledger.VaultAddress(key, p.MintA)
	if err != nil {
		return err
	}
	vaultB, err := ledger.VaultAddress(key, p.MintB)
	if err != nil {
		return err
	}
	for suffix, k := range map[string]solana.PublicKey{"": key, ".vault_a": vaultA, ".vault_b": vaultB} {
		if err := a.keys.Bind(name+suffix, k); err != nil {
			return err
		}
	}
	return nil
}

// bindPosition names the derived position and the owner's position token
// account.
func (a *applier) bindPosition(name string, p engine.OpenPositionParams) error {
	key, err := ledger.PositionAddress(p.PositionMint)
	if err != nil {
		return err
	}
	tokenAccount, err := ledger.PositionTokenAddress(p.Owner, p.PositionMint)
	if err != nil {
		return err
	}
	if err := a.keys.Bind(name, key); err != nil {
		return err
	}
	return a.keys.Bind(name+".token", tokenAccount)
}

// positionRefs are the accounts derivable from a stored position.
type positionRefs struct {
	pool         solana.PublicKey
	position     solana.PublicKey
	lowerArray   solana.PublicKey
	upperArray   solana.PublicKey
	vaultA       solana.PublicKey
	vaultB       solana.PublicKey
	rewardVaults [clmath.NumRewards]solana.PublicKey
}

func (a *applier) lookupPosition(key solana.PublicKey, r *resolver) (positionRefs, error) {
	if r.err != nil {
		return positionRefs{}, r.err
	}
	var refs positionRefs
	err := a.eng.Store().View(func(tx *ledger.Tx) error {
		pos, err := tx.Position(key)
		if err != nil {
			return err
		}
		pool, err := tx.Pool(pos.Whirlpool)
		if err != nil {
			return err
		}
		lower, err := ledger.TickArrayAddress(pos.Whirlpool, tick.StartIndex(pos.TickLowerIndex, pool.TickSpacing))
		if err != nil {
			return err
		}
		upper, err := ledger.TickArrayAddress(pos.Whirlpool, tick.StartIndex(pos.TickUpperIndex, pool.TickSpacing))
		if err != nil {
			return err
		}
		refs = positionRefs{
			pool:       pos.Whirlpool,
			position:   key,
			lowerArray: lower,
			upperArray: upper,
			vaultA:     pool.TokenVaultA,
			vaultB:     pool.TokenVaultB,
		}
		for i, info := range pool.RewardInfos {
			refs.rewardVaults[i] = info.Vault
		}
		return nil
	})
	return refs, err
}

func (a *applier) positionAccounts(r *resolver, args positionArgs) (engine.PositionAccounts, error) {
	refs, err := a.lookupPosition(r.key(args.Position), r)
	if err != nil {
		return engine.PositionAccounts{}, err
	}
	authority := r.key(args.Authority)
	accounts := engine.PositionAccounts{
		Pool:                 refs.pool,
		Position:             refs.position,
		PositionTokenAccount: r.keyOr(args.PositionTokenAccount, args.Position+".token"),
		Authority:            authority,
		Signers:              r.signers(args.Signers, authority),
		OwnerAccountA:        r.key(args.OwnerAccountA),
		OwnerAccountB:        r.key(args.OwnerAccountB),
		VaultA:               refs.vaultA,
		VaultB:               refs.vaultB,
		TickArrayLower:       refs.lowerArray,
		TickArrayUpper:       refs.upperArray,
	}
	if r.err != nil {
		return engine.PositionAccounts{}, r.err
	}
	return accounts, nil
}

// swapAccounts fills the vaults and, when the script gives no starts, the
// initialized arrays following the current tick in the swap direction.
func (a *applier) swapAccounts(p *engine.SwapParams, starts []int32) error {
	return a.eng.Store().View(func(tx *ledger.Tx) error {
		pool, err := tx.Pool(p.Pool)
		if err != nil {
			return err
		}
		p.VaultA, p.VaultB = pool.TokenVaultA, pool.TokenVaultB

		if len(starts) > 0 {
			for _, start := range starts {
				key, err := ledger.TickArrayAddress(p.Pool, start)
				if err != nil {
					return err
				}
				p.TickArrays = append(p.TickArrays, key)
			}
			return nil
		}

		search := pool.TickCurrentIndex
		if !p.AToB {
			search++
		}
		start := tick.StartIndex(search, pool.TickSpacing)
		span := tick.TicksInArray(pool.TickSpacing)
		if p.AToB {
			span = -span
		}
		for i := 0; i < tick.MaxSequenceLen; i++ {
			key, err := ledger.TickArrayAddress(p.Pool, start)
			if err != nil {
				return err
			}
			if !tx.HasTickArray(key) {
				break
			}
			p.TickArrays = append(p.TickArrays, key)
			start += span
		}
		return nil
	})
}
