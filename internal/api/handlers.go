package api

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/ledger"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/quote"
	"liquidityEngine/internal/tick"
)

// PositionResponse is a position with what it would collect now.
type PositionResponse struct {
	model.PositionView
	FeeQuote    FeeQuoteView `json:"fee_quote"`
	RewardQuote []uint64     `json:"reward_quote"`
}

// FeeQuoteView is quote.FeesQuote after transfer fees.
type FeeQuoteView struct {
	FeeOwedA uint64 `json:"fee_owed_a"`
	FeeOwedB uint64 `json:"fee_owed_b"`
}

// TickView is one initialized tick of an array.
type TickView struct {
	Index                int32    `json:"index"`
	LiquidityNet         string   `json:"liquidity_net"`
	LiquidityGross       string   `json:"liquidity_gross"`
	FeeGrowthOutsideA    string   `json:"fee_growth_outside_a"`
	FeeGrowthOutsideB    string   `json:"fee_growth_outside_b"`
	RewardGrowthsOutside []string `json:"reward_growths_outside"`
}

// TickArrayView is a tick array with its initialized ticks.
type TickArrayView struct {
	Address    string     `json:"address"`
	Whirlpool  string     `json:"whirlpool"`
	Kind       string     `json:"kind"`
	StartIndex int32      `json:"start_tick_index"`
	DataLen    int        `json:"data_len"`
	Ticks      []TickView `json:"ticks"`
}

// IncreaseQuoteView is quote.IncreaseQuote with the liquidity as a string.
type IncreaseQuoteView struct {
	Liquidity string `json:"liquidity"`
	TokenEstA uint64 `json:"token_est_a"`
	TokenEstB uint64 `json:"token_est_b"`
	TokenMaxA uint64 `json:"token_max_a"`
	TokenMaxB uint64 `json:"token_max_b"`
}

// ListPools handles GET /pools
func (s *Server) ListPools(w http.ResponseWriter, r *http.Request) {
	views := []model.PoolView{}
	err := s.store.View(func(tx *ledger.Tx) error {
		for _, key := range tx.PoolKeys() {
			pool, err := tx.Pool(key)
			if err != nil {
				return err
			}
			views = append(views, model.NewPoolView(key, pool))
		}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Address < views[j].Address })
	writeJSON(w, http.StatusOK, views)
}

// GetPool handles GET /pools/{pool}
func (s *Server) GetPool(w http.ResponseWriter, r *http.Request) {
	key, err := keyParam(r, "pool")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var view model.PoolView
	err = s.store.View(func(tx *ledger.Tx) error {
		pool, err := tx.Pool(key)
		if err != nil {
			return err
		}
		view = model.NewPoolView(key, pool)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetTickArray handles GET /pools/{pool}/tick-arrays/{start}
func (s *Server) GetTickArray(w http.ResponseWriter, r *http.Request) {
	poolKey, err := keyParam(r, "pool")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	start, err := strconv.ParseInt(chi.URLParam(r, "start"), 10, 32)
	if err != nil {
		s.writeError(w, r, &badRequest{msg: "invalid start index: " + chi.URLParam(r, "start")})
		return
	}

	var view TickArrayView
	err = s.store.View(func(tx *ledger.Tx) error {
		pool, err := tx.Pool(poolKey)
		if err != nil {
			return err
		}
		addr, err := ledger.TickArrayAddress(poolKey, int32(start))
		if err != nil {
			return err
		}
		arr, err := tx.TickArray(addr)
		if err != nil {
			return err
		}
		view = newTickArrayView(addr.String(), arr, pool.TickSpacing)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func newTickArrayView(address string, arr tick.Array, spacing uint16) TickArrayView {
	view := TickArrayView{
		Address:    address,
		Whirlpool:  arr.Pool().String(),
		Kind:       arr.Kind().String(),
		StartIndex: arr.StartIndex(),
		DataLen:    arr.DataLen(),
		Ticks:      []TickView{},
	}
	for i := 0; i < clmath.TickArraySize; i++ {
		index := arr.StartIndex() + int32(i)*int32(spacing)
		t, err := arr.Get(index, spacing)
		if err != nil || !t.Initialized {
			continue
		}
		tv := TickView{
			Index:             index,
			LiquidityNet:      t.LiquidityNet.String(),
			LiquidityGross:    t.LiquidityGross.String(),
			FeeGrowthOutsideA: t.FeeGrowthOutsideA.String(),
			FeeGrowthOutsideB: t.FeeGrowthOutsideB.String(),
		}
		for _, g := range t.RewardGrowthsOutside {
			tv.RewardGrowthsOutside = append(tv.RewardGrowthsOutside, g.String())
		}
		view.Ticks = append(view.Ticks, tv)
	}
	return view
}

// GetPosition handles GET /positions/{position}
func (s *Server) GetPosition(w http.ResponseWriter, r *http.Request) {
	key, err := keyParam(r, "position")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var resp PositionResponse
	err = s.store.View(func(tx *ledger.Tx) error {
		var err error
		resp, err = PositionDetails(tx, key, s.clock.Now())
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// PositionDetails reads a position and quotes the fees and rewards it would
// collect at now.
func PositionDetails(tx *ledger.Tx, key solana.PublicKey, now uint64) (PositionResponse, error) {
	pos, err := tx.Position(key)
	if err != nil {
		return PositionResponse{}, err
	}
	pool, err := tx.Pool(pos.Whirlpool)
	if err != nil {
		return PositionResponse{}, err
	}
	lower, err := boundTick(tx, pos.Whirlpool, pos.TickLowerIndex, pool.TickSpacing)
	if err != nil {
		return PositionResponse{}, err
	}
	upper, err := boundTick(tx, pos.Whirlpool, pos.TickUpperIndex, pool.TickSpacing)
	if err != nil {
		return PositionResponse{}, err
	}

	fees, err := quote.CollectFeesQuote(pool, pos, lower, upper, mintFee(tx, pool.TokenMintA), mintFee(tx, pool.TokenMintB))
	if err != nil {
		return PositionResponse{}, err
	}
	var rewardFees [clmath.NumRewards]clmath.TransferFee
	for i, info := range pool.RewardInfos {
		if info.Initialized() {
			rewardFees[i] = mintFee(tx, info.Mint)
		}
	}
	rewards, err := quote.CollectRewardsQuote(pool, pos, lower, upper, now, rewardFees)
	if err != nil {
		return PositionResponse{}, err
	}

	return PositionResponse{
		PositionView: model.NewPositionView(key, pos),
		FeeQuote:     FeeQuoteView{FeeOwedA: fees.FeeOwedA, FeeOwedB: fees.FeeOwedB},
		RewardQuote:  rewards.Rewards[:],
	}, nil
}

// QuoteIncrease handles GET /quote/increase?pool=&lower=&upper=&liquidity=&slippage_bps=
func (s *Server) QuoteIncrease(w http.ResponseWriter, r *http.Request) {
	key, err := keyParam(r, "pool")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	lower, errLower := strconv.ParseInt(q.Get("lower"), 10, 32)
	upper, errUpper := strconv.ParseInt(q.Get("upper"), 10, 32)
	if errLower != nil || errUpper != nil {
		s.writeError(w, r, &badRequest{msg: "lower and upper must be tick indexes"})
		return
	}
	liquidity, err := uint128.FromString(q.Get("liquidity"))
	if err != nil {
		s.writeError(w, r, &badRequest{msg: "invalid liquidity: " + q.Get("liquidity")})
		return
	}
	var slippage uint64
	if raw := q.Get("slippage_bps"); raw != "" {
		slippage, err = strconv.ParseUint(raw, 10, 16)
		if err != nil {
			s.writeError(w, r, &badRequest{msg: "invalid slippage_bps: " + raw})
			return
		}
	}

	var view IncreaseQuoteView
	err = s.store.View(func(tx *ledger.Tx) error {
		pool, err := tx.Pool(key)
		if err != nil {
			return err
		}
		res, err := quote.IncreaseByLiquidity(pool, int32(lower), int32(upper), liquidity, uint16(slippage),
			mintFee(tx, pool.TokenMintA), mintFee(tx, pool.TokenMintB))
		if err != nil {
			return err
		}
		view = IncreaseQuoteView{
			Liquidity: res.Liquidity.String(),
			TokenEstA: res.TokenEstA,
			TokenEstB: res.TokenEstB,
			TokenMaxA: res.TokenMaxA,
			TokenMaxB: res.TokenMaxB,
		}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// boundTick reads a position bound from its tick array.
func boundTick(tx *ledger.Tx, pool solana.PublicKey, index int32, spacing uint16) (tick.Tick, error) {
	addr, err := ledger.TickArrayAddress(pool, tick.StartIndex(index, spacing))
	if err != nil {
		return tick.Tick{}, err
	}
	arr, err := tx.TickArray(addr)
	if err != nil {
		return tick.Tick{}, err
	}
	return arr.Get(index, spacing)
}

// mintFee returns the transfer fee of mint, or none when the mint is not in
// the ledger (RPC snapshots omit reward mints).
func mintFee(tx *ledger.Tx, mint solana.PublicKey) clmath.TransferFee {
	m, err := tx.Mint(mint)
	if err != nil {
		return clmath.TransferFee{}
	}
	return m.Fee()
}
