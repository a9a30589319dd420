package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/quote"
)

type quoteOutput struct {
	Mode      string `json:"mode"`
	Liquidity string `json:"liquidity"`
	TokenEstA uint64 `json:"token_est_a"`
	TokenEstB uint64 `json:"token_est_b"`
	TokenMaxA uint64 `json:"token_max_a,omitempty"`
	TokenMaxB uint64 `json:"token_max_b,omitempty"`
	TokenMinA uint64 `json:"token_min_a,omitempty"`
	TokenMinB uint64 `json:"token_min_b,omitempty"`
}

func runQuote(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	current, _ := flags.GetInt32("tick")
	sqrtRaw, _ := flags.GetString("sqrt-price")
	spacing, _ := flags.GetUint16("tick-spacing")
	lower, _ := flags.GetInt32("lower")
	upper, _ := flags.GetInt32("upper")
	liquidityRaw, _ := flags.GetString("liquidity")
	tokenA, _ := flags.GetUint64("token-a")
	tokenB, _ := flags.GetUint64("token-b")
	slippage, _ := flags.GetUint16("slippage-bps")
	decrease, _ := flags.GetBool("decrease")

	pool := &model.Pool{TickSpacing: spacing, TickCurrentIndex: current}
	if sqrtRaw != "" {
		sqrt, err := uint128.FromString(sqrtRaw)
		if err != nil {
			return fmt.Errorf("parse sqrt-price: %w", err)
		}
		tickIndex, err := clmath.SqrtPriceToTickIndex(sqrt)
		if err != nil {
			return err
		}
		pool.SqrtPrice, pool.TickCurrentIndex = sqrt, tickIndex
	} else {
		sqrt, err := clmath.TickIndexToSqrtPrice(current)
		if err != nil {
			return err
		}
		pool.SqrtPrice = sqrt
	}

	var liquidity uint128.Uint128
	if liquidityRaw != "" {
		var err error
		if liquidity, err = uint128.FromString(liquidityRaw); err != nil {
			return fmt.Errorf("parse liquidity: %w", err)
		}
	}

	none := clmath.TransferFee{}
	var out quoteOutput
	switch {
	case decrease:
		q, err := quote.DecreaseByLiquidity(pool, lower, upper, liquidity, slippage, none, none)
		if err != nil {
			return err
		}
		out = quoteOutput{Mode: "decrease", Liquidity: q.Liquidity.String(), TokenEstA: q.TokenEstA, TokenEstB: q.TokenEstB, TokenMinA: q.TokenMinA, TokenMinB: q.TokenMinB}
	default:
		var q quote.IncreaseQuote
		var err error
		switch {
		case liquidityRaw != "":
			q, err = quote.IncreaseByLiquidity(pool, lower, upper, liquidity, slippage, none, none)
		case tokenA > 0:
			q, err = quote.IncreaseByTokenA(pool, lower, upper, tokenA, slippage, none, none)
		case tokenB > 0:
			q, err = quote.IncreaseByTokenB(pool, lower, upper, tokenB, slippage, none, none)
		default:
			return fmt.Errorf("one of --liquidity, --token-a or --token-b is required")
		}
		if err != nil {
			return err
		}
		out = quoteOutput{Mode: "increase", Liquidity: q.Liquidity.String(), TokenEstA: q.TokenEstA, TokenEstB: q.TokenEstB, TokenMaxA: q.TokenMaxA, TokenMaxB: q.TokenMaxB}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
