package reward

import (
	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/errcode"
	"liquidityEngine/internal/model"
)

// NextRewardInfos returns the pool's reward infos advanced to now.
// Growth is emissions * dt / liquidity, added modulo 2^128. A step whose
// growth does not fit in 128 bits contributes nothing.
func NextRewardInfos(pool *model.Pool, now uint64) ([clmath.NumRewards]model.RewardInfo, error) {
	infos := pool.RewardInfos
	last := pool.RewardLastUpdatedTimestamp
	if now < last {
		return infos, errcode.Wrap(errcode.InvalidTimestamp, "now %d before last update %d", now, last)
	}
	if pool.Liquidity.IsZero() || now == last {
		return infos, nil
	}

	dt := uint128.From64(now - last)
	for i := range infos {
		r := &infos[i]
		if !r.Initialized() {
			continue
		}
		growth, err := clmath.MulDiv(dt, r.EmissionsPerSecondX64, pool.Liquidity)
		if err != nil {
			continue
		}
		r.GrowthGlobalX64 = r.GrowthGlobalX64.AddWrap(growth)
	}
	return infos, nil
}

// Sync applies NextRewardInfos to pool and stamps now.
func Sync(pool *model.Pool, now uint64) error {
	infos, err := NextRewardInfos(pool, now)
	if err != nil {
		return err
	}
	pool.RewardInfos = infos
	pool.RewardLastUpdatedTimestamp = now
	return nil
}

// DailyEmissions returns the token amount a stream emits over one day,
// rounded up.
func DailyEmissions(emissionsX64 uint128.Uint128) (uint64, error) {
	if emissionsX64.IsZero() {
		return 0, nil
	}
	day := uint128.From64(secondsPerDay)
	total, err := clmath.MulDivRoundUp(emissionsX64, day, clmath.Q64)
	if err != nil {
		return 0, err
	}
	if total.Hi != 0 {
		return 0, errcode.Wrap(errcode.NumberCastError, "daily emissions %s", total)
	}
	return total.Lo, nil
}

const secondsPerDay = 86400
