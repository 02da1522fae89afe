package tip

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// ToBaseUnits converts an asset amount to its integer base-unit value (wei for 18
// decimals), truncating toward zero. The float is rendered in its shortest decimal form
// and scaled as an exact rational, so 0.2 becomes exactly 2e17 rather than the binary
// approximation of 0.2 times 1e18.
func ToBaseUnits(amount float64, decimals uint8) (*big.Int, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(amount, 'f', -1, 64))
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))

	units := new(big.Int).Quo(r.Num(), r.Denom())
	if units.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %v is below the smallest unit", ErrInvalidAmount, amount)
	}
	return units, nil
}
