// Package bancor implements the bonding-curve conversion formula: given a
// token supply, a reserve balance and a constant reserve ratio (in ppm), it
// computes purchase and sale returns in pure 256-bit integer arithmetic.
// Every computation is deterministic; the constants in this package are a
// frozen numerical contract and results are bit-identical to the reference
// implementation.
package bancor

import "github.com/holiman/uint256"

// CalculatePurchaseReturn computes the amount of tokens minted for depositing
// depositAmount of the reserve asset:
//
//	Return = supply * ((1 + depositAmount / reserveBalance) ^ (reserveRatio / 1000000) - 1)
//
// supply and reserveBalance must be positive and reserveRatio must be in
// (0, MaxCRR]. A reserve ratio of MaxCRR (100%) prices linearly.
func CalculatePurchaseReturn(supply, reserveBalance *uint256.Int, reserveRatio uint32, depositAmount *uint256.Int) (*uint256.Int, error) {
	if supply.IsZero() || reserveBalance.IsZero() || reserveRatio == 0 || reserveRatio > MaxCRR {
		return nil, ErrInvalidArgument
	}

	if depositAmount.IsZero() {
		return new(uint256.Int), nil
	}

	if reserveRatio == MaxCRR {
		temp, err := safeMul(supply, depositAmount)
		if err != nil {
			return nil, err
		}
		return temp.Div(temp, reserveBalance), nil
	}

	baseN, err := safeAdd(depositAmount, reserveBalance)
	if err != nil {
		return nil, err
	}
	result, precision, err := Power(baseN, reserveBalance, reserveRatio, MaxCRR)
	if err != nil {
		return nil, err
	}
	temp, err := safeMul(supply, result)
	if err != nil {
		return nil, err
	}
	temp.Rsh(temp, precision)
	// result >= 2^precision, so temp >= supply and the difference is exact.
	return temp.Sub(temp, supply), nil
}

// CalculateSaleReturn computes the amount of the reserve asset released for
// selling sellAmount tokens back to the curve:
//
//	Return = reserveBalance * (1 - (1 - sellAmount / supply) ^ (1000000 / reserveRatio))
//
// Preconditions match CalculatePurchaseReturn, plus sellAmount <= supply.
// Selling the entire supply drains the entire reserve.
func CalculateSaleReturn(supply, reserveBalance *uint256.Int, reserveRatio uint32, sellAmount *uint256.Int) (*uint256.Int, error) {
	if supply.IsZero() || reserveBalance.IsZero() || reserveRatio == 0 || reserveRatio > MaxCRR || sellAmount.Gt(supply) {
		return nil, ErrInvalidArgument
	}

	if sellAmount.IsZero() {
		return new(uint256.Int), nil
	}

	if sellAmount.Eq(supply) {
		return new(uint256.Int).Set(reserveBalance), nil
	}

	if reserveRatio == MaxCRR {
		temp, err := safeMul(reserveBalance, sellAmount)
		if err != nil {
			return nil, err
		}
		return temp.Div(temp, supply), nil
	}

	baseD, err := safeSub(supply, sellAmount)
	if err != nil {
		return nil, err
	}
	result, precision, err := Power(supply, baseD, MaxCRR, reserveRatio)
	if err != nil {
		return nil, err
	}
	temp1, err := safeMul(reserveBalance, result)
	if err != nil {
		return nil, err
	}
	// temp1 >= temp2 because result >= 2^precision; had the shift overflowed,
	// the multiplication above would have failed first.
	temp2 := new(uint256.Int).Lsh(reserveBalance, precision)
	temp1.Sub(temp1, temp2)
	return temp1.Div(temp1, result), nil
}

// Power computes floor((baseN/baseD) ^ (expN/expD) * 2^precision) for an
// adaptively chosen precision, returned alongside the result.
//
// Instead of exponentiating directly it evaluates e^(ln(base) * exp). The
// exponential's accuracy and overflow headroom both shrink as its input
// grows, so the highest precision whose maxExpArray entry still covers the
// scaled logarithm is selected: maximum accuracy without leaving 256 bits.
// Callers must ensure baseN >= baseD; both conversion formulas do so by
// construction.
func Power(baseN, baseD *uint256.Int, expN, expD uint32) (*uint256.Int, uint, error) {
	lnVal, err := ln(baseN, baseD)
	if err != nil {
		return nil, 0, err
	}
	lnVal.Mul(lnVal, uint256.NewInt(uint64(expN)))
	lnVal.Div(lnVal, uint256.NewInt(uint64(expD)))

	precision, err := findPrecision(lnVal)
	if err != nil {
		return nil, 0, err
	}
	lnVal.Rsh(lnVal, MaxPrecision-precision)
	return fixedExp(lnVal, precision), precision, nil
}

// ln returns floor(ln(numerator/denominator) * 2^MaxPrecision). The numerator
// is limited to MaxNum. The caller must guarantee numerator >= denominator;
// the true result would be negative otherwise, which this routine cannot
// represent.
func ln(numerator, denominator *uint256.Int) (*uint256.Int, error) {
	if numerator.Gt(MaxNum) {
		return nil, ErrInvalidArgument
	}

	res := new(uint256.Int)
	x := new(uint256.Int).Mul(numerator, Fixed1)
	x.Div(x, denominator)

	// Integer part of log2(x), when x >= 2.
	if x.Cmp(Fixed2) >= 0 {
		count := floorLog2(new(uint256.Int).Div(x, Fixed1))
		x.Rsh(x, count) // now x < 2
		res.Lsh(uint256.NewInt(uint64(count)), MaxPrecision)
	}

	// Fractional part of log2(x), one bit per squaring, most significant
	// bit first.
	if x.Gt(Fixed1) {
		bit := new(uint256.Int)
		for i := MaxPrecision; i > 0; i-- {
			x.Div(x.Mul(x, x), Fixed1) // now 1 < x < 4
			if x.Cmp(Fixed2) >= 0 {
				x.Rsh(x, 1) // now 1 < x < 2
				res.Add(res, bit.Lsh(one, uint(i-1)))
			}
		}
	}

	// Rescale base-2 to natural log.
	res.Mul(res, ln2Mantissa)
	return res.Rsh(res, ln2Exponent), nil
}

// floorLog2 returns the largest integer smaller than or equal to the binary
// logarithm of n. n must be positive.
func floorLog2(n *uint256.Int) uint {
	x := new(uint256.Int).Set(n)
	res := uint(0)

	if x.LtUint64(256) {
		// At most 8 iterations.
		for x.GtUint64(1) {
			x.Rsh(x, 1)
			res++
		}
		return res
	}

	// Exactly 8 iterations.
	threshold := new(uint256.Int)
	for s := uint(128); s > 0; s >>= 1 {
		if x.Cmp(threshold.Lsh(one, s)) >= 0 {
			x.Rsh(x, s)
			res |= s
		}
	}
	return res
}

// findPrecision returns the highest precision p such that maxExpArray[p]
// covers x. The table is sorted in descending order, so this is equivalently
// the position of the smallest entry still >= x.
func findPrecision(x *uint256.Int) (uint, error) {
	lo, hi := uint(MinPrecision), uint(MaxPrecision)

	for lo+1 < hi {
		mid := (lo + hi) / 2
		if maxExpArray[mid-MinPrecision].Cmp(x) >= 0 {
			lo = mid
		} else {
			hi = mid
		}
	}

	if maxExpArray[hi-MinPrecision].Cmp(x) >= 0 {
		return hi, nil
	}
	if maxExpArray[lo-MinPrecision].Cmp(x) >= 0 {
		return lo, nil
	}
	return 0, ErrPrecisionRangeExceeded
}

// fixedExp approximates e^x via Maclaurin summation, where x carries the
// given number of fractional bits, and returns the result at the same scale.
// The degree-0 and degree-1 terms are added directly at the end; the scaled
// coefficient table covers degrees 2 through 33. maxExpArray bounds x so that
// no intermediate value here exceeds 256 bits, which is why this arithmetic
// is unchecked.
func fixedExp(x *uint256.Int, precision uint) *uint256.Int {
	xi := new(uint256.Int).Set(x)
	res := new(uint256.Int)
	term := new(uint256.Int)

	for _, c := range fixedExpCoeffs {
		xi.Rsh(xi.Mul(xi, x), precision)
		res.Add(res, term.Mul(xi, c))
	}

	res.Div(res, fixedExpDenominator)
	res.Add(res, x)
	return res.Add(res, term.Lsh(one, precision))
}

func safeAdd(x, y *uint256.Int) (*uint256.Int, error) {
	res, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return res, nil
}

func safeSub(x, y *uint256.Int) (*uint256.Int, error) {
	res, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, ErrArithmeticUnderflow
	}
	return res, nil
}

func safeMul(x, y *uint256.Int) (*uint256.Int, error) {
	res, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return res, nil
}
