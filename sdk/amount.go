package sdk

import (
	"fmt"

	"github.com/holiman/uint256"
)

const (
	ReasonOverflow  = "arithmetic overflow"
	ReasonUnderflow = "arithmetic underflow"
	ReasonDivByZero = "division or modulo by zero"
)

// NewAmount wraps a small literal.
func NewAmount(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

// ParseAmount reads a base-10 token amount. Hex and signs are rejected.
func ParseAmount(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

// MustAmount is ParseAmount for fixtures and constants.
func MustAmount(s string) *uint256.Int {
	v, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Pow10 returns 10^n.
func Pow10(n uint8) *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(n)))
}

// AddAmounts is a checked a+b.
func AddAmounts(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, Revert(ReasonOverflow)
	}
	return z, nil
}

// SubAmounts is a checked a-b.
func SubAmounts(a, b *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, Revert(ReasonUnderflow)
	}
	return z, nil
}

// MulAmounts is a checked a*b.
func MulAmounts(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, Revert(ReasonOverflow)
	}
	return z, nil
}

// MulDiv computes a*b/d with a 512 bit intermediate, rounding down.
// It only fails when the quotient itself does not fit in 256 bits.
func MulDiv(a, b, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, Revert(ReasonDivByZero)
	}
	z, overflow := new(uint256.Int).MulDivOverflow(a, b, d)
	if overflow {
		return nil, Revert(ReasonOverflow)
	}
	return z, nil
}
