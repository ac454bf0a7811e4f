package dao

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type Address = common.Address

// Params is the createDAO tuple in its on-wire order.
type Params struct {
	Name               string
	Symbol             string
	TotalRaiseAmount   *uint256.Int
	MinDepositPerUser  *uint256.Int
	MaxDepositPerUser  *uint256.Int
	OwnerFeePerDeposit uint64
	DepositDays        uint64
	FeeInUSDC          bool
	Quorum             uint64
	Threshold          uint64
	OwnerAddress       Address
}

// Config is the persisted configuration of one DAO instance.
// Amounts are in stablecoin units, percentages are whole numbers.
type Config struct {
	Name               string
	Symbol             string
	TotalRaiseAmount   uint256.Int
	MinDepositPerUser  uint256.Int
	MaxDepositPerUser  uint256.Int
	OwnerFeePerDeposit uint64
	FeeInUSDC          bool
	Quorum             uint64
	Threshold          uint64
	OwnerAddress       Address
	// USDC is the accepted stablecoin captured when the instance was created.
	USDC           Address
	Factory        Address
	Emitter        Address
	Implementation Address
	CreatedAt      int64
}

// Window is the deposit window state. Deadline is unix seconds and purely informational.
type Window struct {
	Open     bool
	Deadline int64
}

// Combinator joins the running gate result with the next entry.
type Combinator uint8

const (
	CombinatorAND Combinator = iota
	CombinatorOR
)

func (c Combinator) String() string {
	switch c {
	case CombinatorAND:
		return "AND"
	case CombinatorOR:
		return "OR"
	default:
		return "unknown"
	}
}

// ParseCombinator accepts exactly "AND" or "OR".
func ParseCombinator(s string) (Combinator, bool) {
	switch s {
	case "AND":
		return CombinatorAND, true
	case "OR":
		return CombinatorOR, true
	default:
		return 0, false
	}
}

// GateEntry is one token ownership predicate.
type GateEntry struct {
	Token      Address
	MinBalance uint256.Int
	IsNFT      bool
}

// Gate holds n entries and n-1 combinators. An empty gate lets everyone in.
type Gate struct {
	Entries []GateEntry
	Ops     []Combinator
}
