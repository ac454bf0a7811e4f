package sdk

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Address is a plain 20 byte account or contract address.
type Address = common.Address

// ZeroAddress is the "null" address. Contracts reject it wherever a real party is required.
var ZeroAddress = Address{}

// IsZero reports whether a is the null address.
func IsZero(a Address) bool {
	return a == ZeroAddress
}

// AddressFromHex parses a 0x prefixed hex address and rejects anything that is not 20 bytes.
// Example payload: sdk.AddressFromHex("0x07865c6E87B9F70255377e024ace6630C1Eaa37F")
func AddressFromHex(s string) (Address, error) {
	if !common.IsHexAddress(s) {
		return ZeroAddress, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// AccountAddress derives a stable externally owned address from a label so fixtures and
// scenarios can talk about "user1" instead of raw hex.
func AccountAddress(label string) Address {
	return common.BytesToAddress(crypto.Keccak256([]byte(label))[12:])
}

// CreateAddress is the CREATE rule: keccak(rlp(deployer, nonce)).
func CreateAddress(deployer Address, nonce uint64) Address {
	return crypto.CreateAddress(deployer, nonce)
}

// AddressToString returns the checksummed hex form used in event lines.
func AddressToString(a Address) string {
	return a.Hex()
}

// BytesToAddress keeps the last 20 bytes of b.
func BytesToAddress(b []byte) Address {
	return common.BytesToAddress(b)
}
