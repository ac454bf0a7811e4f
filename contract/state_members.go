package contract

import (
	"github.com/holiman/uint256"

	"dao_factory/sdk"
)

// Governance token ledger. Balances only grow through mintGT, there is no transfer.

func balanceOf(st sdk.State, holder sdk.Address) *uint256.Int {
	return sdk.GetAmount(st, balanceKey(holder))
}

func totalSupply(st sdk.State) *uint256.Int {
	return sdk.GetAmount(st, singleKey(kSupply))
}

// mintGT credits amount to holder and indexes the holder on their first non zero mint.
func mintGT(st sdk.State, holder sdk.Address, amount *uint256.Int) error {
	if sdk.IsZero(holder) {
		return sdk.Revert(ReasonMintToZero)
	}
	if amount.IsZero() {
		return nil
	}
	supply, err := sdk.AddAmounts(totalSupply(st), amount)
	if err != nil {
		return err
	}
	prev := balanceOf(st, holder)
	bal, err := sdk.AddAmounts(prev, amount)
	if err != nil {
		return err
	}
	if prev.IsZero() {
		idx := incCount(st, kHolderCount)
		st.Set(holderKey(idx), string(holder.Bytes()))
	}
	sdk.SetAmount(st, singleKey(kSupply), supply)
	sdk.SetAmount(st, balanceKey(holder), bal)
	return nil
}

// holderCount is the number of distinct addresses that ever received governance tokens.
func holderCount(st sdk.State) uint64 {
	return getCount(st, kHolderCount)
}

// holderAt returns the idx-th holder in first mint order.
func holderAt(st sdk.State, idx uint64) (sdk.Address, bool) {
	ptr := st.Get(holderKey(idx))
	if ptr == nil {
		return sdk.ZeroAddress, false
	}
	return sdk.BytesToAddress([]byte(*ptr)), true
}

// loadHolders walks the whole index. Only the airdrop needs it.
func loadHolders(st sdk.State) []sdk.Address {
	n := holderCount(st)
	out := make([]sdk.Address, 0, n)
	for i := uint64(0); i < n; i++ {
		if a, ok := holderAt(st, i); ok {
			out = append(out, a)
		}
	}
	return out
}
