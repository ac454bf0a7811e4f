package contract

import (
	"context"

	"github.com/holiman/uint256"

	"dao_factory/sdk"
)

// getRaised is the cumulative stablecoin accepted through deposits.
func getRaised(st sdk.State) *uint256.Int {
	return sdk.GetAmount(st, singleKey(kRaised))
}

func setRaised(st sdk.State, amount *uint256.Int) {
	sdk.SetAmount(st, singleKey(kRaised), amount)
}

// addRaised advances the raise counter and returns false when the cap would be crossed.
func addRaised(st sdk.State, amount, limit *uint256.Int) (bool, error) {
	next, err := sdk.AddAmounts(getRaised(st), amount)
	if err != nil {
		return false, err
	}
	if next.Gt(limit) {
		return false, nil
	}
	setRaised(st, next)
	return true, nil
}

// treasuryBalance is what the DAO itself holds of token.
func treasuryBalance(ctx context.Context, self, token sdk.Address) *uint256.Int {
	return sdk.ERC20At(token).BalanceOf(ctx, self)
}

// payFromTreasury sends amount of token out of the DAO's own holdings.
func payFromTreasury(ctx context.Context, self, token, to sdk.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	return sdk.ERC20At(token).Transfer(asContract(ctx, self), to, amount)
}
