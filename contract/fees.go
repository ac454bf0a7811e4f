package contract

import (
	"context"

	"github.com/holiman/uint256"

	"dao_factory/sdk"
)

// depositSplit is how one accepted deposit is routed.
type depositSplit struct {
	// Fee is the owner fee in stablecoin units, whichever way it is paid.
	Fee *uint256.Int
	// DepositorGT is minted to the depositor.
	DepositorGT *uint256.Int
	// OwnerGT is minted to the owner when fees are taken in governance tokens.
	OwnerGT *uint256.Int
	// OwnerStable is paid to the owner in stablecoin when fees are taken in USDC.
	OwnerStable *uint256.Int
}

// splitDeposit applies fee = amount*feePercent/100, rounding down.
//
//	feeInUSDC:  owner gets fee in stablecoin, depositor gets (amount-fee)*scale GT
//	otherwise:  depositor gets amount*scale GT, owner gets fee*scale GT
func splitDeposit(amount *uint256.Int, feePercent uint64, feeInUSDC bool, scale *uint256.Int) (depositSplit, error) {
	fee, err := sdk.MulDiv(amount, uint256.NewInt(feePercent), uint256.NewInt(100))
	if err != nil {
		return depositSplit{}, err
	}
	if feeInUSDC {
		net, err := sdk.SubAmounts(amount, fee)
		if err != nil {
			return depositSplit{}, err
		}
		gt, err := sdk.MulAmounts(net, scale)
		if err != nil {
			return depositSplit{}, err
		}
		return depositSplit{Fee: fee, DepositorGT: gt, OwnerGT: new(uint256.Int), OwnerStable: fee}, nil
	}
	gt, err := sdk.MulAmounts(amount, scale)
	if err != nil {
		return depositSplit{}, err
	}
	ownerGT, err := sdk.MulAmounts(fee, scale)
	if err != nil {
		return depositSplit{}, err
	}
	return depositSplit{Fee: fee, DepositorGT: gt, OwnerGT: ownerGT, OwnerStable: new(uint256.Int)}, nil
}

// gtScale is 10^(18 - stablecoin decimals), 10^12 for a 6 decimal stablecoin.
func gtScale(ctx context.Context, stablecoin sdk.Address) (*uint256.Int, error) {
	decimals := sdk.ERC20At(stablecoin).Decimals(ctx)
	if decimals > GTDecimals {
		return nil, sdk.Revert(ReasonBadDecimals)
	}
	return sdk.Pow10(GTDecimals - decimals), nil
}

// UpdateOwnerFee sets the per deposit fee percentage. Admin only, must stay below 100.
func (d *DAO) UpdateOwnerFee(ctx context.Context, fee uint64) error {
	release, err := guard(ctx, d.addr)
	if err != nil {
		return err
	}
	defer release()
	st := d.state(ctx)
	if err := requireAdmin(ctx, st); err != nil {
		return err
	}
	if fee >= MaxPercent {
		return sdk.Revert(ReasonOwnerFeeUpdate)
	}
	cfg, err := loadConfig(st)
	if err != nil {
		return err
	}
	cfg.OwnerFeePerDeposit = fee
	saveConfig(st, cfg)
	return emitOwnerFeeEvent(ctx, d.addr, cfg, fee)
}
