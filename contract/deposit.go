package contract

import (
	"context"
	"math"

	"github.com/holiman/uint256"

	"dao_factory/sdk"
)

// StartDeposit opens the deposit window for days days. Admin only.
// The days check runs first, so zero days is rejected even on an open window.
func (d *DAO) StartDeposit(ctx context.Context, days uint64) error {
	release, err := guard(ctx, d.addr)
	if err != nil {
		return err
	}
	defer release()
	st := d.state(ctx)
	if err := requireAdmin(ctx, st); err != nil {
		return err
	}
	if days == 0 {
		return sdk.Revert(ReasonDaysZero)
	}
	win, err := loadWindow(st)
	if err != nil {
		return err
	}
	if win.Open {
		return sdk.Revert(ReasonDepositStarted)
	}
	cfg, err := loadConfig(st)
	if err != nil {
		return err
	}
	deadline, err := depositDeadline(nowUnix(ctx), days)
	if err != nil {
		return err
	}
	win.Open = true
	win.Deadline = deadline
	saveWindow(st, win)
	return emitDepositStartedEvent(ctx, d.addr, cfg, deadline)
}

// depositDeadline is now + days*86400 with an overflow check.
func depositDeadline(now int64, days uint64) (int64, error) {
	if now < 0 || days > uint64(math.MaxInt64-now)/secondsPerDay {
		return 0, sdk.Revert(sdk.ReasonOverflow)
	}
	return now + int64(days)*secondsPerDay, nil
}

// CloseDeposit closes the window. Admin only.
func (d *DAO) CloseDeposit(ctx context.Context) error {
	release, err := guard(ctx, d.addr)
	if err != nil {
		return err
	}
	defer release()
	st := d.state(ctx)
	if err := requireAdmin(ctx, st); err != nil {
		return err
	}
	win, err := loadWindow(st)
	if err != nil {
		return err
	}
	if !win.Open {
		return sdk.Revert(ReasonDepositClosed)
	}
	cfg, err := loadConfig(st)
	if err != nil {
		return err
	}
	win.Open = false
	saveWindow(st, win)
	return emitDepositClosedEvent(ctx, d.addr, cfg)
}

// UpdateMinMaxDeposit replaces both per user bounds at once. Admin only, max must exceed min.
func (d *DAO) UpdateMinMaxDeposit(ctx context.Context, minAmount, maxAmount *uint256.Int) error {
	release, err := guard(ctx, d.addr)
	if err != nil {
		return err
	}
	defer release()
	st := d.state(ctx)
	if err := requireAdmin(ctx, st); err != nil {
		return err
	}
	if !maxAmount.Gt(minAmount) {
		return sdk.Revert(ReasonMaxNotAboveMin)
	}
	cfg, err := loadConfig(st)
	if err != nil {
		return err
	}
	cfg.MinDepositPerUser.Set(minAmount)
	cfg.MaxDepositPerUser.Set(maxAmount)
	saveConfig(st, cfg)
	return emitLimitsEvent(ctx, d.addr, cfg)
}

// Deposit accepts amount of the stablecoin from the sender, who must have approved the DAO.
// Checks run in a fixed order: token, window, gate, min, max, raise cap.
func (d *DAO) Deposit(ctx context.Context, token sdk.Address, amount *uint256.Int) error {
	release, err := guard(ctx, d.addr)
	if err != nil {
		return err
	}
	defer release()
	st := d.state(ctx)
	cfg, err := loadConfig(st)
	if err != nil {
		return err
	}
	if token != cfg.USDC {
		return sdk.Revert(ReasonOnlyUSDC)
	}
	win, err := loadWindow(st)
	if err != nil {
		return err
	}
	if !win.Open {
		return sdk.Revert(ReasonWindowClosed)
	}
	sender := getSenderAddress(ctx)
	gate, err := loadGate(st)
	if err != nil {
		return err
	}
	if !evaluateGate(ctx, gate, sender) {
		return sdk.Revert(ReasonNotEligible)
	}
	if amount.Lt(&cfg.MinDepositPerUser) {
		return sdk.Revert(ReasonBelowMin)
	}
	if amount.Gt(&cfg.MaxDepositPerUser) {
		return sdk.Revert(ReasonAboveMax)
	}
	ok, err := addRaised(st, amount, &cfg.TotalRaiseAmount)
	if err != nil {
		return err
	}
	if !ok {
		return sdk.Revert(ReasonExceedsRaise)
	}

	scale, err := gtScale(ctx, cfg.USDC)
	if err != nil {
		return err
	}
	split, err := splitDeposit(amount, cfg.OwnerFeePerDeposit, cfg.FeeInUSDC, scale)
	if err != nil {
		return err
	}
	// ledger first, token calls last
	if err := mintGT(st, sender, split.DepositorGT); err != nil {
		return err
	}
	if err := mintGT(st, cfg.OwnerAddress, split.OwnerGT); err != nil {
		return err
	}

	usdc := sdk.ERC20At(cfg.USDC)
	if err := usdc.TransferFrom(asContract(ctx, d.addr), sender, d.addr, amount); err != nil {
		return err
	}
	if err := payFromTreasury(ctx, d.addr, cfg.USDC, cfg.OwnerAddress, split.OwnerStable); err != nil {
		return err
	}
	if err := emitDepositEvent(ctx, d.addr, cfg, sender, amount, split); err != nil {
		return err
	}
	if !split.OwnerGT.IsZero() {
		return emitGTMintedEvent(ctx, d.addr, cfg, cfg.OwnerAddress, split.OwnerGT)
	}
	return nil
}
