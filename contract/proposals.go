package contract

import (
	"context"
	"errors"

	"github.com/holiman/uint256"

	"dao_factory/contract/dao"
	"dao_factory/sdk"
)

// UpdateProposalAndExecution validates and executes p in one go. Only the DAO owner may
// call it; admins are rejected too. Any failure reverts every effect of the proposal.
func (d *DAO) UpdateProposalAndExecution(ctx context.Context, p dao.Proposal) error {
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
	if err := requireOwner(ctx, cfg); err != nil {
		return err
	}
	if p.Action == nil {
		return sdk.Revert(ReasonInvalidProposal)
	}

	switch a := p.Action.(type) {
	case dao.Airdrop:
		err = d.executeAirdrop(ctx, st, cfg, a)
	case dao.MintGT:
		err = d.executeMintGT(ctx, st, cfg, a)
	case dao.UpdateGovernance:
		err = executeUpdateGovernance(st, cfg, a)
	case dao.UpdateRaiseAmount:
		err = executeUpdateRaiseAmount(st, cfg, a)
	case dao.SendCustomToken:
		err = d.executeSendCustomToken(ctx, a)
	case dao.UpdateAdmins:
		err = executeUpdateAdmins(st, a)
	default:
		err = sdk.Revert(ReasonInvalidProposal)
	}
	if err != nil {
		return err
	}
	incCount(st, kProposalCount)
	return emitProposalExecutedEvent(ctx, d.addr, cfg, p)
}

// ExecuteFlagProposal accepts the flat six flag form and runs it like any other proposal.
func (d *DAO) ExecuteFlagProposal(ctx context.Context, fp dao.FlagProposal) error {
	p, err := fp.FromFlags()
	if errors.Is(err, dao.ErrInvalidProposalType) {
		return sdk.Revert(ReasonInvalidProposal)
	}
	if err != nil {
		return err
	}
	return d.UpdateProposalAndExecution(ctx, p)
}

// executeAirdrop pays the owner fee first and splits the rest by governance token weight.
// Integer division leaves dust in the DAO.
func (d *DAO) executeAirdrop(ctx context.Context, st sdk.State, cfg *dao.Config, a dao.Airdrop) error {
	if a.OwnerFee >= MaxPercent {
		return sdk.Revert(ReasonAirdropOwnerFee)
	}
	token := a.Token
	if sdk.IsZero(token) {
		token = cfg.USDC
	}
	supply := totalSupply(st)
	if supply.IsZero() {
		return sdk.Revert(ReasonNoHolders)
	}
	balance := treasuryBalance(ctx, d.addr, token)
	fee, err := sdk.MulDiv(balance, uint256.NewInt(a.OwnerFee), uint256.NewInt(100))
	if err != nil {
		return err
	}
	rest := new(uint256.Int).Sub(balance, fee)
	if err := payFromTreasury(ctx, d.addr, token, cfg.OwnerAddress, fee); err != nil {
		return err
	}
	holders := loadHolders(st)
	for _, h := range holders {
		share, err := sdk.MulDiv(rest, balanceOf(st, h), supply)
		if err != nil {
			return err
		}
		if err := payFromTreasury(ctx, d.addr, token, h, share); err != nil {
			return err
		}
	}
	return emitAirdropEvent(ctx, d.addr, cfg, token, balance, fee, len(holders))
}

func (d *DAO) executeMintGT(ctx context.Context, st sdk.State, cfg *dao.Config, a dao.MintGT) error {
	if len(a.Amounts) != len(a.Recipients) {
		return sdk.Revert(ReasonInvalidParams)
	}
	for i, to := range a.Recipients {
		if a.Amounts[i] == nil {
			return sdk.Revert(ReasonInvalidParams)
		}
		if err := mintGT(st, to, a.Amounts[i]); err != nil {
			return err
		}
		if err := emitGTMintedEvent(ctx, d.addr, cfg, to, a.Amounts[i]); err != nil {
			return err
		}
	}
	return nil
}

func executeUpdateGovernance(st sdk.State, cfg *dao.Config, a dao.UpdateGovernance) error {
	if a.Quorum > MaxPercent {
		return sdk.Revert(ReasonQuorumUpdate)
	}
	if a.Threshold > MaxPercent {
		return sdk.Revert(ReasonThresholdUpdate)
	}
	cfg.Quorum = a.Quorum
	cfg.Threshold = a.Threshold
	saveConfig(st, cfg)
	return nil
}

// executeUpdateRaiseAmount never lets the cap drop below what was already raised.
// A non zero MaxDepositPerUser also moves the per user cap, which must stay above the min.
func executeUpdateRaiseAmount(st sdk.State, cfg *dao.Config, a dao.UpdateRaiseAmount) error {
	if a.TotalRaiseAmount == nil {
		return sdk.Revert(ReasonInvalidParams)
	}
	if a.TotalRaiseAmount.Lt(getRaised(st)) {
		return sdk.Revert(ReasonRaiseBelowRaised)
	}
	if a.MaxDepositPerUser != nil && !a.MaxDepositPerUser.IsZero() {
		if !a.MaxDepositPerUser.Gt(&cfg.MinDepositPerUser) {
			return sdk.Revert(ReasonMaxNotAboveMin)
		}
		cfg.MaxDepositPerUser.Set(a.MaxDepositPerUser)
	}
	cfg.TotalRaiseAmount.Set(a.TotalRaiseAmount)
	saveConfig(st, cfg)
	return nil
}

func (d *DAO) executeSendCustomToken(ctx context.Context, a dao.SendCustomToken) error {
	if len(a.Amounts) != len(a.Recipients) {
		return sdk.Revert(ReasonInvalidParams)
	}
	if sdk.IsZero(a.Token) {
		return sdk.Revert(ReasonInvalidAddress)
	}
	for i, to := range a.Recipients {
		if a.Amounts[i] == nil {
			return sdk.Revert(ReasonInvalidParams)
		}
		if err := payFromTreasury(ctx, d.addr, a.Token, to, a.Amounts[i]); err != nil {
			return err
		}
	}
	return nil
}

func executeUpdateAdmins(st sdk.State, a dao.UpdateAdmins) error {
	admins, err := normalizeAdmins(a.Admins)
	if err != nil {
		return err
	}
	saveAdmins(st, admins)
	return nil
}
