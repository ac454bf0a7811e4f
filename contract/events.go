package contract

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"dao_factory/contract/dao"
	"dao_factory/sdk"
)

// emit forwards an instance event to the factory emitter, or logs it directly for
// instances created without one.
func emit(ctx context.Context, self sdk.Address, cfg *dao.Config, line string) error {
	if cfg == nil || sdk.IsZero(cfg.Emitter) {
		sdk.Log(ctx, line)
		return nil
	}
	return EmitterAt(cfg.Emitter).Emit(asContract(ctx, self), line)
}

// emitDAOCreatedEvent is the first line every instance writes.
func emitDAOCreatedEvent(ctx context.Context, self sdk.Address, cfg *dao.Config, creator sdk.Address) error {
	return emit(ctx, self, cfg, fmt.Sprintf(
		"dc|dao:%s|by:%s|own:%s|sym:%s",
		sdk.AddressToString(self),
		sdk.AddressToString(creator),
		sdk.AddressToString(cfg.OwnerAddress),
		cfg.Symbol,
	))
}

// emitDepositEvent carries both sides of the fee split so indexers never recompute it.
func emitDepositEvent(ctx context.Context, self sdk.Address, cfg *dao.Config, by sdk.Address, amount *uint256.Int, split depositSplit) error {
	return emit(ctx, self, cfg, fmt.Sprintf(
		"dd|dao:%s|by:%s|am:%s|gt:%s|fee:%s",
		sdk.AddressToString(self),
		sdk.AddressToString(by),
		amount.Dec(),
		split.DepositorGT.Dec(),
		split.Fee.Dec(),
	))
}

func emitDepositStartedEvent(ctx context.Context, self sdk.Address, cfg *dao.Config, deadline int64) error {
	return emit(ctx, self, cfg, fmt.Sprintf(
		"ds|dao:%s|dl:%d",
		sdk.AddressToString(self),
		deadline,
	))
}

func emitDepositClosedEvent(ctx context.Context, self sdk.Address, cfg *dao.Config) error {
	return emit(ctx, self, cfg, fmt.Sprintf(
		"dx|dao:%s",
		sdk.AddressToString(self),
	))
}

func emitLimitsEvent(ctx context.Context, self sdk.Address, cfg *dao.Config) error {
	return emit(ctx, self, cfg, fmt.Sprintf(
		"dl|dao:%s|min:%s|max:%s",
		sdk.AddressToString(self),
		cfg.MinDepositPerUser.Dec(),
		cfg.MaxDepositPerUser.Dec(),
	))
}

func emitOwnerFeeEvent(ctx context.Context, self sdk.Address, cfg *dao.Config, fee uint64) error {
	return emit(ctx, self, cfg, fmt.Sprintf(
		"df|dao:%s|fee:%d",
		sdk.AddressToString(self),
		fee,
	))
}

func emitGatingEvent(ctx context.Context, self sdk.Address, cfg *dao.Config, entries int) error {
	return emit(ctx, self, cfg, fmt.Sprintf(
		"dg|dao:%s|n:%d",
		sdk.AddressToString(self),
		entries,
	))
}

// emitGTMintedEvent is written for every governance token mint, deposit driven or not.
func emitGTMintedEvent(ctx context.Context, self sdk.Address, cfg *dao.Config, to sdk.Address, amount *uint256.Int) error {
	return emit(ctx, self, cfg, fmt.Sprintf(
		"gm|dao:%s|to:%s|am:%s",
		sdk.AddressToString(self),
		sdk.AddressToString(to),
		amount.Dec(),
	))
}

func emitProposalExecutedEvent(ctx context.Context, self sdk.Address, cfg *dao.Config, p dao.Proposal) error {
	return emit(ctx, self, cfg, fmt.Sprintf(
		"pe|dao:%s|id:%s|k:%s",
		sdk.AddressToString(self),
		p.ID,
		p.Action.Kind(),
	))
}

func emitAirdropEvent(ctx context.Context, self sdk.Address, cfg *dao.Config, token sdk.Address, total, fee *uint256.Int, holders int) error {
	return emit(ctx, self, cfg, fmt.Sprintf(
		"pa|dao:%s|tk:%s|am:%s|fee:%s|n:%d",
		sdk.AddressToString(self),
		sdk.AddressToString(token),
		total.Dec(),
		fee.Dec(),
		holders,
	))
}

// factory level lines go straight to the log, the factory is the emitter's parent.

func emitFactoryDeployedEvent(ctx context.Context, factory, owner, usdc sdk.Address) {
	sdk.Log(ctx, fmt.Sprintf(
		"fd|f:%s|by:%s|usdc:%s",
		sdk.AddressToString(factory),
		sdk.AddressToString(owner),
		sdk.AddressToString(usdc),
	))
}

func emitUSDCChangedEvent(ctx context.Context, factory, usdc sdk.Address) {
	sdk.Log(ctx, fmt.Sprintf(
		"fu|f:%s|usdc:%s",
		sdk.AddressToString(factory),
		sdk.AddressToString(usdc),
	))
}

func emitImplementationChangedEvent(ctx context.Context, factory, impl sdk.Address) {
	sdk.Log(ctx, fmt.Sprintf(
		"fi|f:%s|impl:%s",
		sdk.AddressToString(factory),
		sdk.AddressToString(impl),
	))
}

func emitOwnershipTransferredEvent(ctx context.Context, factory, from, to sdk.Address) {
	sdk.Log(ctx, fmt.Sprintf(
		"fo|f:%s|from:%s|to:%s",
		sdk.AddressToString(factory),
		sdk.AddressToString(from),
		sdk.AddressToString(to),
	))
}
