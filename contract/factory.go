package contract

import (
	"context"

	"dao_factory/contract/dao"
	"dao_factory/sdk"
)

// Factory creates DAO instances and holds the two global pointers every new instance
// picks up: the accepted stablecoin and the implementation address.
type Factory struct {
	addr sdk.Address
}

// FactoryAt binds to an already deployed factory.
func FactoryAt(addr sdk.Address) *Factory {
	return &Factory{addr: addr}
}

// DeployFactory deploys a factory owned by the sender, together with its implementation
// marker and emitter.
func DeployFactory(ctx context.Context, usdc sdk.Address) (*Factory, error) {
	if sdk.IsZero(usdc) {
		return nil, sdk.Revert(ReasonInvalidAddress)
	}
	owner := getSenderAddress(ctx)
	addr := sdk.Deploy(ctx, CodeFactory)
	fctx := asContract(ctx, addr)
	impl := sdk.Deploy(fctx, CodeImplementation)
	em := deployEmitter(fctx, addr)

	st := sdk.StateOf(ctx, addr)
	saveAddress(st, kFactoryOwner, owner)
	saveAddress(st, kFactoryUSDC, usdc)
	saveAddress(st, kFactoryImpl, impl)
	saveAddress(st, kFactoryEmitter, em.Address())
	emitFactoryDeployedEvent(ctx, addr, owner, usdc)
	return &Factory{addr: addr}, nil
}

func (f *Factory) Address() sdk.Address { return f.addr }

func (f *Factory) state(ctx context.Context) sdk.State {
	return sdk.StateOf(ctx, f.addr)
}

func (f *Factory) Owner(ctx context.Context) sdk.Address {
	return loadAddress(f.state(ctx), kFactoryOwner)
}

func (f *Factory) USDCAddress(ctx context.Context) sdk.Address {
	return loadAddress(f.state(ctx), kFactoryUSDC)
}

func (f *Factory) ImplementationAddress(ctx context.Context) sdk.Address {
	return loadAddress(f.state(ctx), kFactoryImpl)
}

func (f *Factory) EmitterAddress(ctx context.Context) sdk.Address {
	return loadAddress(f.state(ctx), kFactoryEmitter)
}

// DAOs lists every instance in creation order.
func (f *Factory) DAOs(ctx context.Context) []sdk.Address {
	st := f.state(ctx)
	n := getCount(st, kDaoCount)
	out := make([]sdk.Address, 0, n)
	for i := uint64(0); i < n; i++ {
		if ptr := st.Get(daoAtKey(i)); ptr != nil {
			out = append(out, sdk.BytesToAddress([]byte(*ptr)))
		}
	}
	return out
}

// ChangeUSDCAddress swaps the stablecoin future instances accept. Existing instances keep theirs.
func (f *Factory) ChangeUSDCAddress(ctx context.Context, usdc sdk.Address) error {
	st := f.state(ctx)
	if err := requireFactoryOwner(ctx, st); err != nil {
		return err
	}
	if sdk.IsZero(usdc) {
		return sdk.Revert(ReasonInvalidAddress)
	}
	saveAddress(st, kFactoryUSDC, usdc)
	emitUSDCChangedEvent(ctx, f.addr, usdc)
	return nil
}

// ChangeDAOImplementation swaps the implementation recorded by future instances.
func (f *Factory) ChangeDAOImplementation(ctx context.Context, impl sdk.Address) error {
	st := f.state(ctx)
	if err := requireFactoryOwner(ctx, st); err != nil {
		return err
	}
	if sdk.IsZero(impl) {
		return sdk.Revert(ReasonInvalidAddress)
	}
	saveAddress(st, kFactoryImpl, impl)
	emitImplementationChangedEvent(ctx, f.addr, impl)
	return nil
}

// TransferOwnership hands the factory to newOwner.
func (f *Factory) TransferOwnership(ctx context.Context, newOwner sdk.Address) error {
	st := f.state(ctx)
	if err := requireFactoryOwner(ctx, st); err != nil {
		return err
	}
	if sdk.IsZero(newOwner) {
		return sdk.Revert(ReasonOwnerZero)
	}
	prev := loadAddress(st, kFactoryOwner)
	saveAddress(st, kFactoryOwner, newOwner)
	emitOwnershipTransferredEvent(ctx, f.addr, prev, newOwner)
	return nil
}

// CreateDAO validates p and creates a new instance. Anyone may call it. The factory owner
// becomes the instance admin and p.OwnerAddress its proposal executor.
func (f *Factory) CreateDAO(ctx context.Context, p dao.Params) (*DAO, error) {
	if err := ValidateParams(p); err != nil {
		return nil, err
	}
	st := f.state(ctx)
	em := EmitterAt(loadAddress(st, kFactoryEmitter))
	fctx := asContract(ctx, f.addr)

	addr := sdk.Deploy(fctx, CodeDAO)
	if err := em.registerDAO(fctx, addr); err != nil {
		return nil, err
	}
	instance, err := initializeDAO(ctx, addr, p, dao.Config{
		USDC:           loadAddress(st, kFactoryUSDC),
		Factory:        f.addr,
		Emitter:        em.Address(),
		Implementation: loadAddress(st, kFactoryImpl),
	}, loadAddress(st, kFactoryOwner))
	if err != nil {
		return nil, err
	}
	st.Set(daoAtKey(incCount(st, kDaoCount)), string(addr.Bytes()))

	cfg, err := instance.Config(ctx)
	if err != nil {
		return nil, err
	}
	if err := emitDAOCreatedEvent(ctx, addr, cfg, getSenderAddress(ctx)); err != nil {
		return nil, err
	}
	return instance, nil
}

// ValidateParams checks the createDAO tuple in its fixed order; the first failure wins.
func ValidateParams(p dao.Params) error {
	if p.TotalRaiseAmount == nil || p.MinDepositPerUser == nil || p.MaxDepositPerUser == nil {
		return sdk.Revert(ReasonInvalidParams)
	}
	switch {
	case !p.MinDepositPerUser.Lt(p.MaxDepositPerUser):
		return sdk.Revert(ReasonMinNotBelowMax)
	case !p.TotalRaiseAmount.Gt(p.MaxDepositPerUser):
		return sdk.Revert(ReasonTotalNotAbove)
	case p.DepositDays == 0:
		return sdk.Revert(ReasonCreateDaysZero)
	case p.OwnerFeePerDeposit >= MaxPercent:
		return sdk.Revert(ReasonCreateOwnerFee)
	case sdk.IsZero(p.OwnerAddress):
		return sdk.Revert(ReasonCreateOwnerNull)
	case p.Quorum > MaxPercent:
		return sdk.Revert(ReasonCreateQuorum)
	case p.Threshold > MaxPercent:
		return sdk.Revert(ReasonCreateThreshold)
	}
	return nil
}
