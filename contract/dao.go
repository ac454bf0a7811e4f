package contract

import (
	"context"

	"github.com/holiman/uint256"

	"dao_factory/contract/dao"
	"dao_factory/sdk"
)

// DAO is a handle on one factory created instance. It carries no state of its own;
// everything lives in the instance namespace of the host store.
type DAO struct {
	addr sdk.Address
}

// DAOAt binds to the instance at addr.
func DAOAt(addr sdk.Address) *DAO {
	return &DAO{addr: addr}
}

func (d *DAO) Address() sdk.Address { return d.addr }

func (d *DAO) state(ctx context.Context) sdk.State {
	return sdk.StateOf(ctx, d.addr)
}

// initializeDAO writes the first state of a fresh instance. The window opens right away
// for p.DepositDays and admin becomes the only admin.
func initializeDAO(ctx context.Context, addr sdk.Address, p dao.Params, cfg dao.Config, admin sdk.Address) (*DAO, error) {
	st := sdk.StateOf(ctx, addr)
	if st.Get(singleKey(kConfig)) != nil {
		return nil, sdk.Revert("Initializable: contract is already initialized")
	}
	now := nowUnix(ctx)
	deadline, err := depositDeadline(now, p.DepositDays)
	if err != nil {
		return nil, err
	}
	cfg.Name = p.Name
	cfg.Symbol = p.Symbol
	cfg.TotalRaiseAmount.Set(p.TotalRaiseAmount)
	cfg.MinDepositPerUser.Set(p.MinDepositPerUser)
	cfg.MaxDepositPerUser.Set(p.MaxDepositPerUser)
	cfg.OwnerFeePerDeposit = p.OwnerFeePerDeposit
	cfg.FeeInUSDC = p.FeeInUSDC
	cfg.Quorum = p.Quorum
	cfg.Threshold = p.Threshold
	cfg.OwnerAddress = p.OwnerAddress
	cfg.CreatedAt = now
	saveConfig(st, &cfg)
	saveWindow(st, &dao.Window{Open: true, Deadline: deadline})
	saveAdmins(st, []sdk.Address{admin})
	return &DAO{addr: addr}, nil
}

// Config returns the whole instance configuration.
func (d *DAO) Config(ctx context.Context) (*dao.Config, error) {
	return loadConfig(d.state(ctx))
}

// DaoOwnerAddress is the address allowed to execute proposals.
func (d *DAO) DaoOwnerAddress(ctx context.Context) (sdk.Address, error) {
	cfg, err := d.Config(ctx)
	if err != nil {
		return sdk.ZeroAddress, err
	}
	return cfg.OwnerAddress, nil
}

// Decimals of the governance token, always 18.
func (d *DAO) Decimals() uint8 { return GTDecimals }

func (d *DAO) BalanceOf(ctx context.Context, holder sdk.Address) *uint256.Int {
	return balanceOf(d.state(ctx), holder)
}

func (d *DAO) TotalSupply(ctx context.Context) *uint256.Int {
	return totalSupply(d.state(ctx))
}

// Holders lists governance token holders in first mint order.
func (d *DAO) Holders(ctx context.Context) []sdk.Address {
	return loadHolders(d.state(ctx))
}

// Raised is the cumulative stablecoin accepted through deposits.
func (d *DAO) Raised(ctx context.Context) *uint256.Int {
	return getRaised(d.state(ctx))
}

// CheckDeposit reports whether the deposit window is open.
func (d *DAO) CheckDeposit(ctx context.Context) (bool, error) {
	win, err := loadWindow(d.state(ctx))
	if err != nil {
		return false, err
	}
	return win.Open, nil
}

// DepositDeadline is informational; deposits are not cut off when it passes.
func (d *DAO) DepositDeadline(ctx context.Context) (int64, error) {
	win, err := loadWindow(d.state(ctx))
	if err != nil {
		return 0, err
	}
	return win.Deadline, nil
}

func (d *DAO) IsAdmin(ctx context.Context, addr sdk.Address) (bool, error) {
	return isAdmin(d.state(ctx), addr)
}

func (d *DAO) IsOwner(ctx context.Context, addr sdk.Address) (bool, error) {
	cfg, err := d.Config(ctx)
	if err != nil {
		return false, err
	}
	return isOwner(cfg, addr), nil
}

func (d *DAO) Admins(ctx context.Context) ([]sdk.Address, error) {
	return loadAdmins(d.state(ctx))
}

// ProposalCount is the number of proposals executed so far.
func (d *DAO) ProposalCount(ctx context.Context) uint64 {
	return getCount(d.state(ctx), kProposalCount)
}
