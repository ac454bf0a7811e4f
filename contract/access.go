package contract

import (
	"context"
	"slices"

	"dao_factory/contract/dao"
	"dao_factory/sdk"
)

// Three separate capabilities exist:
//   - Admin: operational controls of one instance (window, limits, fee, gating)
//   - Owner: proposal execution on one instance
//   - factory owner: global stablecoin and implementation pointers
// None implies another.

func isAdmin(st sdk.State, addr sdk.Address) (bool, error) {
	admins, err := loadAdmins(st)
	if err != nil {
		return false, err
	}
	return slices.Contains(admins, addr), nil
}

func isOwner(cfg *dao.Config, addr sdk.Address) bool {
	return !sdk.IsZero(addr) && cfg.OwnerAddress == addr
}

// requireAdmin fails with Only Admin unless the sender is on the admin list.
func requireAdmin(ctx context.Context, st sdk.State) error {
	ok, err := isAdmin(st, getSenderAddress(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return sdk.Revert(ReasonOnlyAdmin)
	}
	return nil
}

// requireOwner fails with Only Owner for everyone but the configured owner, admins included.
func requireOwner(ctx context.Context, cfg *dao.Config) error {
	if !isOwner(cfg, getSenderAddress(ctx)) {
		return sdk.Revert(ReasonOnlyOwner)
	}
	return nil
}

// requireFactoryOwner is the Ownable check of the factory.
func requireFactoryOwner(ctx context.Context, st sdk.State) error {
	owner := loadAddress(st, kFactoryOwner)
	if sdk.IsZero(owner) || owner != getSenderAddress(ctx) {
		return sdk.Revert(ReasonNotFactoryOwner)
	}
	return nil
}

// loadAddress reads an address singleton, zero when unset.
func loadAddress(st sdk.State, prefix byte) sdk.Address {
	ptr := st.Get(singleKey(prefix))
	if ptr == nil {
		return sdk.ZeroAddress
	}
	return sdk.BytesToAddress([]byte(*ptr))
}

func saveAddress(st sdk.State, prefix byte, addr sdk.Address) {
	st.Set(singleKey(prefix), string(addr.Bytes()))
}
