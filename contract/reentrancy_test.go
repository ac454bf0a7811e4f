package contract_test

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"dao_factory/contract"
	"dao_factory/contract/dao"
	"dao_factory/sdk"
)

// reenterOnTransfer re-enters the DAO once from inside the first token movement it sees.
func reenterOnTransfer(reenter func(ctx context.Context) error) context.Context {
	fired := false
	return sdk.WithTransferHook(context.Background(), func(ctx context.Context, token, from, to sdk.Address, amount *uint256.Int) error {
		if fired {
			return nil
		}
		fired = true
		return reenter(ctx)
	})
}

func TestDepositReentrancy(t *testing.T) {
	ct := SetupContractTest(t)
	fundAndApprove(t, ct, user1, ct.DAO, 100000000)

	ctx := reenterOnTransfer(func(ctx context.Context) error {
		return contract.DAOAt(ct.DAO).Deposit(sdk.CallFrom(ctx, user1), ct.USDC, sdk.NewAmount(10000000))
	})
	_, err := ct.Host.Exec(ctx, user1, depositFn(ct, ct.DAO, 50000000))
	assert.Equal(t, sdk.ReasonReentrant, sdk.Reason(err))

	assert.Equal(t, "0", Query(t, ct, contract.DAOAt(ct.DAO).Raised).Dec())
	assert.Equal(t, "100000000", usdcBalance(t, ct, user1))
	assert.Equal(t, "0", gtBalance(t, ct, ct.DAO, user1))
}

// TestProposalReentrancy re-enters through the stablecoin payout of an airdrop.
func TestProposalReentrancy(t *testing.T) {
	ct := SetupContractTest(t)
	fundAndDeposit(t, ct, user1, ct.DAO, 100000000)

	ctx := reenterOnTransfer(func(ctx context.Context) error {
		return contract.DAOAt(ct.DAO).UpdateProposalAndExecution(sdk.CallFrom(ctx, gnosisSafe), dao.Proposal{
			ID:     "again",
			Action: dao.Airdrop{OwnerFee: 10},
		})
	})
	_, err := ct.Host.Exec(ctx, gnosisSafe, executeProposal(ct.DAO, dao.Airdrop{OwnerFee: 10}))
	assert.Equal(t, sdk.ReasonReentrant, sdk.Reason(err))
	assert.Equal(t, "90000000", usdcBalance(t, ct, ct.DAO))
	assert.Equal(t, uint64(0), Query(t, ct, contract.DAOAt(ct.DAO).ProposalCount))
}

// TestCrossInstanceCallsAllowed checks the guard is per instance.
func TestCrossInstanceCallsAllowed(t *testing.T) {
	ct := SetupContractTest(t)
	fundAndApprove(t, ct, user1, ct.DAO, 50000000)
	fundAndApprove(t, ct, user1, ct.DAOGT, 10000000)
	// approvals are per spender, so the second call keeps the first intact
	ctx := reenterOnTransfer(func(ctx context.Context) error {
		return contract.DAOAt(ct.DAOGT).Deposit(sdk.CallFrom(ctx, user1), ct.USDC, sdk.NewAmount(10000000))
	})
	_, err := ct.Host.Exec(ctx, user1, depositFn(ct, ct.DAO, 50000000))
	assert.NoError(t, err)
	assert.Equal(t, "50000000", Query(t, ct, contract.DAOAt(ct.DAO).Raised).Dec())
	assert.Equal(t, "10000000", Query(t, ct, contract.DAOAt(ct.DAOGT).Raised).Dec())
}
