package contract_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dao_factory/contract"
	"dao_factory/contract/dao"
	"dao_factory/sdk"
)

var (
	deployer   = sdk.AccountAddress("owner")
	usdcOwner  = sdk.AccountAddress("usdcOwner")
	user1      = sdk.AccountAddress("user1")
	user2      = sdk.AccountAddress("user2")
	user3      = sdk.AccountAddress("user3")
	user4      = sdk.AccountAddress("user4")
	gnosisSafe = sdk.AccountAddress("gnosisSafe")
)

const defaultTimestamp = "2025-09-03T00:00:00Z"

// testClock lets a test move block time forward.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ContractTest is one fresh chain with a stablecoin, a factory and three instances.
type ContractTest struct {
	Host    *sdk.Host
	Clock   *testClock
	USDC    sdk.Address
	Factory sdk.Address
	// DAO takes its fee in USDC.
	DAO sdk.Address
	// DAOGT takes its fee in governance tokens.
	DAOGT sdk.Address
	// DAOSmall has a raise cap just above one max deposit.
	DAOSmall sdk.Address
}

// defaultParams is the tuple most tests create instances with.
func defaultParams(feeInUSDC bool) dao.Params {
	return dao.Params{
		Name:               "Testing",
		Symbol:             "TEST",
		TotalRaiseAmount:   sdk.NewAmount(1000000000),
		MinDepositPerUser:  sdk.NewAmount(10000000),
		MaxDepositPerUser:  sdk.NewAmount(100000000),
		OwnerFeePerDeposit: 10,
		DepositDays:        10,
		FeeInUSDC:          feeInUSDC,
		Quorum:             50,
		Threshold:          50,
		OwnerAddress:       gnosisSafe,
	}
}

// SetupContractTest deploys the usual fixture on an in-memory store.
func SetupContractTest(t *testing.T) *ContractTest {
	t.Helper()
	start, err := time.Parse(time.RFC3339, defaultTimestamp)
	require.NoError(t, err)
	clock := &testClock{now: start}
	ct := &ContractTest{
		Host:  sdk.NewHost(sdk.NewMemStore(), sdk.WithClock(clock.Now)),
		Clock: clock,
	}

	CallContract(t, ct, usdcOwner, true, func(ctx context.Context) error {
		ct.USDC = sdk.DeployERC20(ctx, "USD Coin", "USDC", 6).Address()
		return nil
	})
	CallContract(t, ct, deployer, true, func(ctx context.Context) error {
		f, err := contract.DeployFactory(ctx, ct.USDC)
		if err != nil {
			return err
		}
		ct.Factory = f.Address()
		return nil
	})
	ct.DAO = createDAO(t, ct, deployer, defaultParams(true))
	ct.DAOGT = createDAO(t, ct, deployer, defaultParams(false))
	small := defaultParams(false)
	small.TotalRaiseAmount = sdk.NewAmount(101000000)
	ct.DAOSmall = createDAO(t, ct, deployer, small)
	return ct
}

// CallContract executes fn as one transaction from sender and asserts the outcome.
func CallContract(t *testing.T, ct *ContractTest, sender sdk.Address, expectedResult bool, fn func(ctx context.Context) error) (*sdk.Receipt, error) {
	t.Helper()
	res, err := ct.Host.Exec(context.Background(), sender, fn)
	if expectedResult {
		require.NoError(t, err, "contract call failed")
	} else {
		require.Error(t, err, "contract call did not fail (as expected)")
	}
	return res, err
}

// ExpectRevert runs fn and asserts it reverts with exactly reason.
func ExpectRevert(t *testing.T, ct *ContractTest, sender sdk.Address, reason string, fn func(ctx context.Context) error) {
	t.Helper()
	_, err := CallContract(t, ct, sender, false, fn)
	assert.Equal(t, reason, sdk.Reason(err), "unexpected revert: %v", err)
}

// Query runs a read against committed state.
func Query[T any](t *testing.T, ct *ContractTest, fn func(ctx context.Context) T) T {
	t.Helper()
	var out T
	require.NoError(t, ct.Host.View(context.Background(), sdk.ZeroAddress, func(ctx context.Context) error {
		out = fn(ctx)
		return nil
	}))
	return out
}

// QueryErr is Query for getters that can fail.
func QueryErr[T any](t *testing.T, ct *ContractTest, fn func(ctx context.Context) (T, error)) T {
	t.Helper()
	var out T
	require.NoError(t, ct.Host.View(context.Background(), sdk.ZeroAddress, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	}))
	return out
}

func createDAO(t *testing.T, ct *ContractTest, sender sdk.Address, p dao.Params) sdk.Address {
	t.Helper()
	var addr sdk.Address
	CallContract(t, ct, sender, true, func(ctx context.Context) error {
		d, err := contract.FactoryAt(ct.Factory).CreateDAO(ctx, p)
		if err != nil {
			return err
		}
		addr = d.Address()
		return nil
	})
	return addr
}

// fundAndApprove mints amount USDC to who and approves spender for it.
func fundAndApprove(t *testing.T, ct *ContractTest, who, spender sdk.Address, amount uint64) {
	t.Helper()
	CallContract(t, ct, who, true, func(ctx context.Context) error {
		usdc := sdk.ERC20At(ct.USDC)
		if err := usdc.Mint(ctx, who, sdk.NewAmount(amount)); err != nil {
			return err
		}
		return usdc.Approve(ctx, spender, sdk.NewAmount(amount))
	})
}

func depositFn(ct *ContractTest, daoAddr sdk.Address, amount uint64) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return contract.DAOAt(daoAddr).Deposit(ctx, ct.USDC, sdk.NewAmount(amount))
	}
}

// fundAndDeposit is the common happy path: fund, approve and deposit amount.
func fundAndDeposit(t *testing.T, ct *ContractTest, who, daoAddr sdk.Address, amount uint64) {
	t.Helper()
	fundAndApprove(t, ct, who, daoAddr, amount)
	CallContract(t, ct, who, true, depositFn(ct, daoAddr, amount))
}

func usdcBalance(t *testing.T, ct *ContractTest, who sdk.Address) string {
	t.Helper()
	return Query(t, ct, func(ctx context.Context) *uint256.Int {
		return sdk.ERC20At(ct.USDC).BalanceOf(ctx, who)
	}).Dec()
}

func gtBalance(t *testing.T, ct *ContractTest, daoAddr, who sdk.Address) string {
	t.Helper()
	return Query(t, ct, func(ctx context.Context) *uint256.Int {
		return contract.DAOAt(daoAddr).BalanceOf(ctx, who)
	}).Dec()
}

func daoConfig(t *testing.T, ct *ContractTest, daoAddr sdk.Address) *dao.Config {
	t.Helper()
	return QueryErr(t, ct, contract.DAOAt(daoAddr).Config)
}

func executeProposal(daoAddr sdk.Address, action dao.Action) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return contract.DAOAt(daoAddr).UpdateProposalAndExecution(ctx, dao.Proposal{ID: "0ax", Tag: "pass", Action: action})
	}
}

func amounts(vals ...string) []*uint256.Int {
	out := make([]*uint256.Int, len(vals))
	for i, v := range vals {
		out[i] = sdk.MustAmount(v)
	}
	return out
}
