package contract_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dao_factory/contract"
	"dao_factory/contract/dao"
	"dao_factory/sdk"
)

// =============================================================================
// Factory deployment and getters
// =============================================================================

// TestFactoryRejectsZeroUSDC checks the constructor refuses the null stablecoin.
func TestFactoryRejectsZeroUSDC(t *testing.T) {
	ct := SetupContractTest(t)
	ExpectRevert(t, ct, deployer, contract.ReasonInvalidAddress, func(ctx context.Context) error {
		_, err := contract.DeployFactory(ctx, sdk.ZeroAddress)
		return err
	})
}

// TestFactoryGetters checks owner, stablecoin, implementation and emitter pointers.
func TestFactoryGetters(t *testing.T) {
	ct := SetupContractTest(t)
	f := contract.FactoryAt(ct.Factory)
	assert.Equal(t, deployer, Query(t, ct, f.Owner))
	assert.Equal(t, ct.USDC, Query(t, ct, f.USDCAddress))

	impl := Query(t, ct, f.ImplementationAddress)
	emitter := Query(t, ct, f.EmitterAddress)
	assert.False(t, sdk.IsZero(impl))
	assert.False(t, sdk.IsZero(emitter))
	assert.Equal(t, contract.CodeImplementation, Query(t, ct, func(ctx context.Context) string { return sdk.CodeAt(ctx, impl) }))
	assert.Equal(t, contract.CodeEmitter, Query(t, ct, func(ctx context.Context) string { return sdk.CodeAt(ctx, emitter) }))
	assert.Equal(t, ct.Factory, Query(t, ct, contract.EmitterAt(emitter).Factory))
}

// TestFactoryAddressesFollowCreateRule checks instances land on CREATE addresses of the factory.
func TestFactoryAddressesFollowCreateRule(t *testing.T) {
	ct := SetupContractTest(t)
	assert.Equal(t, sdk.CreateAddress(deployer, 0), ct.Factory)
	// nonce 0 and 1 of the factory went to the implementation marker and the emitter
	assert.Equal(t, sdk.CreateAddress(ct.Factory, 2), ct.DAO)
	assert.Equal(t, sdk.CreateAddress(ct.Factory, 3), ct.DAOGT)
	assert.Equal(t, []sdk.Address{ct.DAO, ct.DAOGT, ct.DAOSmall}, Query(t, ct, contract.FactoryAt(ct.Factory).DAOs))
}

// =============================================================================
// Factory configuration
// =============================================================================

// TestChangeUSDCAddress checks the owner can swap the stablecoin and new instances pick it up.
func TestChangeUSDCAddress(t *testing.T) {
	ct := SetupContractTest(t)
	f := contract.FactoryAt(ct.Factory)
	CallContract(t, ct, deployer, true, func(ctx context.Context) error {
		return f.ChangeUSDCAddress(ctx, user4)
	})
	assert.Equal(t, user4, Query(t, ct, f.USDCAddress))

	fresh := createDAO(t, ct, user1, defaultParams(true))
	assert.Equal(t, user4, daoConfig(t, ct, fresh).USDC)
	// existing instances keep the stablecoin they were created with
	assert.Equal(t, ct.USDC, daoConfig(t, ct, ct.DAO).USDC)
}

// TestChangeUSDCAddressOnlyOwner checks the Ownable guard.
func TestChangeUSDCAddressOnlyOwner(t *testing.T) {
	ct := SetupContractTest(t)
	ExpectRevert(t, ct, user1, contract.ReasonNotFactoryOwner, func(ctx context.Context) error {
		return contract.FactoryAt(ct.Factory).ChangeUSDCAddress(ctx, user4)
	})
}

// TestChangeUSDCAddressZero checks the null address is refused even for the owner.
func TestChangeUSDCAddressZero(t *testing.T) {
	ct := SetupContractTest(t)
	ExpectRevert(t, ct, deployer, contract.ReasonInvalidAddress, func(ctx context.Context) error {
		return contract.FactoryAt(ct.Factory).ChangeUSDCAddress(ctx, sdk.ZeroAddress)
	})
}

// TestChangeDAOImplementation checks the swap and that later instances record the new pointer.
func TestChangeDAOImplementation(t *testing.T) {
	ct := SetupContractTest(t)
	f := contract.FactoryAt(ct.Factory)
	oldImpl := Query(t, ct, f.ImplementationAddress)

	ExpectRevert(t, ct, user1, contract.ReasonNotFactoryOwner, func(ctx context.Context) error {
		return f.ChangeDAOImplementation(ctx, user3)
	})
	ExpectRevert(t, ct, deployer, contract.ReasonInvalidAddress, func(ctx context.Context) error {
		return f.ChangeDAOImplementation(ctx, sdk.ZeroAddress)
	})
	CallContract(t, ct, deployer, true, func(ctx context.Context) error {
		return f.ChangeDAOImplementation(ctx, user3)
	})
	assert.Equal(t, user3, Query(t, ct, f.ImplementationAddress))

	fresh := createDAO(t, ct, user2, defaultParams(false))
	assert.Equal(t, user3, daoConfig(t, ct, fresh).Implementation)
	assert.Equal(t, oldImpl, daoConfig(t, ct, ct.DAO).Implementation)
}

// TestTransferOwnership checks the factory can change hands and the old owner loses access.
func TestTransferOwnership(t *testing.T) {
	ct := SetupContractTest(t)
	f := contract.FactoryAt(ct.Factory)
	ExpectRevert(t, ct, deployer, contract.ReasonOwnerZero, func(ctx context.Context) error {
		return f.TransferOwnership(ctx, sdk.ZeroAddress)
	})
	CallContract(t, ct, deployer, true, func(ctx context.Context) error {
		return f.TransferOwnership(ctx, user1)
	})
	assert.Equal(t, user1, Query(t, ct, f.Owner))
	ExpectRevert(t, ct, deployer, contract.ReasonNotFactoryOwner, func(ctx context.Context) error {
		return f.ChangeUSDCAddress(ctx, user2)
	})
}

// =============================================================================
// createDAO
// =============================================================================

// TestCreateDAOStoresParams checks every tuple field ends up in the instance.
func TestCreateDAOStoresParams(t *testing.T) {
	ct := SetupContractTest(t)
	cfg := daoConfig(t, ct, ct.DAO)
	assert.Equal(t, "Testing", cfg.Name)
	assert.Equal(t, "TEST", cfg.Symbol)
	assert.Equal(t, "1000000000", cfg.TotalRaiseAmount.Dec())
	assert.Equal(t, "10000000", cfg.MinDepositPerUser.Dec())
	assert.Equal(t, "100000000", cfg.MaxDepositPerUser.Dec())
	assert.Equal(t, uint64(10), cfg.OwnerFeePerDeposit)
	assert.True(t, cfg.FeeInUSDC)
	assert.Equal(t, uint64(50), cfg.Quorum)
	assert.Equal(t, uint64(50), cfg.Threshold)
	assert.Equal(t, gnosisSafe, cfg.OwnerAddress)
	assert.Equal(t, ct.Factory, cfg.Factory)

	d := contract.DAOAt(ct.DAO)
	assert.Equal(t, gnosisSafe, QueryErr(t, ct, d.DaoOwnerAddress))
	assert.Equal(t, uint8(18), d.Decimals())
	assert.Equal(t, "0", Query(t, ct, d.TotalSupply).Dec())
}

// TestCreateDAOOpensWindowAndSetsAdmin checks a fresh instance accepts deposits and the factory owner administers it.
func TestCreateDAOOpensWindowAndSetsAdmin(t *testing.T) {
	ct := SetupContractTest(t)
	d := contract.DAOAt(ct.DAO)
	assert.True(t, QueryErr(t, ct, d.CheckDeposit))
	deadline := QueryErr(t, ct, d.DepositDeadline)
	assert.Equal(t, ct.Clock.Now().Unix()+10*86400, deadline)
	assert.Equal(t, []sdk.Address{deployer}, QueryErr(t, ct, d.Admins))
	assert.True(t, QueryErr(t, ct, func(ctx context.Context) (bool, error) { return d.IsOwner(ctx, gnosisSafe) }))
	assert.False(t, QueryErr(t, ct, func(ctx context.Context) (bool, error) { return d.IsOwner(ctx, deployer) }))
}

// TestCreateDAOAnyCaller checks creation is not restricted to the factory owner.
func TestCreateDAOAnyCaller(t *testing.T) {
	ct := SetupContractTest(t)
	addr := createDAO(t, ct, user2, defaultParams(true))
	assert.Len(t, Query(t, ct, contract.FactoryAt(ct.Factory).DAOs), 4)
	admins := QueryErr(t, ct, contract.DAOAt(addr).Admins)
	assert.Equal(t, []sdk.Address{deployer}, admins)
}

// TestCreateDAOValidation walks the tuple checks in order.
func TestCreateDAOValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p *dao.Params)
		reason string
	}{
		{"min equals max", func(p *dao.Params) { p.MinDepositPerUser = sdk.NewAmount(100000000) }, contract.ReasonMinNotBelowMax},
		{"min above max", func(p *dao.Params) { p.MinDepositPerUser = sdk.NewAmount(200000000) }, contract.ReasonMinNotBelowMax},
		{"total equals max", func(p *dao.Params) { p.TotalRaiseAmount = sdk.NewAmount(100000000) }, contract.ReasonTotalNotAbove},
		{"zero days", func(p *dao.Params) { p.DepositDays = 0 }, contract.ReasonCreateDaysZero},
		{"fee 100", func(p *dao.Params) { p.OwnerFeePerDeposit = 100 }, contract.ReasonCreateOwnerFee},
		{"null owner", func(p *dao.Params) { p.OwnerAddress = sdk.ZeroAddress }, contract.ReasonCreateOwnerNull},
		{"quorum 101", func(p *dao.Params) { p.Quorum = 101 }, contract.ReasonCreateQuorum},
		{"threshold 101", func(p *dao.Params) { p.Threshold = 101 }, contract.ReasonCreateThreshold},
		{"days checked before fee", func(p *dao.Params) { p.DepositDays = 0; p.OwnerFeePerDeposit = 100 }, contract.ReasonCreateDaysZero},
		{"null owner with bad quorum", func(p *dao.Params) { p.OwnerAddress = sdk.ZeroAddress; p.Quorum = 500 }, contract.ReasonCreateOwnerNull},
	}
	ct := SetupContractTest(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := defaultParams(true)
			tc.mutate(&p)
			ExpectRevert(t, ct, user1, tc.reason, func(ctx context.Context) error {
				_, err := contract.FactoryAt(ct.Factory).CreateDAO(ctx, p)
				return err
			})
		})
	}
	// nothing was created by the failed calls
	assert.Len(t, Query(t, ct, contract.FactoryAt(ct.Factory).DAOs), 3)
}

// TestCreateDAOBoundaryValues checks 99% fee and 100% quorum/threshold are accepted.
func TestCreateDAOBoundaryValues(t *testing.T) {
	ct := SetupContractTest(t)
	p := defaultParams(true)
	p.OwnerFeePerDeposit = 99
	p.Quorum = 100
	p.Threshold = 100
	addr := createDAO(t, ct, user1, p)
	cfg := daoConfig(t, ct, addr)
	assert.Equal(t, uint64(99), cfg.OwnerFeePerDeposit)
	assert.Equal(t, uint64(100), cfg.Quorum)
}

// TestCreateDAOEmitsThroughEmitter checks instance events are routed via the factory emitter.
func TestCreateDAOEmitsThroughEmitter(t *testing.T) {
	ct := SetupContractTest(t)
	emitter := contract.EmitterAt(Query(t, ct, contract.FactoryAt(ct.Factory).EmitterAddress))
	before := Query(t, ct, emitter.EventCount)

	var addr sdk.Address
	res, _ := CallContract(t, ct, user1, true, func(ctx context.Context) error {
		d, err := contract.FactoryAt(ct.Factory).CreateDAO(ctx, defaultParams(true))
		if err != nil {
			return err
		}
		addr = d.Address()
		return nil
	})
	require.NotEmpty(t, res.Logs)
	assert.Contains(t, res.Logs[len(res.Logs)-1], "dc|dao:"+addr.Hex())
	assert.Equal(t, before+1, Query(t, ct, emitter.EventCount))
	assert.True(t, Query(t, ct, func(ctx context.Context) bool { return emitter.IsDAO(ctx, addr) }))
}

// TestEmitterRejectsStrangers checks only registered instances may emit.
func TestEmitterRejectsStrangers(t *testing.T) {
	ct := SetupContractTest(t)
	emitter := contract.EmitterAt(Query(t, ct, contract.FactoryAt(ct.Factory).EmitterAddress))
	ExpectRevert(t, ct, user1, contract.ReasonOnlyDAO, func(ctx context.Context) error {
		return emitter.Emit(ctx, "dd|fake")
	})
}

// TestDecodeCreateDAOPayload checks the pipe payload maps onto the tuple.
func TestDecodeCreateDAOPayload(t *testing.T) {
	payload := "Testing|TEST|1000000000|10000000|100000000|10|10|true|50|50|" + gnosisSafe.Hex()
	p, err := contract.DecodeCreateDAOPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, defaultParams(true), p)

	_, err = contract.DecodeCreateDAOPayload("Testing|TEST")
	assert.Error(t, err)
	_, err = contract.DecodeCreateDAOPayload("Testing|TEST|x|10000000|100000000|10|10|true|50|50|" + gnosisSafe.Hex())
	assert.Error(t, err)
}
