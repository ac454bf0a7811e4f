package contract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	"dao_factory/contract/dao"
	"dao_factory/sdk"
)

// DecodeCreateDAOPayload unpacks the pipe delimited createDAO payload:
// name|symbol|totalRaise|minDeposit|maxDeposit|ownerFee|depositDays|feeInUSDC|quorum|threshold|owner
func DecodeCreateDAOPayload(payload string) (dao.Params, error) {
	return DecodeParamsTuple(strings.Split(payload, "|"))
}

// DecodeParamsTuple reads the createDAO tuple from its string fields.
func DecodeParamsTuple(parts []string) (dao.Params, error) {
	if len(parts) != 11 {
		return dao.Params{}, fmt.Errorf("createDAO expects 11 fields, got %d", len(parts))
	}
	get := func(i int) string {
		return strings.TrimSpace(parts[i])
	}
	var (
		p   dao.Params
		err error
	)
	p.Name = get(0)
	p.Symbol = get(1)
	if p.TotalRaiseAmount, err = parseAmountField(get(2), "total raise"); err != nil {
		return p, err
	}
	if p.MinDepositPerUser, err = parseAmountField(get(3), "min deposit"); err != nil {
		return p, err
	}
	if p.MaxDepositPerUser, err = parseAmountField(get(4), "max deposit"); err != nil {
		return p, err
	}
	if p.OwnerFeePerDeposit, err = parseUintField(get(5), "owner fee"); err != nil {
		return p, err
	}
	if p.DepositDays, err = parseUintField(get(6), "deposit days"); err != nil {
		return p, err
	}
	if p.FeeInUSDC, err = parseBoolField(get(7), "fee in usdc"); err != nil {
		return p, err
	}
	if p.Quorum, err = parseUintField(get(8), "quorum"); err != nil {
		return p, err
	}
	if p.Threshold, err = parseUintField(get(9), "threshold"); err != nil {
		return p, err
	}
	if p.OwnerAddress, err = parseAddressField(get(10), "owner"); err != nil {
		return p, err
	}
	return p, nil
}

// parseAmountField reads a base-10 amount, naming the field on failure.
func parseAmountField(v, field string) (*uint256.Int, error) {
	amt, err := sdk.ParseAmount(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	return amt, nil
}

func parseUintField(v, field string) (uint64, error) {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", field, v)
	}
	return n, nil
}

func parseBoolField(v, field string) (bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", field, v)
	}
	return b, nil
}

// parseAddressField accepts hex only. The all zero address parses fine so the
// contract can reject it with its own reason.
func parseAddressField(v, field string) (sdk.Address, error) {
	a, err := sdk.AddressFromHex(v)
	if err != nil {
		return sdk.ZeroAddress, fmt.Errorf("invalid %s: %w", field, err)
	}
	return a, nil
}
