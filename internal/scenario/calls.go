package scenario

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	"dao_factory/contract"
	"dao_factory/contract/dao"
	"dao_factory/sdk"
)

// dispatch performs one "target.method" call inside the step's transaction. It returns the
// address of a DAO when the call created one.
func (r *Runner) dispatch(ctx context.Context, step Step) (sdk.Address, error) {
	target, method, ok := strings.Cut(step.Call, ".")
	if !ok {
		return sdk.ZeroAddress, fmt.Errorf("call %q is not target.method", step.Call)
	}
	addr, found := r.names[target]
	if !found {
		return sdk.ZeroAddress, fmt.Errorf("unknown target %q", target)
	}
	switch r.kinds[target] {
	case kindERC20:
		return sdk.ZeroAddress, r.callERC20(ctx, sdk.ERC20At(addr), method, step.Args)
	case kindNFT:
		return sdk.ZeroAddress, r.callNFT(ctx, sdk.NFTAt(addr), method, step.Args)
	case kindFactory:
		return r.callFactory(ctx, contract.FactoryAt(addr), method, step.Args)
	case kindDAO:
		return sdk.ZeroAddress, r.callDAO(ctx, contract.DAOAt(addr), method, step)
	}
	return sdk.ZeroAddress, fmt.Errorf("%q is an account, not a contract", target)
}

func wantArgs(method string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s expects %d args, got %d", method, n, len(args))
	}
	return nil
}

func (r *Runner) callERC20(ctx context.Context, tok *sdk.ERC20, method string, args []string) error {
	if err := wantArgs(method, args, 2); err != nil {
		return err
	}
	who, err := r.resolve(args[0])
	if err != nil {
		return err
	}
	amount, err := sdk.ParseAmount(args[1])
	if err != nil {
		return err
	}
	switch method {
	case "mint":
		return tok.Mint(ctx, who, amount)
	case "approve":
		return tok.Approve(ctx, who, amount)
	case "transfer":
		return tok.Transfer(ctx, who, amount)
	}
	return fmt.Errorf("unknown erc20 method %q", method)
}

func (r *Runner) callNFT(ctx context.Context, nft *sdk.NFT, method string, args []string) error {
	if method != "mint" {
		return fmt.Errorf("unknown nft method %q", method)
	}
	if err := wantArgs(method, args, 2); err != nil {
		return err
	}
	to, err := r.resolve(args[0])
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid token id %q", args[1])
	}
	return nft.Mint(ctx, to, id)
}

func (r *Runner) callFactory(ctx context.Context, f *contract.Factory, method string, args []string) (sdk.Address, error) {
	if method == "createDAO" {
		if err := wantArgs(method, args, 2); err != nil {
			return sdk.ZeroAddress, err
		}
		if _, taken := r.names[args[0]]; taken {
			return sdk.ZeroAddress, fmt.Errorf("name %q used twice", args[0])
		}
		return r.createDAO(ctx, f, args[1])
	}
	if err := wantArgs(method, args, 1); err != nil {
		return sdk.ZeroAddress, err
	}
	addr, err := r.resolve(args[0])
	if err != nil {
		return sdk.ZeroAddress, err
	}
	switch method {
	case "changeUSDCAddress":
		return sdk.ZeroAddress, f.ChangeUSDCAddress(ctx, addr)
	case "changeDAOImplementation":
		return sdk.ZeroAddress, f.ChangeDAOImplementation(ctx, addr)
	case "transferOwnership":
		return sdk.ZeroAddress, f.TransferOwnership(ctx, addr)
	}
	return sdk.ZeroAddress, fmt.Errorf("unknown factory method %q", method)
}

// createDAO decodes the pipe delimited tuple. The owner field may name a scenario account.
func (r *Runner) createDAO(ctx context.Context, f *contract.Factory, params string) (sdk.Address, error) {
	parts := strings.Split(params, "|")
	if len(parts) == 11 {
		owner, err := r.resolve(strings.TrimSpace(parts[10]))
		if err != nil {
			return sdk.ZeroAddress, err
		}
		parts[10] = owner.Hex()
	}
	p, err := contract.DecodeParamsTuple(parts)
	if err != nil {
		return sdk.ZeroAddress, err
	}
	d, err := f.CreateDAO(ctx, p)
	if err != nil {
		return sdk.ZeroAddress, err
	}
	return d.Address(), nil
}

func (r *Runner) callDAO(ctx context.Context, d *contract.DAO, method string, step Step) error {
	args := step.Args
	switch method {
	case "deposit":
		// the token defaults to the instance's own stablecoin
		token := sdk.ZeroAddress
		switch len(args) {
		case 1:
			cfg, err := d.Config(ctx)
			if err != nil {
				return err
			}
			token = cfg.USDC
		case 2:
			var err error
			if token, err = r.resolve(args[0]); err != nil {
				return err
			}
			args = args[1:]
		default:
			return fmt.Errorf("deposit expects 1 or 2 args, got %d", len(args))
		}
		amount, err := sdk.ParseAmount(args[0])
		if err != nil {
			return err
		}
		return d.Deposit(ctx, token, amount)

	case "startDeposit":
		if err := wantArgs(method, args, 1); err != nil {
			return err
		}
		days, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid days %q", args[0])
		}
		return d.StartDeposit(ctx, days)

	case "closeDeposit":
		return d.CloseDeposit(ctx)

	case "updateMinMaxDeposit":
		if err := wantArgs(method, args, 2); err != nil {
			return err
		}
		lo, err := sdk.ParseAmount(args[0])
		if err != nil {
			return err
		}
		hi, err := sdk.ParseAmount(args[1])
		if err != nil {
			return err
		}
		return d.UpdateMinMaxDeposit(ctx, lo, hi)

	case "updateOwnerFee":
		if err := wantArgs(method, args, 1); err != nil {
			return err
		}
		fee, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid fee %q", args[0])
		}
		return d.UpdateOwnerFee(ctx, fee)

	case "setupTokenGating":
		tokens, mins, ops, nft, err := r.gateArgs(args)
		if err != nil {
			return err
		}
		return d.SetupTokenGating(ctx, tokens, mins, ops, nft)

	case "propose":
		if step.Proposal == nil {
			return errors.New("propose needs a proposal block")
		}
		p, err := r.proposal(step.Proposal)
		if err != nil {
			return err
		}
		return d.UpdateProposalAndExecution(ctx, p)
	}
	return fmt.Errorf("unknown dao method %q", method)
}

// gateArgs reads "token:min[:nft]" entries separated by AND/OR, e.g. [gold:1, OR, pass:1:nft].
// Operators are passed through unchanged so the contract decides what is valid.
func (r *Runner) gateArgs(args []string) ([]sdk.Address, []*uint256.Int, []string, []bool, error) {
	var (
		tokens []sdk.Address
		mins   []*uint256.Int
		ops    []string
		nft    []bool
	)
	for i, a := range args {
		if i%2 == 1 {
			ops = append(ops, a)
			continue
		}
		fields := strings.Split(a, ":")
		if len(fields) < 2 || len(fields) > 3 || (len(fields) == 3 && fields[2] != "nft") {
			return nil, nil, nil, nil, fmt.Errorf("invalid gate entry %q", a)
		}
		tok, err := r.resolve(fields[0])
		if err != nil {
			return nil, nil, nil, nil, err
		}
		minBalance, err := sdk.ParseAmount(fields[1])
		if err != nil {
			return nil, nil, nil, nil, err
		}
		tokens = append(tokens, tok)
		mins = append(mins, minBalance)
		nft = append(nft, len(fields) == 3)
	}
	return tokens, mins, ops, nft, nil
}

func (r *Runner) proposal(spec *ProposalSpec) (dao.Proposal, error) {
	kind, ok := dao.ParseProposalKind(spec.Kind)
	if !ok {
		return dao.Proposal{}, fmt.Errorf("unknown proposal kind %q", spec.Kind)
	}
	p := dao.Proposal{ID: spec.ID, Tag: spec.Kind}
	switch kind {
	case dao.KindAirdrop:
		a := dao.Airdrop{OwnerFee: spec.OwnerFee}
		if spec.Token != "" {
			tok, err := r.resolve(spec.Token)
			if err != nil {
				return p, err
			}
			a.Token = tok
		}
		p.Action = a
	case dao.KindMintGT:
		amounts, recipients, err := r.payouts(spec)
		if err != nil {
			return p, err
		}
		p.Action = dao.MintGT{Amounts: amounts, Recipients: recipients}
	case dao.KindUpdateGovernance:
		p.Action = dao.UpdateGovernance{Quorum: spec.Quorum, Threshold: spec.Threshold}
	case dao.KindUpdateRaiseAmount:
		a := dao.UpdateRaiseAmount{}
		var err error
		if spec.TotalRaiseAmount != "" {
			if a.TotalRaiseAmount, err = sdk.ParseAmount(spec.TotalRaiseAmount); err != nil {
				return p, err
			}
		}
		if spec.MaxDepositPerUser != "" {
			if a.MaxDepositPerUser, err = sdk.ParseAmount(spec.MaxDepositPerUser); err != nil {
				return p, err
			}
		}
		p.Action = a
	case dao.KindSendCustomToken:
		tok, err := r.resolve(spec.Token)
		if err != nil {
			return p, err
		}
		amounts, recipients, err := r.payouts(spec)
		if err != nil {
			return p, err
		}
		p.Action = dao.SendCustomToken{Token: tok, Amounts: amounts, Recipients: recipients}
	case dao.KindUpdateAdmins:
		admins := make([]sdk.Address, 0, len(spec.Admins))
		for _, a := range spec.Admins {
			addr, err := r.resolve(a)
			if err != nil {
				return p, err
			}
			admins = append(admins, addr)
		}
		p.Action = dao.UpdateAdmins{Admins: admins}
	}
	return p, nil
}

// payouts keeps mismatched lengths as given; the contract rejects them.
func (r *Runner) payouts(spec *ProposalSpec) ([]*uint256.Int, []sdk.Address, error) {
	amounts := make([]*uint256.Int, 0, len(spec.Amounts))
	for _, s := range spec.Amounts {
		v, err := sdk.ParseAmount(s)
		if err != nil {
			return nil, nil, err
		}
		amounts = append(amounts, v)
	}
	recipients := make([]sdk.Address, 0, len(spec.Recipients))
	for _, s := range spec.Recipients {
		a, err := r.resolve(s)
		if err != nil {
			return nil, nil, err
		}
		recipients = append(recipients, a)
	}
	return amounts, recipients, nil
}

// resolve maps a scenario name, a hex address or "zero" to an address.
func (r *Runner) resolve(s string) (sdk.Address, error) {
	if a, ok := r.names[s]; ok {
		return a, nil
	}
	if s == "zero" {
		return sdk.ZeroAddress, nil
	}
	if strings.HasPrefix(s, "0x") {
		return sdk.AddressFromHex(s)
	}
	return sdk.ZeroAddress, fmt.Errorf("unknown name %q", s)
}

// account resolves a sender; only declared accounts may send.
func (r *Runner) account(label string) (sdk.Address, error) {
	if label == "" {
		return sdk.ZeroAddress, errors.New("missing sender")
	}
	a, ok := r.names[label]
	if !ok {
		return sdk.ZeroAddress, fmt.Errorf("unknown account %q", label)
	}
	if _, contractName := r.kinds[label]; contractName {
		return sdk.ZeroAddress, fmt.Errorf("%q is a contract, not an account", label)
	}
	return a, nil
}
