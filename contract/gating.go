package contract

import (
	"context"

	"github.com/holiman/uint256"

	"dao_factory/contract/dao"
	"dao_factory/sdk"
)

// SetupTokenGating replaces the deposit gate. tokens, minBalances and isNFT are parallel
// and ops joins them, so it must be one shorter. An empty token list removes the gate.
func (d *DAO) SetupTokenGating(ctx context.Context, tokens []sdk.Address, minBalances []*uint256.Int, ops []string, isNFT []bool) error {
	release, err := guard(ctx, d.addr)
	if err != nil {
		return err
	}
	defer release()
	st := d.state(ctx)
	if err := requireAdmin(ctx, st); err != nil {
		return err
	}
	gate, err := buildGate(tokens, minBalances, ops, isNFT)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(st)
	if err != nil {
		return err
	}
	saveGate(st, gate)
	return emitGatingEvent(ctx, d.addr, cfg, len(gate.Entries))
}

// buildGate validates the parallel arrays. The nil ops slice is fine for zero or one entries.
func buildGate(tokens []sdk.Address, minBalances []*uint256.Int, ops []string, isNFT []bool) (*dao.Gate, error) {
	n := len(tokens)
	if len(minBalances) != n || len(isNFT) != n {
		return nil, sdk.Revert(ReasonInvalidParams)
	}
	if n == 0 {
		if len(ops) != 0 {
			return nil, sdk.Revert(ReasonInvalidParams)
		}
		return &dao.Gate{}, nil
	}
	if len(ops) != n-1 {
		return nil, sdk.Revert(ReasonInvalidParams)
	}
	g := &dao.Gate{
		Entries: make([]dao.GateEntry, n),
		Ops:     make([]dao.Combinator, n-1),
	}
	for i := range tokens {
		if sdk.IsZero(tokens[i]) || minBalances[i] == nil {
			return nil, sdk.Revert(ReasonInvalidParams)
		}
		g.Entries[i] = dao.GateEntry{Token: tokens[i], MinBalance: *minBalances[i], IsNFT: isNFT[i]}
	}
	for i, op := range ops {
		c, ok := dao.ParseCombinator(op)
		if !ok {
			return nil, sdk.Revert(ReasonInvalidParams)
		}
		g.Ops[i] = c
	}
	return g, nil
}

// evaluateGate folds entries left to right: r = pass(0), then r = op[i-1](r, pass(i)).
// AND and OR bind equally, there is no precedence.
func evaluateGate(ctx context.Context, g *dao.Gate, who sdk.Address) bool {
	if len(g.Entries) == 0 {
		return true
	}
	result := entryPasses(ctx, &g.Entries[0], who)
	for i := 1; i < len(g.Entries); i++ {
		pass := entryPasses(ctx, &g.Entries[i], who)
		switch g.Ops[i-1] {
		case dao.CombinatorAND:
			result = result && pass
		case dao.CombinatorOR:
			result = result || pass
		}
	}
	return result
}

func entryPasses(ctx context.Context, e *dao.GateEntry, who sdk.Address) bool {
	var token sdk.BalanceReader
	switch {
	case e.IsNFT:
		token = sdk.NFTAt(e.Token)
	case sdk.CodeAt(ctx, e.Token) == CodeDAO:
		// governance tokens live in the instance ledger, not in ERC20 storage
		token = DAOAt(e.Token)
	default:
		token = sdk.ERC20At(e.Token)
	}
	return !token.BalanceOf(ctx, who).Lt(&e.MinBalance)
}

// GetGatingTokenList returns the number of gate entries.
func (d *DAO) GetGatingTokenList(ctx context.Context) (int, error) {
	g, err := loadGate(d.state(ctx))
	if err != nil {
		return 0, err
	}
	return len(g.Entries), nil
}

// GatingEntries returns the gate entries themselves.
func (d *DAO) GatingEntries(ctx context.Context) ([]dao.GateEntry, error) {
	g, err := loadGate(d.state(ctx))
	if err != nil {
		return nil, err
	}
	return g.Entries, nil
}

// GetGatingTokenOperations returns the combinator joining entry i and i+1 as "AND" or "OR".
func (d *DAO) GetGatingTokenOperations(ctx context.Context, i int) (string, error) {
	g, err := loadGate(d.state(ctx))
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(g.Ops) {
		return "", sdk.Revert(ReasonInvalidParams)
	}
	return g.Ops[i].String(), nil
}

// IsEligible evaluates the gate for who without depositing.
func (d *DAO) IsEligible(ctx context.Context, who sdk.Address) (bool, error) {
	g, err := loadGate(d.state(ctx))
	if err != nil {
		return false, err
	}
	return evaluateGate(ctx, g, who), nil
}
