package scenario

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	"dao_factory/contract"
	"dao_factory/sdk"
)

func (r *Runner) check(ctx context.Context, c Check) CheckResult {
	res := CheckResult{Desc: describeCheck(c)}
	err := r.host.View(ctx, sdk.ZeroAddress, func(ctx context.Context) error {
		want, got, err := r.evaluate(ctx, c)
		res.Want, res.Got = want, got
		return err
	})
	if err != nil {
		res.Got = "error: " + err.Error()
		return res
	}
	res.OK = res.Want == res.Got
	if !res.OK {
		r.logger.Warn().Str("check", res.Desc).Str("want", res.Want).Str("got", res.Got).Msg("check failed")
	}
	return res
}

func describeCheck(c Check) string {
	switch {
	case c.Token != "":
		return fmt.Sprintf("%s.balanceOf(%s)", c.Token, c.Of)
	case c.Raised != "":
		return c.DAO + ".raised"
	case c.Supply != "":
		return c.DAO + ".totalSupply"
	case c.Open != nil:
		return c.DAO + ".checkDeposit"
	case c.Admins != nil:
		return c.DAO + ".admins"
	}
	return "empty check"
}

// evaluate returns the expected and observed values of c as comparable strings.
func (r *Runner) evaluate(ctx context.Context, c Check) (string, string, error) {
	if c.Token != "" {
		token, ok := r.names[c.Token]
		if !ok {
			return c.Balance, "", fmt.Errorf("unknown token %q", c.Token)
		}
		who, err := r.resolve(c.Of)
		if err != nil {
			return c.Balance, "", err
		}
		return c.Balance, balanceIn(ctx, r.kinds[c.Token], token, who).Dec(), nil
	}

	addr, ok := r.names[c.DAO]
	if !ok || r.kinds[c.DAO] != kindDAO {
		return "", "", fmt.Errorf("unknown dao %q", c.DAO)
	}
	d := contract.DAOAt(addr)
	switch {
	case c.Raised != "":
		return c.Raised, d.Raised(ctx).Dec(), nil
	case c.Supply != "":
		return c.Supply, d.TotalSupply(ctx).Dec(), nil
	case c.Open != nil:
		open, err := d.CheckDeposit(ctx)
		return strconv.FormatBool(*c.Open), strconv.FormatBool(open), err
	case c.Admins != nil:
		want := make([]string, 0, len(c.Admins))
		for _, name := range c.Admins {
			a, err := r.resolve(name)
			if err != nil {
				return "", "", err
			}
			want = append(want, a.Hex())
		}
		admins, err := d.Admins(ctx)
		if err != nil {
			return "", "", err
		}
		got := make([]string, 0, len(admins))
		for _, a := range admins {
			got = append(got, a.Hex())
		}
		return strings.Join(want, ","), strings.Join(got, ","), nil
	}
	return "", "", fmt.Errorf("check on %q asserts nothing", c.DAO)
}

func balanceIn(ctx context.Context, kind string, token, who sdk.Address) *uint256.Int {
	switch kind {
	case kindNFT:
		return sdk.NFTAt(token).BalanceOf(ctx, who)
	case kindDAO:
		return contract.DAOAt(token).BalanceOf(ctx, who)
	}
	return sdk.ERC20At(token).BalanceOf(ctx, who)
}
