package scenario

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"dao_factory/contract"
	"dao_factory/sdk"
)

const defaultStart = "2025-09-03T00:00:00Z"

var ErrExpectation = errors.New("scenario expectation failed")

// StepResult records what one step did.
type StepResult struct {
	Index    int
	Call     string
	As       string
	TxID     string
	Reverted bool
	Reason   string
	Events   int
}

type CheckResult struct {
	Desc string
	Want string
	Got  string
	OK   bool
}

// Report is the outcome of a full run.
type Report struct {
	Name   string
	Steps  []StepResult
	Checks []CheckResult
}

// Failed counts the checks that did not match.
func (r *Report) Failed() int {
	n := 0
	for _, c := range r.Checks {
		if !c.OK {
			n++
		}
	}
	return n
}

// Runner executes scenarios on a host it owns, with a clock steps can move.
type Runner struct {
	host   *sdk.Host
	logger zerolog.Logger

	mu  sync.Mutex
	now time.Time

	names map[string]sdk.Address
	kinds map[string]string
}

func NewRunner(store sdk.Store, logger zerolog.Logger, reg prometheus.Registerer) *Runner {
	r := &Runner{
		logger: logger.With().Str("component", "scenario").Logger(),
		names:  make(map[string]sdk.Address),
		kinds:  make(map[string]string),
	}
	opts := []sdk.HostOption{sdk.WithLogger(logger), sdk.WithClock(r.clock)}
	if reg != nil {
		opts = append(opts, sdk.WithRegisterer(reg))
	}
	r.host = sdk.NewHost(store, opts...)
	return r
}

// Address returns what a scenario name resolved to.
func (r *Runner) Address(name string) (sdk.Address, bool) {
	a, ok := r.names[name]
	return a, ok
}

func (r *Runner) clock() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now
}

func (r *Runner) advance(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = r.now.Add(d)
}

// Run deploys the scenario fixtures, executes every step and evaluates the checks.
// A step whose outcome differs from its expectation stops the run. Failed checks
// do not; they are all collected and reported together.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Report, error) {
	start := sc.Start
	if start == "" {
		start = defaultStart
	}
	t, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}
	r.mu.Lock()
	r.now = t
	r.mu.Unlock()

	if err := r.setup(ctx, sc); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	report := &Report{Name: sc.Name}
	for i, step := range sc.Steps {
		res, err := r.step(ctx, i, step)
		if res != nil {
			report.Steps = append(report.Steps, *res)
		}
		if err != nil {
			return report, fmt.Errorf("step %d (%s): %w", i, describe(step), err)
		}
	}
	for _, c := range sc.Checks {
		report.Checks = append(report.Checks, r.check(ctx, c))
	}
	if n := report.Failed(); n > 0 {
		return report, fmt.Errorf("%w: %d of %d checks failed", ErrExpectation, n, len(report.Checks))
	}
	r.logger.Info().
		Str("scenario", sc.Name).
		Int("steps", len(report.Steps)).
		Int("checks", len(report.Checks)).
		Msg("scenario passed")
	return report, nil
}

func describe(step Step) string {
	if step.Advance != "" {
		return "advance " + step.Advance
	}
	return step.Call
}

func (r *Runner) setup(ctx context.Context, sc *Scenario) error {
	for _, label := range sc.Accounts {
		if err := r.bind(label, sdk.AccountAddress(label), ""); err != nil {
			return err
		}
	}

	stable := sc.Stablecoin
	if stable.ID == "" {
		stable.ID = "usdc"
	}
	if stable.Name == "" {
		stable.Name = "USD Coin"
	}
	if stable.Symbol == "" {
		stable.Symbol = "USDC"
	}
	if stable.Decimals == nil {
		six := uint8(6)
		stable.Decimals = &six
	}
	stable.Kind = kindERC20
	if stable.Deployer == "" {
		stable.Deployer = sc.Factory.Deployer
	}
	if err := r.deployToken(ctx, stable); err != nil {
		return err
	}
	for _, t := range sc.Tokens {
		if t.Deployer == "" {
			t.Deployer = sc.Factory.Deployer
		}
		if err := r.deployToken(ctx, t); err != nil {
			return err
		}
	}

	deployer, err := r.account(sc.Factory.Deployer)
	if err != nil {
		return fmt.Errorf("factory: %w", err)
	}
	usdc := r.names[stable.ID]
	var factory sdk.Address
	if _, err := r.host.Exec(ctx, deployer, func(ctx context.Context) error {
		f, err := contract.DeployFactory(ctx, usdc)
		if err != nil {
			return err
		}
		factory = f.Address()
		return nil
	}); err != nil {
		return fmt.Errorf("deploy factory: %w", err)
	}
	if err := r.bind("factory", factory, kindFactory); err != nil {
		return err
	}

	for _, d := range sc.DAOs {
		creator, err := r.account(d.Creator)
		if err != nil {
			return fmt.Errorf("dao %s: %w", d.ID, err)
		}
		var addr sdk.Address
		if _, err := r.host.Exec(ctx, creator, func(ctx context.Context) error {
			addr, err = r.createDAO(ctx, contract.FactoryAt(factory), d.Params)
			return err
		}); err != nil {
			return fmt.Errorf("create dao %s: %w", d.ID, err)
		}
		if err := r.bind(d.ID, addr, kindDAO); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) deployToken(ctx context.Context, spec TokenSpec) error {
	deployer, err := r.account(spec.Deployer)
	if err != nil {
		return fmt.Errorf("token %s: %w", spec.ID, err)
	}
	var addr sdk.Address
	if _, err := r.host.Exec(ctx, deployer, func(ctx context.Context) error {
		switch spec.Kind {
		case kindNFT:
			addr = sdk.DeployNFT(ctx, spec.Name, spec.Symbol).Address()
		default:
			decimals := uint8(18)
			if spec.Decimals != nil {
				decimals = *spec.Decimals
			}
			addr = sdk.DeployERC20(ctx, spec.Name, spec.Symbol, decimals).Address()
		}
		return nil
	}); err != nil {
		return fmt.Errorf("deploy token %s: %w", spec.ID, err)
	}
	kind := spec.Kind
	if kind == "" {
		kind = kindERC20
	}
	return r.bind(spec.ID, addr, kind)
}

// bind registers a scenario name. kind is empty for plain accounts.
func (r *Runner) bind(name string, addr sdk.Address, kind string) error {
	if name == "" {
		return errors.New("empty name")
	}
	if _, dup := r.names[name]; dup {
		return fmt.Errorf("name %q used twice", name)
	}
	r.names[name] = addr
	if kind != "" {
		r.kinds[name] = kind
	}
	return nil
}

func (r *Runner) step(ctx context.Context, i int, step Step) (*StepResult, error) {
	if step.Advance != "" {
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return nil, fmt.Errorf("invalid advance: %w", err)
		}
		r.advance(d)
		r.logger.Debug().Int("step", i).Dur("by", d).Msg("clock advanced")
		return nil, nil
	}

	sender, err := r.account(step.As)
	if err != nil {
		return nil, err
	}
	var created sdk.Address
	receipt, err := r.host.Exec(ctx, sender, func(ctx context.Context) error {
		var err error
		created, err = r.dispatch(ctx, step)
		return err
	})
	if receipt == nil {
		return nil, err
	}
	res := &StepResult{
		Index:    i,
		Call:     step.Call,
		As:       step.As,
		TxID:     receipt.TxID,
		Reverted: err != nil,
		Reason:   sdk.Reason(err),
		Events:   len(receipt.Logs),
	}
	r.logger.Info().
		Int("step", i).
		Str("call", step.Call).
		Str("as", step.As).
		Str("tx", receipt.TxID).
		Bool("reverted", res.Reverted).
		Str("reason", res.Reason).
		Msg("step executed")

	switch {
	case step.Expect.Revert != "" && err == nil:
		return res, fmt.Errorf("%w: expected revert %q, call succeeded", ErrExpectation, step.Expect.Revert)
	case step.Expect.Revert != "" && res.Reason != step.Expect.Revert:
		return res, fmt.Errorf("%w: expected revert %q, got %v", ErrExpectation, step.Expect.Revert, err)
	case step.Expect.Revert == "" && err != nil:
		return res, err
	}
	// a created instance only gets its name once the transaction committed
	if err == nil && !sdk.IsZero(created) {
		if err := r.bind(step.Args[0], created, kindDAO); err != nil {
			return res, err
		}
	}
	return res, nil
}
