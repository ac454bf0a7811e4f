package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted run against a fresh factory: who exists, what gets deployed,
// which calls are made and what the balances look like at the end.
type Scenario struct {
	Name       string      `yaml:"name"`
	Start      string      `yaml:"start"`
	Accounts   []string    `yaml:"accounts"`
	Stablecoin TokenSpec   `yaml:"stablecoin"`
	Tokens     []TokenSpec `yaml:"tokens"`
	Factory    FactorySpec `yaml:"factory"`
	DAOs       []DAOSpec   `yaml:"daos"`
	Steps      []Step      `yaml:"steps"`
	Checks     []Check     `yaml:"checks"`
}

type TokenSpec struct {
	ID       string `yaml:"id"`
	Kind     string `yaml:"kind"`
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Decimals *uint8 `yaml:"decimals"`
	Deployer string `yaml:"deployer"`
}

type FactorySpec struct {
	Deployer string `yaml:"deployer"`
}

// DAOSpec creates an instance before the first step. Params is the pipe delimited createDAO tuple.
type DAOSpec struct {
	ID      string `yaml:"id"`
	Creator string `yaml:"creator"`
	Params  string `yaml:"params"`
}

// Step is either a call ("target.method") or a clock advance.
type Step struct {
	Call     string        `yaml:"call"`
	As       string        `yaml:"as"`
	Args     []string      `yaml:"args"`
	Proposal *ProposalSpec `yaml:"proposal"`
	Advance  string        `yaml:"advance"`
	Expect   Expect        `yaml:"expect"`
}

// Expect describes the outcome a step must have. The zero value means success.
type Expect struct {
	Revert string `yaml:"revert"`
}

// ProposalSpec is the YAML form of a proposal; only the fields of Kind are read.
type ProposalSpec struct {
	ID                string   `yaml:"id"`
	Kind              string   `yaml:"kind"`
	Token             string   `yaml:"token"`
	OwnerFee          uint64   `yaml:"ownerFee"`
	Quorum            uint64   `yaml:"quorum"`
	Threshold         uint64   `yaml:"threshold"`
	TotalRaiseAmount  string   `yaml:"totalRaiseAmount"`
	MaxDepositPerUser string   `yaml:"maxDepositPerUser"`
	Amounts           []string `yaml:"amounts"`
	Recipients        []string `yaml:"recipients"`
	Admins            []string `yaml:"admins"`
}

// Check asserts one value after all steps ran.
//
//	token+of+balance  balance of an account in a token, or GT balance when token is a DAO id
//	dao+raised        cumulative raise
//	dao+supply        governance token supply
//	dao+open          deposit window state
//	dao+admins        exact admin list
type Check struct {
	Token   string   `yaml:"token"`
	DAO     string   `yaml:"dao"`
	Of      string   `yaml:"of"`
	Balance string   `yaml:"balance"`
	Raised  string   `yaml:"raised"`
	Supply  string   `yaml:"supply"`
	Open    *bool    `yaml:"open"`
	Admins  []string `yaml:"admins"`
}

const (
	kindERC20   = "erc20"
	kindNFT     = "nft"
	kindFactory = "factory"
	kindDAO     = "dao"
)

var ErrEmptyScenario = errors.New("scenario has no steps and no checks")

// LoadFile reads and validates a scenario file.
func LoadFile(path string) (*Scenario, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading scenario: %w", err)
	}
	return Parse(buf)
}

// Parse decodes a scenario strictly; unknown fields are an error.
func Parse(buf []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("error parsing scenario: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) validate() error {
	if len(sc.Steps) == 0 && len(sc.Checks) == 0 {
		return ErrEmptyScenario
	}
	for i, t := range sc.Tokens {
		if t.ID == "" {
			return fmt.Errorf("token %d: missing id", i)
		}
		if t.Kind != kindERC20 && t.Kind != kindNFT {
			return fmt.Errorf("token %s: unknown kind %q", t.ID, t.Kind)
		}
	}
	for i, d := range sc.DAOs {
		if d.ID == "" || d.Params == "" {
			return fmt.Errorf("dao %d: id and params are required", i)
		}
	}
	for i, s := range sc.Steps {
		switch {
		case s.Call == "" && s.Advance == "":
			return fmt.Errorf("step %d: needs call or advance", i)
		case s.Call != "" && s.Advance != "":
			return fmt.Errorf("step %d: call and advance are exclusive", i)
		}
	}
	return nil
}
