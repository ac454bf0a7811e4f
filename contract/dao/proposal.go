package dao

import (
	"errors"

	"github.com/holiman/uint256"
)

// ProposalKind names the action a proposal performs.
type ProposalKind uint8

const (
	KindAirdrop ProposalKind = iota
	KindMintGT
	KindUpdateGovernance
	KindUpdateRaiseAmount
	KindSendCustomToken
	KindUpdateAdmins
)

var kindNames = [...]string{
	KindAirdrop:           "airdrop",
	KindMintGT:            "mintGT",
	KindUpdateGovernance:  "updateGovernance",
	KindUpdateRaiseAmount: "updateRaiseAmount",
	KindSendCustomToken:   "sendCustomToken",
	KindUpdateAdmins:      "updateAdmins",
}

func (k ProposalKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseProposalKind is the inverse of String.
func ParseProposalKind(s string) (ProposalKind, bool) {
	for i, name := range kindNames {
		if name == s {
			return ProposalKind(i), true
		}
	}
	return 0, false
}

// Action is one of the six proposal payloads below.
type Action interface {
	Kind() ProposalKind
}

// Airdrop splits the DAO's balance of Token across governance token holders.
// A zero Token means the accepted stablecoin.
type Airdrop struct {
	Token    Address
	OwnerFee uint64
}

// MintGT mints governance tokens straight to recipients.
type MintGT struct {
	Amounts    []*uint256.Int
	Recipients []Address
}

type UpdateGovernance struct {
	Quorum    uint64
	Threshold uint64
}

// UpdateRaiseAmount moves the raise cap. A nil MaxDepositPerUser keeps the current per user cap.
type UpdateRaiseAmount struct {
	TotalRaiseAmount  *uint256.Int
	MaxDepositPerUser *uint256.Int
}

// SendCustomToken pays out of the DAO's own holdings of Token.
type SendCustomToken struct {
	Token      Address
	Amounts    []*uint256.Int
	Recipients []Address
}

// UpdateAdmins replaces the admin list.
type UpdateAdmins struct {
	Admins []Address
}

func (Airdrop) Kind() ProposalKind           { return KindAirdrop }
func (MintGT) Kind() ProposalKind            { return KindMintGT }
func (UpdateGovernance) Kind() ProposalKind  { return KindUpdateGovernance }
func (UpdateRaiseAmount) Kind() ProposalKind { return KindUpdateRaiseAmount }
func (SendCustomToken) Kind() ProposalKind   { return KindSendCustomToken }
func (UpdateAdmins) Kind() ProposalKind      { return KindUpdateAdmins }

// Proposal is executed in the same call that submits it; nothing about it is stored.
type Proposal struct {
	ID     string
	Tag    string
	Action Action
}

// FlagProposal is the flat tuple shape with six selector flags, kept for callers that still speak it.
type FlagProposal struct {
	ID                 string
	Passphrase         string
	Sequence           uint64
	AirdropToken       Address
	CustomToken        Address
	Flags              [6]bool
	Quorum             uint64
	Threshold          uint64
	TotalRaiseAmount   *uint256.Int
	MaxDepositPerUser  *uint256.Int
	MintAmounts        []*uint256.Int
	MintRecipients     []Address
	TransferAmounts    []*uint256.Int
	TransferRecipients []Address
	OwnerFee           uint64
	Admins             []Address
}

var ErrInvalidProposalType = errors.New("invalid proposal type")

// FromFlags picks the single action selected by the flag vector.
// Zero or several set flags are rejected.
func (fp FlagProposal) FromFlags() (Proposal, error) {
	selected := -1
	for i, on := range fp.Flags {
		if !on {
			continue
		}
		if selected >= 0 {
			return Proposal{}, ErrInvalidProposalType
		}
		selected = i
	}
	p := Proposal{ID: fp.ID, Tag: fp.Passphrase}
	switch ProposalKind(selected) {
	case KindAirdrop:
		p.Action = Airdrop{Token: fp.AirdropToken, OwnerFee: fp.OwnerFee}
	case KindMintGT:
		p.Action = MintGT{Amounts: fp.MintAmounts, Recipients: fp.MintRecipients}
	case KindUpdateGovernance:
		p.Action = UpdateGovernance{Quorum: fp.Quorum, Threshold: fp.Threshold}
	case KindUpdateRaiseAmount:
		p.Action = UpdateRaiseAmount{TotalRaiseAmount: fp.TotalRaiseAmount, MaxDepositPerUser: fp.MaxDepositPerUser}
	case KindSendCustomToken:
		p.Action = SendCustomToken{Token: fp.CustomToken, Amounts: fp.TransferAmounts, Recipients: fp.TransferRecipients}
	case KindUpdateAdmins:
		p.Action = UpdateAdmins{Admins: fp.Admins}
	default:
		return Proposal{}, ErrInvalidProposalType
	}
	return p, nil
}
