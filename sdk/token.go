package sdk

import (
	"context"
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
)

const (
	CodeERC20 = "erc20"
	CodeNFT   = "erc721"

	ReasonInsufficientAllowance = "ERC20: insufficient allowance"
	ReasonTransferExceeds       = "ERC20: transfer amount exceeds balance"
	ReasonTransferToZero        = "ERC20: transfer to the zero address"
	ReasonMintToZero            = "ERC20: mint to the zero address"
	ReasonNFTMinted             = "ERC721: token already minted"
	ReasonNFTInvalidID          = "ERC721: invalid token ID"
	ReasonNFTMintToZero         = "ERC721: mint to the zero address"
)

// BalanceReader is the one thing token gating needs from a token.
type BalanceReader interface {
	BalanceOf(ctx context.Context, owner Address) *uint256.Int
}

// Token is the fungible surface the DAO moves funds through.
type Token interface {
	BalanceReader
	Transfer(ctx context.Context, to Address, amount *uint256.Int) error
	TransferFrom(ctx context.Context, from, to Address, amount *uint256.Int) error
}

// token meta keys, shared by both token kinds
const (
	kTokenName     = "\x01n"
	kTokenSymbol   = "\x01s"
	kTokenDecimals = "\x01d"
	kTokenSupply   = "\x01t"
	kTokenBalance  = "\x02"
	kTokenAllow    = "\x03"
	kTokenOwnerOf  = "\x04"
)

func balanceKey(owner Address) string {
	return kTokenBalance + string(owner.Bytes())
}

func allowanceKey(owner, spender Address) string {
	return kTokenAllow + string(owner.Bytes()) + string(spender.Bytes())
}

func ownerOfKey(id uint64) string {
	return kTokenOwnerOf + strconv.FormatUint(id, 10)
}

// ERC20 is a state backed fungible token with an open faucet style Mint, like the test stablecoin.
type ERC20 struct {
	addr Address
}

// ERC20At binds to an already deployed token.
func ERC20At(addr Address) *ERC20 {
	return &ERC20{addr: addr}
}

// DeployERC20 creates a token owned by nobody; the sender pays nothing and gets nothing.
func DeployERC20(ctx context.Context, name, symbol string, decimals uint8) *ERC20 {
	addr := Deploy(ctx, CodeERC20)
	st := StateOf(ctx, addr)
	st.Set(kTokenName, name)
	st.Set(kTokenSymbol, symbol)
	SetUint(st, kTokenDecimals, uint64(decimals))
	Log(ctx, fmt.Sprintf("td|tk:%s|sym:%s", AddressToString(addr), symbol))
	return &ERC20{addr: addr}
}

func (t *ERC20) Address() Address { return t.addr }

func (t *ERC20) Name(ctx context.Context) string {
	if ptr := StateOf(ctx, t.addr).Get(kTokenName); ptr != nil {
		return *ptr
	}
	return ""
}

func (t *ERC20) Symbol(ctx context.Context) string {
	if ptr := StateOf(ctx, t.addr).Get(kTokenSymbol); ptr != nil {
		return *ptr
	}
	return ""
}

func (t *ERC20) Decimals(ctx context.Context) uint8 {
	return uint8(GetUint(StateOf(ctx, t.addr), kTokenDecimals))
}

func (t *ERC20) TotalSupply(ctx context.Context) *uint256.Int {
	return GetAmount(StateOf(ctx, t.addr), kTokenSupply)
}

func (t *ERC20) BalanceOf(ctx context.Context, owner Address) *uint256.Int {
	return GetAmount(StateOf(ctx, t.addr), balanceKey(owner))
}

func (t *ERC20) Allowance(ctx context.Context, owner, spender Address) *uint256.Int {
	return GetAmount(StateOf(ctx, t.addr), allowanceKey(owner, spender))
}

// Mint credits amount to to. Anyone may mint.
func (t *ERC20) Mint(ctx context.Context, to Address, amount *uint256.Int) error {
	if IsZero(to) {
		return Revert(ReasonMintToZero)
	}
	st := StateOf(ctx, t.addr)
	supply, err := AddAmounts(GetAmount(st, kTokenSupply), amount)
	if err != nil {
		return err
	}
	bal, err := AddAmounts(GetAmount(st, balanceKey(to)), amount)
	if err != nil {
		return err
	}
	SetAmount(st, kTokenSupply, supply)
	SetAmount(st, balanceKey(to), bal)
	Log(ctx, fmt.Sprintf("tm|tk:%s|to:%s|am:%s", AddressToString(t.addr), AddressToString(to), amount.Dec()))
	return nil
}

func (t *ERC20) Approve(ctx context.Context, spender Address, amount *uint256.Int) error {
	owner := Sender(ctx)
	SetAmount(StateOf(ctx, t.addr), allowanceKey(owner, spender), amount)
	Log(ctx, fmt.Sprintf("ta|tk:%s|by:%s|sp:%s|am:%s", AddressToString(t.addr), AddressToString(owner), AddressToString(spender), amount.Dec()))
	return nil
}

func (t *ERC20) Transfer(ctx context.Context, to Address, amount *uint256.Int) error {
	return t.move(ctx, Sender(ctx), to, amount)
}

// TransferFrom spends the sender's allowance on from. An allowance of max uint256 never decreases.
func (t *ERC20) TransferFrom(ctx context.Context, from, to Address, amount *uint256.Int) error {
	spender := Sender(ctx)
	st := StateOf(ctx, t.addr)
	allowed := GetAmount(st, allowanceKey(from, spender))
	if allowed.Lt(amount) {
		return Revert(ReasonInsufficientAllowance)
	}
	if !allowed.Eq(maxAmount) {
		SetAmount(st, allowanceKey(from, spender), new(uint256.Int).Sub(allowed, amount))
	}
	return t.move(ctx, from, to, amount)
}

var maxAmount = new(uint256.Int).SetAllOne()

func (t *ERC20) move(ctx context.Context, from, to Address, amount *uint256.Int) error {
	if IsZero(to) {
		return Revert(ReasonTransferToZero)
	}
	st := StateOf(ctx, t.addr)
	fromBal := GetAmount(st, balanceKey(from))
	if fromBal.Lt(amount) {
		return Revert(ReasonTransferExceeds)
	}
	SetAmount(st, balanceKey(from), new(uint256.Int).Sub(fromBal, amount))
	toBal, err := AddAmounts(GetAmount(st, balanceKey(to)), amount)
	if err != nil {
		return err
	}
	SetAmount(st, balanceKey(to), toBal)
	Log(ctx, fmt.Sprintf("tt|tk:%s|from:%s|to:%s|am:%s", AddressToString(t.addr), AddressToString(from), AddressToString(to), amount.Dec()))
	return fireTransferHook(ctx, t.addr, from, to, amount)
}

// NFT is a minimal non-fungible token; gating only ever asks how many a holder owns.
type NFT struct {
	addr Address
}

func NFTAt(addr Address) *NFT {
	return &NFT{addr: addr}
}

func DeployNFT(ctx context.Context, name, symbol string) *NFT {
	addr := Deploy(ctx, CodeNFT)
	st := StateOf(ctx, addr)
	st.Set(kTokenName, name)
	st.Set(kTokenSymbol, symbol)
	Log(ctx, fmt.Sprintf("td|tk:%s|sym:%s", AddressToString(addr), symbol))
	return &NFT{addr: addr}
}

func (n *NFT) Address() Address { return n.addr }

func (n *NFT) Mint(ctx context.Context, to Address, id uint64) error {
	if IsZero(to) {
		return Revert(ReasonNFTMintToZero)
	}
	st := StateOf(ctx, n.addr)
	if st.Get(ownerOfKey(id)) != nil {
		return Revert(ReasonNFTMinted)
	}
	st.Set(ownerOfKey(id), string(to.Bytes()))
	SetUint(st, balanceKey(to), GetUint(st, balanceKey(to))+1)
	SetUint(st, kTokenSupply, GetUint(st, kTokenSupply)+1)
	Log(ctx, fmt.Sprintf("nm|tk:%s|to:%s|id:%d", AddressToString(n.addr), AddressToString(to), id))
	return nil
}

func (n *NFT) OwnerOf(ctx context.Context, id uint64) (Address, error) {
	ptr := StateOf(ctx, n.addr).Get(ownerOfKey(id))
	if ptr == nil {
		return ZeroAddress, Revert(ReasonNFTInvalidID)
	}
	return BytesToAddress([]byte(*ptr)), nil
}

// BalanceOf counts the tokens held by owner.
func (n *NFT) BalanceOf(ctx context.Context, owner Address) *uint256.Int {
	return uint256.NewInt(GetUint(StateOf(ctx, n.addr), balanceKey(owner)))
}
