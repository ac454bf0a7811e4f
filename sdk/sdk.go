package sdk

import (
	"context"
	"errors"
	"time"

	"github.com/holiman/uint256"
)

// Env describes the transaction a contract call is running in.
type Env struct {
	TxID        string
	Origin      Address
	Sender      Address
	Timestamp   time.Time
	BlockHeight uint64
}

// txFrame is everything scoped to one top level transaction.
type txFrame struct {
	env      Env
	tx       *Tx
	logs     []string
	entered  map[Address]bool
	deployed []Address
}

type ctxKey int

const (
	frameKey ctxKey = iota
	senderKey
	hookKey
)

const ReasonReentrant = "ReentrancyGuard: reentrant call"

// RevertError is a domain failure. The reason text is part of the contract surface.
type RevertError struct {
	Reason string
}

func (e *RevertError) Error() string {
	return "execution reverted: " + e.Reason
}

// Revert builds a RevertError for reason.
func Revert(reason string) error {
	return &RevertError{Reason: reason}
}

// Reason extracts the revert reason from err, or "" when err is not a revert.
func Reason(err error) string {
	var re *RevertError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ""
}

// IsRevert reports whether err carries a revert reason.
func IsRevert(err error) bool {
	var re *RevertError
	return errors.As(err, &re)
}

func frame(ctx context.Context) *txFrame {
	f, ok := ctx.Value(frameKey).(*txFrame)
	if !ok {
		panic("sdk: contract call outside of a host transaction")
	}
	return f
}

// GetEnv returns the environment of the running call, with the sender of the current frame.
func GetEnv(ctx context.Context) Env {
	env := frame(ctx).env
	if s, ok := ctx.Value(senderKey).(Address); ok {
		env.Sender = s
	}
	return env
}

// Sender is msg.sender for the current frame.
func Sender(ctx context.Context) Address {
	return GetEnv(ctx).Sender
}

// Now is the block timestamp of the running transaction.
func Now(ctx context.Context) time.Time {
	return frame(ctx).env.Timestamp
}

// CallFrom returns a context in which caller is the sender, used when one contract calls another.
func CallFrom(ctx context.Context, caller Address) context.Context {
	return context.WithValue(ctx, senderKey, caller)
}

// StateOf returns the namespaced state of the contract at self.
func StateOf(ctx context.Context, self Address) State {
	return Namespace(frame(ctx).tx, self)
}

// Log appends an event line to the transaction receipt.
func Log(ctx context.Context, line string) {
	f := frame(ctx)
	f.logs = append(f.logs, line)
}

// Enter marks self as executing for the rest of the transaction until release is called.
// A second Enter for the same contract fails, which is how entry points guard against reentrancy.
func Enter(ctx context.Context, self Address) (func(), error) {
	f := frame(ctx)
	if f.entered[self] {
		return nil, Revert(ReasonReentrant)
	}
	f.entered[self] = true
	return func() { delete(f.entered, self) }, nil
}

// host level keys live outside every contract namespace
const (
	kNonce byte = 0x00
	kCode  byte = 0x01
)

func hostKey(prefix byte, a Address) string {
	buf := make([]byte, 0, 2+len(a))
	buf = append(buf, 0x00, prefix)
	buf = append(buf, a.Bytes()...)
	return string(buf)
}

// Deploy reserves the next CREATE address of the current sender and tags it with kind.
func Deploy(ctx context.Context, kind string) Address {
	f := frame(ctx)
	deployer := Sender(ctx)
	nonceKey := hostKey(kNonce, deployer)
	nonce := GetUint(f.tx, nonceKey)
	addr := CreateAddress(deployer, nonce)
	SetUint(f.tx, nonceKey, nonce+1)
	f.tx.Set(hostKey(kCode, addr), kind)
	f.deployed = append(f.deployed, addr)
	return addr
}

// CodeAt returns the kind tag of the contract at addr, or "" for plain accounts.
func CodeAt(ctx context.Context, addr Address) string {
	ptr := frame(ctx).tx.Get(hostKey(kCode, addr))
	if ptr == nil {
		return ""
	}
	return *ptr
}

// TransferHook runs after every token movement, the way a receiving contract would get control.
type TransferHook func(ctx context.Context, token, from, to Address, amount *uint256.Int) error

// WithTransferHook installs hook for every transaction executed with ctx.
func WithTransferHook(ctx context.Context, hook TransferHook) context.Context {
	return context.WithValue(ctx, hookKey, hook)
}

func fireTransferHook(ctx context.Context, token, from, to Address, amount *uint256.Int) error {
	hook, ok := ctx.Value(hookKey).(TransferHook)
	if !ok || hook == nil {
		return nil
	}
	return hook(ctx, token, from, to, amount)
}
