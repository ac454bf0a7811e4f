package sdk

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Receipt is what a committed or reverted transaction leaves behind.
type Receipt struct {
	TxID        string
	Sender      Address
	BlockHeight uint64
	Timestamp   time.Time
	Logs        []string
	Deployed    []Address
	Success     bool
	Ret         string
}

// Host executes contract calls one transaction at a time on top of a Store.
type Host struct {
	mu      sync.Mutex
	store   Store
	logger  zerolog.Logger
	now     func() time.Time
	height  uint64
	metrics *hostMetrics
}

type HostOption func(*Host)

// WithLogger routes receipts and reverts to logger.
func WithLogger(logger zerolog.Logger) HostOption {
	return func(h *Host) {
		h.logger = logger.With().Str("component", "host").Logger()
	}
}

// WithClock replaces wall time, tests use it to move blocks forward.
func WithClock(now func() time.Time) HostOption {
	return func(h *Host) {
		h.now = now
	}
}

// WithRegisterer registers the host metrics on reg instead of a private registry.
func WithRegisterer(reg prometheus.Registerer) HostOption {
	return func(h *Host) {
		h.metrics = newHostMetrics(reg)
	}
}

func NewHost(store Store, opts ...HostOption) *Host {
	h := &Host{
		store:  store,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.metrics == nil {
		h.metrics = newHostMetrics(prometheus.NewRegistry())
	}
	return h
}

// Store returns the committed backend.
func (h *Host) Store() Store {
	return h.store
}

// Height is the number of transactions executed so far.
func (h *Host) Height() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.height
}

// Exec runs fn as one transaction sent by sender. Writes are committed only when fn
// returns nil; on any error every write of the call is dropped.
// The returned receipt is non-nil for reverts too, with Ret holding the reason.
func (h *Host) Exec(ctx context.Context, sender Address, fn func(ctx context.Context) error) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.height++
	f := h.newFrame(sender)
	err := fn(context.WithValue(ctx, frameKey, f))
	if err == nil {
		err = f.tx.Err()
	}
	receipt := &Receipt{
		TxID:        f.env.TxID,
		Sender:      sender,
		BlockHeight: f.env.BlockHeight,
		Timestamp:   f.env.Timestamp,
	}
	if err != nil {
		receipt.Ret = err.Error()
		h.metrics.reverts.WithLabelValues(revertLabel(err)).Inc()
		h.logger.Debug().
			Str("tx", receipt.TxID).
			Str("sender", AddressToString(sender)).
			Err(err).
			Msg("transaction reverted")
		return receipt, err
	}
	if err := f.tx.commit(); err != nil {
		return nil, fmt.Errorf("commit tx %s: %w", receipt.TxID, err)
	}
	receipt.Success = true
	receipt.Logs = f.logs
	receipt.Deployed = f.deployed
	h.metrics.txs.Inc()
	for _, line := range f.logs {
		h.metrics.events.WithLabelValues(eventKind(line)).Inc()
		h.logger.Debug().Str("tx", receipt.TxID).Msg(line)
	}
	return receipt, nil
}

// View runs fn against the current state and throws every write away.
func (h *Host) View(ctx context.Context, sender Address, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	f := h.newFrame(sender)
	if err := fn(context.WithValue(ctx, frameKey, f)); err != nil {
		return err
	}
	return f.tx.Err()
}

func (h *Host) newFrame(sender Address) *txFrame {
	return &txFrame{
		env: Env{
			TxID:        uuid.NewString(),
			Origin:      sender,
			Sender:      sender,
			Timestamp:   h.now().UTC(),
			BlockHeight: h.height,
		},
		tx:      newTx(h.store),
		entered: make(map[Address]bool),
	}
}

// eventKind is the short tag in front of the first '|' of an event line.
func eventKind(line string) string {
	if i := strings.IndexByte(line, '|'); i > 0 {
		return line[:i]
	}
	return line
}

func revertLabel(err error) string {
	if r := Reason(err); r != "" {
		return r
	}
	return "internal"
}
