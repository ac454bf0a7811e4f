package contract

import (
	"context"

	"dao_factory/sdk"
)

// Emitter is the factory wide event sink. Instances forward their events here so a
// single address carries the activity of every DAO the factory created.
type Emitter struct {
	addr sdk.Address
}

func EmitterAt(addr sdk.Address) *Emitter {
	return &Emitter{addr: addr}
}

// deployEmitter is called by the factory with the factory as sender.
func deployEmitter(ctx context.Context, factory sdk.Address) *Emitter {
	addr := sdk.Deploy(ctx, CodeEmitter)
	saveAddress(sdk.StateOf(ctx, addr), kEmitterFactory, factory)
	return &Emitter{addr: addr}
}

func (e *Emitter) Address() sdk.Address { return e.addr }

func (e *Emitter) state(ctx context.Context) sdk.State {
	return sdk.StateOf(ctx, e.addr)
}

// Factory is the only address allowed to register instances.
func (e *Emitter) Factory(ctx context.Context) sdk.Address {
	return loadAddress(e.state(ctx), kEmitterFactory)
}

// IsDAO reports whether addr was registered by the factory.
func (e *Emitter) IsDAO(ctx context.Context, addr sdk.Address) bool {
	return e.state(ctx).Get(emitterDAOKey(addr)) != nil
}

// EventCount is the number of lines emitted so far.
func (e *Emitter) EventCount(ctx context.Context) uint64 {
	return getCount(e.state(ctx), kEmitterEvents)
}

func (e *Emitter) registerDAO(ctx context.Context, addr sdk.Address) error {
	st := e.state(ctx)
	if getSenderAddress(ctx) != loadAddress(st, kEmitterFactory) {
		return sdk.Revert(ReasonOnlyFactory)
	}
	st.Set(emitterDAOKey(addr), "1")
	return nil
}

// Emit writes line on behalf of a registered instance.
func (e *Emitter) Emit(ctx context.Context, line string) error {
	st := e.state(ctx)
	sender := getSenderAddress(ctx)
	if st.Get(emitterDAOKey(sender)) == nil {
		return sdk.Revert(ReasonOnlyDAO)
	}
	incCount(st, kEmitterEvents)
	sdk.Log(ctx, line)
	return nil
}
