package contract

import (
	"context"

	"dao_factory/sdk"
)

// getSenderAddress returns msg.sender of the current frame.
func getSenderAddress(ctx context.Context) sdk.Address {
	return sdk.Sender(ctx)
}

// nowUnix is the block timestamp in unix seconds.
func nowUnix(ctx context.Context) int64 {
	return sdk.Now(ctx).Unix()
}

// asContract switches the sender to self before calling out, like a contract calling another contract.
func asContract(ctx context.Context, self sdk.Address) context.Context {
	return sdk.CallFrom(ctx, self)
}

// guard takes the per instance reentrancy lock for one state changing entry point.
func guard(ctx context.Context, self sdk.Address) (func(), error) {
	return sdk.Enter(ctx, self)
}
