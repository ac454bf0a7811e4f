package contract

import "dao_factory/sdk"

// getCount reads the counter stored under prefix and defaults to zero.
func getCount(st sdk.State, prefix byte) uint64 {
	return sdk.GetUint(st, singleKey(prefix))
}

// setCount stores a counter back as decimal text.
func setCount(st sdk.State, prefix byte, n uint64) {
	sdk.SetUint(st, singleKey(prefix), n)
}

// incCount bumps a counter and returns the value before the bump, handy as the next index.
func incCount(st sdk.State, prefix byte) uint64 {
	n := getCount(st, prefix)
	setCount(st, prefix, n+1)
	return n
}
