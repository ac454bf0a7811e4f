package contract

import "dao_factory/sdk"

// DAO instance keys. Every key lives inside the instance's own namespace.
const (
	// kConfig stores the encoded dao.Config.
	kConfig byte = 0x01
	// kWindow stores the deposit window separately so opening and closing touches few bytes.
	kWindow byte = 0x02
	// kGate stores the whole token gate as one blob.
	kGate byte = 0x03
	// kAdmins stores the ordered admin list.
	kAdmins byte = 0x04
	// kRaised tracks cumulative accepted deposits in stablecoin units.
	kRaised byte = 0x05
	// kSupply is the governance token total supply.
	kSupply byte = 0x06
	// kBalance prefixes per holder governance token balances.
	kBalance byte = 0x07
	// kHolderCount counts distinct holders.
	kHolderCount byte = 0x08
	// kHolderAt maps a holder index to its address, in first mint order.
	kHolderAt byte = 0x09
	// kProposalCount counts executed proposals.
	kProposalCount byte = 0x0a
)

// Factory and emitter keys.
const (
	kFactoryOwner   byte = 0x20
	kFactoryUSDC    byte = 0x21
	kFactoryImpl    byte = 0x22
	kFactoryEmitter byte = 0x23
	kDaoCount       byte = 0x24
	kDaoAt          byte = 0x25

	kEmitterFactory byte = 0x30
	kEmitterDAO     byte = 0x31
	kEmitterEvents  byte = 0x32
)

// packU64LE appends the encoded number to dst and returns the new slice.
func packU64LE(x uint64, dst []byte) []byte {
	return append(dst,
		byte(x),
		byte(x>>8),
		byte(x>>16),
		byte(x>>24),
		byte(x>>32),
		byte(x>>40),
		byte(x>>48),
		byte(x>>56),
	)
}

// singleKey is a one byte key for singletons like the config blob.
func singleKey(prefix byte) string {
	return string([]byte{prefix})
}

// addressKey mixes a prefix with raw address bytes.
func addressKey(prefix byte, addr sdk.Address) string {
	buf := make([]byte, 0, 1+len(addr))
	buf = append(buf, prefix)
	buf = append(buf, addr.Bytes()...)
	return string(buf)
}

// indexKey encodes an index under prefix for append only lists.
func indexKey(prefix byte, idx uint64) string {
	buf := make([]byte, 0, 9)
	buf = append(buf, prefix)
	buf = packU64LE(idx, buf)
	return string(buf)
}

func balanceKey(addr sdk.Address) string { return addressKey(kBalance, addr) }

func holderKey(idx uint64) string { return indexKey(kHolderAt, idx) }

func daoAtKey(idx uint64) string { return indexKey(kDaoAt, idx) }

func emitterDAOKey(addr sdk.Address) string { return addressKey(kEmitterDAO, addr) }
