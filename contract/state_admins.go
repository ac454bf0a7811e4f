package contract

import (
	"fmt"

	"dao_factory/contract/dao"
	"dao_factory/sdk"
)

func loadAdmins(st sdk.State) ([]sdk.Address, error) {
	ptr := st.Get(singleKey(kAdmins))
	if ptr == nil {
		return nil, nil
	}
	list, err := dao.DecodeAddressList([]byte(*ptr))
	if err != nil {
		return nil, fmt.Errorf("decode admins: %w", err)
	}
	return list, nil
}

func saveAdmins(st sdk.State, admins []sdk.Address) {
	st.Set(singleKey(kAdmins), string(dao.EncodeAddressList(admins)))
}

// normalizeAdmins drops duplicates while keeping first occurrence order and rejects the null address.
func normalizeAdmins(in []sdk.Address) ([]sdk.Address, error) {
	seen := make(map[sdk.Address]struct{}, len(in))
	out := make([]sdk.Address, 0, len(in))
	for _, a := range in {
		if sdk.IsZero(a) {
			return nil, sdk.Revert(ReasonInvalidAddress)
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out, nil
}
