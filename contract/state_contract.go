package contract

import (
	"fmt"

	"dao_factory/contract/dao"
	"dao_factory/sdk"
)

// loadConfig reads the instance configuration. A missing config means nothing was
// ever initialized at this address.
func loadConfig(st sdk.State) (*dao.Config, error) {
	ptr := st.Get(singleKey(kConfig))
	if ptr == nil {
		return nil, sdk.Revert(ReasonNotInitialized)
	}
	cfg, err := dao.DecodeConfig([]byte(*ptr))
	if err != nil {
		return nil, fmt.Errorf("decode dao config: %w", err)
	}
	return cfg, nil
}

func saveConfig(st sdk.State, cfg *dao.Config) {
	st.Set(singleKey(kConfig), string(dao.EncodeConfig(cfg)))
}

// loadWindow returns a closed window when none was stored yet.
func loadWindow(st sdk.State) (*dao.Window, error) {
	ptr := st.Get(singleKey(kWindow))
	if ptr == nil {
		return &dao.Window{}, nil
	}
	win, err := dao.DecodeWindow([]byte(*ptr))
	if err != nil {
		return nil, fmt.Errorf("decode deposit window: %w", err)
	}
	return win, nil
}

func saveWindow(st sdk.State, win *dao.Window) {
	st.Set(singleKey(kWindow), string(dao.EncodeWindow(win)))
}

// loadGate returns an empty gate when gating was never configured.
func loadGate(st sdk.State) (*dao.Gate, error) {
	ptr := st.Get(singleKey(kGate))
	if ptr == nil {
		return &dao.Gate{}, nil
	}
	g, err := dao.DecodeGate([]byte(*ptr))
	if err != nil {
		return nil, fmt.Errorf("decode token gate: %w", err)
	}
	return g, nil
}

// saveGate drops the key entirely for an empty gate.
func saveGate(st sdk.State, g *dao.Gate) {
	if len(g.Entries) == 0 {
		st.Delete(singleKey(kGate))
		return
	}
	st.Set(singleKey(kGate), string(dao.EncodeGate(g)))
}
