package sdk

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/holiman/uint256"
)

// State is the key/value view a contract reads and writes during a call.
type State interface {
	Set(key, value string)
	Get(key string) *string
	Delete(key string)
	// Fail records a read the contract could not make sense of; the transaction is aborted.
	Fail(err error)
}

// Store is the committed backend underneath every transaction.
// Apply receives the write set of one transaction; a nil value means delete.
type Store interface {
	Load(key string) (*string, error)
	Apply(writes map[string]*string) error
	Close() error
}

// MemStore keeps everything in a map. It is the default for tests and one-off scenario runs.
type MemStore struct {
	mu sync.RWMutex
	db map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{db: make(map[string]string)}
}

func (m *MemStore) Load(key string) (*string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.db[key]
	if !ok {
		return nil, nil
	}
	return &val, nil
}

func (m *MemStore) Apply(writes map[string]*string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range writes {
		if v == nil {
			delete(m.db, k)
			continue
		}
		m.db[k] = *v
	}
	return nil
}

func (m *MemStore) Close() error { return nil }

// Len reports the number of committed keys.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.db)
}

// Tx buffers the writes of one transaction on top of a Store.
// Nothing reaches the store until commit, so a failed call leaves no trace.
type Tx struct {
	base   Store
	writes map[string]*string
	err    error
}

func newTx(base Store) *Tx {
	return &Tx{base: base, writes: make(map[string]*string)}
}

func (t *Tx) Get(key string) *string {
	if v, ok := t.writes[key]; ok {
		if v == nil {
			return nil
		}
		val := *v
		return &val
	}
	v, err := t.base.Load(key)
	if err != nil {
		t.Fail(fmt.Errorf("load %x: %w", key, err))
		return nil
	}
	return v
}

func (t *Tx) Set(key, value string) {
	t.writes[key] = &value
}

func (t *Tx) Delete(key string) {
	t.writes[key] = nil
}

// Fail keeps the first error; commit refuses to run after it.
func (t *Tx) Fail(err error) {
	if t.err == nil {
		t.err = err
	}
}

// Err returns the first backend read failure seen by this transaction.
func (t *Tx) Err() error {
	return t.err
}

func (t *Tx) commit() error {
	if t.err != nil {
		return t.err
	}
	if len(t.writes) == 0 {
		return nil
	}
	return t.base.Apply(t.writes)
}

// prefixState scopes a State to one contract so instances never see each other's keys.
type prefixState struct {
	base   State
	prefix string
}

// Namespace returns the slice of base owned by the contract at self.
// Contract keys start with 0x01, host bookkeeping keys with 0x00.
func Namespace(base State, self Address) State {
	return prefixState{base: base, prefix: "\x01" + string(self.Bytes())}
}

func (p prefixState) Set(key, value string) { p.base.Set(p.prefix+key, value) }
func (p prefixState) Get(key string) *string { return p.base.Get(p.prefix + key) }
func (p prefixState) Delete(key string)      { p.base.Delete(p.prefix + key) }
func (p prefixState) Fail(err error)         { p.base.Fail(err) }

// GetAmount reads a decimal encoded amount and defaults to zero. A value that does
// not decode fails the transaction.
func GetAmount(st State, key string) *uint256.Int {
	ptr := st.Get(key)
	if ptr == nil || *ptr == "" {
		return new(uint256.Int)
	}
	v, err := uint256.FromDecimal(*ptr)
	if err != nil {
		st.Fail(fmt.Errorf("corrupt amount at %x: %w", key, err))
		return new(uint256.Int)
	}
	return v
}

// SetAmount stores v as base-10 text; zero amounts are deleted to keep the store lean.
func SetAmount(st State, key string, v *uint256.Int) {
	if v.IsZero() {
		st.Delete(key)
		return
	}
	st.Set(key, v.Dec())
}

// GetUint reads a decimal uint64 counter and defaults to zero.
func GetUint(st State, key string) uint64 {
	ptr := st.Get(key)
	if ptr == nil || *ptr == "" {
		return 0
	}
	n, err := strconv.ParseUint(*ptr, 10, 64)
	if err != nil {
		st.Fail(fmt.Errorf("corrupt counter at %x: %w", key, err))
		return 0
	}
	return n
}

// SetUint stores uint64 counters back as decimal strings.
func SetUint(st State, key string, n uint64) {
	st.Set(key, strconv.FormatUint(n, 10))
}
