package store

import (
	"errors"
	"fmt"
	"os"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"dao_factory/sdk"
)

// BadgerStore persists committed contract state in badger. One host transaction
// maps onto one badger update, so a crash never leaves half a transaction behind.
type BadgerStore struct {
	db      *badger.DB
	logger  zerolog.Logger
	dataDir string
	writes  prometheus.Counter
	deletes prometheus.Counter
}

var _ sdk.Store = (*BadgerStore)(nil)

type Option func(*BadgerStore)

// WithDataDir stores data on disk under dir. Without it the store lives in memory.
func WithDataDir(dir string) Option {
	return func(s *BadgerStore) {
		s.dataDir = dir
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *BadgerStore) {
		s.logger = logger.With().Str("component", "store").Logger()
	}
}

// WithRegisterer exposes write counters on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *BadgerStore) {
		f := promauto.With(reg)
		s.writes = f.NewCounter(prometheus.CounterOpts{
			Name: "daofactory_store_keys_written_total",
			Help: "number of keys written to the state store",
		})
		s.deletes = f.NewCounter(prometheus.CounterOpts{
			Name: "daofactory_store_keys_deleted_total",
			Help: "number of keys deleted from the state store",
		})
	}
}

func New(opts ...Option) (*BadgerStore, error) {
	s := &BadgerStore{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.writes == nil {
		WithRegisterer(prometheus.NewRegistry())(s)
	}

	var badgerOpts badger.Options
	if s.dataDir == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
		badgerOpts = badger.DefaultOptions(s.dataDir)
	}
	badgerOpts = badgerOpts.
		WithLogger(badgerLogger{s.logger}).
		// the default INFO logging is a bit verbose
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	s.db = db
	s.logger.Debug().Str("dir", s.dataDir).Msg("state store opened")
	return s, nil
}

// Load returns nil for keys that were never written.
func (s *BadgerStore) Load(key string) (*string, error) {
	var out *string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		str := string(val)
		out = &str
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Apply writes one transaction's write set atomically. A nil value deletes the key.
func (s *BadgerStore) Apply(writes map[string]*string) error {
	var set, del int
	err := s.db.Update(func(txn *badger.Txn) error {
		for k, v := range writes {
			if v == nil {
				if err := txn.Delete([]byte(k)); err != nil {
					return err
				}
				del++
				continue
			}
			if err := txn.Set([]byte(k), []byte(*v)); err != nil {
				return err
			}
			set++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("apply %d writes: %w", len(writes), err)
	}
	s.writes.Add(float64(set))
	s.deletes.Add(float64(del))
	return nil
}

// Len counts the stored keys. It walks the whole keyspace, so keep it for tests and tooling.
func (s *BadgerStore) Len() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's own messages into zerolog.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.logger.Info().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug().Msgf(format, args...)
}
