package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
)

var historyKey = []byte("downloadHistory")

// maxConflictRetries bounds how often Add re-runs after another process
// wrote the history between its read and its commit.
const maxConflictRetries = 10

type BadgerStore struct {
	db  *badger.DB
	max int
	// mu serializes the read-modify-write in Add within this process.
	mu sync.Mutex
}

// Open opens (or creates) the history database in dir.
func Open(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening history db at %s: %w", dir, err)
	}
	return NewBadgerStore(db), nil
}

func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db, max: MaxEntries}
}

func (s *BadgerStore) List() ([]Entry, error) {
	var list []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		list, err = readList(txn)
		return err
	})
	return list, err
}

// Add prepends entry and rewrites the list. Badger's optimistic
// transactions reject concurrent writers with ErrConflict, so the update is
// retried with a fresh read.
func (s *BadgerStore) Add(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	for range maxConflictRetries {
		if err = s.add(entry); !errors.Is(err, badger.ErrConflict) {
			return err
		}
		log.Debug().Str("op", "history/badger").Msg("history write conflict, retrying")
	}
	return err
}

func (s *BadgerStore) add(entry Entry) error {
	return s.db.Update(func(txn *badger.Txn) error {
		list, err := readList(txn)
		if err != nil {
			return err
		}
		data, err := json.Marshal(Prepend(list, entry, s.max))
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		return txn.Set(historyKey, data)
	})
}

func (s *BadgerStore) Clear() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(historyKey)
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// readList treats a missing key as an empty history and a corrupt value as
// one too, so one bad write never blocks future downloads.
func readList(txn *badger.Txn) ([]Entry, error) {
	item, err := txn.Get(historyKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []Entry
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &list)
	})
	if err != nil {
		log.Warn().Str("op", "history/badger").Err(err).Msg("discarding unreadable download history")
		return nil, nil
	}
	return Normalize(list, MaxEntries), nil
}
