package storage

import (
	"encoding/binary"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"justus/errors"

	"github.com/dgraph-io/badger/v4"
)

// maxConflictRetries bounds how often a transaction is replayed after losing
// a write race to another transaction.
const maxConflictRetries = 10

func getJSON[T any](txn *badger.Txn, key []byte) (T, error) {
	var v T
	item, err := txn.Get(key)
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return v, fmt.Errorf("%s: %w", key, errors.ErrNotFound)
	}
	if err != nil {
		return v, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &v)
	})
	return v, err
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return txn.Set(key, data)
}

func getString(txn *badger.Txn, key []byte) (string, error) {
	item, err := txn.Get(key)
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return "", fmt.Errorf("%s: %w", key, errors.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	val, err := item.ValueCopy(nil)
	return string(val), err
}

func getCounter(txn *badger.Txn, key []byte) (uint64, error) {
	item, err := txn.Get(key)
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var n uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("counter %s is corrupted", key)
		}
		n = binary.BigEndian.Uint64(val)
		return nil
	})
	return n, err
}

func setCounter(txn *badger.Txn, key []byte, n uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n)
	return txn.Set(key, buf)
}

// update runs fn in a read-write transaction and replays it when badger
// reports a conflict. fn must be safe to run more than once.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for range maxConflictRetries {
		err = db.Update(fn)
		if !stderrors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// scanKeys collects the keys under prefix, oldest first unless reverse is
// set. limit <= 0 means no limit.
func scanKeys(txn *badger.Txn, prefix []byte, reverse bool, limit int) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Reverse = reverse
	it := txn.NewIterator(opts)
	defer it.Close()

	seek := prefix
	if reverse {
		seek = append(append([]byte{}, prefix...), 0xFF)
	}
	var keys [][]byte
	for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
		if limit > 0 && len(keys) == limit {
			break
		}
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

// scanValues collects the values under prefix in key order.
func scanValues[T any](txn *badger.Txn, prefix []byte) ([]T, error) {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	var values []T
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var v T
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		}); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func isNotFound(err error) bool {
	return stderrors.Is(err, errors.ErrNotFound)
}
