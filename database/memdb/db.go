// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package memdb

import (
	"bytes"
	"errors"
	"sync"

	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/util"

	skiplist "github.com/syndtr/goleveldb/leveldb/memdb"

	"github.com/ava-labs/walletkit/database"
)

const (
	// Name is the name of this database for database switches
	Name = "memdb"

	// DefaultCapacity is the number of bytes initially reserved for keys and
	// values.
	DefaultCapacity = 4 * 1024
)

var (
	_ database.Database = (*Database)(nil)
	_ database.Iterator = (*iter)(nil)
)

// Database is an ephemeral key-value store kept in a sorted skiplist, so
// prefix iteration does not need to sort.
type Database struct {
	// lock guards closing against every other call. The skiplist
	// synchronizes itself.
	lock sync.RWMutex
	db   *skiplist.DB
}

func New() *Database {
	return &Database{
		db: skiplist.New(comparer.DefaultComparer, DefaultCapacity),
	}
}

func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.db == nil {
		return database.ErrClosed
	}
	db.db.Reset()
	db.db = nil
	return nil
}

func (db *Database) closed() bool {
	db.lock.RLock()
	defer db.lock.RUnlock()

	return db.db == nil
}

func (db *Database) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return false, database.ErrClosed
	}
	return db.db.Contains(key), nil
}

func (db *Database) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return nil, database.ErrClosed
	}
	value, err := db.db.Get(key)
	if errors.Is(err, skiplist.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// The skiplist owns [value].
	return bytes.Clone(value), nil
}

// Put copies [key] and [value].
func (db *Database) Put(key []byte, value []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return database.ErrClosed
	}
	return db.db.Put(key, value)
}

func (db *Database) Delete(key []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return database.ErrClosed
	}
	err := db.db.Delete(key)
	if errors.Is(err, skiplist.ErrNotFound) {
		return nil
	}
	return err
}

// NewIteratorWithPrefix iterates over a snapshot of the keys under [prefix]
// in ascending order. Writes made after it is created are not observed.
func (db *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return &database.IteratorError{
			Err: database.ErrClosed,
		}
	}

	it := db.db.NewIterator(util.BytesPrefix(prefix))
	defer it.Release()

	var entries []entry
	for it.Next() {
		entries = append(entries, entry{
			key:   bytes.Clone(it.Key()),
			value: bytes.Clone(it.Value()),
		})
	}
	return &iter{
		db:      db,
		entries: entries,
		err:     it.Error(),
	}
}

type entry struct {
	key, value []byte
}

type iter struct {
	db      *Database
	entries []entry
	// nil until the first call to Next
	current *entry
	err     error
}

func (it *iter) Next() bool {
	if it.err != nil {
		return false
	}
	if it.db.closed() {
		it.Release()
		it.err = database.ErrClosed
		return false
	}
	if len(it.entries) == 0 {
		it.current = nil
		return false
	}
	it.current = &it.entries[0]
	it.entries = it.entries[1:]
	return true
}

func (it *iter) Error() error {
	return it.err
}

func (it *iter) Key() []byte {
	if it.current == nil {
		return nil
	}
	return it.current.key
}

func (it *iter) Value() []byte {
	if it.current == nil {
		return nil
	}
	return bytes.Clone(it.current.value)
}

func (it *iter) Release() {
	it.entries = nil
	it.current = nil
}
