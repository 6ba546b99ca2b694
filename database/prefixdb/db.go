// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prefixdb

import (
	"bytes"
	"sync"

	"github.com/ava-labs/walletkit/database"
)

var (
	_ database.Database = (*Database)(nil)
	_ database.Iterator = (*iterator)(nil)
)

// Database partitions a database into a sub-database by prefixing all keys
// with a readable value, such as "@appkit/". The prefix is stored verbatim so
// that other tools sharing the store see the same keys.
type Database struct {
	// All keys in this db begin with this byte slice
	dbPrefix []byte

	// lock needs to be held during Close to guarantee db will not be set to nil
	// concurrently with another operation. All other operations can hold RLock.
	lock sync.RWMutex
	// The underlying storage
	db     database.Database
	closed bool
}

// New returns a new prefixed database. Nesting prefix databases concatenates
// their prefixes.
func New(prefix []byte, db database.Database) *Database {
	if prefixDB, ok := db.(*Database); ok {
		return &Database{
			dbPrefix: PrefixKey(prefixDB.dbPrefix, prefix),
			db:       prefixDB.db,
		}
	}
	return &Database{
		dbPrefix: bytes.Clone(prefix),
		db:       db,
	}
}

func PrefixKey(prefix, key []byte) []byte {
	prefixedKey := make([]byte, len(prefix)+len(key))
	copy(prefixedKey, prefix)
	copy(prefixedKey[len(prefix):], key)
	return prefixedKey
}

func (db *Database) Prefix() []byte {
	return bytes.Clone(db.dbPrefix)
}

func (db *Database) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return false, database.ErrClosed
	}
	return db.db.Has(PrefixKey(db.dbPrefix, key))
}

func (db *Database) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}
	return db.db.Get(PrefixKey(db.dbPrefix, key))
}

func (db *Database) Put(key, value []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return db.db.Put(PrefixKey(db.dbPrefix, key), value)
}

func (db *Database) Delete(key []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return db.db.Delete(PrefixKey(db.dbPrefix, key))
}

func (db *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return &database.IteratorError{
			Err: database.ErrClosed,
		}
	}
	return &iterator{
		Iterator: db.db.NewIteratorWithPrefix(PrefixKey(db.dbPrefix, prefix)),
		db:       db,
	}
}

// Close only marks this view closed. The underlying database is left open.
func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return database.ErrClosed
	}
	db.closed = true
	return nil
}

func (db *Database) isClosed() bool {
	db.lock.RLock()
	defer db.lock.RUnlock()

	return db.closed
}

// iterator strips the prefix from the keys of the wrapped iterator.
type iterator struct {
	database.Iterator
	db *Database

	key []byte
	err error
}

func (it *iterator) Next() bool {
	if it.db.isClosed() {
		it.key = nil
		it.err = database.ErrClosed
		return false
	}

	hasNext := it.Iterator.Next()
	if hasNext {
		it.key = bytes.TrimPrefix(it.Iterator.Key(), it.db.dbPrefix)
	} else {
		it.key = nil
	}
	return hasNext
}

func (it *iterator) Key() []byte {
	return it.key
}

func (it *iterator) Value() []byte {
	if it.key == nil {
		return nil
	}
	return it.Iterator.Value()
}

func (it *iterator) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.Iterator.Error()
}
