// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package database defines the key-value contract that wallet kit state is
// persisted through. Implementations live in the subpackages.
package database

import (
	"errors"
	"io"
)

var (
	ErrClosed   = errors.New("closed")
	ErrNotFound = errors.New("not found")
)

// KeyValueReader wraps the Has and Get method of a backing data store.
type KeyValueReader interface {
	// Has retrieves if a key is present in the key-value data store.
	Has(key []byte) (bool, error)

	// Get retrieves the given key if it's present in the key-value data store.
	// Returns ErrNotFound if the key is not present in the data store.
	//
	// The returned byte slice is safe to read, but cannot be modified.
	Get(key []byte) ([]byte, error)
}

// KeyValueWriter wraps the Put method of a backing data store.
type KeyValueWriter interface {
	// Put inserts the given value into the key-value data store.
	//
	// Note: [key] and [value] are safe to modify and read after calling Put.
	Put(key []byte, value []byte) error
}

// KeyValueDeleter wraps the Delete method of a backing data store.
type KeyValueDeleter interface {
	// Delete removes the key from the key-value data store. Deleting a missing
	// key is not an error.
	Delete(key []byte) error
}

// Iteratee wraps the NewIterator methods of a backing data store.
type Iteratee interface {
	// NewIteratorWithPrefix creates an iterator over a subset of database
	// content with a particular key prefix, in ascending key order.
	NewIteratorWithPrefix(prefix []byte) Iterator
}

// Iterator iterates over a database's key/value pairs.
//
// When it encounters an error any seek will return false and will yield no key/
// value pairs. The error can be queried by calling the Error method. Calling
// Release is still necessary.
type Iterator interface {
	Next() bool
	Error() error
	Key() []byte
	Value() []byte
	Release()
}

// Database contains all the methods required to allow handling different
// key-value data stores backing the wallet kit's persisted state.
type Database interface {
	KeyValueReader
	KeyValueWriter
	KeyValueDeleter
	Iteratee
	io.Closer
}

// IteratorError does nothing and returns the provided error
type IteratorError struct {
	Err error
}

func (*IteratorError) Next() bool {
	return false
}

func (i *IteratorError) Error() error {
	return i.Err
}

func (*IteratorError) Key() []byte {
	return nil
}

func (*IteratorError) Value() []byte {
	return nil
}

func (*IteratorError) Release() {}
