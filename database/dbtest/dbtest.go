// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package dbtest is the behavioral suite every database.Database
// implementation is run against.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/walletkit/database"
)

// Tests is a list of all database tests
var Tests = map[string]func(t *testing.T, db database.Database){
	"SimpleKeyValue":       TestSimpleKeyValue,
	"KeyEmptyValue":        TestKeyEmptyValue,
	"SimpleKeyValueClosed": TestSimpleKeyValueClosed,
	"MemorySafetyDatabase": TestMemorySafetyDatabase,
	"IteratorPrefix":       TestIteratorPrefix,
	"IteratorClosed":       TestIteratorClosed,
	"Keys":                 TestKeys,
}

// TestSimpleKeyValue tests to make sure that simple Put + Get + Delete + Has
// calls return the expected values.
func TestSimpleKeyValue(t *testing.T, db database.Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)

	_, err = db.Get(key)
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Delete(key))
	require.NoError(db.Put(key, value))

	has, err = db.Has(key)
	require.NoError(err)
	require.True(has)

	v, err := db.Get(key)
	require.NoError(err)
	require.Equal(value, v)

	require.NoError(db.Delete(key))

	has, err = db.Has(key)
	require.NoError(err)
	require.False(has)

	_, err = db.Get(key)
	require.ErrorIs(err, database.ErrNotFound)
}

// TestKeyEmptyValue tests that a key can map to an empty value.
func TestKeyEmptyValue(t *testing.T, db database.Database) {
	require := require.New(t)

	key := []byte("hello")
	val := []byte(nil)

	_, err := db.Get(key)
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Put(key, val))

	value, err := db.Get(key)
	require.NoError(err)
	require.Empty(value)
}

// TestSimpleKeyValueClosed tests to make sure that Put + Get + Delete + Has
// calls return the correct error when the database has been closed.
func TestSimpleKeyValueClosed(t *testing.T, db database.Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	require.NoError(db.Put(key, value))
	require.NoError(db.Close())

	_, err := db.Has(key)
	require.ErrorIs(err, database.ErrClosed)

	_, err = db.Get(key)
	require.ErrorIs(err, database.ErrClosed)

	require.ErrorIs(db.Put(key, value), database.ErrClosed)
	require.ErrorIs(db.Delete(key), database.ErrClosed)
	require.ErrorIs(db.Close(), database.ErrClosed)
}

// TestMemorySafetyDatabase ensures it is safe to modify a key after passing it
// to Database.Put and Database.Get.
func TestMemorySafetyDatabase(t *testing.T, db database.Database) {
	require := require.New(t)

	key := []byte("1key")
	keyCopy := []byte("1key")
	value := []byte("value")
	key2 := []byte("2key")
	value2 := []byte("value2")

	require.NoError(db.Put(key, value))
	key[0] = '2'

	gotVal, err := db.Get(keyCopy)
	require.NoError(err)
	require.Equal(value, gotVal)

	require.NoError(db.Put(key2, value2))
	gotVal[0] = 'x'
	gotVal, err = db.Get(keyCopy)
	require.NoError(err)
	require.Equal(value, gotVal)
}

// TestIteratorPrefix tests that iterating only yields keys under the prefix,
// in ascending order.
func TestIteratorPrefix(t *testing.T, db database.Database) {
	require := require.New(t)

	require.NoError(db.Put([]byte("ns/solana"), []byte("phantom")))
	require.NoError(db.Put([]byte("ns/eip155"), []byte("metamask")))
	require.NoError(db.Put([]byte("other"), []byte("x")))

	it := db.NewIteratorWithPrefix([]byte("ns/"))
	defer it.Release()

	require.True(it.Next())
	require.Equal([]byte("ns/eip155"), it.Key())
	require.Equal([]byte("metamask"), it.Value())

	require.True(it.Next())
	require.Equal([]byte("ns/solana"), it.Key())
	require.Equal([]byte("phantom"), it.Value())

	require.False(it.Next())
	require.NoError(it.Error())
}

// TestIteratorClosed tests that iterators report ErrClosed once the database
// is closed.
func TestIteratorClosed(t *testing.T, db database.Database) {
	require := require.New(t)

	require.NoError(db.Put([]byte("key"), []byte("value")))
	require.NoError(db.Close())

	it := db.NewIteratorWithPrefix(nil)
	defer it.Release()

	require.False(it.Next())
	require.Nil(it.Key())
	require.ErrorIs(it.Error(), database.ErrClosed)
}

// TestKeys tests the Keys helper.
func TestKeys(t *testing.T, db database.Database) {
	require := require.New(t)

	require.NoError(db.Put([]byte("a/2"), nil))
	require.NoError(db.Put([]byte("a/1"), nil))
	require.NoError(db.Put([]byte("b/1"), nil))

	keys, err := database.Keys(db, []byte("a/"))
	require.NoError(err)
	require.Equal([][]byte{[]byte("a/1"), []byte("a/2")}, keys)
}
