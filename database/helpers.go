// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package database

import "errors"

func PutString(db KeyValueWriter, key []byte, val string) error {
	return db.Put(key, []byte(val))
}

func GetString(db KeyValueReader, key []byte) (string, error) {
	b, err := db.Get(key)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WithDefault returns the value at [key] in [db]. If the key doesn't exist, it
// returns [def].
func WithDefault[V any](
	get func(KeyValueReader, []byte) (V, error),
	db KeyValueReader,
	key []byte,
	def V,
) (V, error) {
	v, err := get(db, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	return v, err
}

// Keys returns every key under [prefix], in ascending order.
func Keys(db Iteratee, prefix []byte) ([][]byte, error) {
	it := db.NewIteratorWithPrefix(prefix)
	defer it.Release()

	var keys [][]byte
	for it.Next() {
		key := it.Key()
		keys = append(keys, append([]byte(nil), key...))
	}
	return keys, it.Error()
}
