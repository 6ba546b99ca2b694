// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leveldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/walletkit/database/dbtest"
	"github.com/ava-labs/walletkit/utils/logging"
)

func TestInterface(t *testing.T) {
	for name, test := range dbtest.Tests {
		t.Run(name, func(t *testing.T) {
			folder := t.TempDir()
			db, err := New(folder, logging.NoLog{})
			require.NoError(t, err)

			test(t, db)

			// The database may have been closed by the test, so we don't care if it
			// errors here.
			_ = db.Close()
		})
	}
}

func TestReopenKeepsValues(t *testing.T) {
	require := require.New(t)

	folder := filepath.Join(t.TempDir(), "walletkit")
	db, err := New(folder, logging.NoLog{})
	require.NoError(err)
	require.NoError(db.Put([]byte("@appkit/active_namespace"), []byte("solana")))
	require.NoError(db.Close())

	db, err = New(folder, logging.NoLog{})
	require.NoError(err)
	defer db.Close()

	v, err := db.Get([]byte("@appkit/active_namespace"))
	require.NoError(err)
	require.Equal([]byte("solana"), v)
}
