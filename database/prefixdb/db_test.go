// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prefixdb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/walletkit/database/dbtest"
	"github.com/ava-labs/walletkit/database/memdb"
)

func TestInterface(t *testing.T) {
	for name, test := range dbtest.Tests {
		t.Run(name, func(t *testing.T) {
			db := memdb.New()
			test(t, New([]byte("hello"), db))
			test(t, New([]byte("world"), New([]byte("wor"), memdb.New())))
		})
	}
}

func TestPrefixIsVerbatim(t *testing.T) {
	require := require.New(t)

	base := memdb.New()
	db := New([]byte("@appkit/"), base)
	require.NoError(db.Put([]byte("active_namespace"), []byte("eip155")))

	v, err := base.Get([]byte("@appkit/active_namespace"))
	require.NoError(err)
	require.Equal([]byte("eip155"), v)
}

func TestNestedPrefixes(t *testing.T) {
	require := require.New(t)

	base := memdb.New()
	db := New([]byte("connector/"), New([]byte("@appkit/"), base))
	require.Equal([]byte("@appkit/connector/"), db.Prefix())

	require.NoError(db.Put([]byte("solana"), []byte("phantom")))
	has, err := base.Has([]byte("@appkit/connector/solana"))
	require.NoError(err)
	require.True(has)
}

func TestCloseLeavesUnderlyingOpen(t *testing.T) {
	require := require.New(t)

	base := memdb.New()
	db := New([]byte("p/"), base)
	require.NoError(db.Close())
	require.NoError(base.Put([]byte("k"), []byte("v")))
}
