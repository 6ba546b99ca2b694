// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package appkit

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/walletkit/account"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/state"
)

var (
	_ account.BalanceSource = (*namespaceBalances)(nil)

	errNoBalanceSource = errors.New("no balance source")
)

// namespaceBalances routes a balance request to the source configured for
// the address's namespace.
type namespaceBalances struct {
	sources map[caip.Namespace]account.BalanceSource
}

func newNamespaceBalances(sources map[caip.Namespace]account.BalanceSource) *namespaceBalances {
	return &namespaceBalances{sources: sources}
}

func (b *namespaceBalances) GetBalances(ctx context.Context, address caip.Address) ([]state.Balance, error) {
	namespace := address.NetworkID().Namespace()
	source, ok := b.sources[namespace]
	if !ok {
		return nil, fmt.Errorf("%w for %s", errNoBalanceSource, namespace)
	}
	return source.GetBalances(ctx, address)
}
