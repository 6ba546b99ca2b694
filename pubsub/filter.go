// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/utils/set"
)

// filter is the set of namespaces a connection follows. A new filter matches
// nothing.
type filter struct {
	lock       sync.RWMutex
	all        bool
	namespaces set.Set[caip.Namespace]
}

func (f *filter) Check(namespace caip.Namespace) bool {
	f.lock.RLock()
	defer f.lock.RUnlock()

	return f.all || f.namespaces.Contains(namespace)
}

// Add follows [namespaces], or every namespace if none are given.
func (f *filter) Add(namespaces ...caip.Namespace) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if len(namespaces) == 0 {
		f.all = true
		return
	}
	f.namespaces.Add(namespaces...)
}

// Remove drops [namespaces], or every namespace if none are given. Dropping a
// namespace while following every namespace has no effect.
func (f *filter) Remove(namespaces ...caip.Namespace) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if len(namespaces) == 0 {
		f.all = false
		f.namespaces = nil
		return
	}
	f.namespaces.Remove(namespaces...)
}
