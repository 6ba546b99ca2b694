// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package version

const Client = "walletkit"

// Current is the version of this build.
var Current = &Semantic{
	Major: 0,
	Minor: 4,
	Patch: 0,
}
