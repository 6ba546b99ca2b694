// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import "github.com/ava-labs/walletkit/caip"

// This file contains structs used in arguments and responses in services

// EmptyReply indicates that an api doesn't have a response to return.
type EmptyReply struct{}

// SuccessResponse indicates success of an API call
type SuccessResponse struct {
	Success bool `json:"success"`
}

// NamespaceArgs selects a namespace. An empty namespace selects the active
// namespace.
type NamespaceArgs struct {
	Namespace caip.Namespace `json:"namespace"`
}

// NamespaceReply contains a namespace
type NamespaceReply struct {
	Namespace caip.Namespace `json:"namespace"`
}
