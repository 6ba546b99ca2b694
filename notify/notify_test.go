// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package notify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/walletkit/utils/logging"
)

func TestRecorder(t *testing.T) {
	require := require.New(t)

	inner := NewRecorder(NewLogNotifier(logging.NoLog{}))
	r := NewRecorder(inner)
	r.ShowError("Failed to disconnect", "boom")
	r.ShowSuccess("Wallet disconnected")

	expected := []Notification{
		{Kind: KindError, Title: "Failed to disconnect", Message: "boom"},
		{Kind: KindSuccess, Message: "Wallet disconnected"},
	}
	require.Equal(expected, r.Notifications())
	require.Equal(expected, inner.Notifications())
}
