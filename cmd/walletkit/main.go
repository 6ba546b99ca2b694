// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava-labs/walletkit/cmd/walletkit/serve"
	"github.com/ava-labs/walletkit/cmd/walletkit/status"
	"github.com/ava-labs/walletkit/version"
)

func init() {
	cobra.EnablePrefixMatching = true
}

func main() {
	cmd := &cobra.Command{
		Use:     "walletkit",
		Short:   "Runs a multi-chain wallet connection manager",
		Version: version.String(),
	}
	cmd.AddCommand(
		serve.Command(),
		status.Command(),
	)
	ctx := context.Background()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "command failed %v\n", err)
		os.Exit(1)
	}
}
