// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serve

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ava-labs/walletkit/app"
	"github.com/ava-labs/walletkit/config"
)

func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serves the wallet kit API until interrupted",
		// Flags are parsed by the config package so that every key can also
		// come from the environment or a config file.
		DisableFlagParsing: true,
		RunE:               serveFunc,
	}
}

func serveFunc(c *cobra.Command, args []string) error {
	fs := config.BuildFlagSet()
	v, err := config.BuildViper(fs, args)
	if errors.Is(err, pflag.ErrHelp) {
		fmt.Fprintf(c.OutOrStdout(), "Usage of %s:\n%s", c.CommandPath(), fs.FlagUsages())
		return nil
	}
	if err != nil {
		return fmt.Errorf("couldn't configure flags: %w", err)
	}

	kitConfig, err := config.GetConfig(v)
	if err != nil {
		return fmt.Errorf("couldn't load config: %w", err)
	}

	walletKit, err := app.New(kitConfig)
	if err != nil {
		return fmt.Errorf("couldn't start wallet kit: %w", err)
	}

	exitCode := app.Run(c.Context(), walletKit)
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}
