// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
)

// RootOptions holds the flags shared by all commands
type RootOptions struct {
	Celsius float64
	Sets    []string
	Verbose bool
}

// NewRootCommand creates the root command with all subcommands
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "gateclamp",
		Short: "Hodgkin-Huxley channel mechanisms under clamp",
		Long: `Inspect and exercise the built-in voltage-gated channel mechanisms.

Parameters of any mechanism can be overridden with --set, which takes
[selector:]Path=value, e.g. --set GnaBar=0 or --set .axnode:Mech.Na.Am.B=21.
.suffix selects by mechanism, #name by instance name, and Mech selects all
mechanisms.  With a single mechanism the selector defaults to its .suffix;
with more than one a selector is required, as parameter names differ.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Float64Var(&opts.Celsius, "celsius", 37, "temperature (degC)")
	cmd.PersistentFlags().StringArrayVar(&opts.Sets, "set", nil, "parameter override [selector:]Path=value (repeatable)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "report each parameter that is set")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewCurvesCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))

	return cmd
}
