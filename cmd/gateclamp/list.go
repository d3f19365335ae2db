// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/emer/gatechans/mech"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in mechanisms with their gates and currents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, sf := range mech.Suffixes() {
				mc, err := mech.New(sf)
				if err != nil {
					return err
				}
				sp := mc.Spec()
				gs := make([]string, len(sp.Gates))
				for i := range sp.Gates {
					gs[i] = sp.Gates[i].Name
				}
				cs := make([]string, len(sp.Currents))
				for i := range sp.Currents {
					cs[i] = sp.Currents[i].Name
				}
				fmt.Fprintf(out, "%-14s gates: %-14s currents: %s\n", sf, strings.Join(gs, " "), strings.Join(cs, " "))
			}
			return nil
		},
	}
}
