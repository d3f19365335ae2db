// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"strings"

	"github.com/emer/etable/v2/etable"
	"github.com/emer/gatechans/clamp"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type curvesOptions struct {
	VMin float64
	VMax float64
	N    int
	CSV  string
	PNG  string
}

// NewCurvesCommand creates the curves command
func NewCurvesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &curvesOptions{}
	cmd := &cobra.Command{
		Use:   "curves <suffix>",
		Short: "Steady state and time constant of each gate over a voltage range",
		Long: `Computes inf and tau of every gate of one mechanism over an evenly spaced
voltage grid at the --celsius temperature.  The table (V, then gate_inf and
gate_tau for each gate) is written as CSV to stdout, or to --csv.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := runCurves(rootOpts, opts, args[0])
			if err != nil {
				return err
			}
			if opts.CSV != "" {
				if err := writeCSV(dt, opts.CSV); err != nil {
					return err
				}
			} else if err := dt.WriteCSV(cmd.OutOrStdout(), etable.Comma, etable.Headers); err != nil {
				return err
			}
			if opts.PNG != "" {
				var ycols []string
				for _, cl := range dt.ColNames[1:] {
					if strings.HasSuffix(cl, "_inf") {
						ycols = append(ycols, cl)
					}
				}
				return plotTable(dt, "V", ycols, args[0]+" steady state", "inf", opts.PNG)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&opts.VMin, "vmin", -120, "lowest potential (mV)")
	cmd.Flags().Float64Var(&opts.VMax, "vmax", 40, "highest potential (mV)")
	cmd.Flags().IntVar(&opts.N, "n", 161, "number of potentials")
	cmd.Flags().StringVar(&opts.CSV, "csv", "", "write the table to this file instead of stdout")
	cmd.Flags().StringVar(&opts.PNG, "png", "", "plot the steady state curves to this image file")
	return cmd
}

func runCurves(rootOpts *RootOptions, opts *curvesOptions, suffix string) (*etable.Table, error) {
	if opts.N < 1 || !(opts.VMax >= opts.VMin) {
		return nil, errors.Errorf("curves: bad grid: %v to %v in %d points", opts.VMin, opts.VMax, opts.N)
	}
	sheet, err := parseSets(rootOpts.Sets, defaultSel([]string{suffix}))
	if err != nil {
		return nil, err
	}
	mc, err := newMech(sheet, rootOpts.Verbose, suffix)
	if err != nil {
		return nil, err
	}
	return clamp.Sweep(mc, rootOpts.Celsius, clamp.VGrid(opts.VMin, opts.VMax, opts.N))
}
