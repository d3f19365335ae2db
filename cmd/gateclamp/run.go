// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/emer/gatechans/clamp"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type runOptions struct {
	Mode  string
	Steps []string
	CSV   string
	PNG   string
	Plot  []string
	Fit   string
	Pr    clamp.Protocol
}

// NewRunCommand creates the run command
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &runOptions{}
	opts.Pr.Defaults()
	cmd := &cobra.Command{
		Use:   "run <suffix>...",
		Short: "Run a clamp protocol on a compartment with the given mechanisms",
		Long: `Inserts the mechanisms into one compartment, initializes it at the
holding potential (VClamp) or --vinit (IClamp), and runs the holding segment
followed by each --step in order.  The range and peak (largest magnitude) of
the potential and of each current are reported, and --fit fits a time
constant to a column over the last step.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runProtocol(rootOpts, opts, args)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), opts, res)
		},
	}
	pr := &opts.Pr
	cmd.Flags().StringVar(&opts.Mode, "mode", "VClamp", "VClamp or IClamp")
	cmd.Flags().Float64Var(&pr.Vinit, "vinit", pr.Vinit, "initial potential in IClamp (mV)")
	cmd.Flags().Float64Var(&pr.Hold, "hold", pr.Hold, "holding level (mV, or mA/cm2 in IClamp)")
	cmd.Flags().Float64Var(&pr.HoldDur, "hold-dur", pr.HoldDur, "holding duration (ms)")
	cmd.Flags().Float64Var(&pr.DT, "dt", pr.DT, "time step (ms)")
	cmd.Flags().StringArrayVar(&opts.Steps, "step", []string{"20:0"}, "step dur:level (repeatable)")
	cmd.Flags().StringVar(&opts.CSV, "csv", "", "write the trace to this file")
	cmd.Flags().StringVar(&opts.PNG, "png", "", "plot the --plot columns against time to this image file")
	cmd.Flags().StringSliceVar(&opts.Plot, "plot", []string{"I"}, "columns to plot")
	cmd.Flags().StringVar(&opts.Fit, "fit", "", "column to fit a time constant to over the last step")
	return cmd
}

// parseStep parses dur:level
func parseStep(s string) (clamp.Step, error) {
	ds, vs, ok := strings.Cut(s, ":")
	if !ok {
		return clamp.Step{}, errors.Errorf("--step %q: want dur:level", s)
	}
	dur, err := strconv.ParseFloat(ds, 64)
	if err != nil {
		return clamp.Step{}, errors.Wrapf(err, "--step %q", s)
	}
	val, err := strconv.ParseFloat(vs, 64)
	if err != nil {
		return clamp.Step{}, errors.Wrapf(err, "--step %q", s)
	}
	return clamp.Step{Dur: dur, Val: val}, nil
}

func runProtocol(rootOpts *RootOptions, opts *runOptions, suffixes []string) (*clamp.Result, error) {
	pr := opts.Pr
	if err := pr.Mode.FromString(opts.Mode); err != nil {
		return nil, err
	}
	pr.Celsius = rootOpts.Celsius
	pr.Steps = nil
	for _, ss := range opts.Steps {
		st, err := parseStep(ss)
		if err != nil {
			return nil, err
		}
		pr.Steps = append(pr.Steps, st)
	}
	cp, err := buildComp(rootOpts, suffixes)
	if err != nil {
		return nil, err
	}
	return clamp.Run(cp, &pr)
}

func report(out io.Writer, opts *runOptions, res *clamp.Result) error {
	fmt.Fprintf(out, "%d time points, %g ms\n", res.Rows(), res.Table.CellFloat("Time", res.Rows()-1))
	cols := append([]string{"V", "I"}, res.Currs...)
	fmt.Fprintf(out, "%-16s %12s %12s %12s\n", "column", "min", "max", "peak")
	for _, cl := range cols {
		pk, err := res.Peak(cl)
		if err != nil {
			return err
		}
		mm := res.Peaks[cl]
		fmt.Fprintf(out, "%-16s %12.6g %12.6g %12.6g\n", cl, mm.Min, mm.Max, pk)
	}
	if opts.Fit != "" {
		ft, err := res.FitSegment(opts.Fit, len(res.Starts)-1, math.NaN())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "fit %s: tau = %.6g ms  A = %.6g  R2 = %.6f  (%d points)\n", opts.Fit, ft.Tau, ft.A, ft.R2, ft.N)
	}
	if opts.CSV != "" {
		if err := writeCSV(res.Table, opts.CSV); err != nil {
			return err
		}
	}
	if opts.PNG != "" {
		return plotTable(res.Table, "Time", opts.Plot, "clamp trace", "", opts.PNG)
	}
	return nil
}
