// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/emer/etable/v2/etable"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// plotTable saves a line plot of the ycols of the table against xcol to
// fnm, with the image format given by the file extension
func plotTable(dt *etable.Table, xcol string, ycols []string, title, ylabel, fnm string) error {
	if dt.ColIdx(xcol) < 0 {
		return errors.Errorf("plot: no column named %q", xcol)
	}
	if len(ycols) == 0 {
		return errors.New("plot: no columns to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xcol
	p.Y.Label.Text = ylabel
	p.Legend.Top = true
	for i, yc := range ycols {
		if dt.ColIdx(yc) < 0 {
			return errors.Errorf("plot: no column named %q", yc)
		}
		xys := make(plotter.XYs, dt.Rows)
		for r := 0; r < dt.Rows; r++ {
			xys[r].X = dt.CellFloat(xcol, r)
			xys[r].Y = dt.CellFloat(yc, r)
		}
		ln, err := plotter.NewLine(xys)
		if err != nil {
			return errors.Wrapf(err, "plot: %s", yc)
		}
		ln.Color = plotutil.Color(i)
		p.Add(ln)
		p.Legend.Add(yc, ln)
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, fnm)
}

// writeCSV writes the table to the named file
func writeCSV(dt *etable.Table, fnm string) error {
	fp, err := os.Create(fnm)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := dt.WriteCSV(fp, etable.Comma, etable.Headers); err != nil {
		return errors.Wrapf(err, "writing %s", fnm)
	}
	return fp.Close()
}
