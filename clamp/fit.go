// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clamp

import (
	"math"
	"strconv"

	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
	"github.com/emer/gatechans/chans"
	"github.com/emer/gatechans/compart"
	"github.com/emer/gatechans/mech"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FitMinDist is the smallest |x - inf| used in a time constant fit, relative
// to the largest: points closer to steady state are dropped as noise
const FitMinDist = 1e-9

// Fit is a single exponential x(t) = inf + A exp(-t / Tau) fit to a relaxation
type Fit struct {
	Tau float64 `desc:"time constant (ms)"`
	A   float64 `desc:"amplitude at t = 0, signed"`
	R2  float64 `desc:"coefficient of determination of the log-linear regression"`
	N   int     `desc:"number of points used"`
}

// FitTau fits a single exponential relaxation toward inf by linear
// regression of log|x - inf| on t.  Points must all be on one side of inf.
func FitTau(tm, x []float64, inf float64) (Fit, error) {
	if len(tm) != len(x) {
		return Fit{}, errors.Errorf("clamp.FitTau: %d times but %d values", len(tm), len(x))
	}
	dmax := 0.0
	for _, xv := range x {
		dmax = math.Max(dmax, math.Abs(xv-inf))
	}
	var ts, ls []float64
	sgn := 0.0
	for i, xv := range x {
		d := xv - inf
		if math.Abs(d) <= FitMinDist*dmax || d == 0 {
			continue
		}
		s := math.Copysign(1, d)
		if sgn == 0 {
			sgn = s
		} else if s != sgn {
			return Fit{}, errors.Errorf("clamp.FitTau: values cross the steady state %v at t = %v", inf, tm[i])
		}
		ts = append(ts, tm[i]-tm[0])
		ls = append(ls, math.Log(math.Abs(d)))
	}
	if len(ts) < 3 {
		return Fit{}, errors.Errorf("clamp.FitTau: only %d usable points", len(ts))
	}
	alpha, beta := stat.LinearRegression(ts, ls, nil, false)
	if !(beta < 0) {
		return Fit{}, errors.Errorf("clamp.FitTau: not a decay, slope = %v", beta)
	}
	ft := Fit{Tau: -1 / beta, A: sgn * math.Exp(alpha), N: len(ts)}
	ft.R2 = stat.RSquared(ts, ls, nil, alpha, beta)
	return ft, nil
}

// FitSegment fits the named column of a protocol segment, relaxing toward
// its last value unless inf is given (not NaN)
func (res *Result) FitSegment(name string, seg int, inf float64) (Fit, error) {
	tm, vals, err := res.Segment(name, seg)
	if err != nil {
		return Fit{}, err
	}
	if math.IsNaN(inf) {
		inf = vals[len(vals)-1]
	}
	return FitTau(tm, vals, inf)
}

// VGrid returns n evenly spaced potentials from vmin to vmax inclusive
func VGrid(vmin, vmax float64, n int) []float64 {
	if n < 2 {
		return []float64{vmin}
	}
	return floats.Span(make([]float64, n), vmin, vmax)
}

// Sweep computes the steady state and time constant of every gate of the
// mechanism over the potentials vs, at given temperature.
// Columns are V then name_inf and name_tau for each gate.
func Sweep(mc mech.Mech, celsius float64, vs []float64) (*etable.Table, error) {
	ch, err := mech.NewChannelFor(mc)
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return nil, errors.New("clamp.Sweep: no potentials")
	}
	pool := &chans.Pool{}
	pool.Defaults()
	if err := ch.Init(vs[0], celsius, pool); err != nil {
		return nil, err
	}
	sch := etable.Schema{{Name: "V", Type: etensor.FLOAT64}}
	for _, g := range ch.Spec.Gates {
		sch = append(sch, etable.Column{Name: g.Name + "_inf", Type: etensor.FLOAT64})
		sch = append(sch, etable.Column{Name: g.Name + "_tau", Type: etensor.FLOAT64})
	}
	dt := &etable.Table{}
	dt.SetMetaData("name", mc.Name()+"_Sweep")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))
	dt.SetFromSchema(sch, len(vs))

	for vi, v := range vs {
		ch.Rates(v)
		dt.SetCellFloat("V", vi, v)
		for gi, g := range ch.Spec.Gates {
			dt.SetCellFloat(g.Name+"_inf", vi, ch.Inf[gi])
			dt.SetCellFloat(g.Name+"_tau", vi, ch.Tau[gi])
		}
	}
	return dt, nil
}

// IVCurve runs the voltage-clamp protocol once per level, with every step
// set to that level, and records the peak (largest magnitude) of the named
// column over the last step.  Columns are V and Peak.
func IVCurve(cp *compart.Compartment, pr *Protocol, levels []float64, col string) (*etable.Table, error) {
	if pr.Mode != VClamp {
		return nil, errors.New("clamp.IVCurve: protocol must be VClamp")
	}
	if len(pr.Steps) == 0 {
		return nil, errors.New("clamp.IVCurve: protocol has no steps")
	}
	sch := etable.Schema{
		{Name: "V", Type: etensor.FLOAT64},
		{Name: "Peak", Type: etensor.FLOAT64},
	}
	dt := &etable.Table{}
	dt.SetMetaData("name", "IVCurve")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))
	dt.SetFromSchema(sch, len(levels))

	lp := *pr
	lp.Steps = make([]Step, len(pr.Steps))
	for li, lv := range levels {
		for si, st := range pr.Steps {
			lp.Steps[si] = Step{Dur: st.Dur, Val: lv}
		}
		res, err := Run(cp, &lp)
		if err != nil {
			return nil, errors.Wrapf(err, "clamp.IVCurve: level %v", lv)
		}
		_, vals, err := res.Segment(col, len(lp.Steps))
		if err != nil {
			return nil, err
		}
		// skip the first point: it belongs to the prior segment
		vals = vals[1:]
		if len(vals) == 0 {
			return nil, errors.Errorf("clamp.IVCurve: last step of %v ms has no time points at dt = %v", lp.Steps[len(lp.Steps)-1].Dur, lp.DT)
		}
		mn, mx := floats.Min(vals), floats.Max(vals)
		pk := mx
		if math.Abs(mn) > math.Abs(mx) {
			pk = mn
		}
		dt.SetCellFloat("V", li, lv)
		dt.SetCellFloat("Peak", li, pk)
	}
	return dt, nil
}
