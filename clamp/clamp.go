// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package clamp runs voltage- and current-clamp protocols on a compartment and
records the trace of membrane potential, gate values, and currents into an
etable.Table, from which time constants can be fit and CSV written.
It also computes steady-state and time constant curves over a voltage grid
(Sweep) and peak current vs. voltage curves (IVCurve).
*/
package clamp

import (
	"io"
	"math"
	"strconv"

	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
	"github.com/emer/etable/v2/minmax"
	"github.com/emer/gatechans/compart"
	"github.com/goki/ki/kit"
	"github.com/pkg/errors"
)

// LogPrec is precision for saving float values in tables
const LogPrec = 6

// Mode is what a protocol holds fixed
type Mode int32

//go:generate stringer -type=Mode

var KiT_Mode = kit.Enums.AddEnum(ModeN, kit.NotBitFlag, nil)

func (ev Mode) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Mode) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// VClamp holds the membrane potential: levels are in mV
	VClamp Mode = iota

	// IClamp injects current: levels are in mA/cm2 and the potential is free
	IClamp

	ModeN
)

// Step is one segment of a protocol
type Step struct {
	Dur float64 `desc:"duration (ms)"`
	Val float64 `desc:"clamp level: potential (mV) in VClamp, injected current (mA/cm2) in IClamp"`
}

// Protocol is a holding level followed by a sequence of steps
type Protocol struct {
	Mode    Mode    `desc:"what is clamped"`
	Vinit   float64 `def:"-80" desc:"potential at which gates are initialized in IClamp (VClamp initializes at Hold)"`
	Hold    float64 `def:"-80" desc:"holding level before the steps, in the units of Mode"`
	HoldDur float64 `def:"5" desc:"duration of the holding segment (ms)"`
	Steps   []Step  `desc:"the steps, run in order after holding"`
	DT      float64 `def:"0.005" desc:"integration time step (ms)"`
	Celsius float64 `def:"37" desc:"temperature (degC)"`
}

func (pr *Protocol) Defaults() {
	pr.Mode = VClamp
	pr.Vinit = -80
	pr.Hold = -80
	pr.HoldDur = 5
	pr.DT = 0.005
	pr.Celsius = 37
}

// Validate checks that the protocol can be run
func (pr *Protocol) Validate() error {
	if !(pr.DT > 0) || math.IsInf(pr.DT, 0) {
		return errors.Errorf("clamp: time step must be positive: %v", pr.DT)
	}
	if pr.HoldDur < 0 {
		return errors.Errorf("clamp: negative holding duration: %v", pr.HoldDur)
	}
	for i, st := range pr.Steps {
		if st.Dur < 0 || math.IsNaN(st.Dur) {
			return errors.Errorf("clamp: step %d: bad duration: %v", i, st.Dur)
		}
		if math.IsNaN(st.Val) || math.IsInf(st.Val, 0) {
			return errors.Errorf("clamp: step %d: bad level: %v", i, st.Val)
		}
	}
	return nil
}

// NSteps returns the number of integration steps in a segment of duration dur
func (pr *Protocol) NSteps(dur float64) int {
	return int(math.Round(dur / pr.DT))
}

// Segments returns the holding segment followed by the steps
func (pr *Protocol) Segments() []Step {
	segs := make([]Step, 0, len(pr.Steps)+1)
	segs = append(segs, Step{Dur: pr.HoldDur, Val: pr.Hold})
	return append(segs, pr.Steps...)
}

// TotalSteps returns the number of integration steps in the whole protocol
func (pr *Protocol) TotalSteps() int {
	n := 0
	for _, sg := range pr.Segments() {
		n += pr.NSteps(sg.Dur)
	}
	return n
}

// Result is the recorded trace of one protocol run
type Result struct {
	Table  *etable.Table         `desc:"one row per time point: Time, V, I, then each gate and each current as mech.name"`
	Gates  []string              `desc:"names of the gate columns"`
	Currs  []string              `desc:"names of the current columns"`
	Peaks  map[string]minmax.F64 `desc:"range of each V, I, gate, and current column over the run"`
	Starts []int                 `desc:"row at which each segment (holding first) starts"`
}

// Run initializes the compartment at the protocol's temperature and runs
// the protocol, recording every time step
func Run(cp *compart.Compartment, pr *Protocol) (*Result, error) {
	if err := pr.Validate(); err != nil {
		return nil, err
	}
	v0 := pr.Hold
	if pr.Mode == IClamp {
		v0 = pr.Vinit
	}
	if err := cp.Init(v0, pr.Celsius); err != nil {
		return nil, err
	}
	res := &Result{}
	res.ConfigTable(cp)
	dt := res.Table
	dt.SetNumRows(pr.TotalSteps() + 1)

	row := 0
	tm := 0.0
	res.record(cp, row, tm)
	for _, sg := range pr.Segments() {
		res.Starts = append(res.Starts, row)
		ns := pr.NSteps(sg.Dur)
		for i := 0; i < ns; i++ {
			switch pr.Mode {
			case VClamp:
				cp.ClampStep(sg.Val, pr.DT)
			case IClamp:
				cp.Iinj = sg.Val
				if err := cp.Step(pr.DT); err != nil {
					dt.SetNumRows(row + 1)
					return res, errors.Wrapf(err, "clamp: t = %v", tm)
				}
			}
			row++
			tm = float64(row) * pr.DT
			res.record(cp, row, tm)
		}
	}
	return res, nil
}

// ConfigTable sets up the trace table for the channels in the compartment
func (res *Result) ConfigTable(cp *compart.Compartment) {
	res.Gates = nil
	res.Currs = nil
	sch := etable.Schema{
		{Name: "Time", Type: etensor.FLOAT64},
		{Name: "V", Type: etensor.FLOAT64},
		{Name: "I", Type: etensor.FLOAT64},
	}
	for ci, ch := range cp.Chans {
		nm := cp.Mechs[ci].Name()
		for _, g := range ch.Spec.Gates {
			res.Gates = append(res.Gates, nm+"."+g.Name)
		}
	}
	for ci, ch := range cp.Chans {
		nm := cp.Mechs[ci].Name()
		for _, c := range ch.Spec.Currents {
			res.Currs = append(res.Currs, nm+"."+c.Name)
		}
	}
	for _, cn := range res.Gates {
		sch = append(sch, etable.Column{Name: cn, Type: etensor.FLOAT64})
	}
	for _, cn := range res.Currs {
		sch = append(sch, etable.Column{Name: cn, Type: etensor.FLOAT64})
	}
	dt := &etable.Table{}
	dt.SetMetaData("name", "ClampTrace")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))
	dt.SetFromSchema(sch, 0)
	res.Table = dt

	res.Peaks = make(map[string]minmax.F64, len(sch))
	for _, cl := range sch[1:] {
		mm := minmax.F64{}
		mm.SetInfinity()
		res.Peaks[cl.Name] = mm
	}
}

func (res *Result) set(col string, row int, val float64) {
	res.Table.SetCellFloat(col, row, val)
	if mm, ok := res.Peaks[col]; ok {
		mm.FitValInRange(val)
		res.Peaks[col] = mm
	}
}

// record writes the current state of the compartment to given row.
// Currents are those of the last Contribute call.
func (res *Result) record(cp *compart.Compartment, row int, tm float64) {
	res.Table.SetCellFloat("Time", row, tm)
	res.set("V", row, cp.V)
	res.set("I", row, cp.I)
	gi, ci := 0, 0
	for _, ch := range cp.Chans {
		for _, x := range ch.X {
			res.set(res.Gates[gi], row, x)
			gi++
		}
		for _, i := range ch.I {
			res.set(res.Currs[ci], row, i)
			ci++
		}
	}
}

// Rows returns the number of recorded time points
func (res *Result) Rows() int {
	return res.Table.Rows
}

// Col returns the values of the named column, or an error if there is none
func (res *Result) Col(name string) ([]float64, error) {
	return colVals(res.Table, name, 0, res.Table.Rows)
}

// Segment returns the times and values of the named column over protocol
// segment seg (0 = holding), starting from the last point of the prior segment
func (res *Result) Segment(name string, seg int) (tm, vals []float64, err error) {
	if seg < 0 || seg >= len(res.Starts) {
		return nil, nil, errors.Errorf("clamp: no segment %d", seg)
	}
	st := res.Starts[seg]
	ed := res.Table.Rows
	if seg+1 < len(res.Starts) {
		ed = res.Starts[seg+1] + 1
	}
	if tm, err = colVals(res.Table, "Time", st, ed); err != nil {
		return nil, nil, err
	}
	if vals, err = colVals(res.Table, name, st, ed); err != nil {
		return nil, nil, err
	}
	return
}

// Peak returns the most extreme value of the named column: the min or the
// max, whichever is larger in magnitude (e.g. inward vs. outward current)
func (res *Result) Peak(name string) (float64, error) {
	mm, ok := res.Peaks[name]
	if !ok {
		return 0, errors.Errorf("clamp: no column named %q", name)
	}
	if math.Abs(mm.Min) > math.Abs(mm.Max) {
		return mm.Min, nil
	}
	return mm.Max, nil
}

// WriteCSV writes the trace as comma-separated values with a header row
func (res *Result) WriteCSV(w io.Writer) error {
	return res.Table.WriteCSV(w, etable.Comma, etable.Headers)
}

func colVals(dt *etable.Table, name string, st, ed int) ([]float64, error) {
	if dt.ColIdx(name) < 0 {
		return nil, errors.Errorf("clamp: no column named %q", name)
	}
	vals := make([]float64, ed-st)
	for r := st; r < ed; r++ {
		vals[r-st] = dt.CellFloat(name, r)
	}
	return vals, nil
}
