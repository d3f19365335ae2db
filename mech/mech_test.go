// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mech

import (
	"math"
	"testing"

	"github.com/emer/emergent/v2/params"
	"github.com/emer/gatechans/chans"
	"github.com/pkg/errors"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = 1.0e-12

// relTol is the relative tolerance vs. closed-form reference values
const relTol = 1.0e-9

func relDif(x, trg float64) float64 {
	if trg == 0 {
		return math.Abs(x)
	}
	return math.Abs(x-trg) / math.Abs(trg)
}

// reference McIntyre node rate functions, written out term by term
func refAxNode(v, celsius float64) (inf map[string]float64, tau map[string]float64) {
	q1 := math.Pow(2.2, (celsius-20)/10)
	q2 := math.Pow(2.9, (celsius-20)/10)
	q3 := math.Pow(3, (celsius-36)/10)
	ex := func(x float64) float64 {
		if x < -100 {
			return 0
		}
		return math.Exp(x)
	}
	inf = map[string]float64{}
	tau = map[string]float64{}
	pair := func(nm string, a, b float64) {
		tau[nm] = 1 / (a + b)
		inf[nm] = a / (a + b)
	}
	pair("mp", q1*(0.01*(v+27))/(1-ex(-(v+27)/10.2)), q1*(0.00025*(-(v + 34)))/(1-ex((v+34)/10)))
	pair("m", q1*(1.86*(v+21.4))/(1-ex(-(v+21.4)/10.3)), q1*(0.086*(-(v + 25.7)))/(1-ex((v+25.7)/9.16)))
	pair("h", q2*(0.062*(-(v + 114)))/(1-ex((v+114)/11)), q2*2.3/(1+ex(-(v+31.8)/13.4)))
	v2 := v + 80
	pair("s", q3*0.3/(ex((v2-27)/-5)+1), q3*0.03/(ex((v2+10)/-1)+1))
	return
}

func newTestChannel(t *testing.T, suffix string) (Mech, *Channel) {
	mc, err := New(suffix)
	if err != nil {
		t.Fatal(err)
	}
	if nv, ok := mc.(*Nav18); ok {
		nv.Gbar = 0.01
	}
	ch, err := NewChannelFor(mc)
	if err != nil {
		t.Fatal(err)
	}
	return mc, ch
}

func TestAxNodeInit(t *testing.T) {
	_, ch := newTestChannel(t, "axnode")
	if err := ch.Init(-80, 36, nil); err != nil {
		t.Fatal(err)
	}
	inf, tau := refAxNode(-80, 36)
	for gi, g := range ch.Spec.Gates {
		if dif := relDif(ch.X[gi], inf[g.Name]); dif > relTol {
			t.Errorf("gate: %s x: %v closed form: %v rel dif: %v\n", g.Name, ch.X[gi], inf[g.Name], dif)
		}
		if dif := relDif(ch.Tau[gi], tau[g.Name]); dif > relTol {
			t.Errorf("gate: %s tau: %v closed form: %v rel dif: %v\n", g.Name, ch.Tau[gi], tau[g.Name], dif)
		}
	}
	// resting node: Na activation nearly closed, inactivation mostly available
	if x := ch.X[ch.GateIdx("m")]; x > 0.1 {
		t.Errorf("m at rest too large: %v\n", x)
	}
	if x := ch.X[ch.GateIdx("h")]; x < 0.5 {
		t.Errorf("h at rest too small: %v\n", x)
	}
}

func TestNaStepTau(t *testing.T) {
	_, ch := newTestChannel(t, "axnode")
	if err := ch.Init(-80, 36, nil); err != nil {
		t.Fatal(err)
	}
	inf, tau := refAxNode(0, 36)
	dt := 0.01
	nsteps := 1000
	gates := []string{"mp", "m", "h"}
	trace := make([][]float64, len(gates))
	for k := 0; k <= nsteps; k++ {
		for i, nm := range gates {
			trace[i] = append(trace[i], ch.X[ch.GateIdx(nm)])
		}
		if err := ch.Step(0, dt); err != nil {
			t.Fatal(err)
		}
	}
	for i, nm := range gates {
		xinf := inf[nm]
		d0 := math.Abs(trace[i][0] - xinf)
		// least-squares slope of log distance vs. time, while well above rounding
		var sx, sy, sxx, sxy, n float64
		for k, x := range trace[i] {
			d := math.Abs(x - xinf)
			if d < 1e-9*d0 || d < 1e-12 {
				break
			}
			tm := float64(k) * dt
			ly := math.Log(d)
			sx += tm
			sy += ly
			sxx += tm * tm
			sxy += tm * ly
			n++
		}
		if n < 2 {
			t.Errorf("gate: %s relaxed too fast to fit\n", nm)
			continue
		}
		slope := (n*sxy - sx*sy) / (n*sxx - sx*sx)
		ftau := -1 / slope
		if dif := relDif(ftau, tau[nm]); dif > 0.02 {
			t.Errorf("gate: %s fitted tau: %v closed form: %v rel dif: %v\n", nm, ftau, tau[nm], dif)
		}
		if nm == "mp" {
			continue // about 10 tau in 10 ms
		}
		if dif := math.Abs(trace[i][nsteps] - xinf); dif > 1e-9 {
			t.Errorf("gate: %s did not reach inf: %v vs %v\n", nm, trace[i][nsteps], xinf)
		}
	}
}

func TestSteadyRoundTrip(t *testing.T) {
	for _, sfx := range Suffixes() {
		_, ch := newTestChannel(t, sfx)
		var pl chans.Pool
		pl.Defaults()
		for _, v := range []float64{-120, -80, -55.5, -20, 0, 35} {
			if err := ch.Init(v, 37, &pl); err != nil {
				t.Fatal(err)
			}
			x0 := append([]float64{}, ch.X...)
			for k := 0; k < 100; k++ {
				ch.States(v, 0.005)
			}
			for gi := range ch.X {
				if dif := math.Abs(ch.X[gi] - x0[gi]); dif > difTol {
					t.Errorf("%s gate: %s v: %v drifted from steady state: %v -> %v\n", sfx, ch.Spec.Gates[gi].Name, v, x0[gi], ch.X[gi])
				}
			}
		}
	}
}

func TestInfRange(t *testing.T) {
	for _, sfx := range Suffixes() {
		_, ch := newTestChannel(t, sfx)
		var pl chans.Pool
		pl.Defaults()
		if err := ch.Init(-70, 22, &pl); err != nil {
			t.Fatal(err)
		}
		for i := 0; i <= 2500; i++ {
			v := -150 + 0.1*float64(i)
			ch.Rates(v)
			for gi := range ch.Inf {
				if !(ch.Inf[gi] >= 0 && ch.Inf[gi] <= 1) {
					t.Errorf("%s gate: %s inf out of range at %v: %v\n", sfx, ch.Spec.Gates[gi].Name, v, ch.Inf[gi])
				}
				if !(ch.Tau[gi] > 0) || math.IsInf(ch.Tau[gi], 0) {
					t.Errorf("%s gate: %s bad tau at %v: %v\n", sfx, ch.Spec.Gates[gi].Name, v, ch.Tau[gi])
				}
			}
		}
	}
}

func TestSignConvention(t *testing.T) {
	for _, sfx := range Suffixes() {
		_, ch := newTestChannel(t, sfx)
		var pl chans.Pool
		pl.Defaults()
		for v := -130.0; v <= 70; v += 2.5 {
			if err := ch.Init(v, 37, &pl); err != nil {
				t.Fatal(err)
			}
			ch.Current(v)
			for ci, cs := range ch.Spec.Currents {
				e := ch.Erev(ci)
				i := ch.I[ci]
				if v < e && i > 0 || v > e && i < 0 {
					t.Errorf("%s %s: v: %v erev: %v current has wrong sign: %v\n", sfx, cs.Name, v, e, i)
				}
			}
		}
	}
}

func TestCond(t *testing.T) {
	for _, sfx := range Suffixes() {
		_, ch := newTestChannel(t, sfx)
		var pl chans.Pool
		pl.Defaults()
		if err := ch.Init(-40, 37, &pl); err != nil {
			t.Fatal(err)
		}
		v := -35.0
		fd := ch.Cond(v)
		an := ch.CondAnalytic(v)
		// ohmic currents with fixed gates: difference is rounding only
		if dif := math.Abs(fd - an); dif > 1e-9*(1+math.Abs(an)) {
			t.Errorf("%s: finite difference cond: %v analytic: %v\n", sfx, fd, an)
		}
		if an < 0 {
			t.Errorf("%s: negative conductance %v\n", sfx, an)
		}
		tot := ch.Current(v)
		sum := 0.0
		for _, i := range ch.I {
			sum += i
		}
		if tot != sum {
			t.Errorf("%s: total %v != sum of currents %v\n", sfx, tot, sum)
		}
	}
}

func TestContribute(t *testing.T) {
	_, ch := newTestChannel(t, "naf")
	var pl chans.Pool
	pl.Defaults()
	if err := ch.Init(-60, 22, &pl); err != nil {
		t.Fatal(err)
	}
	v := -30.0
	rhs, g := ch.Contribute(v)
	if rhs != ch.I[0] {
		t.Errorf("rhs: %v vs ina: %v\n", rhs, ch.I[0])
	}
	if pl.I.Na != rhs || pl.I.K != 0 {
		t.Errorf("pool currents: %+v\n", pl.I)
	}
	if dif := math.Abs(pl.DIDV.Na - g); dif > difTol {
		t.Errorf("pool slope: %v vs g: %v\n", pl.DIDV.Na, g)
	}
	if rhs >= 0 {
		t.Errorf("ina below ena must be inward: %v\n", rhs)
	}

	// non-specific currents never touch the pool
	_, an := newTestChannel(t, "axnode")
	pl.ZeroCurrents()
	if err := an.Init(-80, 36, &pl); err != nil {
		t.Fatal(err)
	}
	an.Contribute(-70)
	if i, d := pl.Total(); i != 0 || d != 0 {
		t.Errorf("axnode wrote to the pool: %v %v\n", i, d)
	}
}

func TestDerivsMatSol(t *testing.T) {
	_, ch := newTestChannel(t, "node_motor")
	if err := ch.Init(-80, 37, nil); err != nil {
		t.Fatal(err)
	}
	d := make([]float64, len(ch.X))
	ch.Derivs(-80, d)
	for gi := range d {
		if math.Abs(d[gi]) > difTol {
			t.Errorf("gate: %s derivative at rest: %v\n", ch.Spec.Gates[gi].Name, d[gi])
		}
	}
	ch.Derivs(-20, d)
	dt := 0.025
	raw := append([]float64{}, d...)
	ch.MatSol(-20, dt, d)
	for gi := range d {
		want := raw[gi] / (1 + dt/ch.Tau[gi])
		if dif := relDif(d[gi], want); dif > difTol {
			t.Errorf("gate: %s matsol: %v want: %v\n", ch.Spec.Gates[gi].Name, d[gi], want)
		}
		if math.Abs(d[gi]) > math.Abs(raw[gi]) {
			t.Errorf("gate: %s implicit increment larger than explicit\n", ch.Spec.Gates[gi].Name)
		}
	}
}

func TestNotInitialized(t *testing.T) {
	_, ch := newTestChannel(t, "axnode")
	err := ch.Step(-80, 0.01)
	if errors.Cause(err) != ErrNotInitialized {
		t.Errorf("expected ErrNotInitialized, got: %v\n", err)
	}
	_, ka := newTestChannel(t, "kaslow")
	err = ka.Init(-70, 22, nil)
	if errors.Cause(err) != ErrNoIonPool {
		t.Errorf("expected ErrNoIonPool, got: %v\n", err)
	}
	if ka.IsInit() {
		t.Errorf("failed Init must leave the channel uninitialized\n")
	}

	badInit := []struct{ v, celsius float64 }{
		{math.NaN(), 36},
		{math.Inf(1), 36},
		{-80, math.NaN()},
		{-80, 1e5}, // temperature factor overflows
	}
	for i, bi := range badInit {
		_, bc := newTestChannel(t, "axnode")
		err := bc.Init(bi.v, bi.celsius, nil)
		if errors.Cause(err) != ErrInvalidInput {
			t.Errorf("idx: %d: expected ErrInvalidInput, got: %v\n", i, err)
		}
		if bc.IsInit() {
			t.Errorf("idx: %d: channel marked initialized after failed Init\n", i)
		}
		if err := bc.Step(-80, 0.01); errors.Cause(err) != ErrNotInitialized {
			t.Errorf("idx: %d: expected ErrNotInitialized, got: %v\n", i, err)
		}
	}

	// a failed re-Init clears a prior successful one
	if err := ch.Init(-80, 36, nil); err != nil {
		t.Fatal(err)
	}
	if err := ch.Init(math.NaN(), 36, nil); err == nil || ch.IsInit() {
		t.Errorf("re-Init at NaN accepted\n")
	}

	if err := ch.Init(-80, 36, nil); err != nil {
		t.Fatal(err)
	}
	x0 := append([]float64{}, ch.X...)
	badStep := []struct{ v, dt float64 }{
		{-80, 0},
		{-80, -5},
		{-80, math.NaN()},
		{-80, math.Inf(1)},
		{math.NaN(), 0.01},
	}
	for i, bs := range badStep {
		err := ch.Step(bs.v, bs.dt)
		if errors.Cause(err) != ErrInvalidInput {
			t.Errorf("idx: %d: expected ErrInvalidInput, got: %v\n", i, err)
		}
		for gi := range x0 {
			if ch.X[gi] != x0[gi] {
				t.Errorf("idx: %d: gate %s changed on rejected step: %v -> %v\n", i, ch.Spec.Gates[gi].Name, x0[gi], ch.X[gi])
			}
		}
	}
}

// the Na current is multiplied out in the same order as the node model
// (gnabar * m * m * m * h * (v - ena)) and so agrees to the last bit
func TestNodeCurrentOrder(t *testing.T) {
	_, ch := newTestChannel(t, "axnode")
	if err := ch.Init(-80, 36, nil); err != nil {
		t.Fatal(err)
	}
	gnabar, gnapbar, ena := 3.0, 0.01, 50.0
	for v := -80.0; v <= 40; v += 7.5 {
		if err := ch.Step(v, 0.02); err != nil {
			t.Fatal(err)
		}
		ch.Current(v)
		mp, m, h := ch.X[0], ch.X[1], ch.X[2]
		ina := gnabar * m * m * m * h * (v - ena)
		if ch.I[1] != ina {
			t.Errorf("v: %v ina: %v direct: %v\n", v, ch.I[1], ina)
		}
		inap := gnapbar * mp * mp * mp * (v - ena)
		if ch.I[0] != inap {
			t.Errorf("v: %v inap: %v direct: %v\n", v, ch.I[0], inap)
		}
		if dif := relDif(ch.G[1], gnabar*ch.Occupancy(1)); dif > difTol {
			t.Errorf("v: %v g: %v occupancy: %v\n", v, ch.G[1], gnabar*ch.Occupancy(1))
		}
	}
}

func TestValidate(t *testing.T) {
	mc, _ := New("axnode")
	bad := []func(sp *Spec){
		func(sp *Spec) { sp.Name = "" },
		func(sp *Spec) { sp.Gates[1].Name = "mp" },
		func(sp *Spec) { sp.Gates[0].Alpha = nil },
		func(sp *Spec) { sp.Gates[0].Q10 = 7 },
		func(sp *Spec) { sp.Currents[0].Gbar = -1 },
		func(sp *Spec) { sp.Currents[0].Erev = math.NaN() },
		func(sp *Spec) { sp.Currents[1].Terms[0].Factors[0].Gate = 9 },
		func(sp *Spec) { sp.Currents[1].Terms[0].Factors[0].Pow = 0 },
		func(sp *Spec) { sp.Q10s[0].Tstep = 0 },
		func(sp *Spec) { sp.Q10s[1].Q10 = 0 },
		// tau goes negative: backward rate of s flipped
		func(sp *Spec) {
			sp.Gates[3].Beta = negFunc{sp.Gates[3].Beta}
		},
	}
	for i, fn := range bad {
		sp := mc.Spec()
		fn(sp)
		_, err := NewChannel(sp)
		if err == nil {
			t.Errorf("idx: %d: invalid spec accepted\n", i)
			continue
		}
		if errors.Cause(err) != ErrInvalidSpec {
			t.Errorf("idx: %d: error does not wrap ErrInvalidSpec: %v\n", i, err)
		}
	}
	for _, sfx := range Suffixes() {
		mc, _ := New(sfx)
		if err := mc.Spec().Validate(); err != nil {
			t.Errorf("%s: default spec invalid: %v\n", sfx, err)
		}
	}
}

type negFunc struct {
	f interface{ Eval(float64) float64 }
}

func (nf negFunc) Eval(v float64) float64 { return -2 * nf.f.Eval(v) }

func TestRegistry(t *testing.T) {
	sfx := Suffixes()
	if len(sfx) != 8 {
		t.Errorf("expected 8 mechanisms, got %v\n", sfx)
	}
	for _, s := range sfx {
		mc, err := New(s)
		if err != nil {
			t.Fatal(err)
		}
		if mc.Suffix() != s || mc.Name() != s || mc.TypeName() != "Mech" {
			t.Errorf("%s: suffix: %v name: %v type: %v\n", s, mc.Suffix(), mc.Name(), mc.TypeName())
		}
		if mc.Spec().Name != s {
			t.Errorf("%s: spec name %v\n", s, mc.Spec().Name)
		}
	}
	if _, err := New("hh"); err == nil {
		t.Errorf("unknown suffix accepted\n")
	}
	mc, _ := New("naf")
	mc.SetClass("cfiber")
	if mc.Class() != "naf cfiber" {
		t.Errorf("class: %v\n", mc.Class())
	}
}

func TestSodiumBlock(t *testing.T) {
	block := &params.Sheet{
		{Sel: ".axnode", Desc: "tetrodotoxin block of node sodium channels",
			Params: params.Params{
				"Mech.GnapBar": "0",
				"Mech.GnaBar":  "0",
			}},
	}
	mc, _ := New("axnode")
	app, err := ApplySheet(mc, block, false)
	if err != nil {
		t.Error(err)
	}
	if !app {
		t.Errorf("sheet not applied\n")
	}
	an := mc.(*AxNode)
	if an.GnapBar != 0 || an.GnaBar != 0 || an.GkBar != 0.08 {
		t.Errorf("after block: %v %v %v\n", an.GnapBar, an.GnaBar, an.GkBar)
	}
	ch, err := NewChannelFor(mc)
	if err != nil {
		t.Fatal(err)
	}
	if err := ch.Init(-80, 36, nil); err != nil {
		t.Fatal(err)
	}
	ch.Current(0)
	for _, nm := range []string{"inap", "ina"} {
		if i := ch.I[ch.Spec.CurrentIdx(nm)]; i != 0 {
			t.Errorf("%s not blocked: %v\n", nm, i)
		}
	}
	if i := ch.I[ch.Spec.CurrentIdx("ik")]; i <= 0 {
		t.Errorf("ik should be outward at 0 mV: %v\n", i)
	}

	// a sheet for another mechanism leaves this one alone
	mm, _ := New("node_motor")
	app, _ = ApplySheet(mm, block, false)
	if app || mm.(*NodeMotor).GnaBar != 3 {
		t.Errorf("block applied to node_motor\n")
	}
}

func TestNaf97Q10(t *testing.T) {
	_, ch := newTestChannel(t, "naf97")
	var pl chans.Pool
	pl.Defaults()
	v := -40.0
	if err := ch.Init(v, 22, &pl); err != nil {
		t.Fatal(err)
	}
	tau22 := ch.Tau[0]
	src := 1.2575*math.Exp(-math.Pow(0.0625, 2)*math.Pow(v+39, 2)) + 0.175
	if dif := relDif(tau22, src); dif > relTol {
		t.Errorf("tau_m at Tref: %v want %v\n", tau22, src)
	}
	if err := ch.Init(v, 32, &pl); err != nil {
		t.Fatal(err)
	}
	if dif := relDif(ch.Tau[0], tau22/2.3); dif > relTol {
		t.Errorf("tau_m 10 deg above Tref: %v want %v\n", ch.Tau[0], tau22/2.3)
	}
	if dif := relDif(ch.Inf[0], 1/(1+math.Exp((-37.75-v)/6.98))); dif > relTol {
		t.Errorf("minf: %v\n", ch.Inf[0])
	}
}

func TestNav18(t *testing.T) {
	_, ch := newTestChannel(t, "nav1p8")
	var pl chans.Pool
	pl.Defaults()
	v := -30.0
	if err := ch.Init(v, 32, &pl); err != nil {
		t.Fatal(err)
	}
	kvot := 1 / math.Pow(2.5, (32-22)/10.0)
	am := 2.85 - 2.839/(1+math.Exp((v-1.159)/13.95))
	bm := 7.6205 / (1 + math.Exp((v+46.463)/8.8289))
	th := 1.218 + 42.043*math.Exp(-math.Pow(v+38.1, 2)/(2*math.Pow(15.19, 2)))
	as := 0.001 * 5.4203 / (1 + math.Exp((v+79.816)/16.269))
	bs := 0.001 * 5.0757 / (1 + math.Exp(-(v+15.968)/11.542))
	want := map[string][2]float64{
		"m": {am / (am + bm), kvot / (am + bm)},
		"h": {1 / (1 + math.Exp((v+32.2)/4)), th * kvot},
		"s": {1 / (1 + math.Exp((v+45)/8)), kvot / (as + bs)},
	}
	for nm, w := range want {
		gi := ch.GateIdx(nm)
		if dif := relDif(ch.Inf[gi], w[0]); dif > relTol {
			t.Errorf("%s inf: %v want %v\n", nm, ch.Inf[gi], w[0])
		}
		if dif := relDif(ch.Tau[gi], w[1]); dif > relTol {
			t.Errorf("%s tau: %v want %v\n", nm, ch.Tau[gi], w[1])
		}
	}
}

func TestKASlow(t *testing.T) {
	_, ch := newTestChannel(t, "kaslow")
	var pl chans.Pool
	pl.Defaults()
	v := -55.0
	if err := ch.Init(v, 30, &pl); err != nil {
		t.Fatal(err)
	}
	h1, h2 := ch.GateIdx("h1"), ch.GateIdx("h2")
	if ch.Inf[h1] != ch.Inf[h2] {
		t.Errorf("h1 and h2 share a steady state: %v %v\n", ch.Inf[h1], ch.Inf[h2])
	}
	h1tau := 25.46 + 67.41*math.Exp(-2*math.Pow((v+50)/21.95, 2))
	h2tau := 200 + 587.4*math.Exp(-math.Pow((v-0)/47.77, 2))
	if dif := relDif(ch.Tau[h1], h1tau); dif > relTol {
		t.Errorf("h1 tau %v want %v\n", ch.Tau[h1], h1tau)
	}
	if dif := relDif(ch.Tau[h2], h2tau); dif > relTol {
		t.Errorf("h2 tau %v want %v\n", ch.Tau[h2], h2tau)
	}
	x := ch.X
	ik := 0.00136 * x[0] * (x[h1]*0.3 + x[h2]*0.7) * (v - (-90))
	if dif := relDif(ch.Current(v), ik); dif > relTol {
		t.Errorf("ik: %v want %v\n", ch.Current(v), ik)
	}
}
