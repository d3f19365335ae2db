// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mech

import "github.com/emer/gatechans/rates"

// Nav18 is the TTX-resistant Nav1.8 sodium channel of C-fiber nociceptors
// (Tigerholm et al. 2014): fast activation m, fast inactivation h, and two
// slow inactivation processes s and u.  g = gbar m^3 h s u.
// All time constants are divided by 2.5^((T-22)/10).
type Nav18 struct {
	Base
	Gbar float64         `def:"0" desc:"maximal conductance (S/cm2) -- off by default"`
	Am   rates.Sigmoid   `view:"inline" desc:"m forward rate: Base + A / (1 + exp((v+B)/C))"`
	Bm   rates.Sigmoid   `view:"inline" desc:"m backward rate"`
	HInf rates.Boltzmann `view:"inline" desc:"h steady state"`
	HTau rates.GaussTau  `view:"inline" desc:"h time constant"`
	SInf rates.Boltzmann `view:"inline" desc:"s steady state"`
	As   rates.Sigmoid   `view:"inline" desc:"s forward rate, giving tau = 1/(as+bs)"`
	Bs   rates.Sigmoid   `view:"inline" desc:"s backward rate"`
	UInf rates.Boltzmann `view:"inline" desc:"u steady state"`
	Au   rates.Sigmoid   `view:"inline" desc:"u forward rate, giving tau = 1/(au+bu)"`
	Bu   rates.Sigmoid   `view:"inline" desc:"u backward rate"`
	Q10  rates.Q10       `view:"inline" desc:"temperature correction of all time constants"`
}

func (nv *Nav18) Suffix() string { return "nav1p8" }
func (nv *Nav18) Class() string  { return nv.class(nv.Suffix()) }

func (nv *Nav18) Defaults() {
	nv.Gbar = 0
	nv.Am = rates.Sigmoid{Base: 2.85, A: -2.839, B: -1.159, C: 13.95}
	nv.Bm = rates.Sigmoid{A: 7.6205, B: 46.463, C: 8.8289}
	nv.HInf = rates.Boltzmann{Vhalf: -32.2, Slope: -4}
	nv.HTau = rates.GaussTau{Base: 1.218, Amp: 42.043, Vp: -38.1, Width: 15.19, K: 0.5}
	nv.SInf = rates.Boltzmann{Vhalf: -45, Slope: -8}
	nv.As = rates.Sigmoid{A: 0.001 * 5.4203, B: 79.816, C: 16.269}
	nv.Bs = rates.Sigmoid{A: 0.001 * 5.0757, B: 15.968, C: -11.542}
	nv.UInf = rates.Boltzmann{Vhalf: -51, Slope: -8}
	nv.Au = rates.Sigmoid{A: 0.0002 * 2.0434, B: 67.499, C: 19.51}
	nv.Bu = rates.Sigmoid{A: 0.0002 * 1.9952, B: 30.963, C: -14.792}
	nv.Q10 = rates.Q10{Q10: 2.5, Tref: 22, Tstep: 10, Conv: rates.TauDiv}
	nv.Update()
}

func (nv *Nav18) Update() {
}

func (nv *Nav18) Spec() *Spec {
	gs := []GateSpec{
		{Name: "m", Kind: AlphaBeta, Q10: 0, Alpha: nv.Am, Beta: nv.Bm},
		{Name: "h", Kind: InfTau, Q10: 0, Inf: nv.HInf, Tau: nv.HTau},
		{Name: "s", Kind: InfTau, Q10: 0, Inf: nv.SInf, Tau: rates.RateTau{Alpha: nv.As, Beta: nv.Bs}},
		{Name: "u", Kind: InfTau, Q10: 0, Inf: nv.UInf, Tau: rates.RateTau{Alpha: nv.Au, Beta: nv.Bu}},
	}
	cs := []CurrentSpec{naCurrent(nv.Gbar, Factor{0, 3}, Factor{1, 1}, Factor{2, 1}, Factor{3, 1})}
	return &Spec{Name: nv.Suffix(), Gates: gs, Currents: cs, Q10s: []rates.Q10{nv.Q10}}
}
