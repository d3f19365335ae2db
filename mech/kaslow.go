// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mech

import (
	"github.com/emer/gatechans/chans"
	"github.com/emer/gatechans/rates"
)

// KASlow is the slow A-type potassium channel of C-fiber models
// (Tigerholm et al. 2014): activation n, and two inactivation components
// h1, h2 sharing one steady state with different time constants.
// g = gbar n (Frac1 h1 + Frac2 h2).  No temperature correction.
type KASlow struct {
	Base
	Gbar  float64         `def:"0.00136" desc:"maximal conductance (S/cm2)"`
	Frac1 float64         `def:"0.3" desc:"fraction of the conductance inactivated by h1"`
	Frac2 float64         `def:"0.7" desc:"fraction of the conductance inactivated by h2"`
	NInf  rates.Boltzmann `view:"inline" desc:"n steady state"`
	NTau  rates.GaussTau  `view:"inline" desc:"n time constant"`
	HInf  rates.Boltzmann `view:"inline" desc:"steady state of both h1 and h2"`
	H1Tau rates.GaussTau  `view:"inline" desc:"h1 time constant"`
	H2Tau rates.GaussTau  `view:"inline" desc:"h2 time constant"`
}

func (ka *KASlow) Suffix() string { return "kaslow" }
func (ka *KASlow) Class() string  { return ka.class(ka.Suffix()) }

func (ka *KASlow) Defaults() {
	ka.Gbar = 0.00136
	ka.Frac1 = 0.3
	ka.Frac2 = 0.7
	ka.NInf = rates.Boltzmann{Vhalf: -40.8, Slope: 9.5}
	ka.NTau = rates.GaussTau{Base: 1.1972, Amp: 2.56, Vp: -60, Width: 45.7599, K: 2}
	ka.HInf = rates.Boltzmann{Vhalf: -74.2, Slope: -9.6}
	ka.H1Tau = rates.GaussTau{Base: 25.46, Amp: 67.41, Vp: -50, Width: 21.95, K: 2}
	ka.H2Tau = rates.GaussTau{Base: 200, Amp: 587.4, Vp: 0, Width: 47.77, K: 1}
	ka.Update()
}

func (ka *KASlow) Update() {
}

func (ka *KASlow) Spec() *Spec {
	gs := []GateSpec{
		{Name: "n", Kind: InfTau, Q10: NoQ10, Inf: ka.NInf, Tau: ka.NTau},
		{Name: "h1", Kind: InfTau, Q10: NoQ10, Inf: ka.HInf, Tau: ka.H1Tau},
		{Name: "h2", Kind: InfTau, Q10: NoQ10, Inf: ka.HInf, Tau: ka.H2Tau},
	}
	cs := []CurrentSpec{{Name: "ik", Ion: chans.K, Gbar: ka.Gbar, Terms: []Term{
		{Frac: ka.Frac1, Factors: []Factor{{0, 1}, {1, 1}}},
		{Frac: ka.Frac2, Factors: []Factor{{0, 1}, {2, 1}}},
	}}}
	return &Spec{Name: ka.Suffix(), Gates: gs, Currents: cs}
}
