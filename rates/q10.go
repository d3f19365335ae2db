// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rates

import (
	"math"

	"github.com/goki/ki/kit"
)

// Q10 is an empirical temperature correction, computed once from the
// ambient temperature at initialization and then held fixed.  Mechanisms
// follow their own published convention (Conv); conventions are never
// converted into one another because they do not round the same way.
type Q10 struct {
	Q10   float64 `def:"3" desc:"factor by which the rate increases (time constant decreases) per Tstep degrees"`
	Tref  float64 `def:"36" desc:"temperature at which the base rate functions were measured (degC)"`
	Tstep float64 `def:"10" desc:"temperature step over which the rate changes by Q10 (degC)"`
	Conv  Q10Conv `desc:"how the factor is computed and where it is applied"`
}

func (qp *Q10) Defaults() {
	qp.Q10 = 3
	qp.Tref = 36
	qp.Tstep = 10
	qp.Conv = RateMult
}

// Factor returns the multiplier for the given temperature (degC).
// For RateMult it multiplies the forward and backward rates, otherwise
// it multiplies the time constant.
func (qp *Q10) Factor(celsius float64) float64 {
	switch qp.Conv {
	case TauMult:
		return math.Pow(qp.Q10, (qp.Tref-celsius)/qp.Tstep)
	case TauDiv:
		return 1 / math.Pow(qp.Q10, (celsius-qp.Tref)/qp.Tstep)
	default:
		return math.Pow(qp.Q10, (celsius-qp.Tref)/qp.Tstep)
	}
}

// OnTau returns true if the factor multiplies time constants rather than rates
func (qp *Q10) OnTau() bool {
	return qp.Conv != RateMult
}

// Q10Conv is the temperature-correction convention of a mechanism
type Q10Conv int32

//go:generate stringer -type=Q10Conv

var KiT_Q10Conv = kit.Enums.AddEnum(Q10ConvN, kit.NotBitFlag, nil)

func (ev Q10Conv) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Q10Conv) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The Q10 conventions
const (
	// RateMult is Q10^((T-Tref)/Tstep), multiplying forward and backward rates
	// (McIntyre / Gaines node models)
	RateMult Q10Conv = iota

	// TauMult is Q10^((Tref-T)/Tstep), multiplying time constants (Schild 1994 models)
	TauMult

	// TauDiv is 1 / Q10^((T-Tref)/Tstep), multiplying time constants (Nav1.8)
	TauDiv

	Q10ConvN
)
