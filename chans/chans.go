// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package chans provides the ion species shared by membrane mechanisms, and the
per-compartment ion pool through which mechanisms read reversal potentials
and deposit their ionic currents and conductance contributions.

A mechanism that "uses" an ion (in NEURON terms USEION na READ ena WRITE ina)
reads IonPool.Erev(Na) and calls IonPool.AddCurrent(Na, ina, dina/dv) once per
step.  Non-specific currents carry their own reversal and never touch the pool.
*/
package chans

import "github.com/goki/ki/kit"

// Ion is an ionic species carried by a current
type Ion int32

//go:generate stringer -type=Ion

var KiT_Ion = kit.Enums.AddEnum(IonN, kit.NotBitFlag, nil)

func (ev Ion) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Ion) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The ion species
const (
	// NonSpec is a non-specific current (leak, HCN) with its own reversal potential
	NonSpec Ion = iota

	// Na is sodium
	Na

	// K is potassium
	K

	IonN
)

// Ions holds one value per pooled ion species
type Ions struct {
	Na float64 `desc:"sodium"`
	K  float64 `desc:"potassium"`
}

// SetAll sets all the values
func (io *Ions) SetAll(na, k float64) {
	io.Na, io.K = na, k
}

// Get returns the value for the given ion, 0 for NonSpec
func (io *Ions) Get(ion Ion) float64 {
	switch ion {
	case Na:
		return io.Na
	case K:
		return io.K
	}
	return 0
}

// Add adds to the value for the given ion -- NonSpec is ignored
func (io *Ions) Add(ion Ion, val float64) {
	switch ion {
	case Na:
		io.Na += val
	case K:
		io.K += val
	}
}

// IonPool is the capability a mechanism needs from its compartment to
// use an ion: read the reversal potential, write the current (mA/cm2) and
// its voltage derivative (S/cm2).
type IonPool interface {
	// Erev returns the reversal potential (mV) of the ion
	Erev(ion Ion) float64

	// AddCurrent accumulates ionic current i and its slope didv
	AddCurrent(ion Ion, i, didv float64)
}

// Pool is the standard ion pool of one compartment.  Reversal potentials
// are constant (no concentration dynamics); currents accumulate over all the
// mechanisms of the compartment and are reset by ZeroCurrents each step.
type Pool struct {
	E    Ions `desc:"reversal potentials (mV)"`
	I    Ions `desc:"total ionic current density, outward positive (mA/cm2)"`
	DIDV Ions `desc:"total slope of the ionic current with respect to voltage (S/cm2)"`
}

// Defaults sets the reversal potentials of mammalian myelinated axon models
func (pl *Pool) Defaults() {
	pl.E.SetAll(50, -90)
	pl.ZeroCurrents()
}

// ZeroCurrents resets the accumulated currents and slopes
func (pl *Pool) ZeroCurrents() {
	pl.I.SetAll(0, 0)
	pl.DIDV.SetAll(0, 0)
}

func (pl *Pool) Erev(ion Ion) float64 {
	return pl.E.Get(ion)
}

func (pl *Pool) AddCurrent(ion Ion, i, didv float64) {
	pl.I.Add(ion, i)
	pl.DIDV.Add(ion, didv)
}

// Total returns the summed ionic current and slope over all species
func (pl *Pool) Total() (i, didv float64) {
	return pl.I.Na + pl.I.K, pl.DIDV.Na + pl.DIDV.K
}
