// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import "testing"

func TestPool(t *testing.T) {
	var pl Pool
	pl.Defaults()
	if pl.Erev(Na) != 50 || pl.Erev(K) != -90 {
		t.Errorf("default reversals: %v %v\n", pl.Erev(Na), pl.Erev(K))
	}
	if pl.Erev(NonSpec) != 0 {
		t.Errorf("NonSpec has no pooled reversal: %v\n", pl.Erev(NonSpec))
	}
	var ip IonPool = &pl
	ip.AddCurrent(Na, -1.5, 0.2)
	ip.AddCurrent(Na, -0.5, 0.1)
	ip.AddCurrent(K, 0.75, 0.05)
	ip.AddCurrent(NonSpec, 100, 100)
	if pl.I.Na != -2 || pl.I.K != 0.75 {
		t.Errorf("currents: %+v\n", pl.I)
	}
	i, didv := pl.Total()
	if i != -1.25 {
		t.Errorf("total current: %v\n", i)
	}
	if d := didv - 0.35; d > 1e-15 || d < -1e-15 {
		t.Errorf("total slope: %v\n", didv)
	}
	pl.ZeroCurrents()
	if i, didv := pl.Total(); i != 0 || didv != 0 {
		t.Errorf("after zero: %v %v\n", i, didv)
	}
	if pl.Erev(Na) != 50 {
		t.Errorf("zero must keep reversals: %v\n", pl.Erev(Na))
	}
}

func TestIonString(t *testing.T) {
	for ion := NonSpec; ion < IonN; ion++ {
		var got Ion
		if err := got.FromString(ion.String()); err != nil || got != ion {
			t.Errorf("ion: %v round trip: %v err: %v\n", ion, got, err)
		}
	}
	var bad Ion
	if err := bad.FromString("Ca"); err == nil {
		t.Errorf("Ca should not parse\n")
	}
}
