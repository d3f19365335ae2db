// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"strings"

	"github.com/emer/emergent/v2/params"
	"github.com/emer/gatechans/compart"
	"github.com/emer/gatechans/mech"
	"github.com/pkg/errors"
)

// defaultSel returns the selector used for a --set without one: the
// mechanism's class when exactly one is inserted, otherwise none, as
// parameter names differ between mechanisms
func defaultSel(suffixes []string) string {
	if len(suffixes) != 1 {
		return ""
	}
	return "." + suffixes[0]
}

// parseSets turns [selector:]Path=value overrides into a params.Sheet,
// one Sel per distinct selector in order of first use.
// defSel is the selector for entries without one; if empty they are an error.
func parseSets(sets []string, defSel string) (*params.Sheet, error) {
	sh := &params.Sheet{}
	idx := map[string]int{}
	for _, st := range sets {
		sel := defSel
		pv := st
		hasSel := false
		if s, rest, ok := strings.Cut(st, ":"); ok {
			sel, pv, hasSel = s, rest, true
		}
		path, val, ok := strings.Cut(pv, "=")
		if !ok || (hasSel && sel == "") || path == "" || val == "" {
			return nil, errors.Errorf("--set %q: want [selector:]Path=value", st)
		}
		if sel == "" {
			return nil, errors.Errorf("--set %q: a .suffix: selector is required with more than one mechanism", st)
		}
		if !strings.HasPrefix(path, "Mech.") {
			path = "Mech." + path
		}
		si, has := idx[sel]
		if !has {
			*sh = append(*sh, &params.Sel{Sel: sel, Desc: "command line", Params: params.Params{}})
			si = len(*sh) - 1
			idx[sel] = si
		}
		(*sh)[si].Params[path] = val
	}
	return sh, nil
}

// newMech returns the built-in mechanism with the sheet applied
func newMech(sheet *params.Sheet, setMsg bool, suffix string) (mech.Mech, error) {
	mc, err := mech.New(suffix)
	if err != nil {
		return nil, err
	}
	if sheet == nil || len(*sheet) == 0 {
		return mc, nil
	}
	if _, err := mech.ApplySheet(mc, sheet, setMsg); err != nil {
		return nil, errors.Wrapf(err, "%s", suffix)
	}
	return mc, nil
}

// buildComp makes a compartment with the given mechanisms inserted
func buildComp(opts *RootOptions, suffixes []string) (*compart.Compartment, error) {
	sheet, err := parseSets(opts.Sets, defaultSel(suffixes))
	if err != nil {
		return nil, err
	}
	cp := compart.NewCompartment("patch")
	for _, sf := range suffixes {
		mc, err := newMech(sheet, opts.Verbose, sf)
		if err != nil {
			return nil, err
		}
		if err := cp.Insert(mc); err != nil {
			return nil, err
		}
	}
	return cp, nil
}
