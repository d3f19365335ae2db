// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mech

import "github.com/pkg/errors"

var (
	// ErrInvalidSpec is the cause of all Spec validation errors
	ErrInvalidSpec = errors.New("mech: invalid channel spec")

	// ErrNotInitialized is returned when a channel is stepped before Init
	ErrNotInitialized = errors.New("mech: channel not initialized")

	// ErrNoIonPool is returned by Init when the channel carries an ionic
	// current but no ion pool was supplied
	ErrNoIonPool = errors.New("mech: ion pool required")

	// ErrInvalidInput is returned for a non-finite potential or temperature,
	// a non-positive time step, or temperature factors that overflow
	ErrInvalidInput = errors.New("mech: invalid input")
)
