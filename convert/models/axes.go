// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package convertModels

import "fmt"

// Axis - one of the canonical image axes
type Axis string

const (
	AxisT Axis = "t"
	AxisC Axis = "c"
	AxisZ Axis = "z"
	AxisY Axis = "y"
	AxisX Axis = "x"
)

// CanonicalAxes - the full axis set in canonical order. Image axes must always
// be a subset of this, in this order.
var CanonicalAxes = []Axis{AxisT, AxisC, AxisZ, AxisY, AxisX}

func canonicalIndex(ax Axis) int {
	for i, a := range CanonicalAxes {
		if a == ax {
			return i
		}
	}
	return -1
}

// ValidateAxes - checks an axis list is a subset of the canonical axes, in
// canonical order, with no duplicates, and contains at least y and x
func ValidateAxes(axes []Axis) error {
	if len(axes) < 2 {
		return fmt.Errorf("Axes list must contain at least y and x, got: %v", axes)
	}

	lastIdx := -1
	haveY := false
	haveX := false
	for _, ax := range axes {
		idx := canonicalIndex(ax)
		if idx < 0 {
			return fmt.Errorf("Unknown axis: %v", ax)
		}
		if idx <= lastIdx {
			return fmt.Errorf("Axes must be in canonical order t,c,z,y,x, got: %v", axes)
		}
		lastIdx = idx

		if ax == AxisY {
			haveY = true
		}
		if ax == AxisX {
			haveX = true
		}
	}

	if !haveY || !haveX {
		return fmt.Errorf("Axes list must contain y and x, got: %v", axes)
	}
	return nil
}

// AxesEqual - compares two axis lists
func AxesEqual(a []Axis, b []Axis) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
